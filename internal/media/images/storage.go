// Package images provides recipe image processing and storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Storage manages image files under a media root directory.
//
// Keys are slash-separated paths relative to the root ("recipes/abc.jpg").
// They are what the database stores in image_path and what media URLs
// carry, so the same key works across the store, the processor, and the
// HTTP layer.
//
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at basePath (e.g., ~/RecipeApp/data/media).
// The root and the recipes subdirectory are created if missing.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Join(basePath, recipeImageDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &Storage{
		basePath: basePath,
	}, nil
}

// Root returns the media root directory.
func (s *Storage) Root() string {
	return s.basePath
}

// resolve maps a key to a filesystem path inside the root.
// Rooting the key at "/" before cleaning strips any ".." escape attempts.
func (s *Storage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid key %q", key)
	}

	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

// Save stores image data under the given key.
// The write goes to a temp file first and is renamed into place, so a
// crash mid-write never leaves a truncated image behind.
func (s *Storage) Save(key string, imgData []byte) error {
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(imgData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close image file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set image permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move image into place: %w", err)
	}

	return nil
}

// Get retrieves image data for a key.
func (s *Storage) Get(key string) ([]byte, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if an image exists for a key.
func (s *Storage) Exists(key string) bool {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(fullPath)
	return err == nil
}

// Delete removes the image stored under a key.
func (s *Storage) Delete(key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Hash computes the SHA256 hash of an image.
// Returns a hex-encoded string for ETag/cache validation.
func (s *Storage) Hash(key string) (string, error) {
	data, err := s.Get(key)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the full filesystem path for a key.
// Returns an error for keys that would escape the media root.
func (s *Storage) Path(key string) (string, error) {
	return s.resolve(key)
}

package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	t.Run("creates storage with valid path", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, storage)

		// Verify recipes directory was created.
		recipesPath := filepath.Join(tmpDir, "recipes")
		info, err := os.Stat(recipesPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("creates nested directories if needed", func(t *testing.T) {
		tmpDir := t.TempDir()
		nestedPath := filepath.Join(tmpDir, "nested", "path")

		storage, err := NewStorage(nestedPath)
		require.NoError(t, err)
		require.NotNil(t, storage)

		recipesPath := filepath.Join(nestedPath, "recipes")
		info, err := os.Stat(recipesPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestStorage_Save(t *testing.T) {
	t.Run("saves image data successfully", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")

		err := storage.Save("recipes/abc.jpg", testData)
		require.NoError(t, err)

		// Verify file was created.
		path, err := storage.Path("recipes/abc.jpg")
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for empty key", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")

		err := storage.Save("", testData)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "key cannot be empty")
	})

	t.Run("returns error for empty image data", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("recipes/abc.jpg", []byte{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "image data cannot be empty")
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		storage := setupTestStorage(t)
		key := "recipes/abc.jpg"

		// Save initial data.
		err := storage.Save(key, []byte("initial data"))
		require.NoError(t, err)

		// Overwrite with new data.
		newData := []byte("updated data")
		err = storage.Save(key, newData)
		require.NoError(t, err)

		// Verify new data was saved.
		data, err := storage.Get(key)
		require.NoError(t, err)
		assert.Equal(t, newData, data)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("recipes/abc.jpg", []byte("data"))
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(storage.Root(), "recipes"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "abc.jpg", entries[0].Name())
	})
}

func TestStorage_Get(t *testing.T) {
	t.Run("retrieves saved image data", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")
		key := "recipes/abc.jpg"

		err := storage.Save(key, testData)
		require.NoError(t, err)

		data, err := storage.Get(key)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for non-existent image", func(t *testing.T) {
		storage := setupTestStorage(t)

		data, err := storage.Get("recipes/missing.jpg")
		assert.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "image not found")
	})

	t.Run("returns error for empty key", func(t *testing.T) {
		storage := setupTestStorage(t)

		data, err := storage.Get("")
		assert.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "key cannot be empty")
	})
}

func TestStorage_Exists(t *testing.T) {
	t.Run("returns true for existing image", func(t *testing.T) {
		storage := setupTestStorage(t)
		key := "recipes/abc.jpg"

		err := storage.Save(key, []byte("test data"))
		require.NoError(t, err)

		assert.True(t, storage.Exists(key))
	})

	t.Run("returns false for non-existent image", func(t *testing.T) {
		storage := setupTestStorage(t)

		assert.False(t, storage.Exists("recipes/missing.jpg"))
	})

	t.Run("returns false for empty key", func(t *testing.T) {
		storage := setupTestStorage(t)

		assert.False(t, storage.Exists(""))
	})
}

func TestStorage_Delete(t *testing.T) {
	t.Run("deletes existing image", func(t *testing.T) {
		storage := setupTestStorage(t)
		key := "recipes/abc.jpg"

		err := storage.Save(key, []byte("test data"))
		require.NoError(t, err)
		require.True(t, storage.Exists(key))

		err = storage.Delete(key)
		require.NoError(t, err)
		assert.False(t, storage.Exists(key))
	})

	t.Run("succeeds when image does not exist", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Delete("recipes/missing.jpg")
		assert.NoError(t, err) // Not an error to delete non-existent file.
	})

	t.Run("returns error for empty key", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Delete("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "key cannot be empty")
	})
}

func TestStorage_Hash(t *testing.T) {
	t.Run("computes consistent hash", func(t *testing.T) {
		storage := setupTestStorage(t)
		key := "recipes/abc.jpg"
		testData := []byte("test image data")

		err := storage.Save(key, testData)
		require.NoError(t, err)

		hash1, err := storage.Hash(key)
		require.NoError(t, err)
		assert.NotEmpty(t, hash1)

		// Hash should be consistent.
		hash2, err := storage.Hash(key)
		require.NoError(t, err)
		assert.Equal(t, hash1, hash2)

		// Hash should be 64 characters (SHA256 hex).
		assert.Len(t, hash1, 64)
	})

	t.Run("different data produces different hash", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("recipes/a.jpg", []byte("data1"))
		require.NoError(t, err)

		err = storage.Save("recipes/b.jpg", []byte("data2"))
		require.NoError(t, err)

		hash1, err := storage.Hash("recipes/a.jpg")
		require.NoError(t, err)

		hash2, err := storage.Hash("recipes/b.jpg")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("returns error for non-existent image", func(t *testing.T) {
		storage := setupTestStorage(t)

		hash, err := storage.Hash("recipes/missing.jpg")
		assert.Error(t, err)
		assert.Empty(t, hash)
	})
}

func TestStorage_Path(t *testing.T) {
	t.Run("resolves keys inside the root", func(t *testing.T) {
		tmpDir := t.TempDir()
		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)

		path, err := storage.Path("recipes/abc.jpg")
		require.NoError(t, err)
		expected := filepath.Join(tmpDir, "recipes", "abc.jpg")
		assert.Equal(t, expected, path)
	})

	t.Run("traversal attempts cannot escape the root", func(t *testing.T) {
		tmpDir := t.TempDir()
		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)

		keys := []string{
			"../etc/passwd",
			"recipes/../../etc/passwd",
			"/etc/passwd",
		}

		for _, key := range keys {
			path, err := storage.Path(key)
			if err != nil {
				continue
			}
			rel, relErr := filepath.Rel(tmpDir, path)
			require.NoError(t, relErr, "key %q", key)
			assert.False(t, filepath.IsAbs(rel), "key %q escaped root: %s", key, path)
			assert.NotContains(t, rel, "..", "key %q escaped root: %s", key, path)
		}
	})

	t.Run("rejects empty and dot keys", func(t *testing.T) {
		storage := setupTestStorage(t)

		_, err := storage.Path("")
		assert.Error(t, err)

		_, err = storage.Path(".")
		assert.Error(t, err)

		_, err = storage.Path("..")
		assert.Error(t, err)
	})
}

func TestStorage_Concurrent(t *testing.T) {
	t.Run("handles concurrent writes safely", func(t *testing.T) {
		storage := setupTestStorage(t)
		key := "recipes/abc.jpg"

		// Run multiple concurrent writes.
		const goroutines = 10
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func(n int) {
				data := []byte{byte(n + 1)}
				err := storage.Save(key, data)
				assert.NoError(t, err)
				done <- true
			}(i)
		}

		// Wait for all goroutines.
		for i := 0; i < goroutines; i++ {
			<-done
		}

		// Verify file exists and can be read.
		assert.True(t, storage.Exists(key))
		data, err := storage.Get(key)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("handles concurrent reads safely", func(t *testing.T) {
		storage := setupTestStorage(t)
		key := "recipes/abc.jpg"
		testData := []byte("test data")

		err := storage.Save(key, testData)
		require.NoError(t, err)

		// Run multiple concurrent reads.
		const goroutines = 10
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func() {
				data, err := storage.Get(key)
				assert.NoError(t, err)
				assert.Equal(t, testData, data)
				done <- true
			}()
		}

		// Wait for all goroutines.
		for i := 0; i < goroutines; i++ {
			<-done
		}
	})
}

// setupTestStorage creates a Storage instance with a temporary directory.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir := t.TempDir()
	storage, err := NewStorage(tmpDir)
	require.NoError(t, err)
	return storage
}

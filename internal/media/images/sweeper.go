package images

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/NickNterm/recipeapp-server/internal/domain"
)

// sweepDebounce batches a burst of filesystem events into one sweep.
const sweepDebounce = 5 * time.Second

// sweepGracePeriod protects files newer than this from removal. An upload
// lands on disk before its recipe row is updated; without the grace period
// a sweep running in that window would eat the fresh image.
const sweepGracePeriod = 10 * time.Minute

// RecipeSource is the slice of the store the sweeper needs.
type RecipeSource interface {
	ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error)
	SetRecipeImage(ctx context.Context, id string, userID string, imagePath, blurHash string) (*domain.Recipe, error)
}

// Sweeper reconciles the media directory with the database. Files no
// recipe references get deleted, and recipes whose files are gone get
// their image reference cleared. It sweeps on a timer and watches the
// directory with fsnotify so external deletions are noticed quickly.
type Sweeper struct {
	storage *Storage
	recipes RecipeSource
	logger  *slog.Logger

	interval time.Duration
	mu       sync.Mutex // One sweep at a time
}

// NewSweeper creates a sweeper for the given storage.
func NewSweeper(storage *Storage, recipes RecipeSource, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		storage:  storage,
		recipes:  recipes,
		logger:   logger,
		interval: interval,
	}
}

// Run sweeps once immediately, then blocks until ctx is cancelled,
// re-sweeping on the interval and after filesystem changes.
func (s *Sweeper) Run(ctx context.Context) error {
	var events <-chan fsnotify.Event
	var errs <-chan error

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("media watcher unavailable, sweeping on timer only", "error", err)
	} else {
		defer watcher.Close()
		dir := filepath.Join(s.storage.Root(), recipeImageDir)
		if err := watcher.Add(dir); err != nil {
			s.logger.Warn("failed to watch media directory", "dir", dir, "error", err)
		} else {
			events = watcher.Events
			errs = watcher.Errors
		}
	}

	if err := s.Sweep(ctx); err != nil {
		s.logger.Warn("initial media sweep failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Parked until a filesystem event schedules a sweep.
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Warn("media sweep failed", "error", err)
			}

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(sweepDebounce)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("media watcher error", "error", err)

		case <-debounce.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Warn("media sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one reconciliation pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes, err := s.recipes.ListAllRecipes(ctx)
	if err != nil {
		return fmt.Errorf("list recipes: %w", err)
	}

	// Keys live recipes still reference, thumbnails included.
	referenced := make(map[string]bool)
	for _, r := range recipes {
		if r.IsDeleted() || !r.HasImage() {
			continue
		}
		referenced[r.ImagePath] = true
		referenced[ThumbKey(r.ImagePath)] = true
	}

	// Clear references whose files are gone.
	cleared := 0
	for _, r := range recipes {
		if r.IsDeleted() || !r.HasImage() {
			continue
		}
		if s.storage.Exists(r.ImagePath) {
			continue
		}
		if _, err := s.recipes.SetRecipeImage(ctx, r.ID, r.UserID, "", ""); err != nil {
			s.logger.Warn("failed to clear dangling image reference", "recipe_id", r.ID, "error", err)
			continue
		}
		delete(referenced, r.ImagePath)
		delete(referenced, ThumbKey(r.ImagePath))
		cleared++
	}

	// Delete files nothing references.
	removed := 0
	dir := filepath.Join(s.storage.Root(), recipeImageDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read media directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// In-flight atomic writes from Storage.Save
		if strings.HasPrefix(name, ".") {
			continue
		}

		key := path.Join(recipeImageDir, name)
		if referenced[key] {
			continue
		}

		if info, err := entry.Info(); err == nil && time.Since(info.ModTime()) < sweepGracePeriod {
			continue
		}

		if err := s.storage.Delete(key); err != nil {
			s.logger.Warn("failed to remove orphaned image", "key", key, "error", err)
			continue
		}
		removed++
	}

	if cleared > 0 || removed > 0 {
		s.logger.Info("media sweep complete",
			"cleared_references", cleared,
			"removed_files", removed,
		)
	}

	return nil
}

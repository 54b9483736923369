package images

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecipeSource is an in-memory RecipeSource for sweeper tests.
type fakeRecipeSource struct {
	mu      sync.Mutex
	recipes []*domain.Recipe
	cleared []string // Recipe IDs whose image reference was cleared
}

func (f *fakeRecipeSource) ListAllRecipes(_ context.Context) ([]*domain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Recipe, len(f.recipes))
	copy(out, f.recipes)
	return out, nil
}

func (f *fakeRecipeSource) SetRecipeImage(_ context.Context, id, userID, imagePath, blurHash string) (*domain.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recipes {
		if r.ID == id && r.UserID == userID {
			r.ImagePath = imagePath
			r.ImageBlurHash = blurHash
			f.cleared = append(f.cleared, id)
			return r, nil
		}
	}
	return nil, errors.New("recipe not found")
}

func (f *fakeRecipeSource) clearedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.cleared))
	copy(out, f.cleared)
	return out
}

func setupTestSweeper(t *testing.T, recipes *fakeRecipeSource) (*Sweeper, *Storage) {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	log := logger.New(logger.Config{Level: slog.LevelDebug})
	return NewSweeper(storage, recipes, time.Hour, log.Logger), storage
}

// ageFile backdates a stored key past the sweep grace period.
func ageFile(t *testing.T, storage *Storage, key string) {
	t.Helper()
	path, err := storage.Path(key)
	require.NoError(t, err)
	old := time.Now().Add(-2 * sweepGracePeriod)
	require.NoError(t, os.Chtimes(path, old, old))
}

func makeImageRecipe(id, userID, imagePath string) *domain.Recipe {
	return &domain.Recipe{
		Entity: domain.Entity{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		UserID:    userID,
		Title:     "Test Recipe",
		Price:     "5.00",
		ImagePath: imagePath,
	}
}

func TestSweeper_Sweep(t *testing.T) {
	t.Run("removes files no recipe references", func(t *testing.T) {
		recipes := &fakeRecipeSource{}
		sweeper, storage := setupTestSweeper(t, recipes)

		require.NoError(t, storage.Save("recipes/orphan.jpg", []byte("data")))
		ageFile(t, storage, "recipes/orphan.jpg")

		require.NoError(t, sweeper.Sweep(context.Background()))

		assert.False(t, storage.Exists("recipes/orphan.jpg"))
	})

	t.Run("keeps referenced files and their thumbnails", func(t *testing.T) {
		recipes := &fakeRecipeSource{
			recipes: []*domain.Recipe{
				makeImageRecipe("recipe-1", "user-1", "recipes/kept.jpg"),
			},
		}
		sweeper, storage := setupTestSweeper(t, recipes)

		require.NoError(t, storage.Save("recipes/kept.jpg", []byte("master")))
		require.NoError(t, storage.Save("recipes/kept_thumb.jpg", []byte("thumb")))
		ageFile(t, storage, "recipes/kept.jpg")
		ageFile(t, storage, "recipes/kept_thumb.jpg")

		require.NoError(t, sweeper.Sweep(context.Background()))

		assert.True(t, storage.Exists("recipes/kept.jpg"))
		assert.True(t, storage.Exists("recipes/kept_thumb.jpg"))
		assert.Empty(t, recipes.clearedIDs())
	})

	t.Run("clears references whose files are gone", func(t *testing.T) {
		recipes := &fakeRecipeSource{
			recipes: []*domain.Recipe{
				makeImageRecipe("recipe-1", "user-1", "recipes/gone.jpg"),
			},
		}
		sweeper, _ := setupTestSweeper(t, recipes)

		require.NoError(t, sweeper.Sweep(context.Background()))

		assert.Equal(t, []string{"recipe-1"}, recipes.clearedIDs())
		assert.False(t, recipes.recipes[0].HasImage())
	})

	t.Run("spares fresh files", func(t *testing.T) {
		recipes := &fakeRecipeSource{}
		sweeper, storage := setupTestSweeper(t, recipes)

		// Just written, inside the grace period: could be an upload whose
		// database row has not landed yet.
		require.NoError(t, storage.Save("recipes/fresh.jpg", []byte("data")))

		require.NoError(t, sweeper.Sweep(context.Background()))

		assert.True(t, storage.Exists("recipes/fresh.jpg"))
	})

	t.Run("ignores recipes without images", func(t *testing.T) {
		recipes := &fakeRecipeSource{
			recipes: []*domain.Recipe{
				makeImageRecipe("recipe-1", "user-1", ""),
			},
		}
		sweeper, _ := setupTestSweeper(t, recipes)

		require.NoError(t, sweeper.Sweep(context.Background()))

		assert.Empty(t, recipes.clearedIDs())
	})

	t.Run("ignores deleted recipes and removes their files", func(t *testing.T) {
		deleted := makeImageRecipe("recipe-1", "user-1", "recipes/deleted.jpg")
		deleted.MarkDeleted()

		recipes := &fakeRecipeSource{recipes: []*domain.Recipe{deleted}}
		sweeper, storage := setupTestSweeper(t, recipes)

		require.NoError(t, storage.Save("recipes/deleted.jpg", []byte("data")))
		ageFile(t, storage, "recipes/deleted.jpg")

		require.NoError(t, sweeper.Sweep(context.Background()))

		assert.False(t, storage.Exists("recipes/deleted.jpg"))
		assert.Empty(t, recipes.clearedIDs())
	})
}

func TestSweeper_Run_StopsOnCancel(t *testing.T) {
	recipes := &fakeRecipeSource{}
	sweeper, _ := setupTestSweeper(t, recipes)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sweeper.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

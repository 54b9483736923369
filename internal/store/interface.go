// Package store defines the persistence interface for the RecipeApp server.
package store

import (
	"context"

	"github.com/NickNterm/recipeapp-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteUserSessions(ctx context.Context, userID, exceptSessionID string) (int, error)
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, id string, userID string) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id string, userID string) error
	ListRecipes(ctx context.Context, userID string) ([]*domain.Recipe, error)
	ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error)
	CountRecipes(ctx context.Context, userID string) (int, error)
	SetRecipeImage(ctx context.Context, id string, userID string, imagePath, blurHash string) (*domain.Recipe, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Label) error
	GetTag(ctx context.Context, id string, userID string) (*domain.Label, error)
	GetTagByName(ctx context.Context, userID, name string) (*domain.Label, error)
	FindOrCreateTagByName(ctx context.Context, userID, name string) (*domain.Label, bool, error)
	ListTags(ctx context.Context, userID string) ([]*domain.Label, error)
	UpdateTag(ctx context.Context, tag *domain.Label) error
	DeleteTag(ctx context.Context, id string, userID string) error
	AddRecipeTag(ctx context.Context, recipeID, tagID string) error
	ClearRecipeTags(ctx context.Context, recipeID string) error
	GetTagsForRecipe(ctx context.Context, recipeID string) ([]*domain.Label, error)
	GetTagsForRecipeIDs(ctx context.Context, recipeIDs []string) (map[string][]*domain.Label, error)
	GetRecipeIDsForTag(ctx context.Context, tagID string) ([]string, error)

	// Ingredients
	CreateIngredient(ctx context.Context, ingredient *domain.Label) error
	GetIngredient(ctx context.Context, id string, userID string) (*domain.Label, error)
	GetIngredientByName(ctx context.Context, userID, name string) (*domain.Label, error)
	FindOrCreateIngredientByName(ctx context.Context, userID, name string) (*domain.Label, bool, error)
	ListIngredients(ctx context.Context, userID string) ([]*domain.Label, error)
	UpdateIngredient(ctx context.Context, ingredient *domain.Label) error
	DeleteIngredient(ctx context.Context, id string, userID string) error
	AddRecipeIngredient(ctx context.Context, recipeID, ingredientID string) error
	ClearRecipeIngredients(ctx context.Context, recipeID string) error
	GetIngredientsForRecipe(ctx context.Context, recipeID string) ([]*domain.Label, error)
	GetIngredientsForRecipeIDs(ctx context.Context, recipeIDs []string) (map[string][]*domain.Label, error)
	GetRecipeIDsForIngredient(ctx context.Context, ingredientID string) ([]string, error)
}

// SearchIndexer is the interface for updating the search index.
// Set on the store after creation to avoid circular dependencies; recipe
// writes keep the index in sync asynchronously.
type SearchIndexer interface {
	IndexRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexRecipe(context.Context, *domain.Recipe) error { return nil }
func (NoopSearchIndexer) DeleteRecipe(context.Context, string) error        { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }

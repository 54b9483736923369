package sqlite

import (
	"context"

	"github.com/NickNterm/recipeapp-server/internal/domain"
)

// Ingredient operations delegate to the shared label queries in labels.go.

// CreateIngredient inserts a new ingredient into the database.
// Returns store.ErrAlreadyExists on duplicate ID or duplicate (user_id, name).
func (s *Store) CreateIngredient(ctx context.Context, ingredient *domain.Label) error {
	return s.createLabel(ctx, ingredientTable, ingredient)
}

// GetIngredient retrieves an ingredient by ID scoped to its owner.
// Returns store.ErrNotFound if no such ingredient exists for this user.
func (s *Store) GetIngredient(ctx context.Context, id string, userID string) (*domain.Label, error) {
	return s.getLabel(ctx, ingredientTable, id, userID)
}

// GetIngredientByName retrieves an ingredient by exact name within one
// owner's namespace.
// Returns store.ErrNotFound if the owner has no ingredient with this name.
func (s *Store) GetIngredientByName(ctx context.Context, userID, name string) (*domain.Label, error) {
	return s.getLabelByName(ctx, ingredientTable, userID, name)
}

// FindOrCreateIngredientByName finds an existing ingredient by (owner, name)
// or creates a new one. Returns (ingredient, created, error) where created is
// true if a new row was made.
func (s *Store) FindOrCreateIngredientByName(ctx context.Context, userID, name string) (*domain.Label, bool, error) {
	return s.findOrCreateLabelByName(ctx, ingredientTable, userID, name)
}

// ListIngredients returns all ingredients owned by a user ordered by name
// descending.
func (s *Store) ListIngredients(ctx context.Context, userID string) ([]*domain.Label, error) {
	return s.listLabels(ctx, ingredientTable, userID)
}

// UpdateIngredient performs a full row update on an existing ingredient,
// scoped to its owner.
func (s *Store) UpdateIngredient(ctx context.Context, ingredient *domain.Label) error {
	return s.updateLabel(ctx, ingredientTable, ingredient)
}

// DeleteIngredient performs a hard delete of an ingredient, scoped to its owner.
// Recipe associations cascade; recipes themselves are untouched.
func (s *Store) DeleteIngredient(ctx context.Context, id string, userID string) error {
	return s.deleteLabel(ctx, ingredientTable, id, userID)
}

// AddRecipeIngredient adds an ingredient to a recipe's association set.
// Adding an already-associated ingredient is a no-op.
func (s *Store) AddRecipeIngredient(ctx context.Context, recipeID, ingredientID string) error {
	return s.addRecipeLabel(ctx, ingredientTable, recipeID, ingredientID)
}

// ClearRecipeIngredients removes all ingredient associations from a recipe.
// The ingredient rows themselves are untouched.
func (s *Store) ClearRecipeIngredients(ctx context.Context, recipeID string) error {
	return s.clearRecipeLabels(ctx, ingredientTable, recipeID)
}

// GetIngredientsForRecipe returns the ingredients associated with a recipe
// ordered by name descending.
func (s *Store) GetIngredientsForRecipe(ctx context.Context, recipeID string) ([]*domain.Label, error) {
	return s.getLabelsForRecipe(ctx, ingredientTable, recipeID)
}

// GetIngredientsForRecipeIDs returns the ingredients for each of the given
// recipes in a single query, keyed by recipe ID.
func (s *Store) GetIngredientsForRecipeIDs(ctx context.Context, recipeIDs []string) (map[string][]*domain.Label, error) {
	return s.getLabelsForRecipeIDs(ctx, ingredientTable, recipeIDs)
}

// GetRecipeIDsForIngredient returns the IDs of recipes associated with an
// ingredient.
func (s *Store) GetRecipeIDsForIngredient(ctx context.Context, ingredientID string) ([]string, error) {
	return s.getRecipeIDsForLabel(ctx, ingredientTable, ingredientID)
}

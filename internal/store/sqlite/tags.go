package sqlite

import (
	"context"

	"github.com/NickNterm/recipeapp-server/internal/domain"
)

// Tag operations delegate to the shared label queries in labels.go.

// CreateTag inserts a new tag into the database.
// Returns store.ErrAlreadyExists on duplicate ID or duplicate (user_id, name).
func (s *Store) CreateTag(ctx context.Context, tag *domain.Label) error {
	return s.createLabel(ctx, tagTable, tag)
}

// GetTag retrieves a tag by ID scoped to its owner.
// Returns store.ErrNotFound if no such tag exists for this user.
func (s *Store) GetTag(ctx context.Context, id string, userID string) (*domain.Label, error) {
	return s.getLabel(ctx, tagTable, id, userID)
}

// GetTagByName retrieves a tag by exact name within one owner's namespace.
// Returns store.ErrNotFound if the owner has no tag with this name.
func (s *Store) GetTagByName(ctx context.Context, userID, name string) (*domain.Label, error) {
	return s.getLabelByName(ctx, tagTable, userID, name)
}

// FindOrCreateTagByName finds an existing tag by (owner, name) or creates a
// new one. Returns (tag, created, error) where created is true if a new row
// was made.
func (s *Store) FindOrCreateTagByName(ctx context.Context, userID, name string) (*domain.Label, bool, error) {
	return s.findOrCreateLabelByName(ctx, tagTable, userID, name)
}

// ListTags returns all tags owned by a user ordered by name descending.
func (s *Store) ListTags(ctx context.Context, userID string) ([]*domain.Label, error) {
	return s.listLabels(ctx, tagTable, userID)
}

// UpdateTag performs a full row update on an existing tag, scoped to its owner.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Label) error {
	return s.updateLabel(ctx, tagTable, tag)
}

// DeleteTag performs a hard delete of a tag, scoped to its owner.
// Recipe associations cascade; recipes themselves are untouched.
func (s *Store) DeleteTag(ctx context.Context, id string, userID string) error {
	return s.deleteLabel(ctx, tagTable, id, userID)
}

// AddRecipeTag adds a tag to a recipe's association set.
// Adding an already-associated tag is a no-op.
func (s *Store) AddRecipeTag(ctx context.Context, recipeID, tagID string) error {
	return s.addRecipeLabel(ctx, tagTable, recipeID, tagID)
}

// ClearRecipeTags removes all tag associations from a recipe.
// The tag rows themselves are untouched.
func (s *Store) ClearRecipeTags(ctx context.Context, recipeID string) error {
	return s.clearRecipeLabels(ctx, tagTable, recipeID)
}

// GetTagsForRecipe returns the tags associated with a recipe ordered by name
// descending.
func (s *Store) GetTagsForRecipe(ctx context.Context, recipeID string) ([]*domain.Label, error) {
	return s.getLabelsForRecipe(ctx, tagTable, recipeID)
}

// GetTagsForRecipeIDs returns the tags for each of the given recipes in a
// single query, keyed by recipe ID.
func (s *Store) GetTagsForRecipeIDs(ctx context.Context, recipeIDs []string) (map[string][]*domain.Label, error) {
	return s.getLabelsForRecipeIDs(ctx, tagTable, recipeIDs)
}

// GetRecipeIDsForTag returns the IDs of recipes associated with a tag.
func (s *Store) GetRecipeIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	return s.getRecipeIDsForLabel(ctx, tagTable, tagID)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	domainerrors "github.com/NickNterm/recipeapp-server/internal/errors"
	"github.com/NickNterm/recipeapp-server/internal/store"
)

// LabelService manages a user's tags and ingredients directly — listing,
// renaming, deleting. Attaching labels to recipes goes through
// RecipeService; this service covers the label rows themselves.
type LabelService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLabelService creates a new label service.
func NewLabelService(store store.Store, logger *slog.Logger) *LabelService {
	return &LabelService{
		store:  store,
		logger: logger,
	}
}

// labelStoreOps bundles the per-kind store operations so list/rename/delete
// are written once for both label kinds.
type labelStoreOps struct {
	kind   domain.LabelKind
	get    func(ctx context.Context, id, userID string) (*domain.Label, error)
	list   func(ctx context.Context, userID string) ([]*domain.Label, error)
	update func(ctx context.Context, label *domain.Label) error
	delete func(ctx context.Context, id, userID string) error
}

func (s *LabelService) tagStoreOps() labelStoreOps {
	return labelStoreOps{
		kind:   domain.LabelKindTag,
		get:    s.store.GetTag,
		list:   s.store.ListTags,
		update: s.store.UpdateTag,
		delete: s.store.DeleteTag,
	}
}

func (s *LabelService) ingredientStoreOps() labelStoreOps {
	return labelStoreOps{
		kind:   domain.LabelKindIngredient,
		get:    s.store.GetIngredient,
		list:   s.store.ListIngredients,
		update: s.store.UpdateIngredient,
		delete: s.store.DeleteIngredient,
	}
}

// ListTags returns the user's tags ordered by name descending.
func (s *LabelService) ListTags(ctx context.Context, userID string) ([]*domain.Label, error) {
	return s.tagStoreOps().list(ctx, userID)
}

// ListIngredients returns the user's ingredients ordered by name descending.
func (s *LabelService) ListIngredients(ctx context.Context, userID string) ([]*domain.Label, error) {
	return s.ingredientStoreOps().list(ctx, userID)
}

// RenameTag renames one of the user's tags.
func (s *LabelService) RenameTag(ctx context.Context, userID, tagID, name string) (*domain.Label, error) {
	return s.renameLabel(ctx, s.tagStoreOps(), userID, tagID, name)
}

// RenameIngredient renames one of the user's ingredients.
func (s *LabelService) RenameIngredient(ctx context.Context, userID, ingredientID, name string) (*domain.Label, error) {
	return s.renameLabel(ctx, s.ingredientStoreOps(), userID, ingredientID, name)
}

// DeleteTag removes one of the user's tags. Recipes keep existing; only
// the association rows cascade away.
func (s *LabelService) DeleteTag(ctx context.Context, userID, tagID string) error {
	return s.deleteLabel(ctx, s.tagStoreOps(), userID, tagID)
}

// DeleteIngredient removes one of the user's ingredients.
func (s *LabelService) DeleteIngredient(ctx context.Context, userID, ingredientID string) error {
	return s.deleteLabel(ctx, s.ingredientStoreOps(), userID, ingredientID)
}

// renameLabel renames a label within its owner's namespace. Renaming onto
// a name the owner already uses is a conflict, not a merge.
func (s *LabelService) renameLabel(ctx context.Context, ops labelStoreOps, userID, labelID, name string) (*domain.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("name is required")
	}
	if len(name) > 255 {
		return nil, domainerrors.Validation("name exceeds maximum length of 255 characters")
	}

	label, err := ops.get(ctx, labelID, userID)
	if err != nil {
		return nil, err
	}

	if label.Name == name {
		return label, nil
	}

	label.Name = name
	label.Touch()

	if err := ops.update(ctx, label); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("%s name already in use", ops.kind)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Label renamed",
			"kind", ops.kind,
			"label_id", labelID,
			"user_id", userID,
			"name", name,
		)
	}

	return label, nil
}

// deleteLabel removes a label from its owner's namespace.
func (s *LabelService) deleteLabel(ctx context.Context, ops labelStoreOps, userID, labelID string) error {
	if err := ops.delete(ctx, labelID, userID); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Label deleted",
			"kind", ops.kind,
			"label_id", labelID,
			"user_id", userID,
		)
	}

	return nil
}

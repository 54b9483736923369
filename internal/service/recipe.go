// Package service contains the business logic layer of the RecipeApp server.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/NickNterm/recipeapp-server/internal/domain"
	domainerrors "github.com/NickNterm/recipeapp-server/internal/errors"
	"github.com/NickNterm/recipeapp-server/internal/id"
	"github.com/NickNterm/recipeapp-server/internal/media/images"
	"github.com/NickNterm/recipeapp-server/internal/store"
	"github.com/NickNterm/recipeapp-server/internal/validation"
)

// RecipeService orchestrates recipe CRUD and keeps each recipe's tag and
// ingredient associations reconciled with what callers request.
type RecipeService struct {
	store     store.Store
	processor *images.Processor
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service. The processor may be nil
// when image uploads are not needed (tests).
func NewRecipeService(store store.Store, processor *images.Processor, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		processor: processor,
		validator: validation.New(),
		logger:    logger,
	}
}

// LabelInput is a requested tag or ingredient, identified by name within
// the acting user's namespace.
type LabelInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateRecipeRequest contains the fields for creating a recipe.
// Tags and ingredients attach additively; both are optional.
type CreateRecipeRequest struct {
	Title       string       `json:"title" validate:"required,max=255"`
	TimeMinutes int          `json:"time_minutes" validate:"gte=0"`
	Price       string       `json:"price" validate:"required,price"`
	Link        string       `json:"link,omitempty" validate:"omitempty,max=255"`
	Description string       `json:"description,omitempty"`
	Tags        []LabelInput `json:"tags,omitempty" validate:"omitempty,dive"`
	Ingredients []LabelInput `json:"ingredients,omitempty" validate:"omitempty,dive"`
}

// UpdateRecipeRequest contains the fields for a partial (PATCH) update.
// Every field is a pointer: nil means "leave untouched". For the label
// lists that distinction matters most — a present empty list clears all
// associations of that kind, an absent field keeps them.
type UpdateRecipeRequest struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,max=255"`
	TimeMinutes *int          `json:"time_minutes,omitempty" validate:"omitempty,gte=0"`
	Price       *string       `json:"price,omitempty" validate:"omitempty,price"`
	Link        *string       `json:"link,omitempty" validate:"omitempty,max=255"`
	Description *string       `json:"description,omitempty"`
	Tags        *[]LabelInput `json:"tags,omitempty" validate:"omitempty,dive"`
	Ingredients *[]LabelInput `json:"ingredients,omitempty" validate:"omitempty,dive"`
}

// ReplaceRecipeRequest contains the fields for a full (PUT) update.
// PUT is full replacement, so omitted label lists mean "no labels" and
// clear the associations.
type ReplaceRecipeRequest struct {
	Title       string       `json:"title" validate:"required,max=255"`
	TimeMinutes int          `json:"time_minutes" validate:"gte=0"`
	Price       string       `json:"price" validate:"required,price"`
	Link        string       `json:"link,omitempty" validate:"omitempty,max=255"`
	Description string       `json:"description,omitempty"`
	Tags        []LabelInput `json:"tags" validate:"dive"`
	Ingredients []LabelInput `json:"ingredients" validate:"dive"`
}

// ListRecipes returns the user's recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, userID string) ([]*domain.Recipe, error) {
	return s.store.ListRecipes(ctx, userID)
}

// GetRecipe returns a single recipe owned by the user.
// Foreign and missing recipes are both store.ErrNotFound.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	return s.store.GetRecipe(ctx, recipeID, userID)
}

// CreateRecipe creates a recipe for the user and attaches any requested
// tags and ingredients.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("recipe")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	recipe := &domain.Recipe{
		Entity: domain.Entity{
			ID: recipeID,
		},
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
		Description: normalizeDescription(req.Description),
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if err := s.attachLabels(ctx, s.tagOps(), userID, recipeID, req.Tags); err != nil {
		return nil, err
	}
	if err := s.attachLabels(ctx, s.ingredientOps(), userID, recipeID, req.Ingredients); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Recipe created",
			"recipe_id", recipeID,
			"user_id", userID,
			"title", recipe.Title,
		)
	}

	// Re-fetch so the returned recipe carries its label associations.
	return s.store.GetRecipe(ctx, recipeID, userID)
}

// UpdateRecipe applies a partial update. Only the fields present in the
// request change; absent label lists leave associations untouched.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID string, req UpdateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}
	if req.Description != nil {
		recipe.Description = normalizeDescription(*req.Description)
	}
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	// Present label lists replace; absent ones stay as they are.
	if req.Tags != nil {
		if err := s.replaceLabels(ctx, s.tagOps(), userID, recipeID, *req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if err := s.replaceLabels(ctx, s.ingredientOps(), userID, recipeID, *req.Ingredients); err != nil {
			return nil, err
		}
	}

	return s.store.GetRecipe(ctx, recipeID, userID)
}

// ReplaceRecipe applies a full update: every stored field takes the
// request's value, and both label kinds are replaced outright.
func (s *RecipeService) ReplaceRecipe(ctx context.Context, userID, recipeID string, req ReplaceRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	recipe.Title = req.Title
	recipe.TimeMinutes = req.TimeMinutes
	recipe.Price = req.Price
	recipe.Link = req.Link
	recipe.Description = normalizeDescription(req.Description)
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("replace recipe: %w", err)
	}

	if err := s.replaceLabels(ctx, s.tagOps(), userID, recipeID, req.Tags); err != nil {
		return nil, err
	}
	if err := s.replaceLabels(ctx, s.ingredientOps(), userID, recipeID, req.Ingredients); err != nil {
		return nil, err
	}

	return s.store.GetRecipe(ctx, recipeID, userID)
}

// DeleteRecipe removes a recipe and its association rows. The tag and
// ingredient rows themselves survive, still available to the user's
// other recipes. Any uploaded image files are removed best-effort.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	recipe, err := s.store.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, recipeID, userID); err != nil {
		return err
	}

	if recipe.HasImage() && s.processor != nil {
		if err := s.processor.Remove(recipe.ImagePath); err != nil && s.logger != nil {
			s.logger.Warn("Failed to remove recipe image files",
				"recipe_id", recipeID,
				"path", recipe.ImagePath,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("Recipe deleted", "recipe_id", recipeID, "user_id", userID)
	}

	return nil
}

// UploadImage validates and stores a new image for a recipe, replacing any
// previous one. Returns the recipe with its new image path and BlurHash.
func (s *RecipeService) UploadImage(ctx context.Context, userID, recipeID string, data []byte) (*domain.Recipe, error) {
	if s.processor == nil {
		return nil, domainerrors.Internal("image uploads are not configured")
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}
	oldPath := recipe.ImagePath

	processed, err := s.processor.ProcessUpload(data)
	if err != nil {
		if errors.Is(err, images.ErrInvalidImage) {
			return nil, domainerrors.Validation("uploaded data is not a supported image (jpeg, png, gif, webp)")
		}
		return nil, fmt.Errorf("process image: %w", err)
	}

	updated, err := s.store.SetRecipeImage(ctx, recipeID, userID, processed.Path, processed.BlurHash)
	if err != nil {
		// The files are orphaned now; the media sweeper will collect them,
		// but try to clean up eagerly anyway.
		_ = s.processor.Remove(processed.Path)
		return nil, err
	}

	// Replace semantics: each upload gets a fresh key, so drop the old files.
	if oldPath != "" && oldPath != processed.Path {
		if err := s.processor.Remove(oldPath); err != nil && s.logger != nil {
			s.logger.Warn("Failed to remove replaced recipe image",
				"recipe_id", recipeID,
				"path", oldPath,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("Recipe image uploaded",
			"recipe_id", recipeID,
			"user_id", userID,
			"path", processed.Path,
		)
	}

	return updated, nil
}

// labelOps bundles the store operations for one label kind so the
// reconciliation logic is written once. This mirrors the store's own
// descriptor-driven sharing between the tag and ingredient tables.
type labelOps struct {
	findOrCreate func(ctx context.Context, userID, name string) (*domain.Label, bool, error)
	attach       func(ctx context.Context, recipeID, labelID string) error
	clear        func(ctx context.Context, recipeID string) error
}

func (s *RecipeService) tagOps() labelOps {
	return labelOps{
		findOrCreate: s.store.FindOrCreateTagByName,
		attach:       s.store.AddRecipeTag,
		clear:        s.store.ClearRecipeTags,
	}
}

func (s *RecipeService) ingredientOps() labelOps {
	return labelOps{
		findOrCreate: s.store.FindOrCreateIngredientByName,
		attach:       s.store.AddRecipeIngredient,
		clear:        s.store.ClearRecipeIngredients,
	}
}

// attachLabels resolves each requested label within the owner's namespace,
// in input order, and adds it to the recipe's association set. Existing
// rows are reused, missing ones created; re-attaching is a no-op and
// pre-existing associations survive. The find-or-create underneath absorbs
// uniqueness conflicts from concurrent creators, so two requests racing on
// the same name converge on one row.
func (s *RecipeService) attachLabels(ctx context.Context, ops labelOps, userID, recipeID string, requested []LabelInput) error {
	for _, in := range requested {
		label, _, err := ops.findOrCreate(ctx, userID, in.Name)
		if err != nil {
			return fmt.Errorf("resolve label %q: %w", in.Name, err)
		}
		if err := ops.attach(ctx, recipeID, label.ID); err != nil {
			return fmt.Errorf("attach label %q: %w", in.Name, err)
		}
	}
	return nil
}

// replaceLabels clears the recipe's association set for one label kind,
// then attaches the requested labels. An empty list clears everything;
// detached label rows stay in the user's namespace.
func (s *RecipeService) replaceLabels(ctx context.Context, ops labelOps, userID, recipeID string, requested []LabelInput) error {
	if err := ops.clear(ctx, recipeID); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	return s.attachLabels(ctx, ops, userID, recipeID, requested)
}

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
// Looks for opening tags like <p>, <br>, <div>, <b>, etc.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// containsHTML checks if a string appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// normalizeDescription converts HTML descriptions to Markdown.
// Recipes pasted from the web often carry markup; plain text passes
// through unchanged, and so does anything the converter chokes on.
func normalizeDescription(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	return strings.TrimSpace(markdown)
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, user_id, created_at, updated_at, deleted_at,
	title, description, time_minutes, price, link, image_path, image_blur_hash`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
// Tags and ingredients are NOT loaded; callers load them separately.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		createdAt     string
		updatedAt     string
		deletedAt     sql.NullString
		description   sql.NullString
		link          sql.NullString
		imagePath     sql.NullString
		imageBlurHash sql.NullString
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&r.Title,
		&description,
		&r.TimeMinutes,
		&r.Price,
		&link,
		&imagePath,
		&imageBlurHash,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	r.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	// Optional string fields.
	if description.Valid {
		r.Description = description.String
	}
	if link.Valid {
		r.Link = link.String
	}
	if imagePath.Valid {
		r.ImagePath = imagePath.String
	}
	if imageBlurHash.Valid {
		r.ImageBlurHash = imageBlurHash.String
	}

	return &r, nil
}

// derefLabels converts a slice of label pointers into values.
// Always returns a non-nil slice so JSON clients see [] rather than null.
func derefLabels(labels []*domain.Label) []domain.Label {
	out := make([]domain.Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, *l)
	}
	return out
}

// loadRecipeLabels populates a recipe's Tags and Ingredients.
func (s *Store) loadRecipeLabels(ctx context.Context, r *domain.Recipe) error {
	tags, err := s.GetTagsForRecipe(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	ingredients, err := s.GetIngredientsForRecipe(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	r.Tags = derefLabels(tags)
	r.Ingredients = derefLabels(ingredients)
	return nil
}

// reindexRecipe reloads a recipe with its labels and refreshes its search
// document. Runs asynchronously so write paths never block on indexing.
func (s *Store) reindexRecipe(recipeID string) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		ctx := context.Background()
		recipe, err := s.getRecipeByID(ctx, recipeID)
		if err != nil {
			if err != store.ErrNotFound && s.logger != nil {
				s.logger.Warn("failed to load recipe for search index", "recipe_id", recipeID, "error", err)
			}
			return
		}
		if err := s.searchIndexer.IndexRecipe(ctx, recipe); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to index recipe for search", "recipe_id", recipeID, "error", err)
			}
		}
	}()
}

// removeRecipeFromIndex drops a recipe's search document asynchronously.
func (s *Store) removeRecipeFromIndex(recipeID string) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.DeleteRecipe(context.Background(), recipeID); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to remove recipe from search index", "recipe_id", recipeID, "error", err)
			}
		}
	}()
}

// CreateRecipe inserts a new recipe into the database.
// Returns store.ErrAlreadyExists if the recipe ID already exists.
func (s *Store) CreateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (
			id, user_id, created_at, updated_at, deleted_at,
			title, description, time_minutes, price, link, image_path, image_blur_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID,
		recipe.UserID,
		formatTime(recipe.CreatedAt),
		formatTime(recipe.UpdatedAt),
		nullTimeString(recipe.DeletedAt),
		recipe.Title,
		nullString(recipe.Description),
		recipe.TimeMinutes,
		recipe.Price,
		nullString(recipe.Link),
		nullString(recipe.ImagePath),
		nullString(recipe.ImageBlurHash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	s.reindexRecipe(recipe.ID)
	return nil
}

// GetRecipe retrieves a recipe by ID scoped to its owner, excluding
// soft-deleted records. Tags and ingredients are loaded.
// Returns store.ErrNotFound if no such recipe exists for this user, so a
// foreign owner's recipe is indistinguishable from a missing one.
func (s *Store) GetRecipe(ctx context.Context, id string, userID string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRecipeLabels(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// getRecipeByID retrieves a recipe by ID without owner scoping.
// Used internally for search index maintenance.
func (s *Store) getRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		WHERE id = ? AND deleted_at IS NULL`, id)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRecipeLabels(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRecipe performs a full row update on an existing recipe, scoped to
// its owner. Label associations are not touched here; they change only
// through the Add/Clear association methods.
// Returns store.ErrNotFound if no such recipe exists for this user.
func (s *Store) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET
			created_at = ?, updated_at = ?,
			title = ?, description = ?, time_minutes = ?, price = ?,
			link = ?, image_path = ?, image_blur_hash = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		formatTime(recipe.CreatedAt),
		formatTime(recipe.UpdatedAt),
		recipe.Title,
		nullString(recipe.Description),
		recipe.TimeMinutes,
		recipe.Price,
		nullString(recipe.Link),
		nullString(recipe.ImagePath),
		nullString(recipe.ImageBlurHash),
		recipe.ID,
		recipe.UserID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.reindexRecipe(recipe.ID)
	return nil
}

// DeleteRecipe soft-deletes a recipe and clears its label associations in a
// single transaction. The label rows themselves survive; they may be shared
// with the owner's other recipes.
// Returns store.ErrNotFound if no such recipe exists for this user.
func (s *Store) DeleteRecipe(ctx context.Context, id string, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	result, err := tx.ExecContext(ctx, `
		UPDATE recipes SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, now, id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.removeRecipeFromIndex(id)
	return nil
}

// ListRecipes returns all non-deleted recipes owned by a user, newest first.
// Tags and ingredients are loaded for each recipe in two batched queries.
func (s *Store) ListRecipes(ctx context.Context, userID string) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachLabelsToRecipes(ctx, recipes); err != nil {
		return nil, err
	}

	if recipes == nil {
		recipes = []*domain.Recipe{}
	}

	return recipes, nil
}

// ListAllRecipes returns all non-deleted recipes across every user.
// Used for rebuilding the search index. Tags and ingredients are loaded.
func (s *Store) ListAllRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		WHERE deleted_at IS NULL ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachLabelsToRecipes(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// attachLabelsToRecipes batch-loads tags and ingredients for a set of recipes.
func (s *Store) attachLabelsToRecipes(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]string, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	tagsByRecipe, err := s.GetTagsForRecipeIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	ingredientsByRecipe, err := s.GetIngredientsForRecipeIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}

	for _, r := range recipes {
		r.Tags = derefLabels(tagsByRecipe[r.ID])
		r.Ingredients = derefLabels(ingredientsByRecipe[r.ID])
	}
	return nil
}

// CountRecipes returns the number of non-deleted recipes owned by a user.
func (s *Store) CountRecipes(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes WHERE user_id = ? AND deleted_at IS NULL`,
		userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetRecipeImage updates a recipe's image path and blur hash, scoped to its
// owner, and returns the updated recipe.
// Returns store.ErrNotFound if no such recipe exists for this user.
func (s *Store) SetRecipeImage(ctx context.Context, id string, userID string, imagePath, blurHash string) (*domain.Recipe, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET image_path = ?, image_blur_hash = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		nullString(imagePath),
		nullString(blurHash),
		formatTime(time.Now()),
		id,
		userID,
	)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	s.reindexRecipe(id)
	return s.GetRecipe(ctx, id, userID)
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/id"
	"github.com/NickNterm/recipeapp-server/internal/store"
)

// labelTable describes one of the two label tables. Tags and ingredients
// have identical shapes and rules, so every query is written once against
// this descriptor and exposed through thin per-kind methods in tags.go and
// ingredients.go.
type labelTable struct {
	table     string // label table name
	joinTable string // recipe association table name
	joinCol   string // label foreign key column in the join table
	idPrefix  string // prefix for generated IDs
}

var (
	tagTable = labelTable{
		table:     "tags",
		joinTable: "recipe_tags",
		joinCol:   "tag_id",
		idPrefix:  "tag",
	}
	ingredientTable = labelTable{
		table:     "ingredients",
		joinTable: "recipe_ingredients",
		joinCol:   "ingredient_id",
		idPrefix:  "ingredient",
	}
)

// labelColumns is the ordered list of columns selected in label queries.
// Must match the scan order in scanLabel.
const labelColumns = `id, user_id, name, created_at, updated_at`

// labelColumnsAliased is labelColumns qualified with the "l" alias for joins.
const labelColumnsAliased = `l.id, l.user_id, l.name, l.created_at, l.updated_at`

// scanLabel scans a sql.Row (or sql.Rows via its Scan method) into a domain.Label.
func scanLabel(scanner interface{ Scan(dest ...any) error }) (*domain.Label, error) {
	var l domain.Label

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&l.ID,
		&l.UserID,
		&l.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// createLabel inserts a new label row.
// Returns store.ErrAlreadyExists on duplicate ID or duplicate (user_id, name).
func (s *Store) createLabel(ctx context.Context, t labelTable, label *domain.Label) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+t.table+` (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		label.ID,
		label.UserID,
		label.Name,
		formatTime(label.CreatedAt),
		formatTime(label.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// getLabel retrieves a label by ID scoped to its owner.
// Returns store.ErrNotFound if no such label exists for this user.
func (s *Store) getLabel(ctx context.Context, t labelTable, id, userID string) (*domain.Label, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM `+t.table+` WHERE id = ? AND user_id = ?`,
		id, userID)

	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// getLabelByName retrieves a label by exact name within one owner's namespace.
// Returns store.ErrNotFound if the owner has no label with this name.
func (s *Store) getLabelByName(ctx context.Context, t labelTable, userID, name string) (*domain.Label, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM `+t.table+` WHERE user_id = ? AND name = ?`,
		userID, name)

	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// findOrCreateLabelByName finds an existing label by (owner, name) or creates
// a new one. Returns (label, created, error) where created is true if a new
// row was made. A uniqueness conflict from a concurrent creator is recovered
// by re-resolving the lookup, so callers never see the race.
func (s *Store) findOrCreateLabelByName(ctx context.Context, t labelTable, userID, name string) (*domain.Label, bool, error) {
	// Try to find an existing label first.
	existing, err := s.getLabelByName(ctx, t, userID, name)
	if err == nil {
		return existing, false, nil
	}
	if err != store.ErrNotFound {
		return nil, false, err
	}

	// Label doesn't exist, create it.
	labelID, err := id.Generate(t.idPrefix)
	if err != nil {
		return nil, false, fmt.Errorf("generate %s id: %w", t.idPrefix, err)
	}

	now := time.Now().UTC()
	l := &domain.Label{
		ID:        labelID,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.createLabel(ctx, t, l); err != nil {
		if err == store.ErrAlreadyExists {
			// Race: a concurrent request created it between lookup and insert.
			existing, err := s.getLabelByName(ctx, t, userID, name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return l, true, nil
}

// listLabels returns all labels owned by a user ordered by name descending.
func (s *Store) listLabels(ctx context.Context, t labelTable, userID string) ([]*domain.Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM `+t.table+`
		WHERE user_id = ? ORDER BY name DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if labels == nil {
		labels = []*domain.Label{}
	}

	return labels, nil
}

// updateLabel performs a full row update on an existing label, scoped to its owner.
// Returns store.ErrNotFound if no such label exists for this user and
// store.ErrAlreadyExists if the new name collides with another of their labels.
func (s *Store) updateLabel(ctx context.Context, t labelTable, label *domain.Label) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE `+t.table+` SET
			name = ?, created_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		label.Name,
		formatTime(label.CreatedAt),
		formatTime(label.UpdatedAt),
		label.ID,
		label.UserID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	// Label names appear in recipe search documents.
	if affected, err := s.getRecipeIDsForLabel(ctx, t, label.ID); err == nil {
		for _, recipeID := range affected {
			s.reindexRecipe(recipeID)
		}
	}
	return nil
}

// deleteLabel performs a hard delete of a label, scoped to its owner.
// Recipe associations cascade; recipes themselves are untouched.
// Returns store.ErrNotFound if no such label exists for this user.
func (s *Store) deleteLabel(ctx context.Context, t labelTable, id, userID string) error {
	// Snapshot associated recipes before the cascade removes the join rows.
	affected, err := s.getRecipeIDsForLabel(ctx, t, id)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM `+t.table+` WHERE id = ? AND user_id = ?`, id, userID)
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

	for _, recipeID := range affected {
		s.reindexRecipe(recipeID)
	}
	return nil
}

// addRecipeLabel adds a label to a recipe's association set.
// Adding an already-associated label is a no-op (set semantics).
func (s *Store) addRecipeLabel(ctx context.Context, t labelTable, recipeID, labelID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO `+t.joinTable+` (recipe_id, `+t.joinCol+`, created_at)
		VALUES (?, ?, ?)`,
		recipeID,
		labelID,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", t.joinTable, err)
	}

	s.reindexRecipe(recipeID)
	return nil
}

// clearRecipeLabels removes every association of this label kind from a recipe.
// The label rows themselves are untouched.
func (s *Store) clearRecipeLabels(ctx context.Context, t labelTable, recipeID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM `+t.joinTable+` WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.joinTable, err)
	}

	s.reindexRecipe(recipeID)
	return nil
}

// getLabelsForRecipe returns the labels associated with a recipe ordered by
// name descending.
func (s *Store) getLabelsForRecipe(ctx context.Context, t labelTable, recipeID string) ([]*domain.Label, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+labelColumnsAliased+`
		FROM `+t.joinTable+` jt
		JOIN `+t.table+` l ON l.id = jt.`+t.joinCol+`
		WHERE jt.recipe_id = ?
		ORDER BY l.name DESC`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if labels == nil {
		labels = []*domain.Label{}
	}

	return labels, nil
}

// getLabelsForRecipeIDs returns the labels for each of the given recipes in a
// single query, keyed by recipe ID. Recipes with no labels are absent from
// the result map.
func (s *Store) getLabelsForRecipeIDs(ctx context.Context, t labelTable, recipeIDs []string) (map[string][]*domain.Label, error) {
	result := make(map[string][]*domain.Label)
	if len(recipeIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(recipeIDs))
	args := make([]any, len(recipeIDs))
	for i, rid := range recipeIDs {
		placeholders[i] = "?"
		args[i] = rid
	}

	query := fmt.Sprintf(
		`SELECT jt.recipe_id, %s
		FROM %s jt
		JOIN %s l ON l.id = jt.%s
		WHERE jt.recipe_id IN (%s)
		ORDER BY l.name DESC`,
		labelColumnsAliased, t.joinTable, t.table, t.joinCol,
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID  string
			l         domain.Label
			createdAt string
			updatedAt string
		)
		err := rows.Scan(&recipeID, &l.ID, &l.UserID, &l.Name, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}
		l.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		l.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, err
		}
		result[recipeID] = append(result[recipeID], &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// getRecipeIDsForLabel returns the IDs of recipes associated with a label.
func (s *Store) getRecipeIDsForLabel(ctx context.Context, t labelTable, labelID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id FROM `+t.joinTable+` WHERE `+t.joinCol+` = ?`, labelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var rid string
		if err := rows.Scan(&rid); err != nil {
			return nil, err
		}
		ids = append(ids, rid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

package search

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)

	index, err := NewSearchIndex(Options{
		DataPath: tmpDir,
		Logger:   nil,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return index, cleanup
}

func TestNewSearchIndex(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:     "recipe-123",
		UserID: "user-1",
		Title:  "Roasted Tomato Soup",
		Tags:   []string{"soup", "comfort food"},
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexDocuments_Batch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "recipe-1", UserID: "user-1", Title: "Recipe One"},
		{ID: "recipe-2", UserID: "user-1", Title: "Recipe Two"},
		{ID: "recipe-3", UserID: "user-1", Title: "Recipe Three"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchIndex_DeleteDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:     "recipe-123",
		UserID: "user-1",
		Title:  "Test Recipe",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	err = index.DeleteDocument("recipe-123")
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search_Basic(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "recipe-1", UserID: "user-1", Title: "Roasted Tomato Soup"},
		{ID: "recipe-2", UserID: "user-1", Title: "Tomato Pasta"},
		{ID: "recipe-3", UserID: "user-1", Title: "Chocolate Cake"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	params := DefaultSearchParams()
	params.Query = "tomato"
	params.UserID = "user-1"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	hitIDs := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hitIDs = append(hitIDs, hit.ID)
	}
	assert.ElementsMatch(t, []string{"recipe-1", "recipe-2"}, hitIDs)
}

func TestSearchIndex_Search_OwnerIsolation(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "recipe-1", UserID: "user-1", Title: "Garlic Bread"},
		{ID: "recipe-2", UserID: "user-2", Title: "Garlic Chicken"},
		{ID: "recipe-3", UserID: "user-2", Title: "Garlic Soup"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	params := DefaultSearchParams()
	params.Query = "garlic"
	params.UserID = "user-1"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	// Both of user-2's recipes also match "garlic" but must not surface
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "recipe-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_RequiresOwner(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	params := DefaultSearchParams()
	params.Query = "anything"

	_, err := index.Search(context.Background(), params)
	assert.Error(t, err)
}

func TestSearchIndex_Search_EmptyQueryListsOwnersDocuments(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "recipe-1", UserID: "user-1", Title: "Pancakes"},
		{ID: "recipe-2", UserID: "user-1", Title: "Waffles"},
		{ID: "recipe-3", UserID: "user-2", Title: "Crepes"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	params := DefaultSearchParams()
	params.UserID = "user-1"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestSearchIndex_Search_MatchesLabels(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{
			ID:          "recipe-1",
			UserID:      "user-1",
			Title:       "Caprese Salad",
			Ingredients: []string{"fresh basil", "mozzarella", "tomato"},
		},
		{
			ID:     "recipe-2",
			UserID: "user-1",
			Title:  "Beef Stew",
			Tags:   []string{"winter", "slow cooker"},
		},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	params := DefaultSearchParams()
	params.Query = "basil"
	params.UserID = "user-1"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "recipe-1", result.Hits[0].ID)

	params.Query = "slow cooker"
	result, err = index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "recipe-2", result.Hits[0].ID)
}

func TestSearchIndex_Search_DiacriticsFolded(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	recipe := &domain.Recipe{
		Entity: domain.Entity{
			ID:        "recipe-1",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		UserID: "user-1",
		Title:  "Crème Brûlée",
	}

	err := index.IndexDocument(RecipeToSearchDocument(recipe))
	require.NoError(t, err)

	// Accent-free query finds the accented title
	params := DefaultSearchParams()
	params.Query = "creme brulee"
	params.UserID = "user-1"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "recipe-1", result.Hits[0].ID)

	// Accented query finds it too
	params.Query = "crème"
	result, err = index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "recipe-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_Pagination(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "recipe-1", UserID: "user-1", Title: "Apple Pie", CreatedAt: 1000},
		{ID: "recipe-2", UserID: "user-1", Title: "Apple Crumble", CreatedAt: 2000},
		{ID: "recipe-3", UserID: "user-1", Title: "Apple Tart", CreatedAt: 3000},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	params := DefaultSearchParams()
	params.Query = "apple"
	params.UserID = "user-1"
	params.Limit = 2

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
	assert.Len(t, result.Hits, 2)

	params.Offset = 2
	result, err = index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Hits, 1)
}

func TestSearchIndex_Search_Highlights(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:     "recipe-1",
		UserID: "user-1",
		Title:  "Roasted Tomato Soup with Basil",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	params := DefaultSearchParams()
	params.Query = "tomato"
	params.UserID = "user-1"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Contains(t, result.Hits[0].Highlights, "title")
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{ID: "recipe-1", UserID: "user-1", Title: "Test"}
	err := index.IndexDocument(doc)
	require.NoError(t, err)

	err = index.Rebuild()
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	// Index is usable after rebuild
	err = index.IndexDocument(doc)
	require.NoError(t, err)
}

func TestRecipeToSearchDocument(t *testing.T) {
	now := time.Now()
	recipe := &domain.Recipe{
		Entity: domain.Entity{
			ID:        "recipe-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      "user-1",
		Title:       "Caprese Salad",
		Description: "Simple Italian starter",
		Tags: []domain.Label{
			{ID: "tag-1", Name: "Italian"},
			{ID: "tag-2", Name: "Salad"},
		},
		Ingredients: []domain.Label{
			{ID: "ing-1", Name: "Mozzarella"},
		},
	}

	doc := RecipeToSearchDocument(recipe)

	assert.Equal(t, "recipe-1", doc.ID)
	assert.Equal(t, "user-1", doc.UserID)
	assert.Equal(t, "Caprese Salad", doc.Title)
	assert.Equal(t, "Simple Italian starter", doc.Description)
	assert.Equal(t, []string{"Italian", "Salad"}, doc.Tags)
	assert.Equal(t, []string{"Mozzarella"}, doc.Ingredients)
	assert.Equal(t, now.UnixMilli(), doc.CreatedAt)
	assert.Equal(t, now.UnixMilli(), doc.UpdatedAt)
}

func TestSearchDocument_ToMap_OmitsEmptyFields(t *testing.T) {
	doc := &SearchDocument{
		ID:     "recipe-1",
		UserID: "user-1",
		Title:  "Plain Toast",
	}

	m := doc.ToMap()

	assert.Equal(t, "recipe-1", m["id"])
	assert.Equal(t, "user-1", m["user_id"])
	assert.Equal(t, "Plain Toast", m["title"])
	assert.NotContains(t, m, "description")
	assert.NotContains(t, m, "tags")
	assert.NotContains(t, m, "ingredients")
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Crème Brûlée", "Creme Brulee"},
		{"jalapeño", "jalapeno"},
		{"plain text", "plain text"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

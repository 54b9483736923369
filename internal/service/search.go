package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/search"
	"github.com/NickNterm/recipeapp-server/internal/store"
)

// searchMaxLimit caps the page size a client can request.
const searchMaxLimit = 100

// SearchService bridges the search index with the data store. It implements
// store.SearchIndexer, so recipe writes flow into the index automatically,
// and it hydrates query hits back into full recipes from the store.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchResponse is the result of a recipe search, with hits hydrated
// from the store.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   uint64         `json:"total"`
	TookMs  int64          `json:"took_ms"`
	Results []SearchResult `json:"results"`
}

// SearchResult pairs a recipe with its relevance score and highlights.
type SearchResult struct {
	Recipe     *domain.Recipe    `json:"recipe"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search runs a full-text query over one user's recipes.
//
// The owner filter is enforced twice: the index query carries a mandatory
// user_id term, and every hit is re-fetched from the store with an
// owner-scoped lookup. Hits whose recipe is gone or no longer owned by
// the caller are dropped - the index is eventually consistent, the store
// is authoritative.
func (s *SearchService) Search(ctx context.Context, userID, query string, limit, offset int) (*SearchResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	params := search.DefaultSearchParams()
	params.Query = query
	params.UserID = userID
	params.Limit = limit
	params.Offset = offset

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}

	response := &SearchResponse{
		Query:   result.Query,
		Total:   result.Total,
		TookMs:  result.TookMs,
		Results: make([]SearchResult, 0, len(result.Hits)),
	}

	for _, hit := range result.Hits {
		recipe, err := s.store.GetRecipe(ctx, hit.ID, userID)
		if err != nil {
			// Stale index entry: deleted recipe or one that was never
			// the caller's. Skip it; the next write or reindex heals it.
			if !errors.Is(err, store.ErrNotFound) {
				s.logger.Warn("failed to hydrate search hit", "recipe_id", hit.ID, "error", err)
			}
			continue
		}

		response.Results = append(response.Results, SearchResult{
			Recipe:     recipe,
			Score:      hit.Score,
			Highlights: hit.Highlights,
		})
	}

	return response, nil
}

// IndexRecipe indexes a single recipe.
// Called by the store whenever a recipe or its labels change.
func (s *SearchService) IndexRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.IsDeleted() {
		return s.index.DeleteDocument(recipe.ID)
	}

	doc := search.RecipeToSearchDocument(recipe)
	if err := s.index.IndexDocument(doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	s.logger.Debug("indexed recipe", "id", recipe.ID, "title", recipe.Title)
	return nil
}

// DeleteRecipe removes a recipe from the index.
func (s *SearchService) DeleteRecipe(_ context.Context, recipeID string) error {
	return s.index.DeleteDocument(recipeID)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the entire search index from the store.
// This is a heavy operation - use sparingly.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	// Rebuild index (drops existing)
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	recipes, err := s.store.ListAllRecipes(ctx)
	if err != nil {
		return fmt.Errorf("list recipes: %w", err)
	}

	docs := make([]*search.SearchDocument, 0, len(recipes))
	for _, recipe := range recipes {
		if recipe.IsDeleted() {
			continue
		}
		docs = append(docs, search.RecipeToSearchDocument(recipe))
	}

	if len(docs) > 0 {
		if err := s.index.IndexDocuments(docs); err != nil {
			return fmt.Errorf("index recipes: %w", err)
		}
	}

	total, _ := s.index.DocumentCount()
	s.logger.Info("full reindex complete", "total_documents", total)

	return nil
}

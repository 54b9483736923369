package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search recipes",
		Description: "Full-text search over the current user's recipes: titles, descriptions, tag and ingredient names",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching recipes.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	Limit         int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset        int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
}

// SearchResultResponse contains a single search hit.
type SearchResultResponse struct {
	Recipe     RecipeResponse    `json:"recipe" doc:"Matched recipe"`
	Score      float64           `json:"score" doc:"Search relevance score"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query   string                 `json:"query" doc:"Original search query"`
	Total   uint64                 `json:"total" doc:"Total matches"`
	TookMs  int64                  `json:"took_ms" doc:"Search duration in milliseconds"`
	Results []SearchResultResponse `json:"results" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, huma.Error400BadRequest("Search query is required")
	}

	result, err := s.services.Search.Search(ctx, userID, query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchResultResponse, len(result.Results))
	for i, hit := range result.Results {
		hits[i] = SearchResultResponse{
			Recipe:     mapRecipeResponse(hit.Recipe),
			Score:      hit.Score,
			Highlights: hit.Highlights,
		}
	}

	return &SearchOutput{
		Body: SearchResponse{
			Query:   result.Query,
			Total:   result.Total,
			TookMs:  result.TookMs,
			Results: hits,
		},
	}, nil
}

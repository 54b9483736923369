package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        "/api/v1/ingredients",
		Summary:     "List ingredients",
		Description: "Returns all ingredients owned by the current user, sorted by name descending",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateIngredient",
		Method:      http.MethodPatch,
		Path:        "/api/v1/ingredients/{id}",
		Summary:     "Rename ingredient",
		Description: "Renames an ingredient. The new name must be unique among the user's ingredients.",
		Tags:        []string{"Ingredients"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateIngredient)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteIngredient",
		Method:        http.MethodDelete,
		Path:          "/api/v1/ingredients/{id}",
		Summary:       "Delete ingredient",
		Description:   "Deletes an ingredient and detaches it from all recipes. The recipes survive.",
		Tags:          []string{"Ingredients"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteIngredient)
}

// === DTOs ===

// ListIngredientsInput contains parameters for listing ingredients.
type ListIngredientsInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// ListIngredientsResponse contains the ingredient list.
type ListIngredientsResponse struct {
	Ingredients []LabelResponse `json:"ingredients" doc:"Ingredients sorted by name descending"`
}

// ListIngredientsOutput wraps the ingredient list for Huma.
type ListIngredientsOutput struct {
	Body ListIngredientsResponse
}

// UpdateIngredientRequest is the request body for renaming an ingredient.
type UpdateIngredientRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255" doc:"New ingredient name"`
}

// UpdateIngredientInput wraps the rename request for Huma.
type UpdateIngredientInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Ingredient ID"`
	Body          UpdateIngredientRequest
}

// IngredientOutput wraps a single ingredient for Huma.
type IngredientOutput struct {
	Body LabelResponse
}

// DeleteIngredientInput contains the ingredient ID path parameter.
type DeleteIngredientInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Ingredient ID"`
}

// === Handlers ===

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*ListIngredientsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.services.Label.ListIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]LabelResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = mapLabelResponse(ing)
	}

	return &ListIngredientsOutput{Body: ListIngredientsResponse{Ingredients: resp}}, nil
}

func (s *Server) handleUpdateIngredient(ctx context.Context, input *UpdateIngredientInput) (*IngredientOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ingredient, err := s.services.Label.RenameIngredient(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &IngredientOutput{Body: mapLabelResponse(ingredient)}, nil
}

func (s *Server) handleDeleteIngredient(ctx context.Context, input *DeleteIngredientInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Label.DeleteIngredient(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

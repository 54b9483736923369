package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns all recipes owned by the current user, newest first",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a new recipe. Tag and ingredient names attach to existing labels or create them on the fly.",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID, including its description",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Partially updates a recipe. Omitted fields stay untouched; a present tags or ingredients list replaces the associations of that kind, and an empty list clears them.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Replace recipe",
		Description: "Fully replaces a recipe. Omitted tags or ingredients lists clear the associations of that kind.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          "/api/v1/recipes/{id}",
		Summary:       "Delete recipe",
		Description:   "Deletes a recipe. Its labels survive for reuse by other recipes.",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadRecipeImage",
		Method:       http.MethodPost,
		Path:         "/api/v1/recipes/{id}/image",
		Summary:      "Upload recipe image",
		Description:  "Uploads an image for a recipe (JPEG, PNG, GIF, or WebP). Replaces any previous image.",
		Tags:         []string{"Recipes"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: MaxUploadSize,
	}, s.handleUploadRecipeImage)
}

// === DTOs ===

// LabelRequest is a tag or ingredient descriptor in recipe payloads.
// Labels are matched by name within the owner's namespace and created
// when missing.
type LabelRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255" doc:"Label name"`
}

// LabelResponse contains tag or ingredient information in API responses.
type LabelResponse struct {
	ID        string    `json:"id" doc:"Label ID"`
	Name      string    `json:"name" doc:"Label name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// RecipeResponse is the summary representation used in list responses.
type RecipeResponse struct {
	ID          string          `json:"id" doc:"Recipe ID"`
	Title       string          `json:"title" doc:"Recipe title"`
	TimeMinutes int             `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       string          `json:"price" doc:"Price as a decimal string"`
	Link        string          `json:"link,omitempty" doc:"External link"`
	Tags        []LabelResponse `json:"tags" doc:"Attached tags"`
	Ingredients []LabelResponse `json:"ingredients" doc:"Attached ingredients"`
	Image       string          `json:"image,omitempty" doc:"Image URL path"`
	BlurHash    string          `json:"blur_hash,omitempty" doc:"BlurHash placeholder for the image"`
	CreatedAt   time.Time       `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time       `json:"updated_at" doc:"Last update timestamp"`
}

// RecipeDetailResponse adds the description to the summary representation.
type RecipeDetailResponse struct {
	RecipeResponse
	Description string `json:"description" doc:"Recipe description (Markdown)"`
}

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// ListRecipesResponse contains the recipe list.
type ListRecipesResponse struct {
	Recipes []RecipeResponse `json:"recipes" doc:"Recipes, newest first"`
}

// ListRecipesOutput wraps the recipe list for Huma.
type ListRecipesOutput struct {
	Body ListRecipesResponse
}

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title       string         `json:"title" validate:"required,max=255" doc:"Recipe title"`
	TimeMinutes int            `json:"time_minutes,omitempty" validate:"gte=0" doc:"Preparation time in minutes"`
	Price       string         `json:"price" validate:"required" doc:"Price as a decimal string, e.g. 5.25"`
	Link        string         `json:"link,omitempty" validate:"omitempty,max=255" doc:"External link"`
	Description string         `json:"description,omitempty" doc:"Recipe description"`
	Tags        []LabelRequest `json:"tags,omitempty" doc:"Tags to attach"`
	Ingredients []LabelRequest `json:"ingredients,omitempty" doc:"Ingredients to attach"`
}

// CreateRecipeInput wraps the create request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Body          CreateRecipeRequest
}

// RecipeOutput wraps a detail response for Huma.
type RecipeOutput struct {
	Body RecipeDetailResponse
}

// GetRecipeInput contains the recipe ID path parameter.
type GetRecipeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// UpdateRecipeRequest is the request body for a partial update. Every
// field is optional; for the label lists, present-but-empty clears the
// associations while absent leaves them alone.
type UpdateRecipeRequest struct {
	Title       *string         `json:"title,omitempty" validate:"omitempty,max=255" doc:"Recipe title"`
	TimeMinutes *int            `json:"time_minutes,omitempty" validate:"omitempty,gte=0" doc:"Preparation time in minutes"`
	Price       *string         `json:"price,omitempty" doc:"Price as a decimal string"`
	Link        *string         `json:"link,omitempty" validate:"omitempty,max=255" doc:"External link"`
	Description *string         `json:"description,omitempty" doc:"Recipe description"`
	Tags        *[]LabelRequest `json:"tags,omitempty" doc:"Replacement tag list"`
	Ingredients *[]LabelRequest `json:"ingredients,omitempty" doc:"Replacement ingredient list"`
}

// UpdateRecipeInput wraps the update request for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          UpdateRecipeRequest
}

// ReplaceRecipeRequest is the request body for a full replacement.
// Label lists default to empty, so omitting them clears the associations.
type ReplaceRecipeRequest struct {
	Title       string         `json:"title" validate:"required,max=255" doc:"Recipe title"`
	TimeMinutes int            `json:"time_minutes,omitempty" validate:"gte=0" doc:"Preparation time in minutes"`
	Price       string         `json:"price" validate:"required" doc:"Price as a decimal string"`
	Link        string         `json:"link,omitempty" validate:"omitempty,max=255" doc:"External link"`
	Description string         `json:"description,omitempty" doc:"Recipe description"`
	Tags        []LabelRequest `json:"tags,omitempty" doc:"Tags to attach"`
	Ingredients []LabelRequest `json:"ingredients,omitempty" doc:"Ingredients to attach"`
}

// ReplaceRecipeInput wraps the replace request for Huma.
type ReplaceRecipeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Recipe ID"`
	Body          ReplaceRecipeRequest
}

// DeleteRecipeInput contains the recipe ID path parameter.
type DeleteRecipeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Recipe ID"`
}

// UploadRecipeImageInput carries the raw image bytes.
type UploadRecipeImageInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Recipe ID"`
	RawBody       []byte `contentType:"application/octet-stream"`
}

// UploadRecipeImageResponse confirms a stored image.
type UploadRecipeImageResponse struct {
	ID       string `json:"id" doc:"Recipe ID"`
	Image    string `json:"image" doc:"Image URL path"`
	BlurHash string `json:"blur_hash" doc:"BlurHash placeholder for the image"`
}

// UploadRecipeImageOutput wraps the upload response for Huma.
type UploadRecipeImageOutput struct {
	Body UploadRecipeImageResponse
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.ListRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		resp[i] = mapRecipeResponse(r)
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.CreateRecipeRequest{
		Title:       input.Body.Title,
		TimeMinutes: input.Body.TimeMinutes,
		Price:       input.Body.Price,
		Link:        input.Body.Link,
		Description: input.Body.Description,
		Tags:        mapLabelInputs(input.Body.Tags),
		Ingredients: mapLabelInputs(input.Body.Ingredients),
	}

	recipe, err := s.services.Recipe.CreateRecipe(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetailResponse(recipe)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.GetRecipe(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetailResponse(recipe)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.UpdateRecipeRequest{
		Title:       input.Body.Title,
		TimeMinutes: input.Body.TimeMinutes,
		Price:       input.Body.Price,
		Link:        input.Body.Link,
		Description: input.Body.Description,
		Tags:        mapLabelInputsPtr(input.Body.Tags),
		Ingredients: mapLabelInputsPtr(input.Body.Ingredients),
	}

	recipe, err := s.services.Recipe.UpdateRecipe(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetailResponse(recipe)}, nil
}

func (s *Server) handleReplaceRecipe(ctx context.Context, input *ReplaceRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.ReplaceRecipeRequest{
		Title:       input.Body.Title,
		TimeMinutes: input.Body.TimeMinutes,
		Price:       input.Body.Price,
		Link:        input.Body.Link,
		Description: input.Body.Description,
		Tags:        mapLabelInputs(input.Body.Tags),
		Ingredients: mapLabelInputs(input.Body.Ingredients),
	}

	recipe, err := s.services.Recipe.ReplaceRecipe(ctx, userID, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &RecipeOutput{Body: mapRecipeDetailResponse(recipe)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *DeleteRecipeInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.DeleteRecipe(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

func (s *Server) handleUploadRecipeImage(ctx context.Context, input *UploadRecipeImageInput) (*UploadRecipeImageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.UploadImage(ctx, userID, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &UploadRecipeImageOutput{
		Body: UploadRecipeImageResponse{
			ID:       recipe.ID,
			Image:    mediaURL(recipe.ImagePath),
			BlurHash: recipe.ImageBlurHash,
		},
	}, nil
}

// === Helpers ===

func mapLabelInputs(labels []LabelRequest) []service.LabelInput {
	if labels == nil {
		return nil
	}
	out := make([]service.LabelInput, len(labels))
	for i, l := range labels {
		out[i] = service.LabelInput{Name: l.Name}
	}
	return out
}

func mapLabelInputsPtr(labels *[]LabelRequest) *[]service.LabelInput {
	if labels == nil {
		return nil
	}
	out := make([]service.LabelInput, len(*labels))
	for i, l := range *labels {
		out[i] = service.LabelInput{Name: l.Name}
	}
	return &out
}

func mapLabelResponse(label *domain.Label) LabelResponse {
	return LabelResponse{
		ID:        label.ID,
		Name:      label.Name,
		CreatedAt: label.CreatedAt,
		UpdatedAt: label.UpdatedAt,
	}
}

func mapLabelResponses(labels []domain.Label) []LabelResponse {
	out := make([]LabelResponse, len(labels))
	for i := range labels {
		out[i] = mapLabelResponse(&labels[i])
	}
	return out
}

func mapRecipeResponse(r *domain.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        mapLabelResponses(r.Tags),
		Ingredients: mapLabelResponses(r.Ingredients),
		Image:       mediaURL(r.ImagePath),
		BlurHash:    r.ImageBlurHash,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func mapRecipeDetailResponse(r *domain.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeResponse: mapRecipeResponse(r),
		Description:    r.Description,
	}
}

// mediaURL turns a storage key into the path clients fetch it from.
func mediaURL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

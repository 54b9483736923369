package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/NickNterm/recipeapp-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update current user",
		Description: "Updates the authenticated user's name and/or password. Changing the password revokes every other session.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)
}

// === DTOs ===

// GetCurrentUserInput is the input for fetching the current user.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateUserRequest is the request body for profile updates.
// Both fields are optional; omitted fields stay untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" doc:"New display name"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=1024" doc:"New password (at least 8 characters)"`
}

// UpdateUserInput wraps the update request for Huma.
type UpdateUserInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Body          UpdateUserRequest
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	// The session ID travels with the token claims so a password change can
	// keep the caller's own session alive while revoking the rest.
	userID, sessionID, err := s.authenticateSession(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.UpdateUserRequest{
		Name:     input.Body.Name,
		Password: input.Body.Password,
	}

	user, err := s.services.User.UpdateUser(ctx, userID, sessionID, req)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NickNterm/recipeapp-server/internal/auth"
	"github.com/NickNterm/recipeapp-server/internal/domain"
	"github.com/NickNterm/recipeapp-server/internal/store"
)

// UserService handles operations on the authenticated user's own account.
type UserService struct {
	store          store.Store
	sessionService *SessionService
	logger         *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, sessionService *SessionService, logger *slog.Logger) *UserService {
	return &UserService{
		store:          store,
		sessionService: sessionService,
		logger:         logger,
	}
}

// UpdateUserRequest contains the updatable account fields. Nil means
// "leave untouched".
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=1024"`
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// UpdateUser applies a partial update to the user's own account.
// Changing the password re-hashes it and revokes every other session, so
// refresh tokens stolen under the old password die with it. The caller's
// own session (from the access token) stays alive.
func (s *UserService) UpdateUser(ctx context.Context, userID, sessionID string, req UpdateUserRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	passwordChanged := false
	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = passwordHash
		passwordChanged = true
	}

	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if passwordChanged {
		if _, err := s.sessionService.RevokeOtherSessions(ctx, userID, sessionID); err != nil {
			// The password change itself landed; session cleanup failing
			// shouldn't undo that.
			if s.logger != nil {
				s.logger.Warn("Failed to revoke sessions after password change",
					"user_id", userID,
					"error", err,
				)
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("User updated",
			"user_id", userID,
			"password_changed", passwordChanged,
		)
	}

	return user, nil
}

package service

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NickNterm/recipeapp-server/internal/auth"
	domainerrors "github.com/NickNterm/recipeapp-server/internal/errors"
	"github.com/NickNterm/recipeapp-server/internal/store"
	"github.com/NickNterm/recipeapp-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserTest creates the user service plus the auth stack it leans on.
func setupUserTest(t *testing.T) (*UserService, *AuthService, store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "recipeapp-user-test-*")
	require.NoError(t, err)

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, nil)
	userService := NewUserService(s, sessionService, nil)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return userService, authService, s, cleanup
}

func TestUserService_GetUser(t *testing.T) {
	userService, _, s, cleanup := setupUserTest(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, ctx, s, "chef@example.com")

	got, err := userService.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "chef@example.com", got.Email)

	_, err = userService.GetUser(ctx, "user-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserService_UpdateUser_Name(t *testing.T) {
	userService, authService, _, cleanup := setupUserTest(t)
	defer cleanup()

	ctx := context.Background()

	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
		Name:     "Chef",
	})
	require.NoError(t, err)

	updated, err := userService.UpdateUser(ctx, reg.User.ID, reg.SessionID, UpdateUserRequest{
		Name: strPtr("Head Chef"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Head Chef", updated.Name)
	assert.Equal(t, "chef@example.com", updated.Email)

	// A name change doesn't touch credentials or sessions.
	_, err = authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)

	_, err = authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
}

func TestUserService_UpdateUser_PasswordRevokesOtherSessions(t *testing.T) {
	userService, authService, _, cleanup := setupUserTest(t)
	defer cleanup()

	ctx := context.Background()

	// Two live sessions: the registration's and a later login's.
	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
		Name:     "Chef",
	})
	require.NoError(t, err)

	login, err := authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)

	// Change the password from the login session.
	_, err = userService.UpdateUser(ctx, reg.User.ID, login.SessionID, UpdateUserRequest{
		Password: strPtr("BrandNewPassword456!"),
	})
	require.NoError(t, err)

	// The other session died with the old password...
	_, err = authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// ...while the caller's session survives.
	_, err = authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	// Old password no longer authenticates; the new one does.
	_, err = authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "BrandNewPassword456!",
	})
	require.NoError(t, err)
}

func TestUserService_UpdateUser_Validation(t *testing.T) {
	userService, authService, _, cleanup := setupUserTest(t)
	defer cleanup()

	ctx := context.Background()

	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
		Name:     "Chef",
	})
	require.NoError(t, err)

	t.Run("short password", func(t *testing.T) {
		_, err := userService.UpdateUser(ctx, reg.User.ID, reg.SessionID, UpdateUserRequest{
			Password: strPtr("short"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := userService.UpdateUser(ctx, reg.User.ID, reg.SessionID, UpdateUserRequest{
			Name: strPtr(""),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})
}

func TestUserService_UpdateUser_EmptyRequestIsNoop(t *testing.T) {
	userService, authService, _, cleanup := setupUserTest(t)
	defer cleanup()

	ctx := context.Background()

	reg, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "SecurePassword123!",
		Name:     "Chef",
	})
	require.NoError(t, err)

	updated, err := userService.UpdateUser(ctx, reg.User.ID, reg.SessionID, UpdateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Chef", updated.Name)

	// No password change means no session revocation.
	_, err = authService.RefreshTokens(ctx, RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	userService, _, _, cleanup := setupUserTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := userService.UpdateUser(ctx, "user-missing", "session-x", UpdateUserRequest{
		Name: strPtr("Ghost"),
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

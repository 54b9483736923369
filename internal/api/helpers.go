package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	userID, _, err := s.authenticateSession(ctx, authHeader)
	return userID, err
}

// authenticateSession validates the Authorization header and returns both the
// user ID and the session ID from the token claims, for operations that need
// to know which session is calling.
func (s *Server) authenticateSession(ctx context.Context, authHeader string) (userID, sessionID string, err error) {
	if authHeader == "" {
		return "", "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, claims, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return "", "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return user.ID, claims.SessionID, nil
}

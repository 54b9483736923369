package store_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NickNterm/recipeapp-server/internal/store"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "recipe not found",
	}

	assert.Equal(t, "recipe not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("sql: no rows in result set")
	err := &store.Error{
		Code:    http.StatusNotFound,
		Message: "recipe not found",
		Err:     cause,
	}

	assert.Contains(t, err.Error(), "recipe not found")
	assert.Contains(t, err.Error(), "no rows")
}

func TestError_HTTPCode(t *testing.T) {
	err := &store.Error{
		Code:    http.StatusConflict,
		Message: "tag name already in use",
	}

	assert.Equal(t, http.StatusConflict, err.HTTPCode())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &store.Error{
		Code:    http.StatusInternalServerError,
		Message: "error",
		Err:     cause,
	}

	assert.Equal(t, cause, err.Unwrap())
}

// WithMessage keeps the status code, so errors.As-based mapping still
// treats customized messages as the same class of failure.
func TestError_WithMessage(t *testing.T) {
	modified := store.ErrNotFound.WithMessage("ingredient not found")

	assert.Equal(t, http.StatusNotFound, modified.Code)
	assert.Equal(t, "ingredient not found", modified.Message)

	var storeErr *store.Error
	assert.True(t, errors.As(modified, &storeErr))
	assert.Equal(t, http.StatusNotFound, storeErr.HTTPCode())
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("db error")
	modified := store.ErrAlreadyExists.WithCause(cause)

	assert.Equal(t, http.StatusConflict, modified.Code)
	assert.Equal(t, "resource already exists", modified.Message)
	assert.Equal(t, cause, modified.Err)
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *store.Error
		wantCode int
	}{
		{
			name:     "not found",
			err:      store.ErrNotFound,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "already exists",
			err:      store.ErrAlreadyExists,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.HTTPCode())
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Codes(t *testing.T) {
	tests := []struct {
		err  *AppError
		code int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewNotFoundError("missing"), http.StatusNotFound},
		{NewConflictError("cannot renew"), http.StatusConflict},
		{NewUnauthorizedError("token"), http.StatusUnauthorized},
		{NewInternalError("boom"), http.StatusInternalServerError},
		{NewBadRequestError("json"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code, tt.err.Type)
	}
}

func TestAppError_Message(t *testing.T) {
	assert.Equal(t, "not_found: subscription not found", NewNotFoundError("subscription not found").Error())
	assert.Equal(t, "validation_error: invalid (days must be positive)",
		NewValidationError("invalid", "days must be positive").Error())
}

func TestAppError_UnwrapAndPredicates(t *testing.T) {
	domainErr := errors.New("invalid status transition")
	appErr := NewConflictError("cannot cancel").WithCause(domainErr)
	wrapped := fmt.Errorf("use case: %w", appErr)

	assert.ErrorIs(t, wrapped, domainErr)
	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(errors.New("plain")))
	assert.Nil(t, GetAppError(errors.New("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'sub_x' for key 'PRIMARY'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: subscriptions.uuid")))
	assert.False(t, IsDuplicateError(errors.New("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/service"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/phrazzld/attendance-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("reason", "cannot be empty", nil), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", domain.NewValidationError("email", "bad", domain.ErrInvalidEmail)),
			http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"revoked token", auth.ErrRevokedToken, http.StatusUnauthorized},
		{"seat limit", service.ErrSeatLimitReached, http.StatusForbidden},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"attendance not found", service.ErrAttendanceNotFound, http.StatusNotFound},
		{"email exists", service.ErrEmailExists, http.StatusConflict},
		{"store duplicate", store.ErrEmailExists, http.StatusConflict},
		{"license missing", fmt.Errorf("failed to read license: %w", store.ErrLicenseNotFound),
			http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"validation", domain.NewValidationError("reason", "cannot be empty", nil), "Invalid reason: cannot be empty"},
		{"email exists", service.ErrEmailExists, "Email already exists"},
		{"seat limit", service.ErrSeatLimitReached,
			"The maximum number of users has been reached. Please contact your administrator."},
		{"credentials", service.ErrInvalidCredentials, "Invalid email or password"},
		{"wrong token type", auth.ErrWrongTokenType, "Invalid refresh token"},
		{"internal detail hidden", errors.New("pq: relation users does not exist"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError_NotValidatorError(t *testing.T) {
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("x")))
}

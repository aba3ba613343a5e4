package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/attendance-api/internal/api/shared"
	"github.com/phrazzld/attendance-api/internal/platform/metrics"
	"github.com/phrazzld/attendance-api/internal/service"
	"github.com/phrazzld/attendance-api/internal/service/auth"
)

// AuthHandler serves login, token refresh and logout.
type AuthHandler struct {
	users   service.UserService
	metrics *metrics.Metrics
}

// NewAuthHandler creates an AuthHandler. m may be nil.
func NewAuthHandler(users service.UserService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{users: users, metrics: m}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.metrics.TokensIssued("password")
	shared.RespondWithJSON(w, r, http.StatusOK, tokenPairResponse(pair))
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	h.metrics.TokensIssued("refresh")
	shared.RespondWithJSON(w, r, http.StatusOK, tokenPairResponse(pair))
}

// Logout handles POST /api/auth/logout. The access token used for the
// request is rejected afterwards.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.ClaimsFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	if err := h.users.Logout(r.Context(), claims); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func tokenPairResponse(pair *auth.TokenPair) AuthResponse {
	return AuthResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

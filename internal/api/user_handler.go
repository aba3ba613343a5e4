package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/api/shared"
	"github.com/phrazzld/attendance-api/internal/platform/metrics"
	"github.com/phrazzld/attendance-api/internal/service"
)

// UserHandler serves the user account endpoints.
type UserHandler struct {
	users   service.UserService
	metrics *metrics.Metrics
}

// NewUserHandler creates a UserHandler. m may be nil.
func NewUserHandler(users service.UserService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{users: users, metrics: m}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.CurrentUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{User: user, IsAdmin: user.IsAdmin()})
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Create handles POST /api/users. Administrators only.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.metrics.UserCreated()
	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Update handles PUT /api/users/{id}. Users may edit their own profile;
// administrators may edit anyone's.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.RequireSelfOrAdmin(r.Context(), actorID, targetID); err != nil {
		HandleAPIError(w, r, err, "Failed to check permissions")
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.UpdateUser(r.Context(), req.toUpdate(targetID)); err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	h.respondWithUser(w, r, targetID)
}

// UpdateAdvanced handles PUT /api/users/{id}/advanced. Administrators only.
func (h *UserHandler) UpdateAdvanced(w http.ResponseWriter, r *http.Request) {
	_, targetID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserAdvancedRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.UpdateUserAdvanced(r.Context(), req.toUpdate(targetID)); err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	h.respondWithUser(w, r, targetID)
}

func (h *UserHandler) respondWithUser(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	user, err := h.users.CurrentUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/api/shared"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// newTestRouter mounts every handler the way the server does, with the
// authentication step replaced by claims for actor. A nil actor sends
// requests unauthenticated.
func newTestRouter(users *mockUserService, attendance *mockAttendanceService, actor uuid.UUID) http.Handler {
	authHandler := NewAuthHandler(users, nil)
	attendanceHandler := NewAttendanceHandler(attendance, users, nil)
	userHandler := NewUserHandler(users, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			if actor != uuid.Nil {
				ctx = shared.WithAuth(ctx, &auth.Claims{
					UserID:    actor,
					ID:        "jti-" + actor.String(),
					ExpiresAt: time.Now().Add(time.Hour),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})

	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/refresh", authHandler.Refresh)
	r.Post("/api/auth/logout", authHandler.Logout)

	r.Get("/api/attendance/types", attendanceHandler.Types)
	r.Get("/api/attendance/reason-priorities", attendanceHandler.ReasonPriorities)
	r.Post("/api/attendance", attendanceHandler.Create)
	r.Get("/api/attendance", attendanceHandler.ListMine)
	r.Get("/api/attendance/export", attendanceHandler.Export)
	r.Get("/api/attendance/{id}", attendanceHandler.Get)

	r.Get("/api/users/me", userHandler.Me)
	r.Get("/api/users", userHandler.List)
	r.Post("/api/users", userHandler.Create)
	r.Put("/api/users/{id}", userHandler.Update)
	r.Put("/api/users/{id}/advanced", userHandler.UpdateAdvanced)

	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/cache"
	"github.com/phrazzld/attendance-api/internal/config"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/events"
	"github.com/phrazzld/attendance-api/internal/mocks"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/platform/metrics"
	"github.com/phrazzld/attendance-api/internal/service"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "router-test-secret-0123456789abcdef",
		BCryptCost:                  4,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	}
}

type routerFixture struct {
	app   *application
	users *mocks.UserStore
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	_, log := logger.NewTestLogger()

	jwtService, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)

	users := &mocks.UserStore{}
	userCache := cache.NewMemoryUserCache(time.Minute)
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(cache.NewInvalidationHandler(userCache, log))

	userService, err := service.NewUserService(service.UserServiceDeps{
		Users:       users,
		Credentials: &mocks.CredentialStore{},
		License:     &mocks.LicenseStore{},
		Transactor:  &mocks.Transactor{},
		Identity:    &mocks.IdentityService{},
		Cache:       userCache,
		Events:      emitter,
		Logger:      log,
	})
	require.NoError(t, err)

	attendanceService, err := service.NewAttendanceService(&mocks.AttendanceStore{}, log)
	require.NoError(t, err)

	return &routerFixture{
		app: &application{
			config:            &config.Config{Auth: testAuthConfig()},
			logger:            log,
			metrics:           metrics.New(),
			jwtService:        jwtService,
			revoker:           auth.NewMemoryRevoker(),
			userService:       userService,
			attendanceService: attendanceService,
		},
		users: users,
	}
}

func (f *routerFixture) tokenFor(t *testing.T, role domain.Role) (string, *domain.User) {
	t.Helper()
	user, err := domain.NewUser("router@example.com", "Router")
	require.NoError(t, err)
	user.Role = role
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	token, err := f.app.jwtService.GenerateToken(context.Background(), user.ID)
	require.NoError(t, err)
	return token, user
}

func serve(handler http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)

	rr := serve(f.app.setupRouter(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestRouter_MetricsCountsRequests(t *testing.T) {
	f := newRouterFixture(t)
	router := f.app.setupRouter()

	serve(router, http.MethodGet, "/health", "")
	rr := serve(router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t)
	router := f.app.setupRouter()

	for _, path := range []string{"/api/users/me", "/api/attendance", "/api/attendance/types"} {
		rr := serve(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRouter_AuthenticatedRoute(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.tokenFor(t, domain.RoleUser)

	rr := serve(f.app.setupRouter(), http.MethodGet, "/api/attendance/types", token)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "SickLeave")
}

func TestRouter_AdminRoutes(t *testing.T) {
	t.Run("non-admin is forbidden", func(t *testing.T) {
		f := newRouterFixture(t)
		token, _ := f.tokenFor(t, domain.RoleUser)
		router := f.app.setupRouter()

		rr := serve(router, http.MethodGet, "/api/attendance/export?from=2024-01-01&to=2024-01-31", token)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = serve(router, http.MethodPost, "/api/users", token)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = serve(router, http.MethodPut, "/api/users/"+uuid.NewString()+"/advanced", token)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin passes the guard", func(t *testing.T) {
		f := newRouterFixture(t)
		token, _ := f.tokenFor(t, domain.RoleAdmin)

		// An empty body fails request validation, which proves the guard let it through.
		rr := serve(f.app.setupRouter(), http.MethodPost, "/api/users", token)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRouter_RevokedTokenRejected(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t)
	token, _ := f.tokenFor(t, domain.RoleUser)

	claims, err := f.app.jwtService.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.NoError(t, f.app.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt))

	rr := serve(f.app.setupRouter(), http.MethodGet, "/api/users/me", token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

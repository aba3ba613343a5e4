package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/attendance-api/internal/api"
	apiMiddleware "github.com/phrazzld/attendance-api/internal/api/middleware"
)

// setupRouter builds the HTTP routes and middleware chain.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	authHandler := api.NewAuthHandler(app.userService, app.metrics)
	attendanceHandler := api.NewAttendanceHandler(app.attendanceService, app.userService, app.metrics)
	userHandler := api.NewUserHandler(app.userService, app.metrics)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.revoker)
	requireAdmin := apiMiddleware.RequireAdmin(app.userService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/attendance/types", attendanceHandler.Types)
			r.Get("/attendance/reason-priorities", attendanceHandler.ReasonPriorities)
			r.Post("/attendance", attendanceHandler.Create)
			r.Get("/attendance", attendanceHandler.ListMine)
			r.With(requireAdmin).Get("/attendance/export", attendanceHandler.Export)
			r.Get("/attendance/{id}", attendanceHandler.Get)

			r.Get("/users/me", userHandler.Me)
			r.Get("/users", userHandler.List)
			r.With(requireAdmin).Post("/users", userHandler.Create)
			r.Put("/users/{id}", userHandler.Update)
			r.With(requireAdmin).Put("/users/{id}/advanced", userHandler.UpdateAdvanced)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}

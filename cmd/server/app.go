package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/phrazzld/attendance-api/internal/cache"
	"github.com/phrazzld/attendance-api/internal/config"
	"github.com/phrazzld/attendance-api/internal/events"
	"github.com/phrazzld/attendance-api/internal/platform/metrics"
	"github.com/phrazzld/attendance-api/internal/platform/postgres"
	"github.com/phrazzld/attendance-api/internal/platform/redis"
	"github.com/phrazzld/attendance-api/internal/service"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/phrazzld/attendance-api/internal/store"
)

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	metrics *metrics.Metrics

	jwtService auth.JWTService
	revoker    auth.TokenRevoker

	userService       service.UserService
	attendanceService service.AttendanceService
}

// newApplication builds every store and service. db must already be
// connected; Redis is used when cfg.Cache.RedisAddr is set.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (_ *application, err error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}
	defer func() {
		if err != nil && app.redis != nil {
			_ = app.redis.Close()
		}
	}()

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userCache, err := app.setupCache(ctx)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	credentialStore := postgres.NewPostgresCredentialStore(db, logger)
	licenseStore := postgres.NewPostgresLicenseStore(db, logger)
	attendanceStore := postgres.NewPostgresAttendanceStore(db, logger)

	identity, err := auth.NewIdentityService(
		credentialStore,
		app.jwtService,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		auth.NewBcryptVerifier(),
		app.revoker,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(
		cache.NewInvalidationHandler(userCache, logger),
		events.TypeUserCreated, events.TypeUserUpdated,
	)

	app.userService, err = service.NewUserService(service.UserServiceDeps{
		Users:       userStore,
		Credentials: credentialStore,
		License:     licenseStore,
		Transactor:  store.NewSQLTransactor(db),
		Identity:    identity,
		Cache:       userCache,
		Events:      emitter,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.attendanceService, err = service.NewAttendanceService(attendanceStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance service: %w", err)
	}

	if err := app.bootstrapAdmin(ctx); err != nil {
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupCache selects Redis or in-process storage for the user cache and
// the revocation list.
func (app *application) setupCache(ctx context.Context) (cache.UserCache, error) {
	ttl := time.Duration(app.config.Cache.UserTTLSeconds) * time.Second

	if app.config.Cache.RedisAddr == "" {
		app.revoker = auth.NewMemoryRevoker()
		app.logger.Info("using in-memory user cache and token revocation list")
		return cache.NewMemoryUserCache(ttl), nil
	}

	rdb, err := redis.Connect(ctx, app.config.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = rdb
	app.revoker = redis.NewTokenRevoker(rdb)
	app.logger.Info("using redis user cache and token revocation list", "redis_db", app.config.Cache.RedisDB)
	return redis.NewUserCache(rdb, ttl), nil
}

// bootstrapAdmin creates the configured administrator on an empty
// installation.
func (app *application) bootstrapAdmin(ctx context.Context) error {
	b := app.config.Bootstrap
	if b.AdminEmail == "" {
		return nil
	}

	user, err := app.userService.BootstrapAdmin(ctx, b.AdminEmail, b.AdminPassword, b.AdminName)
	if err != nil {
		return fmt.Errorf("failed to bootstrap administrator: %w", err)
	}
	if user != nil {
		app.logger.Info("bootstrap administrator created", "user_id", user.ID)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled or the process is signalled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database and Redis connections.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}

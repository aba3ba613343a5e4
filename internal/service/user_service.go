package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/cache"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/events"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/phrazzld/attendance-api/internal/store"
)

// UserService manages user accounts and sessions.
type UserService interface {
	// CurrentUser returns the user with the given uid, served from the
	// cache until the user changes.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// List returns every user, served from the cache until any user changes.
	List(ctx context.Context) ([]*domain.User, error)

	// IsAdmin reports whether the user holds the admin role.
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)

	// RequireSelfOrAdmin returns ErrForbidden unless actorID is targetID
	// or an administrator.
	RequireSelfOrAdmin(ctx context.Context, actorID, targetID uuid.UUID) error

	// CreateUser creates an account with the plain user role.
	// Returns ErrEmailExists or ErrSeatLimitReached when the account
	// cannot be created; nothing is written in either case.
	CreateUser(ctx context.Context, email, password, name string) (*domain.User, error)

	// UpdateUser changes the self-service profile fields only.
	UpdateUser(ctx context.Context, update *domain.ProfileUpdate) error

	// UpdateUserAdvanced changes the administrator-only employment fields only.
	UpdateUserAdvanced(ctx context.Context, update *domain.EmploymentUpdate) error

	// Login exchanges email and password for a token pair.
	Login(ctx context.Context, email, password string) (*auth.TokenPair, error)

	// Logout revokes the access token described by claims.
	Logout(ctx context.Context, claims *auth.Claims) error

	// Refresh rotates a token pair.
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// BootstrapAdmin creates an administrator when no users exist yet.
	// It returns the created user, or nil if users already exist.
	BootstrapAdmin(ctx context.Context, email, password, name string) (*domain.User, error)
}

// UserServiceDeps groups the collaborators of the user service.
type UserServiceDeps struct {
	Users       store.UserStore
	Credentials store.CredentialStore
	License     store.LicenseStore
	Transactor  store.Transactor
	Identity    auth.IdentityService
	Cache       cache.UserCache
	Events      events.EventEmitter
	Logger      *slog.Logger
}

type userServiceImpl struct {
	users       store.UserStore
	credentials store.CredentialStore
	license     store.LicenseStore
	tx          store.Transactor
	identity    auth.IdentityService
	cache       cache.UserCache
	events      events.EventEmitter
	logger      *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService. Every dependency except Logger
// is required.
func NewUserService(deps UserServiceDeps) (UserService, error) {
	switch {
	case deps.Users == nil:
		return nil, fmt.Errorf("users store cannot be nil")
	case deps.Credentials == nil:
		return nil, fmt.Errorf("credentials store cannot be nil")
	case deps.License == nil:
		return nil, fmt.Errorf("license store cannot be nil")
	case deps.Transactor == nil:
		return nil, fmt.Errorf("transactor cannot be nil")
	case deps.Identity == nil:
		return nil, fmt.Errorf("identity service cannot be nil")
	case deps.Cache == nil:
		return nil, fmt.Errorf("user cache cannot be nil")
	case deps.Events == nil:
		return nil, fmt.Errorf("event emitter cannot be nil")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		users:       deps.Users,
		credentials: deps.Credentials,
		license:     deps.License,
		tx:          deps.Transactor,
		identity:    deps.Identity,
		cache:       deps.Cache,
		events:      deps.Events,
		logger:      log.With(slog.String("component", "user_service")),
	}, nil
}

// CurrentUser implements UserService.CurrentUser
func (s *userServiceImpl) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, ok, err := s.cache.GetUser(ctx, userID)
	if err != nil {
		log.Warn("user cache read failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
	}
	if ok {
		return user, nil
	}

	// The generation is taken before the store read so an update that
	// commits in between keeps the stale row out of the cache.
	gen, genErr := s.cache.UserGeneration(ctx, userID)

	user, err = s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user", "current_user", "failed to load user", err)
	}

	if genErr != nil {
		log.Warn("user cache generation read failed, not caching",
			slog.String("error", genErr.Error()),
			slog.String("user_id", userID.String()))
		return user, nil
	}
	if err := s.cache.SetUser(ctx, user, gen); err != nil {
		log.Warn("user cache write failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
	}
	return user, nil
}

// List implements UserService.List
func (s *userServiceImpl) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	users, ok, err := s.cache.GetUserList(ctx)
	if err != nil {
		log.Warn("user list cache read failed", slog.String("error", err.Error()))
	}
	if ok {
		return users, nil
	}

	gen, genErr := s.cache.ListGeneration(ctx)

	users, err = s.users.List(ctx)
	if err != nil {
		return nil, NewServiceError("user", "list", "failed to list users", err)
	}

	if genErr != nil {
		log.Warn("user list cache generation read failed, not caching", slog.String("error", genErr.Error()))
		return users, nil
	}
	if err := s.cache.SetUserList(ctx, users, gen); err != nil {
		log.Warn("user list cache write failed", slog.String("error", err.Error()))
	}
	return users, nil
}

// IsAdmin implements UserService.IsAdmin
func (s *userServiceImpl) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// RequireSelfOrAdmin implements UserService.RequireSelfOrAdmin
func (s *userServiceImpl) RequireSelfOrAdmin(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return nil
	}
	admin, err := s.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden
	}
	return nil
}

// CreateUser implements UserService.CreateUser
func (s *userServiceImpl) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	return s.createUser(ctx, email, password, name, domain.RoleUser)
}

// BootstrapAdmin implements UserService.BootstrapAdmin
func (s *userServiceImpl) BootstrapAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, NewServiceError("user", "bootstrap_admin", "failed to count users", err)
	}
	if count > 0 {
		return nil, nil
	}
	return s.createUser(ctx, email, password, name, domain.RoleAdmin)
}

// createUser checks the email, then inside one transaction claims a
// license seat, stores the credential and the user, and bumps the seat
// counter. The license row lock serialises concurrent creations.
func (s *userServiceImpl) createUser(
	ctx context.Context,
	email, password, name string,
	role domain.Role,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, name)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, NewServiceError("user", "create_user", "failed to check email", err)
	}
	if exists {
		log.Debug("attempted to create user with existing email", slog.String("email", user.Email))
		return nil, ErrEmailExists
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		license, err := s.license.WithTx(tx).GetForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("failed to read license: %w", err)
		}
		if !license.HasSeat() {
			log.Warn("user creation blocked by license",
				slog.Int("current_users", license.CurrentUsers),
				slog.Int("max_users", license.MaxUsers))
			return ErrSeatLimitReached
		}

		if err := s.identity.SignUp(ctx, s.credentials.WithTx(tx), user.ID, user.Email, password); err != nil {
			return err
		}
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.license.WithTx(tx).SetCurrentUsers(ctx, license.CurrentUsers+1)
	})
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		if !errors.Is(err, ErrSeatLimitReached) && !errors.Is(err, store.ErrEmailExists) {
			log.Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("email", user.Email))
		}
		return nil, NewServiceError("user", "create_user", "failed to create user", err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	s.emit(ctx, events.TypeUserCreated, user.ID)

	return user, nil
}

// UpdateUser implements UserService.UpdateUser
func (s *userServiceImpl) UpdateUser(ctx context.Context, update *domain.ProfileUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if err := s.users.UpdateProfile(ctx, update); err != nil {
		return NewServiceError("user", "update_user", "failed to update profile", err)
	}
	s.emit(ctx, events.TypeUserUpdated, update.ID)
	return nil
}

// UpdateUserAdvanced implements UserService.UpdateUserAdvanced
func (s *userServiceImpl) UpdateUserAdvanced(ctx context.Context, update *domain.EmploymentUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if err := s.users.UpdateEmployment(ctx, update); err != nil {
		return NewServiceError("user", "update_user_advanced", "failed to update employment", err)
	}
	s.emit(ctx, events.TypeUserUpdated, update.ID)
	return nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	pair, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, NewServiceError("user", "login", "failed to sign in", err)
	}
	return pair, nil
}

// Logout implements UserService.Logout
func (s *userServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.identity.SignOut(ctx, claims); err != nil {
		return NewServiceError("user", "logout", "failed to sign out", err)
	}
	return nil
}

// Refresh implements UserService.Refresh
func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	pair, err := s.identity.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, NewServiceError("user", "refresh", "failed to refresh token", err)
	}
	return pair, nil
}

// emit publishes a user change. Handlers only drop cache entries, so a
// failure is logged and the cached copy expires on its own.
func (s *userServiceImpl) emit(ctx context.Context, eventType string, userID uuid.UUID) {
	if err := s.events.EmitEvent(ctx, events.NewUserChangedEvent(eventType, userID)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("user change event failed",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType),
			slog.String("user_id", userID.String()))
	}
}

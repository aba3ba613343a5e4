package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ExistsByEmail reports whether any user has the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List returns every user ordered by name.
	List(ctx context.Context) ([]*domain.User, error)

	// Count returns the number of users.
	Count(ctx context.Context) (int, error)

	// UpdateProfile writes only the self-service profile fields.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, update *domain.ProfileUpdate) error

	// UpdateEmployment writes only the administrator-managed employment fields.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateEmployment(ctx context.Context, update *domain.EmploymentUpdate) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}

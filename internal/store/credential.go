package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/attendance-api/internal/domain"
)

// CredentialStore persists sign-in credentials.
type CredentialStore interface {
	// Create stores a credential. The password must already be hashed.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, cred *domain.Credential) error

	// GetByEmail returns the credential for email.
	// Returns ErrCredentialNotFound if none exists.
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)

	// WithTx returns a new CredentialStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CredentialStore
}

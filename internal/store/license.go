package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/attendance-api/internal/domain"
)

// LicenseStore reads and updates the seat counter.
type LicenseStore interface {
	// GetForUpdate returns the license counters and locks the row until the
	// surrounding transaction ends. Only meaningful on a WithTx store.
	GetForUpdate(ctx context.Context) (*domain.License, error)

	// SetCurrentUsers writes the seat counter and stamps last_updated.
	SetCurrentUsers(ctx context.Context, currentUsers int) error

	// WithTx returns a new LicenseStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LicenseStore
}

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
)

// AttendanceStore persists attendance logs and their audit trail.
type AttendanceStore interface {
	// Create inserts a new attendance log.
	Create(ctx context.Context, log *domain.AttendanceLog) error

	// AppendAudit inserts an audit entry beneath an existing log and fills in
	// the entry's database-assigned ActionDateTime.
	// Returns ErrAttendanceNotFound if the log does not exist.
	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error

	// GetByID returns a log with its audit trail, oldest entry first.
	// Returns ErrAttendanceNotFound if the log does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceLog, error)

	// ListByUser returns a user's logs, newest start first, without audit trails.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AttendanceLog, error)

	// ListRange returns logs whose start falls in [from, to), ordered by start.
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.AttendanceLog, error)

	// WithTx returns a new AttendanceStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttendanceStore
}

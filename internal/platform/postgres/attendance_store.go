package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/store"
)

const attendanceColumns = `id, type, start_date_time, end_date_time, hours, reason, reason_priority,
	approver, callout, proxy_user_id, proxy_user_name, status, user_id, user_name, created_at`

// PostgresAttendanceStore implements the store.AttendanceStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttendanceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttendanceStore creates a new PostgreSQL implementation of the AttendanceStore interface.
// If logger is nil, the default logger is used.
func NewPostgresAttendanceStore(db store.DBTX, logger *slog.Logger) *PostgresAttendanceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAttendanceStore{
		db:     db,
		logger: logger.With(slog.String("component", "attendance_store")),
	}
}

// Ensure PostgresAttendanceStore implements store.AttendanceStore interface
var _ store.AttendanceStore = (*PostgresAttendanceStore)(nil)

// WithTx implements store.AttendanceStore.WithTx
func (s *PostgresAttendanceStore) WithTx(tx *sql.Tx) store.AttendanceStore {
	return &PostgresAttendanceStore{db: tx, logger: s.logger}
}

// Create implements store.AttendanceStore.Create
func (s *PostgresAttendanceStore) Create(ctx context.Context, a *domain.AttendanceLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := a.Validate(); err != nil {
		log.Warn("attendance validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attendance_id", a.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var priority sql.NullInt16
	if a.ReasonPriority != nil {
		priority = sql.NullInt16{Int16: int16(*a.ReasonPriority), Valid: true}
	}

	query := `
		INSERT INTO attendance_logs (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		int(a.Type),
		a.StartDateTime,
		a.EndDateTime,
		a.Hours,
		a.Reason,
		priority,
		a.Approver,
		a.Callout,
		a.ProxyUserID,
		a.ProxyUserName,
		string(a.Status),
		a.UserID,
		a.UserName,
		a.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create attendance log",
			slog.String("error", err.Error()),
			slog.String("attendance_id", a.ID.String()),
			slog.String("user_id", a.UserID.String()))
		return MapError(err, nil)
	}

	log.Info("attendance log created",
		slog.String("attendance_id", a.ID.String()),
		slog.String("user_id", a.UserID.String()),
		slog.String("type", a.Type.String()))
	return nil
}

// AppendAudit implements store.AttendanceStore.AppendAudit
func (s *PostgresAttendanceStore) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO attendance_audit_trail (id, attendance_id, action, action_by)
		VALUES ($1, $2, $3, $4)
		RETURNING action_date_time
	`, entry.ID, entry.AttendanceID, string(entry.Action), entry.ActionBy).Scan(&entry.ActionDateTime)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("audit entry for missing attendance log",
				slog.String("attendance_id", entry.AttendanceID.String()))
			return store.ErrAttendanceNotFound
		}
		log.Error("failed to append audit entry",
			slog.String("error", err.Error()),
			slog.String("attendance_id", entry.AttendanceID.String()))
		return MapError(err, nil)
	}

	log.Debug("audit entry appended",
		slog.String("attendance_id", entry.AttendanceID.String()),
		slog.String("action", string(entry.Action)))
	return nil
}

// GetByID implements store.AttendanceStore.GetByID
func (s *PostgresAttendanceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	a, err := scanAttendance(s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_logs WHERE id = $1`, id))
	if err != nil {
		err = MapError(err, store.ErrAttendanceNotFound)
		if store.IsNotFoundError(err) {
			log.Debug("attendance log not found", slog.String("attendance_id", id.String()))
		} else {
			log.Error("failed to get attendance log",
				slog.String("error", err.Error()),
				slog.String("attendance_id", id.String()))
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, attendance_id, action, action_by, action_date_time
		FROM attendance_audit_trail
		WHERE attendance_id = $1
		ORDER BY action_date_time, id
	`, id)
	if err != nil {
		log.Error("failed to load audit trail",
			slog.String("error", err.Error()),
			slog.String("attendance_id", id.String()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	a.AuditTrail = make([]domain.AuditEntry, 0)
	for rows.Next() {
		var (
			e      domain.AuditEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.AttendanceID, &action, &e.ActionBy, &e.ActionDateTime); err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		a.AuditTrail = append(a.AuditTrail, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

// ListByUser implements store.AttendanceStore.ListByUser
func (s *PostgresAttendanceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AttendanceLog, error) {
	return s.list(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance_logs
		WHERE user_id = $1
		ORDER BY start_date_time DESC
	`, userID)
}

// ListRange implements store.AttendanceStore.ListRange
func (s *PostgresAttendanceStore) ListRange(ctx context.Context, from, to time.Time) ([]*domain.AttendanceLog, error) {
	return s.list(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendance_logs
		WHERE start_date_time >= $1 AND start_date_time < $2
		ORDER BY start_date_time, user_name
	`, from, to)
}

func (s *PostgresAttendanceStore) list(ctx context.Context, query string, args ...any) ([]*domain.AttendanceLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list attendance logs", slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*domain.AttendanceLog, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			log.Error("failed to scan attendance row", slog.String("error", err.Error()))
			return nil, err
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating attendance rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed attendance logs", slog.Int("count", len(logs)))
	return logs, nil
}

func scanAttendance(row rowScanner) (*domain.AttendanceLog, error) {
	var (
		a        domain.AttendanceLog
		typ      int
		priority sql.NullInt16
		status   string
	)

	err := row.Scan(
		&a.ID,
		&typ,
		&a.StartDateTime,
		&a.EndDateTime,
		&a.Hours,
		&a.Reason,
		&priority,
		&a.Approver,
		&a.Callout,
		&a.ProxyUserID,
		&a.ProxyUserName,
		&status,
		&a.UserID,
		&a.UserName,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.AttendanceType(typ)
	a.Status = domain.AttendanceStatus(status)
	if priority.Valid {
		p := domain.ReasonPriority(priority.Int16)
		a.ReasonPriority = &p
	}
	return &a, nil
}

package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceRowColumns = []string{
	"id", "type", "start_date_time", "end_date_time", "hours", "reason", "reason_priority",
	"approver", "callout", "proxy_user_id", "proxy_user_name", "status", "user_id", "user_name", "created_at",
}

func newAttendanceStore(t *testing.T) (*PostgresAttendanceStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresAttendanceStore(db, nil), mock
}

func sampleAttendance() *domain.AttendanceLog {
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	priority := domain.UrgentRoutine
	return &domain.AttendanceLog{
		ID:             uuid.New(),
		Type:           domain.Overtime,
		StartDateTime:  start,
		EndDateTime:    start.Add(3 * time.Hour),
		Hours:          3,
		Reason:         "release",
		ReasonPriority: &priority,
		Status:         domain.AttendanceStatusPending,
		UserID:         uuid.New(),
		UserName:       "Ann",
		CreatedAt:      start,
	}
}

func TestPostgresAttendanceStore_Create(t *testing.T) {
	t.Run("inserts_log", func(t *testing.T) {
		s, mock := newAttendanceStore(t)
		a := sampleAttendance()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance_logs")).
			WithArgs(a.ID, int64(3), a.StartDateTime, a.EndDateTime, 3.0, "release", int64(3),
				"", "", "", "", "pending", a.UserID, "Ann", a.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects_invalid_log", func(t *testing.T) {
		s, mock := newAttendanceStore(t)
		a := sampleAttendance()
		a.EndDateTime = a.StartDateTime.Add(-time.Hour)

		assert.ErrorIs(t, s.Create(context.Background(), a), store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresAttendanceStore_AppendAudit(t *testing.T) {
	t.Run("fills_database_timestamp", func(t *testing.T) {
		s, mock := newAttendanceStore(t)
		entry := domain.NewAuditEntry(uuid.New(), domain.AuditActionCreate, "Ann")
		stamp := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_audit_trail")).
			WithArgs(entry.ID, entry.AttendanceID, "create", "Ann").
			WillReturnRows(sqlmock.NewRows([]string{"action_date_time"}).AddRow(stamp))

		require.NoError(t, s.AppendAudit(context.Background(), entry))
		assert.True(t, stamp.Equal(entry.ActionDateTime))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_parent", func(t *testing.T) {
		s, mock := newAttendanceStore(t)
		entry := domain.NewAuditEntry(uuid.New(), domain.AuditActionCreate, "Ann")

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_audit_trail")).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

		assert.ErrorIs(t, s.AppendAudit(context.Background(), entry), store.ErrAttendanceNotFound)
	})
}

func TestPostgresAttendanceStore_GetByID(t *testing.T) {
	t.Run("with_audit_trail", func(t *testing.T) {
		s, mock := newAttendanceStore(t)
		id := uuid.New()
		userID := uuid.New()
		start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_logs WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(attendanceRowColumns).AddRow(
				id.String(), 4, start, start.Add(8*time.Hour), 8.0, "trip", nil,
				"Bob", "", "", "", "approved", userID.String(), "Ann", start,
			))
		mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_audit_trail")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "attendance_id", "action", "action_by", "action_date_time"}).
				AddRow(uuid.NewString(), id.String(), "create", "Ann", start).
				AddRow(uuid.NewString(), id.String(), "update", "Bob", start.Add(time.Hour)))

		a, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.AnnualLeave, a.Type)
		assert.Equal(t, domain.AttendanceStatusApproved, a.Status)
		assert.Nil(t, a.ReasonPriority)
		require.Len(t, a.AuditTrail, 2)
		assert.Equal(t, domain.AuditActionCreate, a.AuditTrail[0].Action)
		assert.Equal(t, "Bob", a.AuditTrail[1].ActionBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		s, mock := newAttendanceStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_logs WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(attendanceRowColumns))

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrAttendanceNotFound)
	})
}

func TestPostgresAttendanceStore_ListRange(t *testing.T) {
	s, mock := newAttendanceStore(t)
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE start_date_time >= $1 AND start_date_time < $2")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns).AddRow(
			uuid.NewString(), 1, from, from.Add(2*time.Hour), 2.0, "flu", 1,
			"", "", "", "", "pending", uuid.NewString(), "Ann", from,
		))

	logs, err := s.ListRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.SickLeave, logs[0].Type)
	require.NotNil(t, logs[0].ReasonPriority)
	assert.Equal(t, domain.OnlineDisaster, *logs[0].ReasonPriority)
}

func TestPostgresAttendanceStore_ListByUser(t *testing.T) {
	s, mock := newAttendanceStore(t)
	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(attendanceRowColumns))

	logs, err := s.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

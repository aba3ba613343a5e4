package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/store"
)

// CreateAttendanceInput holds the caller-supplied fields of a new
// attendance log. Status, ID and timestamps are assigned by the service.
type CreateAttendanceInput struct {
	Type           domain.AttendanceType
	StartDateTime  time.Time
	EndDateTime    time.Time
	Hours          float64
	Reason         string
	ReasonPriority *domain.ReasonPriority
	Approver       string
	Callout        string
	ProxyUserID    string
	ProxyUserName  string
	UserID         uuid.UUID
	UserName       string
}

// AttendanceService records and reads attendance requests.
type AttendanceService interface {
	// TypeList returns the attendance types as select options.
	TypeList() []domain.SelectOption

	// ReasonPriorityList returns the reason priorities as select options.
	ReasonPriorityList() []domain.SelectOption

	// Create stores a new pending log and then its "create" audit entry.
	// The two writes are not atomic: if the audit write fails the log is
	// returned together with the error and no audit entry.
	Create(ctx context.Context, input CreateAttendanceInput) (*domain.AttendanceLog, *domain.AuditEntry, error)

	// Get returns a log with its audit trail.
	Get(ctx context.Context, id uuid.UUID) (*domain.AttendanceLog, error)

	// ListForUser returns the user's logs, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AttendanceLog, error)

	// ListRange returns all logs starting in [from, to).
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.AttendanceLog, error)
}

type attendanceServiceImpl struct {
	attendance store.AttendanceStore
	logger     *slog.Logger
}

var _ AttendanceService = (*attendanceServiceImpl)(nil)

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(attendance store.AttendanceStore, logger *slog.Logger) (AttendanceService, error) {
	if attendance == nil {
		return nil, fmt.Errorf("attendance store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &attendanceServiceImpl{
		attendance: attendance,
		logger:     logger.With(slog.String("component", "attendance_service")),
	}, nil
}

// TypeList implements AttendanceService.TypeList
func (s *attendanceServiceImpl) TypeList() []domain.SelectOption {
	return domain.TypeList()
}

// ReasonPriorityList implements AttendanceService.ReasonPriorityList
func (s *attendanceServiceImpl) ReasonPriorityList() []domain.SelectOption {
	return domain.ReasonPriorityList()
}

// Create implements AttendanceService.Create
func (s *attendanceServiceImpl) Create(
	ctx context.Context,
	input CreateAttendanceInput,
) (*domain.AttendanceLog, *domain.AuditEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entry := &domain.AttendanceLog{
		ID:             uuid.New(),
		Type:           input.Type,
		StartDateTime:  input.StartDateTime,
		EndDateTime:    input.EndDateTime,
		Hours:          input.Hours,
		Reason:         input.Reason,
		ReasonPriority: input.ReasonPriority,
		Approver:       input.Approver,
		Callout:        input.Callout,
		ProxyUserID:    input.ProxyUserID,
		ProxyUserName:  input.ProxyUserName,
		Status:         domain.AttendanceStatusPending,
		UserID:         input.UserID,
		UserName:       input.UserName,
		CreatedAt:      time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.attendance.Create(ctx, entry); err != nil {
		log.Error("failed to create attendance log",
			slog.String("error", err.Error()),
			slog.String("user_id", input.UserID.String()))
		return nil, nil, NewServiceError("attendance", "create", "failed to create attendance log", err)
	}

	audit := domain.NewAuditEntry(entry.ID, domain.AuditActionCreate, input.UserName)
	if err := s.attendance.AppendAudit(ctx, audit); err != nil {
		log.Error("attendance log stored without audit entry",
			slog.String("error", err.Error()),
			slog.String("attendance_id", entry.ID.String()))
		return entry, nil, NewServiceError("attendance", "create", "failed to write audit entry", err)
	}

	log.Info("attendance log created",
		slog.String("attendance_id", entry.ID.String()),
		slog.String("type", entry.Type.String()),
		slog.String("user_id", entry.UserID.String()))

	return entry, audit, nil
}

// Get implements AttendanceService.Get
func (s *attendanceServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.AttendanceLog, error) {
	entry, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("attendance", "get", "failed to load attendance log", err)
	}
	return entry, nil
}

// ListForUser implements AttendanceService.ListForUser
func (s *attendanceServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AttendanceLog, error) {
	logs, err := s.attendance.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("attendance", "list_for_user", "failed to list attendance logs", err)
	}
	return logs, nil
}

// ListRange implements AttendanceService.ListRange
func (s *attendanceServiceImpl) ListRange(ctx context.Context, from, to time.Time) ([]*domain.AttendanceLog, error) {
	if !to.After(from) {
		return nil, domain.NewValidationError("to", "must be after from", nil)
	}
	logs, err := s.attendance.ListRange(ctx, from, to)
	if err != nil {
		return nil, NewServiceError("attendance", "list_range", "failed to list attendance logs", err)
	}
	return logs, nil
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttendanceType identifies the kind of attendance request.
type AttendanceType int

// Attendance types. The numeric values are persisted and must not change.
const (
	SickLeave AttendanceType = iota + 1
	PersonalLeave
	Overtime
	AnnualLeave
	RemoteWork
	MenstrualLeave
	BereavementLeave
	OfficialLeave
	MarriageLeave
	MaternityLeave
	PaternityLeave
)

var attendanceTypeNames = []string{
	"SickLeave",
	"PersonalLeave",
	"Overtime",
	"AnnualLeave",
	"RemoteWork",
	"MenstrualLeave",
	"BereavementLeave",
	"OfficialLeave",
	"MarriageLeave",
	"MaternityLeave",
	"PaternityLeave",
}

// String returns the member name, or "" for unknown values.
func (t AttendanceType) String() string {
	if !t.Valid() {
		return ""
	}
	return attendanceTypeNames[t-1]
}

// Valid reports whether t is a known attendance type.
func (t AttendanceType) Valid() bool {
	return t >= SickLeave && int(t) <= len(attendanceTypeNames)
}

// ReasonPriority ranks the reason given for overtime and similar requests.
type ReasonPriority int

// Reason priorities. The numeric values are persisted and must not change.
const (
	OnlineDisaster ReasonPriority = iota + 1
	UnscheduledTask
	UrgentRoutine
	Compensatory
	Creative
)

var reasonPriorityNames = []string{
	"OnlineDisaster",
	"UnscheduledTask",
	"UrgentRoutine",
	"Compensatory",
	"Creative",
}

// String returns the member name, or "" for unknown values.
func (p ReasonPriority) String() string {
	if !p.Valid() {
		return ""
	}
	return reasonPriorityNames[p-1]
}

// Valid reports whether p is a known priority.
func (p ReasonPriority) Valid() bool {
	return p >= OnlineDisaster && int(p) <= len(reasonPriorityNames)
}

// SelectOption is a value/label pair suitable for a form select box.
type SelectOption struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// TypeList returns one option per attendance type, in value order.
func TypeList() []SelectOption {
	return selectOptions(attendanceTypeNames)
}

// ReasonPriorityList returns one option per reason priority, in value order.
func ReasonPriorityList() []SelectOption {
	return selectOptions(reasonPriorityNames)
}

func selectOptions(names []string) []SelectOption {
	opts := make([]SelectOption, len(names))
	for i, name := range names {
		opts[i] = SelectOption{Text: name, Value: i + 1}
	}
	return opts
}

// AttendanceStatus is the approval state of an attendance log.
type AttendanceStatus string

const (
	AttendanceStatusPending  AttendanceStatus = "pending"
	AttendanceStatusApproved AttendanceStatus = "approved"
	AttendanceStatusRejected AttendanceStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPending, AttendanceStatusApproved, AttendanceStatusRejected:
		return true
	}
	return false
}

// AuditAction is the kind of change recorded in an audit trail.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditEntry records who performed an action on an attendance log and when.
// ActionDateTime is assigned by the database on insert.
type AuditEntry struct {
	ID             uuid.UUID   `json:"id"`
	AttendanceID   uuid.UUID   `json:"attendance_id"`
	Action         AuditAction `json:"action"`
	ActionBy       string      `json:"action_by"`
	ActionDateTime time.Time   `json:"action_date_time"`
}

// NewAuditEntry creates an entry for the given attendance log.
func NewAuditEntry(attendanceID uuid.UUID, action AuditAction, actionBy string) *AuditEntry {
	return &AuditEntry{
		ID:           uuid.New(),
		AttendanceID: attendanceID,
		Action:       action,
		ActionBy:     actionBy,
	}
}

// AttendanceLog is a leave, overtime or remote-work request.
type AttendanceLog struct {
	ID             uuid.UUID        `json:"id"`
	Type           AttendanceType   `json:"type"`
	StartDateTime  time.Time        `json:"start_date_time"`
	EndDateTime    time.Time        `json:"end_date_time"`
	Hours          float64          `json:"hours"`
	Reason         string           `json:"reason"`
	ReasonPriority *ReasonPriority  `json:"reason_priority,omitempty"`
	Approver       string           `json:"approver,omitempty"`
	Callout        string           `json:"callout,omitempty"`
	ProxyUserID    string           `json:"proxy_user_id,omitempty"`
	ProxyUserName  string           `json:"proxy_user_name,omitempty"`
	Status         AttendanceStatus `json:"status"`
	UserID         uuid.UUID        `json:"user_id"`
	UserName       string           `json:"user_name"`
	CreatedAt      time.Time        `json:"created_at"`
	AuditTrail     []AuditEntry     `json:"audit_trail,omitempty"`
}

// Validate checks the fields a new or stored log must satisfy.
// Overlapping ranges and leave balances are deliberately not checked here.
func (a *AttendanceLog) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if !a.Type.Valid() {
		return NewValidationError("type", "is not a known attendance type", nil)
	}
	if a.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(a.UserName) == "" {
		return NewValidationError("user_name", "cannot be empty", nil)
	}
	if strings.TrimSpace(a.Reason) == "" {
		return NewValidationError("reason", "cannot be empty", nil)
	}
	if a.StartDateTime.IsZero() || a.EndDateTime.IsZero() {
		return NewValidationError("start_date_time", "and end_date_time are required", nil)
	}
	if a.EndDateTime.Before(a.StartDateTime) {
		return NewValidationError("end_date_time", "cannot be before start_date_time", nil)
	}
	if a.Hours < 0 {
		return NewValidationError("hours", "cannot be negative", nil)
	}
	if a.ReasonPriority != nil && !a.ReasonPriority.Valid() {
		return NewValidationError("reason_priority", "is not a known priority", nil)
	}
	if !a.Status.Valid() {
		return NewValidationError("status", "is not a known status", nil)
	}
	return nil
}

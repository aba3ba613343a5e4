package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Password length bounds. 72 is bcrypt's input limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

var validate = validator.New()

// Role is a user's authorization level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RemoteWorkEligibility is how much remote work a user may request per week.
type RemoteWorkEligibility string

const (
	RemoteWorkNone     RemoteWorkEligibility = "N/A"
	RemoteWorkTwo      RemoteWorkEligibility = "WFH2"
	RemoteWorkFourHalf RemoteWorkEligibility = "WFH4.5"
)

// Valid reports whether e is a known eligibility level.
func (e RemoteWorkEligibility) Valid() bool {
	switch e {
	case RemoteWorkNone, RemoteWorkTwo, RemoteWorkFourHalf:
		return true
	}
	return false
}

// LeaveTransactionType tells whether hours were added to or deducted from a balance.
type LeaveTransactionType string

const (
	LeaveAdd    LeaveTransactionType = "add"
	LeaveDeduct LeaveTransactionType = "deduct"
)

// LeaveTransaction is one entry in a user's leave balance history.
type LeaveTransaction struct {
	ActionBy string               `json:"action_by,omitempty"`
	Date     time.Time            `json:"date"`
	Hours    float64              `json:"hours"`
	Reason   string               `json:"reason,omitempty"`
	Type     LeaveTransactionType `json:"type"`
}

// User is an employee account. Credentials live separately in Credential.
type User struct {
	ID                      uuid.UUID             `json:"uid"`
	Email                   string                `json:"email"`
	Name                    string                `json:"name"`
	Phone                   string                `json:"phone,omitempty"`
	Photo                   string                `json:"photo,omitempty"`
	Birthday                *time.Time            `json:"birthday,omitempty"`
	JobRank                 string                `json:"job_rank,omitempty"`
	JobTitle                string                `json:"job_title,omitempty"`
	StartDate               *time.Time            `json:"start_date,omitempty"`
	Role                    Role                  `json:"role"`
	RemainingLeaveHours     float64               `json:"remaining_leave_hours"`
	LeaveTransactionHistory []LeaveTransaction    `json:"leave_transaction_history,omitempty"`
	RemoteWorkEligibility   RemoteWorkEligibility `json:"remote_work_eligibility"`
	RemoteWorkRecommender   []string              `json:"remote_work_recommender"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
}

// NewUser creates a user with the account defaults: no leave hours,
// no remote work eligibility, no recommenders and the plain user role.
func NewUser(email, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:                    uuid.New(),
		Email:                 strings.TrimSpace(email),
		Name:                  strings.TrimSpace(name),
		Role:                  RoleUser,
		RemainingLeaveHours:   0,
		RemoteWorkEligibility: RemoteWorkNone,
		RemoteWorkRecommender: []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("uid", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if !u.Role.Valid() {
		return NewValidationError("role", "must be admin or user", nil)
	}
	if !u.RemoteWorkEligibility.Valid() {
		return NewValidationError("remote_work_eligibility", "must be N/A, WFH2 or WFH4.5", nil)
	}
	return nil
}

// ValidateEmail checks that email is present and well formed.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", "is too short", ErrInvalidPassword)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "is too long", ErrInvalidPassword)
	}
	return nil
}

// ProfileUpdate carries the fields a user may change on their own profile.
type ProfileUpdate struct {
	ID                    uuid.UUID
	Name                  string
	Phone                 string
	RemoteWorkEligibility RemoteWorkEligibility
	RemoteWorkRecommender []string
	Birthday              *time.Time
}

// Validate checks the profile fields.
func (p *ProfileUpdate) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("uid", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if !p.RemoteWorkEligibility.Valid() {
		return NewValidationError("remote_work_eligibility", "must be N/A, WFH2 or WFH4.5", nil)
	}
	return nil
}

// EmploymentUpdate carries the administrator-only employment fields.
type EmploymentUpdate struct {
	ID        uuid.UUID
	JobRank   string
	JobTitle  string
	Role      Role
	StartDate *time.Time
}

// Validate checks the employment fields.
func (e *EmploymentUpdate) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("uid", "cannot be empty", ErrInvalidID)
	}
	if !e.Role.Valid() {
		return NewValidationError("role", "must be admin or user", nil)
	}
	return nil
}

// Credential is the sign-in secret for a user account.
type Credential struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/service"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the access token expiry in RFC 3339 format.
	ExpiresAt string `json:"expires_at"`
}

// CreateAttendanceRequest is the body of POST /api/attendance. The
// requesting user is taken from the access token.
type CreateAttendanceRequest struct {
	Type           int       `json:"type"            validate:"required,min=1,max=11"`
	StartDateTime  time.Time `json:"start_date_time" validate:"required"`
	EndDateTime    time.Time `json:"end_date_time"   validate:"required,gtefield=StartDateTime"`
	Hours          float64   `json:"hours"           validate:"gte=0"`
	Reason         string    `json:"reason"          validate:"required,max=2000"`
	ReasonPriority *int      `json:"reason_priority" validate:"omitempty,min=1,max=5"`
	Approver       string    `json:"approver"        validate:"max=200"`
	Callout        string    `json:"callout"         validate:"max=2000"`
	ProxyUserID    string    `json:"proxy_user_id"   validate:"max=200"`
	ProxyUserName  string    `json:"proxy_user_name" validate:"max=200"`
}

// CreateAttendanceResponse carries the stored log and its audit entry.
type CreateAttendanceResponse struct {
	Attendance *domain.AttendanceLog `json:"attendance"`
	Audit      *domain.AuditEntry    `json:"audit"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"     validate:"required,max=200"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
type UpdateUserRequest struct {
	Name                  string     `json:"name"                    validate:"required,max=200"`
	Phone                 string     `json:"phone"                   validate:"max=50"`
	RemoteWorkEligibility string     `json:"remote_work_eligibility" validate:"required,oneof=N/A WFH2 WFH4.5"`
	RemoteWorkRecommender []string   `json:"remote_work_recommender" validate:"max=20,dive,max=200"`
	Birthday              *time.Time `json:"birthday"`
}

// UpdateUserAdvancedRequest is the body of PUT /api/users/{id}/advanced.
type UpdateUserAdvancedRequest struct {
	JobRank   string     `json:"job_rank"   validate:"max=100"`
	JobTitle  string     `json:"job_title"  validate:"max=100"`
	Role      string     `json:"role"       validate:"required,oneof=admin user"`
	StartDate *time.Time `json:"start_date"`
}

// MeResponse is the current user with the derived admin flag.
type MeResponse struct {
	*domain.User
	IsAdmin bool `json:"is_admin"`
}

func (r CreateAttendanceRequest) toInput(userID uuid.UUID, userName string) service.CreateAttendanceInput {
	var priority *domain.ReasonPriority
	if r.ReasonPriority != nil {
		p := domain.ReasonPriority(*r.ReasonPriority)
		priority = &p
	}
	return service.CreateAttendanceInput{
		Type:           domain.AttendanceType(r.Type),
		StartDateTime:  r.StartDateTime,
		EndDateTime:    r.EndDateTime,
		Hours:          r.Hours,
		Reason:         r.Reason,
		ReasonPriority: priority,
		Approver:       r.Approver,
		Callout:        r.Callout,
		ProxyUserID:    r.ProxyUserID,
		ProxyUserName:  r.ProxyUserName,
		UserID:         userID,
		UserName:       userName,
	}
}

func (r UpdateUserRequest) toUpdate(id uuid.UUID) *domain.ProfileUpdate {
	recommender := r.RemoteWorkRecommender
	if recommender == nil {
		recommender = []string{}
	}
	return &domain.ProfileUpdate{
		ID:                    id,
		Name:                  r.Name,
		Phone:                 r.Phone,
		RemoteWorkEligibility: domain.RemoteWorkEligibility(r.RemoteWorkEligibility),
		RemoteWorkRecommender: recommender,
		Birthday:              r.Birthday,
	}
}

func (r UpdateUserAdvancedRequest) toUpdate(id uuid.UUID) *domain.EmploymentUpdate {
	return &domain.EmploymentUpdate{
		ID:        id,
		JobRank:   r.JobRank,
		JobTitle:  r.JobTitle,
		Role:      domain.Role(r.Role),
		StartDate: r.StartDate,
	}
}

package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/phrazzld/attendance-api/internal/store"
)

// Common service errors. Callers check them with errors.Is.
var (
	// ErrEmailExists is returned when an account already uses the email.
	// API layer should map this to HTTP 409 Conflict.
	ErrEmailExists = errors.New("Email already exists")

	// ErrSeatLimitReached is returned when the license has no free seat.
	// API layer should map this to HTTP 403 Forbidden.
	ErrSeatLimitReached = errors.New(
		"The maximum number of users has been reached. Please contact your administrator.",
	)

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = auth.ErrInvalidCredentials

	// ErrForbidden is returned when the caller may not act on the target.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("operation not permitted")

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAttendanceNotFound indicates that the attendance log does not exist.
	ErrAttendanceNotFound = errors.New("attendance log not found")
)

// ServiceError wraps unexpected errors with the operation that failed.
type ServiceError struct {
	// Service is the service name, e.g. "user" or "attendance"
	Service string
	// Operation is the operation that failed, e.g. "create_user"
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError. Sentinel conditions, including
// their store-level equivalents, are returned directly without wrapping.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrEmailExists), errors.Is(err, store.ErrEmailExists):
		return ErrEmailExists
	case errors.Is(err, ErrSeatLimitReached):
		return ErrSeatLimitReached
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	case errors.Is(err, ErrUserNotFound), errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrAttendanceNotFound), errors.Is(err, store.ErrAttendanceNotFound):
		return ErrAttendanceNotFound
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

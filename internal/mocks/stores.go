package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// UserStore is a testify mock of store.UserStore.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsByEmail is a mock implementation of store.UserStore.ExistsByEmail
func (m *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// List is a mock implementation of store.UserStore.List
func (m *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

// Count is a mock implementation of store.UserStore.Count
func (m *UserStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// UpdateProfile is a mock implementation of store.UserStore.UpdateProfile
func (m *UserStore) UpdateProfile(ctx context.Context, update *domain.ProfileUpdate) error {
	return m.Called(ctx, update).Error(0)
}

// UpdateEmployment is a mock implementation of store.UserStore.UpdateEmployment
func (m *UserStore) UpdateEmployment(ctx context.Context, update *domain.EmploymentUpdate) error {
	return m.Called(ctx, update).Error(0)
}

// WithTx returns the mock itself.
func (m *UserStore) WithTx(*sql.Tx) store.UserStore { return m }

// CredentialStore is a testify mock of store.CredentialStore.
type CredentialStore struct {
	mock.Mock
}

var _ store.CredentialStore = (*CredentialStore)(nil)

// Create is a mock implementation of store.CredentialStore.Create
func (m *CredentialStore) Create(ctx context.Context, cred *domain.Credential) error {
	return m.Called(ctx, cred).Error(0)
}

// GetByEmail is a mock implementation of store.CredentialStore.GetByEmail
func (m *CredentialStore) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	args := m.Called(ctx, email)
	if cred, ok := args.Get(0).(*domain.Credential); ok {
		return cred, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself.
func (m *CredentialStore) WithTx(*sql.Tx) store.CredentialStore { return m }

// LicenseStore is a testify mock of store.LicenseStore.
type LicenseStore struct {
	mock.Mock
}

var _ store.LicenseStore = (*LicenseStore)(nil)

// GetForUpdate is a mock implementation of store.LicenseStore.GetForUpdate
func (m *LicenseStore) GetForUpdate(ctx context.Context) (*domain.License, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).(*domain.License); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

// SetCurrentUsers is a mock implementation of store.LicenseStore.SetCurrentUsers
func (m *LicenseStore) SetCurrentUsers(ctx context.Context, currentUsers int) error {
	return m.Called(ctx, currentUsers).Error(0)
}

// WithTx returns the mock itself.
func (m *LicenseStore) WithTx(*sql.Tx) store.LicenseStore { return m }

// AttendanceStore is a testify mock of store.AttendanceStore.
type AttendanceStore struct {
	mock.Mock
}

var _ store.AttendanceStore = (*AttendanceStore)(nil)

// Create is a mock implementation of store.AttendanceStore.Create
func (m *AttendanceStore) Create(ctx context.Context, log *domain.AttendanceLog) error {
	return m.Called(ctx, log).Error(0)
}

// AppendAudit is a mock implementation of store.AttendanceStore.AppendAudit
func (m *AttendanceStore) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// GetByID is a mock implementation of store.AttendanceStore.GetByID
func (m *AttendanceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceLog, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*domain.AttendanceLog); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByUser is a mock implementation of store.AttendanceStore.ListByUser
func (m *AttendanceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AttendanceLog, error) {
	args := m.Called(ctx, userID)
	if logs, ok := args.Get(0).([]*domain.AttendanceLog); ok {
		return logs, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListRange is a mock implementation of store.AttendanceStore.ListRange
func (m *AttendanceStore) ListRange(ctx context.Context, from, to time.Time) ([]*domain.AttendanceLog, error) {
	args := m.Called(ctx, from, to)
	if logs, ok := args.Get(0).([]*domain.AttendanceLog); ok {
		return logs, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself.
func (m *AttendanceStore) WithTx(*sql.Tx) store.AttendanceStore { return m }

// Transactor runs functions without a database. It passes a nil *sql.Tx,
// which the store mocks ignore.
type Transactor struct {
	// Calls counts RunInTx invocations.
	Calls int
	// BeginErr, when set, is returned without running fn.
	BeginErr error
	// RolledBack reports whether the last fn returned an error.
	RolledBack bool
}

var _ store.Transactor = (*Transactor)(nil)

// RunInTx implements store.Transactor.
func (t *Transactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	t.Calls++
	if t.BeginErr != nil {
		return t.BeginErr
	}
	err := fn(ctx, nil)
	t.RolledBack = err != nil
	return err
}

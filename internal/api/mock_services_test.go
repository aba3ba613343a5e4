package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/service"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) RequireSelfOrAdmin(ctx context.Context, actorID, targetID uuid.UUID) error {
	return m.Called(ctx, actorID, targetID).Error(0)
}

func (m *mockUserService) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	args := m.Called(ctx, email, password, name)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, update *domain.ProfileUpdate) error {
	return m.Called(ctx, update).Error(0)
}

func (m *mockUserService) UpdateUserAdvanced(ctx context.Context, update *domain.EmploymentUpdate) error {
	return m.Called(ctx, update).Error(0)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if p, ok := args.Get(0).(*auth.TokenPair); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *mockUserService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if p, ok := args.Get(0).(*auth.TokenPair); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) BootstrapAdmin(ctx context.Context, email, password, name string) (*domain.User, error) {
	args := m.Called(ctx, email, password, name)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAttendanceService struct {
	mock.Mock
}

var _ service.AttendanceService = (*mockAttendanceService)(nil)

func (m *mockAttendanceService) TypeList() []domain.SelectOption {
	return domain.TypeList()
}

func (m *mockAttendanceService) ReasonPriorityList() []domain.SelectOption {
	return domain.ReasonPriorityList()
}

func (m *mockAttendanceService) Create(
	ctx context.Context,
	input service.CreateAttendanceInput,
) (*domain.AttendanceLog, *domain.AuditEntry, error) {
	args := m.Called(ctx, input)
	entry, _ := args.Get(0).(*domain.AttendanceLog)
	audit, _ := args.Get(1).(*domain.AuditEntry)
	return entry, audit, args.Error(2)
}

func (m *mockAttendanceService) Get(ctx context.Context, id uuid.UUID) (*domain.AttendanceLog, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*domain.AttendanceLog); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttendanceService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.AttendanceLog, error) {
	args := m.Called(ctx, userID)
	if logs, ok := args.Get(0).([]*domain.AttendanceLog); ok {
		return logs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttendanceService) ListRange(ctx context.Context, from, to time.Time) ([]*domain.AttendanceLog, error) {
	args := m.Called(ctx, from, to)
	if logs, ok := args.Get(0).([]*domain.AttendanceLog); ok {
		return logs, args.Error(1)
	}
	return nil, args.Error(1)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/service/auth"
	"github.com/phrazzld/attendance-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// IdentityService is a testify mock of auth.IdentityService.
type IdentityService struct {
	mock.Mock
}

var _ auth.IdentityService = (*IdentityService)(nil)

// SignUp is a mock implementation of auth.IdentityService.SignUp
func (m *IdentityService) SignUp(
	ctx context.Context,
	creds store.CredentialStore,
	userID uuid.UUID,
	email, password string,
) error {
	return m.Called(ctx, creds, userID, email, password).Error(0)
}

// SignIn is a mock implementation of auth.IdentityService.SignIn
func (m *IdentityService) SignIn(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if pair, ok := args.Get(0).(*auth.TokenPair); ok {
		return pair, args.Error(1)
	}
	return nil, args.Error(1)
}

// SignOut is a mock implementation of auth.IdentityService.SignOut
func (m *IdentityService) SignOut(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

// Refresh is a mock implementation of auth.IdentityService.Refresh
func (m *IdentityService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if pair, ok := args.Get(0).(*auth.TokenPair); ok {
		return pair, args.Error(1)
	}
	return nil, args.Error(1)
}

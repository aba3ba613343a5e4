package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/service/auth"
)

// StaticJWTService is an auth.JWTService that hands out canned tokens and
// claims. Validation returns Claims unless ValidateErr is set, whatever
// the token string.
type StaticJWTService struct {
	AccessToken  string
	RefreshToken string
	IssueErr     error

	Claims      *auth.Claims
	ValidateErr error

	mu     sync.Mutex
	issued []uuid.UUID
}

var _ auth.JWTService = (*StaticJWTService)(nil)

func (s *StaticJWTService) record(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = append(s.issued, userID)
}

// Issued lists the user IDs tokens were generated for, in order.
func (s *StaticJWTService) Issued() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.issued...)
}

func (s *StaticJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	if s.IssueErr != nil {
		return "", s.IssueErr
	}
	s.record(userID)
	return s.AccessToken, nil
}

func (s *StaticJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	if s.IssueErr != nil {
		return "", s.IssueErr
	}
	s.record(userID)
	return s.RefreshToken, nil
}

func (s *StaticJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return s.validate(auth.TokenTypeAccess)
}

func (s *StaticJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return s.validate(auth.TokenTypeRefresh)
}

func (s *StaticJWTService) validate(want string) (*auth.Claims, error) {
	if s.ValidateErr != nil {
		return nil, s.ValidateErr
	}
	if s.Claims != nil && s.Claims.TokenType != "" && s.Claims.TokenType != want {
		return nil, auth.ErrWrongTokenType
	}
	return s.Claims, nil
}

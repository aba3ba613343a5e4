package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/store"
)

// TokenPair is what a successful sign-in or refresh returns.
type TokenPair struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IdentityService owns credentials and session tokens. It stands in for a
// hosted identity provider: SignUp registers an email and password,
// SignIn exchanges them for tokens and SignOut revokes the access token.
type IdentityService interface {
	// SignUp stores a hashed credential for userID using creds, which may be
	// bound to the caller's transaction.
	SignUp(ctx context.Context, creds store.CredentialStore, userID uuid.UUID, email, password string) error

	// SignIn verifies email and password and issues a token pair.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	SignIn(ctx context.Context, email, password string) (*TokenPair, error)

	// SignOut revokes the access token described by claims.
	SignOut(ctx context.Context, claims *Claims) error

	// Refresh exchanges a refresh token for a new pair and revokes the old one.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type identityService struct {
	credentials store.CredentialStore
	jwt         JWTService
	hasher      PasswordHasher
	verifier    PasswordVerifier
	revoker     TokenRevoker
	logger      *slog.Logger
}

var _ IdentityService = (*identityService)(nil)

// NewIdentityService wires an IdentityService. All dependencies are required.
func NewIdentityService(
	credentials store.CredentialStore,
	jwtService JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	revoker TokenRevoker,
	logger *slog.Logger,
) (IdentityService, error) {
	if credentials == nil {
		return nil, fmt.Errorf("credentials cannot be nil")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("jwtService cannot be nil")
	}
	if hasher == nil || verifier == nil {
		return nil, fmt.Errorf("hasher and verifier cannot be nil")
	}
	if revoker == nil {
		return nil, fmt.Errorf("revoker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &identityService{
		credentials: credentials,
		jwt:         jwtService,
		hasher:      hasher,
		verifier:    verifier,
		revoker:     revoker,
		logger:      logger.With(slog.String("component", "identity_service")),
	}, nil
}

// SignUp implements IdentityService.SignUp
func (s *identityService) SignUp(
	ctx context.Context,
	creds store.CredentialStore,
	userID uuid.UUID,
	email, password string,
) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	return creds.Create(ctx, &domain.Credential{
		UserID:       userID,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
}

// SignIn implements IdentityService.SignIn
func (s *identityService) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cred, err := s.credentials.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrCredentialNotFound) {
			log.Debug("sign-in for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if err := s.verifier.Compare(cred.PasswordHash, password); err != nil {
		log.Debug("sign-in with wrong password", slog.String("user_id", cred.UserID.String()))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}

	log.Info("user signed in", slog.String("user_id", cred.UserID.String()))
	return pair, nil
}

// SignOut implements IdentityService.SignOut
func (s *identityService) SignOut(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user signed out",
		slog.String("user_id", claims.UserID.String()))
	return nil
}

// Refresh implements IdentityService.Refresh
func (s *identityService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// Refresh tokens are single use: only the first caller to claim the
	// jti gets a new pair.
	claimed, err := s.revoker.Claim(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to claim refresh token: %w", err)
	}
	if !claimed {
		return nil, ErrRevokedToken
	}

	return s.issue(ctx, claims.UserID)
}

func (s *identityService) issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	claims, err := s.jwt.ValidateToken(ctx, access)
	if err != nil {
		return nil, fmt.Errorf("failed to read issued token: %w", err)
	}

	return &TokenPair{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt,
	}, nil
}

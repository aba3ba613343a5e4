package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/store"
)

// PostgresCredentialStore implements store.CredentialStore.
type PostgresCredentialStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCredentialStore creates a credential store on db.
func NewPostgresCredentialStore(db store.DBTX, logger *slog.Logger) *PostgresCredentialStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCredentialStore{
		db:     db,
		logger: logger.With(slog.String("component", "credential_store")),
	}
}

var _ store.CredentialStore = (*PostgresCredentialStore)(nil)

// WithTx implements store.CredentialStore.WithTx
func (s *PostgresCredentialStore) WithTx(tx *sql.Tx) store.CredentialStore {
	return &PostgresCredentialStore{db: tx, logger: s.logger}
}

// Create implements store.CredentialStore.Create
func (s *PostgresCredentialStore) Create(ctx context.Context, cred *domain.Credential) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, cred.UserID, cred.Email, cred.PasswordHash, cred.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to create credential",
			slog.String("error", err.Error()),
			slog.String("user_id", cred.UserID.String()))
		return MapError(err, nil)
	}

	log.Debug("credential created", slog.String("user_id", cred.UserID.String()))
	return nil
}

// GetByEmail implements store.CredentialStore.GetByEmail
func (s *PostgresCredentialStore) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM credentials
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&cred.UserID, &cred.Email, &cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		err = MapError(err, store.ErrCredentialNotFound)
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get credential",
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return &cred, nil
}

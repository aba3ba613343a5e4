package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/store"
)

// PostgresLicenseStore implements store.LicenseStore over the single
// system_config_license row.
type PostgresLicenseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLicenseStore creates a license store on db.
func NewPostgresLicenseStore(db store.DBTX, logger *slog.Logger) *PostgresLicenseStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLicenseStore{
		db:     db,
		logger: logger.With(slog.String("component", "license_store")),
	}
}

var _ store.LicenseStore = (*PostgresLicenseStore)(nil)

// WithTx implements store.LicenseStore.WithTx
func (s *PostgresLicenseStore) WithTx(tx *sql.Tx) store.LicenseStore {
	return &PostgresLicenseStore{db: tx, logger: s.logger}
}

// GetForUpdate implements store.LicenseStore.GetForUpdate
func (s *PostgresLicenseStore) GetForUpdate(ctx context.Context) (*domain.License, error) {
	var l domain.License
	err := s.db.QueryRowContext(ctx, `
		SELECT current_users, max_users, last_updated
		FROM system_config_license
		WHERE id = 'license'
		FOR UPDATE
	`).Scan(&l.CurrentUsers, &l.MaxUsers, &l.LastUpdated)
	if err != nil {
		err = MapError(err, store.ErrLicenseNotFound)
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read license",
			slog.String("error", err.Error()))
		return nil, err
	}
	return &l, nil
}

// SetCurrentUsers implements store.LicenseStore.SetCurrentUsers
func (s *PostgresLicenseStore) SetCurrentUsers(ctx context.Context, currentUsers int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE system_config_license
		SET current_users = $1, last_updated = NOW()
		WHERE id = 'license'
	`, currentUsers)
	if err != nil {
		log.Error("failed to update license counter",
			slog.String("error", err.Error()),
			slog.Int("current_users", currentUsers))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrLicenseNotFound); err != nil {
		return err
	}

	log.Info("license counter updated", slog.Int("current_users", currentUsers))
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/store"
)

const userColumns = `id, email, name, phone, photo, birthday, job_rank, job_title, start_date,
	role, remaining_leave_hours, leave_transaction_history, remote_work_eligibility,
	remote_work_recommender, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, the default logger is used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	history, err := jsonArg(user.LeaveTransactionHistory)
	if err != nil {
		return err
	}
	recommenders, err := jsonArg(user.RemoteWorkRecommender)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Phone,
		user.Photo,
		nullTime(user.Birthday),
		user.JobRank,
		user.JobTitle,
		nullTime(user.StartDate),
		string(user.Role),
		user.RemainingLeaveHours,
		history,
		string(user.RemoteWorkEligibility),
		recommenders,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate email on user create",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err, nil)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		err = MapError(err, store.ErrUserNotFound)
		if store.IsNotFoundError(err) {
			log.Debug("user not found", slog.String("user_id", id.String()))
		} else {
			log.Error("failed to get user by ID",
				slog.String("error", err.Error()),
				slog.String("user_id", id.String()))
		}
		return nil, err
	}
	return user, nil
}

// ExistsByEmail implements store.UserStore.ExistsByEmail
func (s *PostgresUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check email",
			slog.String("error", err.Error()))
		return false, MapError(err, nil)
	}
	return exists, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, email`)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating user rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed users", slog.Int("count", len(users)))
	return users, nil
}

// Count implements store.UserStore.Count
func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, MapError(err, nil)
	}
	return n, nil
}

// UpdateProfile implements store.UserStore.UpdateProfile
func (s *PostgresUserStore) UpdateProfile(ctx context.Context, update *domain.ProfileUpdate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	recommenders, err := jsonArg(update.RemoteWorkRecommender)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, phone = $2, remote_work_eligibility = $3,
			remote_work_recommender = $4, birthday = $5, updated_at = $6
		WHERE id = $7
	`,
		update.Name,
		update.Phone,
		string(update.RemoteWorkEligibility),
		recommenders,
		nullTime(update.Birthday),
		time.Now().UTC(),
		update.ID,
	)
	if err != nil {
		log.Error("failed to update user profile",
			slog.String("error", err.Error()),
			slog.String("user_id", update.ID.String()))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user profile updated", slog.String("user_id", update.ID.String()))
	return nil
}

// UpdateEmployment implements store.UserStore.UpdateEmployment
func (s *PostgresUserStore) UpdateEmployment(ctx context.Context, update *domain.EmploymentUpdate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET job_rank = $1, job_title = $2, role = $3, start_date = $4, updated_at = $5
		WHERE id = $6
	`,
		update.JobRank,
		update.JobTitle,
		string(update.Role),
		nullTime(update.StartDate),
		time.Now().UTC(),
		update.ID,
	)
	if err != nil {
		log.Error("failed to update user employment",
			slog.String("error", err.Error()),
			slog.String("user_id", update.ID.String()))
		return MapError(err, nil)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Info("user employment updated",
		slog.String("user_id", update.ID.String()),
		slog.String("role", string(update.Role)))
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u            domain.User
		birthday     sql.NullTime
		startDate    sql.NullTime
		role         string
		eligibility  string
		history      []byte
		recommenders []byte
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Phone,
		&u.Photo,
		&birthday,
		&u.JobRank,
		&u.JobTitle,
		&startDate,
		&role,
		&u.RemainingLeaveHours,
		&history,
		&eligibility,
		&recommenders,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Birthday = timePtr(birthday)
	u.StartDate = timePtr(startDate)
	u.Role = domain.Role(role)
	u.RemoteWorkEligibility = domain.RemoteWorkEligibility(eligibility)

	if u.LeaveTransactionHistory, err = jsonColumn[domain.LeaveTransaction](history); err != nil {
		return nil, err
	}
	if u.RemoteWorkRecommender, err = jsonColumn[string](recommenders); err != nil {
		return nil, err
	}
	return &u, nil
}

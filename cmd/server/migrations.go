package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/attendance-api/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// Migration commands accepted by -migrate.
const (
	migrateUp      = "up"
	migrateDown    = "down"
	migrateStatus  = "status"
	migrateVersion = "version"
	migrateCreate  = "create"
)

// migrationsSourceDir is where -migrate=create writes new files, relative
// to the repository root.
var migrationsSourceDir = filepath.Join("internal", "platform", "postgres", postgres.MigrationsDir)

// slogGooseLogger routes goose output through slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

func configureGoose(logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{logger: logger.With("component", "migrations")})
	goose.SetTableName(postgres.MigrationTableName)
	return goose.SetDialect("postgres")
}

// runMigrations executes an up, down, status or version command against
// the embedded migrations.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if err := configureGoose(logger); err != nil {
		return fmt.Errorf("failed to configure goose: %w", err)
	}
	goose.SetBaseFS(postgres.Migrations)
	defer goose.SetBaseFS(nil)

	logger.Info("running migration command", "command", command)

	var err error
	switch command {
	case migrateUp:
		err = goose.UpContext(ctx, db, postgres.MigrationsDir)
	case migrateDown:
		err = goose.DownContext(ctx, db, postgres.MigrationsDir)
	case migrateStatus:
		err = goose.StatusContext(ctx, db, postgres.MigrationsDir)
	case migrateVersion:
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			logger.Info("current migration version", "version", version)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("migration command completed", "command", command)
	return nil
}

// createMigration writes a new SQL migration file into the source tree.
// It needs no database connection.
func createMigration(name string, logger *slog.Logger) error {
	if name == "" {
		return fmt.Errorf("-name is required with -migrate=%s", migrateCreate)
	}
	if err := configureGoose(logger); err != nil {
		return fmt.Errorf("failed to configure goose: %w", err)
	}
	goose.SetBaseFS(nil)

	if err := goose.Create(nil, migrationsSourceDir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration %q: %w", name, err)
	}
	return nil
}

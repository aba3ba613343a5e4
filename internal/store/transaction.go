package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/attendance-api/internal/platform/logger"
)

// TxFn is the body of a transaction. Returning an error rolls it back.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// Transactor runs a TxFn inside one database transaction. The user
// service claims a license seat and writes the credential and user
// through it.
type Transactor interface {
	RunInTx(ctx context.Context, fn TxFn) error
}

// SQLTransactor is the Transactor backed by a *sql.DB.
type SQLTransactor struct {
	db *sql.DB
}

var _ Transactor = (*SQLTransactor)(nil)

// NewSQLTransactor wraps db. Transactions use the driver's default
// isolation level; the license row is locked explicitly.
func NewSQLTransactor(db *sql.DB) *SQLTransactor {
	return &SQLTransactor{db: db}
}

// RunInTx implements Transactor. It commits when fn returns nil and rolls
// back on an error or panic; panics are re-raised.
func (t *SQLTransactor) RunInTx(ctx context.Context, fn TxFn) error {
	return runTx(ctx, t.db, fn)
}

func runTx(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContext(ctx).With("component", "transaction")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("begin failed", "error", err)
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback after panic failed", "error", rbErr, "panic", p)
		} else {
			log.Error("rolled back after panic", "panic", p)
		}
		panic(p)
	}()

	if fnErr := fn(ctx, tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback failed", "error", rbErr, "cause", fnErr)
			return errors.Join(fnErr, fmt.Errorf("rollback: %w", rbErr))
		}
		log.Debug("rolled back", "cause", fnErr)
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", "error", err)
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}
	log.Debug("committed")
	return nil
}

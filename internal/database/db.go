package database

import (
	"context"
	"errors"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError translates driver errors into the service's sentinel
// errors so repositories never leak pg error codes upward.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation, e.g. a second secret row per user
			return models.ErrConflict
		case "23502", "23503", "23514": // null, fk, and check violations
			return models.ErrBadRequest
		}
	}

	return err
}

// WithTransaction runs fn inside a transaction, rolling back on error or
// panic. The OTP supersession path leans on this to make delete-then-insert
// atomic.
func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

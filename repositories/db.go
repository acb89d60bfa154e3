package repositories

import (
	"context"
	"errors"
	"fmt"

	"food-order/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so the same
// statements run inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	pgUndefinedTable   = "42P01"
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgForeignKeyFailed = "23503"
	pgNumericRange     = "22003"
	pgInvalidText      = "22P02"
)

// storeError maps driver errors onto the models error kinds.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s: table does not exist: %s", models.ErrStoreUnavailable, op, pgErr.Message)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: duplicate value for %s", models.ErrInvalidArgument, op, pgErr.ConstraintName)
		case pgCheckViolation, pgForeignKeyFailed:
			return fmt.Errorf("%w: %s: %s", models.ErrInvalidArgument, op, pgErr.Message)
		case pgNumericRange, pgInvalidText:
			return fmt.Errorf("%w: %s: value out of range", models.ErrInvalidArgument, op)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	// Anything else out of pgx is a connection or protocol failure.
	return fmt.Errorf("%w: %s: %w", models.ErrStoreUnavailable, op, err)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/homeledger/internal/domain"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgErrForeignKeyViolation = "23503"
	pgErrCheckViolation      = "23514"
	pgErrTooManyConnections  = "53300"
	pgErrAdminShutdown       = "57P01"
	pgErrCannotConnectNow    = "57P03"
)

var errForeignTx = errors.New("postgres: transaction was not started by this store")

// mapError translates driver errors into domain errors. Connection
// failures and timeouts become domain.ErrStoreUnavailable, keeping the cause.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if isUnavailable(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, pgErr.Detail)
		case pgErrCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrEmptyRow, pgErr.ConstraintName)
		}
	}

	return err
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return true
		case pgErr.Code == pgErrTooManyConnections, pgErr.Code == pgErrAdminShutdown, pgErr.Code == pgErrCannotConnectNow:
			return true
		}
	}

	return false
}

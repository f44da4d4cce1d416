package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/intellisql/intellisql/internal/errs"
)

// SQLSTATE codes relevant to query classification.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := errs.ErrKindQueryFailed
		switch {
		case pgErr.Code == codeUndefinedTable:
			kind = errs.ErrKindMissingTable
		case pgErr.Code == codeUndefinedColumn:
			kind = errs.ErrKindMissingColumn
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08": // class 08, connection errors
			kind = errs.ErrKindConnectionFailed
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/intellisql/intellisql/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errBadFieldError   = 1054 // unknown column
	errParseError      = 1064
	errNoSuchTable     = 1146
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errConnRefused     = 2003
	errTooManyConns    = 1040
)

// mapError translates go-sql-driver/mysql native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifyCode maps MySQL error numbers to ErrKind.
func classifyCode(code uint16) errs.ErrKind {
	switch code {
	case errNoSuchTable:
		return errs.ErrKindMissingTable
	case errBadFieldError:
		return errs.ErrKindMissingColumn
	case errAccessDenied:
		return errs.ErrKindPermissionDenied
	case errUnknownDatabase, errConnRefused, errTooManyConns:
		return errs.ErrKindConnectionFailed
	case errParseError:
		return errs.ErrKindQueryFailed
	default:
		return errs.ErrKindQueryFailed
	}
}

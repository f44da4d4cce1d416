package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/intellisql/intellisql/internal/errs"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// mapError translates a sqlite3 native error into a *errs.Error.
// The missing-table and missing-column sub-kinds are detected from the
// engine's error text; SQLite exposes no structured code for them.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "no such table"):
		return errs.Wrap(errs.ErrKindMissingTable, msg, err)
	case strings.Contains(text, "no such column"):
		return errs.Wrap(errs.ErrKindMissingColumn, msg, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
			return errs.Wrap(errs.ErrKindSchemaAccess, msg, err)
		case sqlite3.ErrPerm, sqlite3.ErrAuth:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case sqlite3.ErrCantOpen:
			return errs.Wrap(errs.ErrKindSchemaAccess, msg, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		}
		return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// Package errs provides the unified error type used across all of IntelliSQL.
//
// Every subsystem (database, llm, session, server, …) wraps its native errors
// into *errs.Error before returning them to callers. Callers use the Is*
// predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindSchemaAccess, "cannot read catalog", sqliteErr)
//
//	// In a handler, check the error kind:
//	if errs.IsInvalidQuery(err) {
//	    http.Error(w, "rephrase your question", http.StatusBadRequest)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All backends (SQLite, Postgres, MySQL, MinIO, the completion service, …)
// map their native errors to one of these kinds, giving callers a single
// consistent API.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no rows, no object, no bucket
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindSchemaAccess             // catalog unreadable: corrupt or non-database file
	ErrKindQueryFailed              // the engine rejected a query at execution time
	ErrKindMissingTable             // query names a table absent from the schema
	ErrKindMissingColumn            // query names a column absent from the schema
	ErrKindInvalidQuery             // generated text is not a read-only query
	ErrKindCompletion               // the external completion call failed
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // access denied / auth failure
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindSchemaAccess:
		return "schema_access"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindMissingTable:
		return "missing_table"
	case ErrKindMissingColumn:
		return "missing_column"
	case ErrKindInvalidQuery:
		return "invalid_query"
	case ErrKindCompletion:
		return "completion_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all IntelliSQL subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result
// (no rows, missing object, unknown bucket, …).
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsSchemaAccess reports whether err means the attached file's catalog could
// not be read (corrupt file, not a database, permission denied).
func IsSchemaAccess(err error) bool {
	return KindOf(err) == ErrKindSchemaAccess
}

// IsQueryFailed reports whether err is an execution-time query failure of any
// sub-kind (generic, missing table, missing column).
func IsQueryFailed(err error) bool {
	k := KindOf(err)
	return k == ErrKindQueryFailed || k == ErrKindMissingTable || k == ErrKindMissingColumn
}

// IsMissingTable reports whether err means the query named an unknown table.
func IsMissingTable(err error) bool {
	return KindOf(err) == ErrKindMissingTable
}

// IsMissingColumn reports whether err means the query named an unknown column.
func IsMissingColumn(err error) bool {
	return KindOf(err) == ErrKindMissingColumn
}

// IsInvalidQuery reports whether err means the generated text failed the
// read-only validation gate and was never executed.
func IsInvalidQuery(err error) bool {
	return KindOf(err) == ErrKindInvalidQuery
}

// IsCompletion reports whether err is a failure of the external completion call.
func IsCompletion(err error) bool {
	return KindOf(err) == ErrKindCompletion
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

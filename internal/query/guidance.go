package query

import "github.com/intellisql/intellisql/internal/errs"

// Guidance maps a typed failure to the message shown to the user. The
// missing-table and missing-column cases get pointed advice; everything
// else gets a generic description of its kind.
func Guidance(err error) string {
	switch errs.KindOf(err) {
	case errs.ErrKindMissingTable:
		return "The table mentioned in the query doesn't exist in your database. Please check the table names in the schema."
	case errs.ErrKindMissingColumn:
		return "One or more columns mentioned in the query don't exist. Please check the column names in the schema."
	case errs.ErrKindInvalidQuery:
		return "Invalid SQL generated. Please try rephrasing your question or ensure you're asking for data retrieval."
	case errs.ErrKindSchemaAccess:
		return "The database file could not be read. It may be corrupt or not a database file."
	case errs.ErrKindCompletion:
		return "The SQL generation service could not be reached. Please try again."
	case errs.ErrKindTimeout:
		return "The operation timed out. Please try a simpler query."
	default:
		return "The query could not be executed. Please try rephrasing your question."
	}
}

// Package query validates generated SQL and executes it against an engine,
// handing back a row-capped result set for rendering.
package query

import (
	"strings"

	"github.com/intellisql/intellisql/internal/errs"
)

// Sanitize strips code-fence markers and surrounding whitespace from raw
// completion output and enforces the read-only gate: the remaining text must
// begin with SELECT or WITH, case-insensitive. Anything else is rejected
// before it can reach an engine.
//
// The gate is a prefix check only; it is the floor of validation, not the
// ceiling.
func Sanitize(raw string) (string, error) {
	sql := strings.TrimSpace(raw)
	sql = strings.TrimPrefix(sql, "```sql")
	sql = strings.TrimPrefix(sql, "```SQL")
	sql = strings.TrimPrefix(sql, "```")
	sql = strings.TrimSuffix(sql, "```")
	sql = strings.TrimSpace(sql)

	if sql == "" {
		return "", errs.New(errs.ErrKindInvalidQuery, "generated text is empty")
	}

	lower := strings.ToLower(sql)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return "", errs.New(errs.ErrKindInvalidQuery, "generated text is not a read-only query")
	}

	return sql, nil
}

package query

import (
	"context"

	"github.com/intellisql/intellisql/internal/database"
)

// DefaultMaxRows caps how many rows are handed to a renderer.
const DefaultMaxRows = 1000

// Result is a row-capped query result: ordered column names, at most MaxRows
// rows of cells in matching order, and the true total the query produced.
type Result struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	TotalRows int      `json:"totalRows"`
}

// Truncated reports whether rows were dropped to honor the cap.
func (r *Result) Truncated() bool {
	return r.TotalRows > len(r.Rows)
}

// Execute runs an already-validated read query against db and returns a
// Result holding at most maxRows rows (DefaultMaxRows when maxRows <= 0).
// The result set is always drained so TotalRows reflects the full count,
// and always closed on every path.
func Execute(ctx context.Context, db database.DB, sql string, maxRows int) (*Result, error) {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}

	columns, kept, total, err := database.ScanRows(rows, maxRows)
	if err != nil {
		return nil, err
	}

	return &Result{
		Columns:   columns,
		Rows:      kept,
		TotalRows: total,
	}, nil
}

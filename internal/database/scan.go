package database

import (
	"time"

	"github.com/intellisql/intellisql/internal/errs"
)

// ScanRows drains a result set into ordered rows, keeping at most maxRows of
// them while still counting every row the query produced. maxRows <= 0 means
// unbounded. ScanRows always closes the Rows; callers do not call Close().
//
// Cell order within each row matches the returned column order; values are
// normalized to JSON-friendly Go types (see normalize).
func ScanRows(rows Rows, maxRows int) (columns []string, kept [][]any, total int, err error) {
	defer rows.Close()

	columns, err = rows.Columns()
	if err != nil {
		return nil, nil, 0, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column names", err)
	}

	kept = make([][]any, 0)

	for rows.Next() {
		total++
		if maxRows > 0 && len(kept) >= maxRows {
			continue // keep counting, stop keeping
		}

		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, nil, 0, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan row", err)
		}

		row := make([]any, len(columns))
		for i := range dest {
			row[i] = normalize(dest[i])
		}
		kept = append(kept, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, 0, errs.Wrap(errs.ErrKindQueryFailed, "error during row iteration", err)
	}

	return columns, kept, total, nil
}

// normalize converts driver-native values into plain Go types suitable for
// rendering and JSON encoding. []byte becomes string, timestamps become
// RFC 3339 text, everything else passes through.
func normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}

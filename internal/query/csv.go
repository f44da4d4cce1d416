package query

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/intellisql/intellisql/internal/errs"
)

// WriteCSV writes a result as CSV: one header row of column names, then one
// record per kept row.
func WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(res.Columns); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to write CSV header", err)
	}

	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return errs.Wrap(errs.ErrKindUnknown, "failed to write CSV record", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

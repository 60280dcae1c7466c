package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/wipflags/internal/sheet"
)

// formatCell renders a cell as CSV text. Money is fixed at two decimals,
// rounded half to even like pipeline.Round2.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return decimal.NewFromFloat(x).StringFixedBank(2)
	case *float64:
		if x == nil {
			return ""
		}
		return decimal.NewFromFloat(*x).StringFixedBank(2)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// WriteCSV writes the table with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = formatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. Columns after the first that
// parse as amounts come back as float64; empty cells as nil.
func ReadCSV(r io.Reader, name string) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("reading csv: no header")
	}

	t := Table{Name: name, Headers: records[0], FlagCol: -1}
	for i, h := range t.Headers {
		if h == "Red Flag" {
			t.FlagCol = i
		}
	}
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, s := range rec {
			switch {
			case s == "":
				row[i] = nil
			case i > 0 && i != t.FlagCol && sheet.IsNumeric(s):
				v, _ := sheet.ParseAmount(s)
				row[i] = v
			default:
				row[i] = s
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

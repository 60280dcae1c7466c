package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := newWorkbook(FormatXLSX)
	for _, name := range f.GetSheetList() {
		// Raw values keep month headers as date serials instead of
		// whatever display format the sheet applies.
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		wb.add(name, rows)
	}
	return wb, nil
}

// CellName converts 0-based row/column indexes to an A1 reference.
func CellName(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return name
}

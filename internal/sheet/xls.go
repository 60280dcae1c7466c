package sheet

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

func readXLS(r io.ReadSeeker) (*Workbook, error) {
	book, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	wb := newWorkbook(FormatXLS)
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}

		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for ri := 0; ri <= int(ws.MaxRow); ri++ {
			row := ws.Row(ri)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		wb.add(ws.Name, rows)
	}
	return wb, nil
}

package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/wipflags/internal/model"
)

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

func sheetName(name string, used map[string]bool) string {
	n := strings.TrimSpace(sheetNameReplacer.Replace(name))
	if n == "" {
		n = "Sheet"
	}
	if len(n) > maxSheetName {
		n = n[:maxSheetName]
	}
	base := n
	for i := 2; used[strings.ToLower(n)]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		n = base + suffix
	}
	used[strings.ToLower(n)] = true
	return n
}

// WriteXLSX writes each table to its own sheet. Red-flag cells that crossed
// budget are filled red.
func WriteXLSX(path string, tables ...Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E4D9"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}
	flagStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D14D41"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating flag style: %w", err)
	}

	used := make(map[string]bool)
	for i, t := range tables {
		name := sheetName(t.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %q: %w", name, err)
		}
		if err := writeTable(f, name, t, headerStyle, moneyStyle, flagStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, name string, t Table, headerStyle, moneyStyle, flagStyle int) error {
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if len(t.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for ri, row := range t.Rows {
		for ci, v := range row {
			cellRef, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			switch x := v.(type) {
			case nil:
				continue
			case float64:
				if err := f.SetCellFloat(name, cellRef, x, 2, 64); err != nil {
					return err
				}
				if err := f.SetCellStyle(name, cellRef, cellRef, moneyStyle); err != nil {
					return err
				}
			case int:
				if err := f.SetCellValue(name, cellRef, x); err != nil {
					return err
				}
			default:
				s := formatCell(x)
				if err := f.SetCellStr(name, cellRef, s); err != nil {
					return err
				}
				if ci == t.FlagCol && s != "" && s != model.NoRedFlag {
					if err := f.SetCellStyle(name, cellRef, cellRef, flagStyle); err != nil {
						return err
					}
				}
			}
		}
	}

	for ci := range t.Headers {
		col, _ := excelize.ColumnNumberToName(ci + 1)
		width := 14.0
		if ci == 0 {
			width = 24
		}
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

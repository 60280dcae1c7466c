package sheet

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wipflags/internal/model"
)

// Fixed budget sheet columns. NRE, CR and the quantity column are located
// by header; these are the positional ones.
const (
	colDescription = 0
	colUnit        = 2
	colQtyFallback = 5
)

// headerScanRows bounds the search for the budget header row.
const headerScanRows = 25

// Budget holds one project's budget sheet.
type Budget struct {
	Sheet  string
	Lines  []model.BudgetLine
	Issues []AmountIssue
}

type budgetHeader struct {
	row int
	nre int
	cr  int
	qty int
}

// HasBudget reports whether the workbook carries a budget sheet for project.
func (w *Workbook) HasBudget(project string) bool {
	return w.HasSheet(project)
}

// Budget reads the budget sheet named after project.
func (w *Workbook) Budget(project string) (*Budget, error) {
	name, ok := w.lookup(project)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoBudgetSheet, strings.TrimSpace(project))
	}
	rows := w.sheets[name]

	hdr, err := findBudgetHeader(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}

	out := &Budget{Sheet: name}
	amounts := &amountReader{sheet: name}
	for ri := hdr.row + 1; ri < len(rows); ri++ {
		row := rows[ri]
		desc := cell(row, colDescription)
		nreRaw := cell(row, hdr.nre)
		crRaw := cell(row, hdr.cr)
		qtyRaw := cell(row, hdr.qty)
		if desc == "" && nreRaw == "" && crRaw == "" && qtyRaw == "" {
			continue
		}

		line := model.BudgetLine{
			Row:         ri + 1,
			Description: desc,
			Unit:        cell(row, colUnit),
			NRE:         amounts.read(ri, hdr.nre, nreRaw),
			CR:          amounts.read(ri, hdr.cr, crRaw),
		}
		// A text quantity (a repeated header, a note) is not a kit count.
		if qtyRaw != "" && !IsNumeric(qtyRaw) {
			line.QtyText = true
		} else {
			line.Qty, _ = ParseAmount(qtyRaw)
		}
		out.Lines = append(out.Lines, line)
	}
	out.Issues = amounts.issues
	return out, nil
}

func findBudgetHeader(rows [][]string) (budgetHeader, error) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for ri := 0; ri < limit; ri++ {
		hdr := budgetHeader{row: ri, nre: -1, cr: -1, qty: -1}
		for ci, raw := range rows[ri] {
			h := strings.ToLower(strings.TrimSpace(raw))
			switch {
			case hdr.nre < 0 && h == "nre":
				hdr.nre = ci
			case hdr.cr < 0 && h == "cr":
				hdr.cr = ci
			case hdr.qty < 0 && strings.Contains(h, "qty"):
				hdr.qty = ci
			}
		}
		if hdr.nre < 0 || hdr.cr < 0 {
			continue
		}
		if hdr.qty < 0 {
			hdr.qty = colQtyFallback
		}
		return hdr, nil
	}
	return budgetHeader{}, ErrBudgetLayout
}

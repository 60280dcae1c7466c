package sheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/wipflags/internal/model"
)

// Layout locates the actuals sheet inside a workbook.
type Layout struct {
	ActualsSheet string // matched trimmed and case-insensitive
	SkipRows     int    // rows above the header row
}

// DefaultLayout matches the finance team's "Revenue Actuals" export.
func DefaultLayout() Layout {
	return Layout{
		ActualsSheet: "Revenue Actuals",
		SkipRows:     33,
	}
}

// Actuals holds every row of the actuals sheet.
type Actuals struct {
	Sheet   string
	Months  []time.Time // chronological, shared by every row
	Rows    []model.ActualsRow
	Issues  []AmountIssue // tagged with the project of their row
	Skipped []SkippedHeader
}

// IssuesFor returns the amount issues found on one project's rows.
func (a *Actuals) IssuesFor(project string) []AmountIssue {
	want := strings.TrimSpace(project)
	var out []AmountIssue
	for _, is := range a.Issues {
		if strings.EqualFold(is.Project, want) {
			out = append(out, is)
		}
	}
	return out
}

// Projects returns project ids in sheet order, without duplicates.
func (a *Actuals) Projects() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range a.Rows {
		if _, ok := seen[r.Project]; ok {
			continue
		}
		seen[r.Project] = struct{}{}
		out = append(out, r.Project)
	}
	return out
}

// ForProject returns the rows belonging to one project.
func (a *Actuals) ForProject(project string) []model.ActualsRow {
	want := strings.TrimSpace(project)
	var out []model.ActualsRow
	for _, r := range a.Rows {
		if strings.EqualFold(r.Project, want) {
			out = append(out, r)
		}
	}
	return out
}

// actualsHeader is the resolved column layout of the actuals sheet.
type actualsHeader struct {
	row      int
	project  int
	category int
	total    int
	months   []monthColumn
	rejected []int
}

// Actuals reads the wide-format actuals sheet.
func (w *Workbook) Actuals(layout Layout) (*Actuals, error) {
	name := layout.ActualsSheet
	if name == "" {
		name = DefaultLayout().ActualsSheet
	}
	actual, ok := w.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoActualsSheet, name)
	}
	name = actual
	rows := w.sheets[name]

	hdr, err := findActualsHeader(rows, layout.SkipRows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}

	out := &Actuals{Sheet: name}
	for _, mc := range hdr.months {
		out.Months = append(out.Months, mc.Month)
	}
	for _, col := range hdr.rejected {
		out.Skipped = append(out.Skipped, SkippedHeader{
			Sheet: name,
			Cell:  CellName(hdr.row, col),
			Raw:   strings.TrimSpace(rows[hdr.row][col]),
		})
	}

	amounts := &amountReader{sheet: name}
	var lastProject string
	for ri := hdr.row + 1; ri < len(rows); ri++ {
		row := rows[ri]
		label := cell(row, hdr.category)
		if label == "" {
			continue
		}

		// Merged project cells leave the id on the first row of the block only.
		project := cell(row, hdr.project)
		if project == "" {
			project = lastProject
		}
		if project == "" {
			continue
		}
		lastProject = project

		ar := model.ActualsRow{
			Project: project,
			Label:   label,
			Months:  out.Months,
			Amounts: make([]float64, len(hdr.months)),
		}
		ar.Category, ar.Known = model.ParseCategory(label)

		seen := len(amounts.issues)
		for mi, mc := range hdr.months {
			for _, col := range mc.Cols {
				ar.Amounts[mi] += amounts.read(ri, col, cell(row, col))
			}
		}
		if hdr.total >= 0 {
			if raw := cell(row, hdr.total); raw != "" {
				ar.TotalActivity = amounts.read(ri, hdr.total, raw)
				ar.HasTotal = true
			}
		}
		for i := seen; i < len(amounts.issues); i++ {
			amounts.issues[i].Project = project
		}
		out.Rows = append(out.Rows, ar)
	}
	out.Issues = amounts.issues
	return out, nil
}

// findActualsHeader looks for the header row at or after skip. Exports
// sometimes shift the table by a row or two, so the search continues down
// the sheet until both id columns are found.
func findActualsHeader(rows [][]string, skip int) (actualsHeader, error) {
	if skip < 0 {
		skip = 0
	}
	for ri := skip; ri < len(rows); ri++ {
		hdr := actualsHeader{row: ri, project: -1, category: -1, total: -1}
		skipCols := make(map[int]bool)
		for ci, raw := range rows[ri] {
			h := strings.ToLower(strings.TrimSpace(raw))
			switch {
			case hdr.project < 0 && strings.HasPrefix(h, "project"):
				hdr.project = ci
				skipCols[ci] = true
			case hdr.category < 0 && h == "category":
				hdr.category = ci
				skipCols[ci] = true
			case hdr.total < 0 && h == "total activity":
				hdr.total = ci
				skipCols[ci] = true
			}
		}
		if hdr.project < 0 || hdr.category < 0 {
			continue
		}
		hdr.months, hdr.rejected = monthColumns(rows[ri], skipCols)
		return hdr, nil
	}
	return actualsHeader{}, ErrActualsLayout
}

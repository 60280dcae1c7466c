// Package export writes report tables as CSV or XLSX and creates budget
// sheets for new projects.
package export

import (
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
)

// Table is a titled grid. Cells hold float64 (money, rounded to cents on
// output), *float64 (nil renders empty) or string.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any

	// FlagCol is the column holding red-flag months, or -1.
	FlagCol int
	// Breaks lists row indexes that start a new block (totals). Terminal
	// output draws a rule there; files ignore it.
	Breaks []int
}

func money(v float64) any { return pipeline.Round2(v) }

func optMoney(v *float64) any {
	if v == nil {
		return nil
	}
	return pipeline.Round2(*v)
}

// FlagsTable is the budget-vs-activity table with red flags.
func FlagsTable(rep *pipeline.Report) Table {
	t := Table{
		Name: "Flags",
		Headers: []string{
			"Category", "Budget", "Budget per Kit", "Total Activity",
			"Activity per Kit", "Total Activity - Budget", "Red Flag",
		},
		FlagCol: 6,
	}
	for _, r := range rep.Rows {
		flag := ""
		if r.Category != model.NumberOfKits {
			flag = r.Flag.String()
		}
		t.Rows = append(t.Rows, []any{
			r.Category.Label(),
			money(r.Budget),
			optMoney(r.BudgetPerKit),
			money(r.TotalActivity),
			optMoney(r.ActivityPerKit),
			money(r.Variance),
			flag,
		})
	}
	return t
}

// RedFlagTable lists only category and first crossing month.
func RedFlagTable(rep *pipeline.Report) Table {
	t := Table{Name: "Red Flags", Headers: []string{"Category", "Red Flag"}, FlagCol: 1}
	for _, f := range rep.Flags {
		t.Rows = append(t.Rows, []any{f.Category.Label(), f.String()})
	}
	return t
}

// SummaryTable renders one WIP rollup.
func SummaryTable(s model.WIPSummary) Table {
	t := Table{
		Name:    s.Title + " Summary",
		Headers: []string{"Category", "Budget", "Actual Revenues", "Forecast", "Remaining on Budget"},
		FlagCol: -1,
	}
	add := func(r model.SummaryRow) {
		t.Rows = append(t.Rows, []any{r.Label, money(r.Budget), money(r.Actual), money(r.Forecast), money(r.Remaining)})
	}
	for _, r := range s.Rows {
		add(r)
	}
	t.Breaks = []int{len(t.Rows)}
	add(s.Total)
	if s.Averages != nil {
		add(*s.Averages)
	}
	add(s.Revenue)
	add(s.Net)
	for _, r := range s.Memo {
		add(r)
	}
	return t
}

// ForecastTable lays projections out side by side, one column per rollup.
func ForecastTable(projections []model.Projection) Table {
	t := Table{Name: "Forecast", Headers: []string{"Month"}, FlagCol: -1}
	longest := 0
	for _, p := range projections {
		t.Headers = append(t.Headers, p.Label)
		if len(p.Months) > longest {
			longest = len(p.Months)
		}
	}

	remaining := []any{"Remaining"}
	rate := []any{"Monthly Rate"}
	total := []any{"Months to Zero"}
	for _, p := range projections {
		remaining = append(remaining, money(p.RemainingBudget))
		rate = append(rate, money(p.MonthlyRate))
		total = append(total, p.TotalMonths)
	}
	t.Rows = append(t.Rows, remaining, rate, total)
	t.Breaks = []int{len(t.Rows)}

	for i := 0; i < longest; i++ {
		row := []any{i + 1}
		for _, p := range projections {
			if i < len(p.Months) {
				row = append(row, money(p.Months[i]))
			} else {
				row = append(row, nil)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SeriesTable is the wide project/category by month table.
func SeriesTable(series []model.RevenueSeries) Table {
	t := Table{Name: "Revenues", Headers: []string{"Project", "Category"}, FlagCol: -1}

	months := pipeline.UnionMonths(series)
	for _, m := range months {
		t.Headers = append(t.Headers, m.Format("2006-01"))
	}
	for _, s := range series {
		row := []any{s.Project, s.Category}
		byMonth := make(map[int64]float64, len(s.Points))
		for _, p := range s.Points {
			byMonth[p.Month.Unix()] = p.Amount
		}
		for _, m := range months {
			v, ok := byMonth[m.Unix()]
			if !ok {
				row = append(row, nil)
				continue
			}
			row = append(row, money(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ActualsTable is the long form of the actuals sheet, one month per line.
func ActualsTable(rows []model.ActualsRow) Table {
	t := Table{Name: "Actuals", Headers: []string{"Project", "Category", "Month", "Amount"}, FlagCol: -1}
	for _, r := range rows {
		for _, c := range r.Cells() {
			t.Rows = append(t.Rows, []any{c.Project, c.Category, c.Month.Format("2006-01"), money(c.Amount)})
		}
	}
	return t
}

// ReportTables returns every table of a report in display order.
func ReportTables(rep *pipeline.Report) []Table {
	return []Table{
		FlagsTable(rep),
		SummaryTable(rep.NRE),
		SummaryTable(rep.KitSummary),
		ForecastTable(rep.Projections),
	}
}

package pipeline

import (
	"github.com/theirongolddev/wipflags/internal/model"
)

// Rollup titles.
const (
	TitleNRE  = "NRE"
	TitleKits = "Kits"
)

func summaryRow(label string, budget float64, s model.Series) model.SummaryRow {
	return model.SummaryRow{
		Label:     label,
		Budget:    Round2(budget),
		Actual:    Round2(s.TotalActuals),
		Forecast:  Round2(s.TotalForecast),
		Remaining: Round2(s.TotalActuals - budget),
	}
}

func addRows(label string, rows ...model.SummaryRow) model.SummaryRow {
	out := model.SummaryRow{Label: label}
	for _, r := range rows {
		out.Budget += r.Budget
		out.Actual += r.Actual
		out.Forecast += r.Forecast
		out.Remaining += r.Remaining
	}
	out.Budget = Round2(out.Budget)
	out.Actual = Round2(out.Actual)
	out.Forecast = Round2(out.Forecast)
	out.Remaining = Round2(out.Remaining)
	return out
}

func averageRow(label string, total model.SummaryRow, kits float64) *model.SummaryRow {
	b, a, f, r := PerKit(total.Budget, kits), PerKit(total.Actual, kits),
		PerKit(total.Forecast, kits), PerKit(total.Remaining, kits)
	if b == nil || a == nil || f == nil || r == nil {
		return nil
	}
	return &model.SummaryRow{Label: label, Budget: *b, Actual: *a, Forecast: *f, Remaining: *r}
}

func summarize(title string, cats []model.Category, memo []model.Category, revenue model.Category,
	fig model.BudgetFigures, series map[model.Category]model.Series, kits float64) model.WIPSummary {
	out := model.WIPSummary{Title: title}
	for _, c := range cats {
		out.Rows = append(out.Rows, summaryRow(c.Label(), fig.Get(c), series[c]))
	}
	for _, c := range memo {
		out.Memo = append(out.Memo, summaryRow(c.Label(), fig.Get(c), series[c]))
	}
	out.Total = addRows("Total "+title, out.Rows...)
	out.Averages = averageRow("Avg "+title+" per Kit", out.Total, kits)
	out.Revenue = summaryRow(revenue.Label(), fig.Get(revenue), series[revenue])
	out.Net = addRows(title+" Cost Vs Billed", out.Total, out.Revenue)
	return out
}

// SummarizeNRE rolls up non-recurring engineering: Engineering Labor and
// Other NRE Costs (travel included), billed against Milestones. Travel is
// listed as a memo line and is not added to the total twice.
func SummarizeNRE(fig model.BudgetFigures, series map[model.Category]model.Series, kits float64) model.WIPSummary {
	return summarize(TitleNRE,
		[]model.Category{model.EngineeringLabor, model.OtherNRE},
		[]model.Category{model.Travel},
		model.Milestones, fig, series, kits)
}

// SummarizeKits rolls up recurring kit cost: Manufacturing Labor and
// Material Receipts, billed against Kit Sales.
func SummarizeKits(fig model.BudgetFigures, series map[model.Category]model.Series, kits float64) model.WIPSummary {
	return summarize(TitleKits,
		[]model.Category{model.ManufacturingLabor, model.MaterialReceipts},
		nil,
		model.KitSales, fig, series, kits)
}

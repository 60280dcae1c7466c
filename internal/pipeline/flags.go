package pipeline

import (
	"math"

	"github.com/theirongolddev/wipflags/internal/model"
)

// crossingTolerance is the relative slack allowed before a difference
// counts as a crossing. It absorbs float summation noise only; any real
// overage, even a fraction of a cent, is larger.
const crossingTolerance = 1e-9

// FirstCrossing returns the first index where the running total passes
// budget, or -1. By default a total crosses when it exceeds budget; with
// shortfall set it crosses when it falls below.
func FirstCrossing(cumulative []float64, budget float64, shortfall bool) int {
	for i, v := range cumulative {
		diff := v - budget
		eps := crossingTolerance * max(1, math.Abs(v), math.Abs(budget))
		if shortfall && diff < -eps {
			return i
		}
		if !shortfall && diff > eps {
			return i
		}
	}
	return -1
}

// DetectFlags checks every flag category against its budget. Categories
// without an actuals row never flag.
func DetectFlags(fig model.BudgetFigures, series map[model.Category]model.Series) []model.RedFlag {
	cats := model.FlagCategories()
	out := make([]model.RedFlag, 0, len(cats))
	for _, c := range cats {
		flag := model.RedFlag{Category: c}
		if s, ok := series[c]; ok {
			if i := FirstCrossing(s.Cumulative, fig.Get(c), c.FlagsOnShortfall()); i >= 0 {
				m := s.Months[i]
				flag.Month = &m
			}
		}
		out = append(out, flag)
	}
	return out
}

// BudgetRows builds the budget-vs-activity table: the kit count followed by
// every flag category.
func BudgetRows(fig model.BudgetFigures, kits float64, series map[model.Category]model.Series,
	totals map[model.Category]float64, flags []model.RedFlag) []model.BudgetRow {
	flagByCat := make(map[model.Category]model.RedFlag, len(flags))
	for _, f := range flags {
		flagByCat[f.Category] = f
	}

	cats := append([]model.Category{model.NumberOfKits}, model.FlagCategories()...)
	rows := make([]model.BudgetRow, 0, len(cats))
	for _, c := range cats {
		row := model.BudgetRow{
			Category: c,
			Budget:   Round2(fig.Get(c)),
			Flag:     model.RedFlag{Category: c},
		}
		if f, ok := flagByCat[c]; ok {
			row.Flag = f
		}
		_, row.HasActuals = series[c]
		row.TotalActivity = Round2(totals[c])
		row.Variance = Round2(row.TotalActivity - row.Budget)
		if c != model.NumberOfKits {
			row.BudgetPerKit = PerKit(row.Budget, kits)
			row.ActivityPerKit = PerKit(row.TotalActivity, kits)
		}
		rows = append(rows, row)
	}
	return rows
}

// ActivityTotals sums each known category's Total Activity across rows.
func ActivityTotals(rows []model.ActualsRow) map[model.Category]float64 {
	out := make(map[model.Category]float64)
	for _, r := range rows {
		if r.Known {
			out[r.Category] += r.Total()
		}
	}
	return out
}

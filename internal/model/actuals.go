package model

import "time"

// MonthlyActual is one cell of the actuals sheet.
type MonthlyActual struct {
	Project  string
	Category string
	Month    time.Time // first day of the month, UTC
	Amount   float64
}

// ActualsRow is one project/category row of the actuals sheet with its
// months in chronological order.
type ActualsRow struct {
	Project       string
	Label         string   // raw Category cell
	Category      Category // valid only when Known
	Known         bool
	Months        []time.Time
	Amounts       []float64
	TotalActivity float64
	HasTotal      bool // sheet carried a Total Activity value
}

// Total returns the sheet's Total Activity when present, otherwise the sum
// of the monthly amounts.
func (r ActualsRow) Total() float64 {
	if r.HasTotal {
		return r.TotalActivity
	}
	var sum float64
	for _, a := range r.Amounts {
		sum += a
	}
	return sum
}

// Cells flattens the row into per-month records.
func (r ActualsRow) Cells() []MonthlyActual {
	out := make([]MonthlyActual, len(r.Months))
	for i, m := range r.Months {
		out[i] = MonthlyActual{
			Project:  r.Project,
			Category: r.Label,
			Month:    m,
			Amount:   r.Amounts[i],
		}
	}
	return out
}

// Series is the reconciled view of one category: totals split at the
// as-of month, and the running sum over every month.
type Series struct {
	Category      Category
	Months        []time.Time
	Amounts       []float64
	Cumulative    []float64
	TotalActuals  float64 // months strictly before AsOf
	TotalForecast float64 // months on or after AsOf
	AsOf          time.Time
}

// ActualMonths returns the number of leading months before AsOf.
func (s Series) ActualMonths() int {
	n := 0
	for _, m := range s.Months {
		if !m.Before(s.AsOf) {
			break
		}
		n++
	}
	return n
}

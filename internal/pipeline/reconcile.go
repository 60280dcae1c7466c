package pipeline

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

// ErrUnsortedMonths is returned when month columns are not strictly
// chronological. The loader sorts columns, so this is a caller bug.
var ErrUnsortedMonths = errors.New("months are not in chronological order")

// Cumulative returns the running sum of amounts in month order.
func Cumulative(months []time.Time, amounts []float64) ([]float64, error) {
	if len(months) != len(amounts) {
		return nil, fmt.Errorf("cumulative: %d months for %d amounts", len(months), len(amounts))
	}
	for i := 1; i < len(months); i++ {
		if !months[i].After(months[i-1]) {
			return nil, fmt.Errorf("%w: %s after %s",
				ErrUnsortedMonths, months[i].Format("2006-01"), months[i-1].Format("2006-01"))
		}
	}
	if len(amounts) == 0 {
		return []float64{}, nil
	}
	return floats.CumSum(make([]float64, len(amounts)), amounts), nil
}

// Reconcile merges every actuals row of one category and splits the totals
// at the first day of asOf's month: earlier months are actuals, that month
// and later are forecast.
func Reconcile(c model.Category, rows []model.ActualsRow, asOf time.Time) (model.Series, error) {
	cutoff := sheet.MonthStart(asOf)
	s := model.Series{Category: c, AsOf: cutoff}
	if len(rows) == 0 {
		return s, nil
	}

	s.Months = rows[0].Months
	s.Amounts = make([]float64, len(s.Months))
	for _, r := range rows {
		if len(r.Amounts) != len(s.Months) {
			return s, fmt.Errorf("%s/%s: %d amounts for %d months",
				r.Project, r.Label, len(r.Amounts), len(s.Months))
		}
		floats.Add(s.Amounts, r.Amounts)
	}

	cum, err := Cumulative(s.Months, s.Amounts)
	if err != nil {
		return s, fmt.Errorf("%s: %w", c.Label(), err)
	}
	s.Cumulative = cum

	split := s.ActualMonths()
	s.TotalActuals = floats.Sum(s.Amounts[:split])
	s.TotalForecast = floats.Sum(s.Amounts[split:])
	return s, nil
}

// ReconcileAll builds a series for every known category present in rows.
func ReconcileAll(rows []model.ActualsRow, asOf time.Time) (map[model.Category]model.Series, error) {
	byCat := make(map[model.Category][]model.ActualsRow)
	for _, r := range rows {
		if r.Known {
			byCat[r.Category] = append(byCat[r.Category], r)
		}
	}

	out := make(map[model.Category]model.Series, len(byCat))
	for c, rs := range byCat {
		s, err := Reconcile(c, rs, asOf)
		if err != nil {
			return nil, err
		}
		out[c] = s
	}
	return out, nil
}

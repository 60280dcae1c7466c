package pipeline

import (
	"math"

	"github.com/theirongolddev/wipflags/internal/model"
)

// maxProjectedMonths bounds the months listed when the rate is tiny relative
// to the remaining budget. TotalMonths still carries the full count.
const maxProjectedMonths = 240

// Project walks a negative remaining budget toward zero at rate per month.
// The month count is rounded half to even; month i holds remaining + rate*i.
// A non-negative remaining, a non-positive or non-finite rate, or a zero
// month count yields an empty projection.
func Project(label string, remaining, rate float64) model.Projection {
	p := model.Projection{
		Label:           label,
		RemainingBudget: Round2(remaining),
		MonthlyRate:     Round2(rate),
	}
	if remaining >= 0 || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) || math.IsNaN(remaining) {
		return p
	}

	months := math.RoundToEven(-remaining / rate)
	if months <= 0 || math.IsInf(months, 0) {
		return p
	}
	if months > math.MaxInt32 {
		months = math.MaxInt32
	}
	p.TotalMonths = int(months)

	p.Months = make([]float64, min(p.TotalMonths, maxProjectedMonths))
	for i := range p.Months {
		p.Months[i] = Round2(remaining + rate*float64(i+1))
	}
	return p
}

// ProjectSummary projects a rollup's remaining budget using its average
// actual spend per kit as the monthly rate.
func ProjectSummary(s model.WIPSummary, kits float64) model.Projection {
	label := "Total " + s.Title
	rate := PerKit(s.Total.Actual, kits)
	if rate == nil {
		return Project(label, s.Total.Remaining, 0)
	}
	return Project(label, s.Total.Remaining, *rate)
}

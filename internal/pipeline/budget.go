package pipeline

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/model"
)

// AggregateBudget sums classified budget lines into per-category figures.
// Cost categories sum NRE + CR, the kit count sums quantities, and revenue
// categories are negated.
func AggregateBudget(project string, res classify.Result) model.BudgetFigures {
	fig := model.BudgetFigures{Project: project}
	for c, lines := range res.ByCategory {
		if c == model.EndingWIP {
			continue
		}
		var sum float64
		for _, l := range lines {
			if c == model.NumberOfKits {
				sum += l.Qty
			} else {
				sum += l.Cost()
			}
		}
		if c.IsRevenue() {
			sum = -sum
		}
		fig.Set(c, sum)
	}
	return fig
}

// PerKit divides v by the kit count. It returns nil instead of Inf or NaN.
func PerKit(v, kits float64) *float64 {
	if kits == 0 {
		return nil
	}
	q := v / kits
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return nil
	}
	q = Round2(q)
	return &q
}

// Round2 rounds to cents, half to even.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}

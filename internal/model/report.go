package model

import "time"

// NoRedFlag is shown when a category never crosses its budget.
const NoRedFlag = "No red flag"

// RedFlag marks the first month a category's running total crossed budget.
type RedFlag struct {
	Category Category
	Month    *time.Time // nil when no crossing
}

// String renders the month as "2006-01" or the NoRedFlag sentinel.
func (f RedFlag) String() string {
	if f.Month == nil {
		return NoRedFlag
	}
	return f.Month.Format("2006-01")
}

// Raised reports whether the category crossed its budget.
func (f RedFlag) Raised() bool {
	return f.Month != nil
}

// BudgetRow is one line of the budget-vs-activity flags table.
type BudgetRow struct {
	Category       Category
	Budget         float64
	BudgetPerKit   *float64 // nil when the kit count is zero
	TotalActivity  float64
	ActivityPerKit *float64
	Variance       float64 // TotalActivity - Budget
	Flag           RedFlag
	HasActuals     bool
}

// SummaryRow is one line of a WIP summary.
type SummaryRow struct {
	Label     string
	Budget    float64
	Actual    float64
	Forecast  float64
	Remaining float64 // Actual - Budget
}

// WIPSummary is the NRE or Kit rollup of the WIP analysis.
type WIPSummary struct {
	Title    string
	Rows     []SummaryRow
	Memo     []SummaryRow // informational lines not included in Total
	Total    SummaryRow
	Averages *SummaryRow // Total / kits; nil when kits is zero
	Revenue  SummaryRow  // Milestones for NRE, Kit Sales for Kits
	Net      SummaryRow  // Total + Revenue
}

// Projection is the month-by-month path of a remaining budget toward zero.
// Months may hold only the first part of a long path; TotalMonths is the
// full month count.
type Projection struct {
	Label           string
	RemainingBudget float64
	MonthlyRate     float64
	TotalMonths     int
	Months          []float64
}

// Empty reports whether no months were projected.
func (p Projection) Empty() bool {
	return len(p.Months) == 0
}

// Truncated reports whether Months stops before the budget reaches zero.
func (p Projection) Truncated() bool {
	return p.TotalMonths > len(p.Months)
}

// RevenuePoint is one month of a project/category series.
type RevenuePoint struct {
	Month  time.Time
	Amount float64
}

// RevenueSeries is the past-month series for one project and category.
type RevenueSeries struct {
	Project  string
	Category string
	Points   []RevenuePoint
}

// Values returns the amounts in month order.
func (s RevenueSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Amount
	}
	return out
}

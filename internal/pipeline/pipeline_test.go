package pipeline

import (
	"bytes"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

func TestAggregateBudget(t *testing.T) {
	ds := fixtureDataset(t)
	b, err := ds.Workbook.Budget("P1")
	require.NoError(t, err)

	res := classify.Default().Partition(b.Lines)
	fig := AggregateBudget("P1", res)

	assert.Equal(t, "P1", fig.Project)
	assert.InDelta(t, 4, fig.NumberOfKits, 1e-9)
	assert.InDelta(t, 3500, fig.BeginningWIP, 1e-9)
	assert.InDelta(t, 1000, fig.EngineeringLabor, 1e-9)
	assert.InDelta(t, 400, fig.ManufacturingLabor, 1e-9)
	assert.InDelta(t, 300, fig.MaterialReceipts, 1e-9)
	assert.InDelta(t, 100, fig.OtherNRE, 1e-9)
	assert.InDelta(t, 100, fig.Travel, 1e-9)
	assert.InDelta(t, -2000, fig.Milestones, 1e-9)
	assert.InDelta(t, -1500, fig.KitSales, 1e-9)
	assert.InDelta(t, -1700, fig.EndingWIP(), 1e-9)

	require.Len(t, res.Unclassified, 1)
	assert.Equal(t, "Contingency", res.Unclassified[0].Description)
}

func TestEndingWIPIdentity(t *testing.T) {
	figs := []model.BudgetFigures{
		{},
		{EngineeringLabor: 1, ManufacturingLabor: 2, MaterialReceipts: 3, OtherNRE: 4, Milestones: -5, KitSales: -6},
		{EngineeringLabor: 1234.56, OtherNRE: 0.01, Milestones: -99999, BeginningWIP: 777},
	}
	for _, f := range figs {
		want := f.EngineeringLabor + f.ManufacturingLabor + f.MaterialReceipts +
			f.OtherNRE + f.Milestones + f.KitSales
		assert.InDelta(t, want, f.EndingWIP(), 1e-9)
		assert.InDelta(t, want, f.Get(model.EndingWIP), 1e-9)
	}
}

func TestPerKit(t *testing.T) {
	assert.Nil(t, PerKit(100, 0))
	assert.Nil(t, PerKit(0, 0))

	got := PerKit(100, 3)
	require.NotNil(t, got)
	assert.InDelta(t, 33.33, *got, 1e-9)

	got = PerKit(-50, 4)
	require.NotNil(t, got)
	assert.InDelta(t, -12.5, *got, 1e-9)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 0.3, Round2(0.1+0.2), 1e-12)
	assert.InDelta(t, 2.68, Round2(2.675), 1e-12)
	assert.InDelta(t, 1.12, Round2(1.125), 1e-12)
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}

func TestCumulative(t *testing.T) {
	months := []time.Time{
		mustMonth(t, "2024-01"), mustMonth(t, "2024-02"),
		mustMonth(t, "2024-03"), mustMonth(t, "2024-04"),
	}
	cum, err := Cumulative(months, []float64{5, 0, 2.5, 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 7.5, 17.5}, cum)

	for i := 1; i < len(cum); i++ {
		assert.GreaterOrEqual(t, cum[i], cum[i-1], "non-negative input stays monotonic")
	}

	empty, err := Cumulative(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCumulative_Unsorted(t *testing.T) {
	months := []time.Time{mustMonth(t, "2024-02"), mustMonth(t, "2024-01")}
	_, err := Cumulative(months, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrUnsortedMonths))

	dup := []time.Time{mustMonth(t, "2024-02"), mustMonth(t, "2024-02")}
	_, err = Cumulative(dup, []float64{1, 2})
	assert.True(t, errors.Is(err, ErrUnsortedMonths))

	_, err = Cumulative(months[:1], []float64{1, 2})
	assert.Error(t, err)
}

func TestReconcile_SplitsAtAsOf(t *testing.T) {
	ds := fixtureDataset(t)
	rows := ds.Actuals.ForProject("P1")

	s, err := Reconcile(model.EngineeringLabor, rows[:1], fixtureAsOf)
	require.NoError(t, err)
	assert.True(t, s.AsOf.Equal(mustMonth(t, "2024-03")))
	assert.Equal(t, 2, s.ActualMonths())
	assert.InDelta(t, 800, s.TotalActuals, 1e-9)
	assert.InDelta(t, 300, s.TotalForecast, 1e-9)
	assert.Equal(t, []float64{400, 800, 1100, 1100}, s.Cumulative)
}

func TestReconcile_MergesSameCategory(t *testing.T) {
	m := []time.Time{mustMonth(t, "2024-01"), mustMonth(t, "2024-02")}
	rows := []model.ActualsRow{
		{Project: "P", Category: model.OtherNRE, Known: true, Months: m, Amounts: []float64{1, 2}},
		{Project: "P", Category: model.OtherNRE, Known: true, Months: m, Amounts: []float64{10, 20}},
	}
	series, err := ReconcileAll(rows, mustMonth(t, "2024-02"))
	require.NoError(t, err)
	s := series[model.OtherNRE]
	assert.Equal(t, []float64{11, 22}, s.Amounts)
	assert.InDelta(t, 11, s.TotalActuals, 1e-9)
	assert.InDelta(t, 22, s.TotalForecast, 1e-9)
}

func TestFirstCrossing(t *testing.T) {
	tests := []struct {
		name   string
		cum    []float64
		budget float64
		short  bool
		want   int
	}{
		{"cost crosses", []float64{10, 20, 30}, 15, false, 1},
		{"cost equal is not over", []float64{10, 15, 15}, 15, false, -1},
		{"first of several", []float64{20, 30, 40}, 15, false, 0},
		{"float noise ignored", []float64{0.1 + 0.2}, 0.3, false, -1},
		{"large float noise ignored", []float64{1e6 + 0.1 + 0.2}, 1e6 + 0.3, false, -1},
		{"sub-cent overage flags", []float64{99, 100.004}, 100, false, 1},
		{"sub-cent shortfall flags", []float64{-100.004}, -100, true, 0},
		{"shortfall falls below", []float64{-100, -250, -300}, -200, true, 1},
		{"shortfall never below", []float64{-100, -200}, -200, true, -1},
		{"negated revenue checked as cost", []float64{0, -500}, -1500, false, 0},
		{"empty", nil, 0, false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstCrossing(tt.cum, tt.budget, tt.short))
		})
	}
}

func TestDetectFlags_MissingSeries(t *testing.T) {
	flags := DetectFlags(model.BudgetFigures{EngineeringLabor: -1}, nil)
	require.Len(t, flags, len(model.FlagCategories()))
	for _, f := range flags {
		assert.False(t, f.Raised())
		assert.Equal(t, model.NoRedFlag, f.String())
	}
}

func TestProject(t *testing.T) {
	p := Project("Total NRE", -120, 40)
	assert.Equal(t, []float64{-80, -40, 0}, p.Months)

	// 2.5 months rounds half to even
	p = Project("x", -100, 40)
	assert.Len(t, p.Months, 2)

	assert.True(t, Project("x", 0, 40).Empty())
	assert.True(t, Project("x", 50, 40).Empty())
	assert.True(t, Project("x", -120, 0).Empty())
	assert.True(t, Project("x", -120, -40).Empty())
	assert.True(t, Project("x", -120, math.Inf(1)).Empty())
	assert.True(t, Project("x", -120, math.NaN()).Empty())
	assert.True(t, Project("x", -10, 40).Empty(), "0.25 months rounds to none")

	p = Project("x", -1e9, 1)
	assert.Len(t, p.Months, maxProjectedMonths)
	assert.Equal(t, 1_000_000_000, p.TotalMonths)
}

func TestProject_LongPathKeepsMonthCount(t *testing.T) {
	p := Project("Total NRE", -10000, 20)
	assert.Equal(t, 500, p.TotalMonths)
	assert.True(t, p.Truncated())
	require.Len(t, p.Months, maxProjectedMonths)
	assert.Equal(t, -9980.0, p.Months[0])

	short := Project("Total NRE", -120, 40)
	assert.Equal(t, 3, short.TotalMonths)
	assert.False(t, short.Truncated())
	assert.False(t, Project("x", 0, 40).Truncated())
}

func TestAnalyze(t *testing.T) {
	ds := fixtureDataset(t)
	rep, err := Analyze(ds, Request{Project: "p1", AsOf: fixtureAsOf})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rep.RunID)
	assert.InDelta(t, 4, rep.Kits, 1e-9)
	assert.Len(t, rep.Actuals, 6)
	require.Len(t, rep.Unclassified, 1)

	flagged := map[model.Category]string{}
	for _, f := range rep.Flags {
		flagged[f.Category] = f.String()
	}
	assert.Equal(t, "2024-03", flagged[model.EngineeringLabor])
	assert.Equal(t, "2024-02", flagged[model.OtherNRE])
	assert.Equal(t, "2024-03", flagged[model.Milestones])
	assert.Equal(t, model.NoRedFlag, flagged[model.ManufacturingLabor])
	assert.Equal(t, "2024-01", flagged[model.KitSales])
	assert.Equal(t, model.NoRedFlag, flagged[model.BeginningWIP])
	assert.Equal(t, model.NoRedFlag, flagged[model.EndingWIP])
	assert.Len(t, rep.RaisedFlags(), 4)

	require.Len(t, rep.Rows, 9)
	kits := rep.Rows[0]
	assert.Equal(t, model.NumberOfKits, kits.Category)
	assert.Nil(t, kits.BudgetPerKit)

	el := rep.Rows[2]
	assert.Equal(t, model.EngineeringLabor, el.Category)
	assert.InDelta(t, 1100, el.TotalActivity, 1e-9)
	assert.InDelta(t, 100, el.Variance, 1e-9)
	require.NotNil(t, el.BudgetPerKit)
	assert.InDelta(t, 250, *el.BudgetPerKit, 1e-9)
	require.NotNil(t, el.ActivityPerKit)
	assert.InDelta(t, 275, *el.ActivityPerKit, 1e-9)

	ms := rep.Rows[6]
	assert.Equal(t, model.Milestones, ms.Category)
	assert.InDelta(t, -2500, ms.TotalActivity, 1e-9, "sheet Total Activity wins over the month sum")
}

func TestAnalyze_Summaries(t *testing.T) {
	ds := fixtureDataset(t)
	rep, err := Analyze(ds, Request{Project: "P1", AsOf: fixtureAsOf})
	require.NoError(t, err)

	nre := rep.NRE
	require.Len(t, nre.Rows, 2)
	assert.Equal(t, model.SummaryRow{Label: "Engineering Labor", Budget: 1000, Actual: 800, Forecast: 300, Remaining: -200}, nre.Rows[0])
	assert.Equal(t, model.SummaryRow{Label: "Other NRE Costs", Budget: 100, Actual: 150, Forecast: 0, Remaining: 50}, nre.Rows[1])
	assert.Equal(t, model.SummaryRow{Label: "Total NRE", Budget: 1100, Actual: 950, Forecast: 300, Remaining: -150}, nre.Total)
	require.NotNil(t, nre.Averages)
	assert.InDelta(t, 237.5, nre.Averages.Actual, 1e-9)
	require.Len(t, nre.Memo, 1)
	assert.Equal(t, "Travel", nre.Memo[0].Label)
	assert.Equal(t, model.SummaryRow{Label: "Milestones", Budget: -2000, Actual: -1000, Forecast: -1500, Remaining: 1000}, nre.Revenue)
	assert.Equal(t, model.SummaryRow{Label: "NRE Cost Vs Billed", Budget: -900, Actual: -50, Forecast: -1200, Remaining: 850}, nre.Net)

	kit := rep.KitSummary
	assert.Equal(t, model.SummaryRow{Label: "Total Kits", Budget: 700, Actual: 300, Forecast: 200, Remaining: -400}, kit.Total)
	assert.Equal(t, "Kit Sales", kit.Revenue.Label)

	require.Len(t, rep.Projections, 2)
	assert.Equal(t, []float64{87.5}, rep.Projections[0].Months)
	assert.Equal(t, []float64{-325, -250, -175, -100, -25}, rep.Projections[1].Months)
}

func TestAnalyze_KitsOverride(t *testing.T) {
	ds := fixtureDataset(t)
	zero := 0.0
	rep, err := Analyze(ds, Request{Project: "P1", AsOf: fixtureAsOf, Kits: &zero})
	require.NoError(t, err)

	assert.Zero(t, rep.Kits)
	assert.Nil(t, rep.NRE.Averages)
	for _, r := range rep.Rows {
		assert.Nil(t, r.BudgetPerKit)
		assert.Nil(t, r.ActivityPerKit)
	}
	for _, p := range rep.Projections {
		assert.True(t, p.Empty())
	}
}

func TestAnalyze_MissingBudgetSheet(t *testing.T) {
	ds := fixtureDataset(t)
	_, err := Analyze(ds, Request{Project: "P2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sheet.ErrNoBudgetSheet))

	_, err = Analyze(ds, Request{})
	assert.Error(t, err)
}

func TestAnalyze_IssuesScopedToProject(t *testing.T) {
	wb := sheet.FromRows([]string{"Revenue Actuals", "P1"}, map[string][][]string{
		"Revenue Actuals": {
			{"Project #", "Category", "2024-01-01", "Sep 2024 adj 2", "2024-02-01"},
			{"P1", "Engineering Labor", "10", "", "20"},
			{"P2", "Engineering Labor", "n/a", "", "5"},
		},
		"P1": fixtureBudget(),
	})
	ds, err := NewDataset(wb, sheet.Layout{})
	require.NoError(t, err)
	require.Len(t, ds.Actuals.Issues, 1)

	var logged bytes.Buffer
	rep, err := Analyze(ds, Request{Project: "P1", AsOf: fixtureAsOf, Log: ptr(zerolog.New(&logged))})
	require.NoError(t, err)
	assert.Empty(t, rep.Issues, "P2's unreadable cell is not P1's issue")
	assert.NotContains(t, logged.String(), "unreadable amount")

	require.Len(t, rep.Skipped, 1)
	assert.Equal(t, "D1", rep.Skipped[0].Cell)
	assert.NotContains(t, logged.String(), "not a month", "header warnings are logged once per load")

	logged.Reset()
	ds.LogSkippedHeaders(zerolog.New(&logged))
	assert.Contains(t, logged.String(), `"raw":"Sep 2024 adj 2"`)
}

func ptr[T any](v T) *T { return &v }

func TestAnalyzeAll(t *testing.T) {
	ds, projects := largeDataset(t, 12)
	var calls atomic.Int64
	results := AnalyzeAll(ds, append(projects, "NOPE"), Request{AsOf: fixtureAsOf}, func(_, total int) {
		calls.Add(1)
		assert.Equal(t, 13, total)
	})

	require.Len(t, results, 13)
	assert.Equal(t, int64(13), calls.Load())
	for i, r := range results[:12] {
		require.NoError(t, r.Err)
		assert.Equal(t, projects[i], r.Project)
		assert.Equal(t, projects[i], r.Report.Project)
	}
	assert.True(t, errors.Is(results[12].Err, sheet.ErrNoBudgetSheet))
}

func TestDatasetProjects(t *testing.T) {
	ds := fixtureDataset(t)
	got := ds.Projects()
	require.Len(t, got, 2)
	assert.Equal(t, ProjectStatus{Project: "P1", HasBudget: true, Rows: 6}, got[0])
	assert.Equal(t, ProjectStatus{Project: "P2", HasBudget: false, Rows: 1}, got[1])
}

func TestSelectRowsAndRevenueSeries(t *testing.T) {
	ds := fixtureDataset(t)
	rows := ds.Actuals.Rows

	revenue, err := SelectRows(rows, []string{"P1"}, GroupRevenues)
	require.NoError(t, err)
	require.Len(t, revenue, 2)
	assert.Equal(t, "Milestones", revenue[0].Label)
	assert.Equal(t, "Kit Sales", revenue[1].Label)

	costs, err := SelectRows(rows, []string{"P1"}, GroupCosts)
	require.NoError(t, err)
	assert.Len(t, costs, 4)

	all, err := SelectRows(rows, nil, GroupAll)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	one, err := SelectRows(rows, nil, "engineering labor")
	require.NoError(t, err)
	assert.Len(t, one, 2)

	series, err := RevenueSeries(revenue[:1], fixtureAsOf, false)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, []float64{0, -1000}, series[0].Values(), "only months before the as-of month")

	series, err = RevenueSeries(one, fixtureAsOf, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{400, 800}, series[0].Values())
	assert.Equal(t, []float64{1, 2}, series[1].Values())
}

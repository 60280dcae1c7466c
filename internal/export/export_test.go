package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

func testReport(t *testing.T) *pipeline.Report {
	t.Helper()
	wb := sheet.FromRows([]string{"Revenue Actuals", "P1"}, map[string][][]string{
		"Revenue Actuals": {
			{"Project #", "Category", "2024-01-01", "2024-02-01"},
			{"P1", "Engineering Labor", "600.004", "500"},
			{"P1", "Milestones", "(100)", "(50)"},
		},
		"P1": {
			{"Description", "Notes", "Unit", "NRE", "CR", "AVG cost based on Qty"},
			{"Engineering Labor", "", "Hour", "1000", "", ""},
			{"NRE Design", "", "Milestone", "200", "", "3"},
		},
	})
	ds, err := pipeline.NewDataset(wb, sheet.Layout{})
	require.NoError(t, err)
	rep, err := pipeline.Analyze(ds, pipeline.Request{
		Project: "P1",
		AsOf:    time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return rep
}

func TestCSVRoundTrip(t *testing.T) {
	orig := Table{
		Name:    "Summary",
		Headers: []string{"Category", "Budget", "Actual", "Red Flag"},
		Rows: [][]any{
			{"Engineering Labor", 1234.5678, -0.005, "2024-03"},
			{"Other NRE Costs", 0.1 + 0.2, nil, model.NoRedFlag},
		},
		FlagCol: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, orig))
	assert.Contains(t, buf.String(), "1234.57")
	assert.Contains(t, buf.String(), "0.30")

	got, err := ReadCSV(&buf, "Summary")
	require.NoError(t, err)
	assert.Equal(t, orig.Headers, got.Headers)
	assert.Equal(t, 3, got.FlagCol)
	require.Len(t, got.Rows, 2)

	for ri, row := range orig.Rows {
		for ci, v := range row {
			switch x := v.(type) {
			case float64:
				require.IsType(t, float64(0), got.Rows[ri][ci])
				assert.InDelta(t, pipeline.Round2(x), got.Rows[ri][ci].(float64), 1e-9)
			default:
				assert.Equal(t, v, got.Rows[ri][ci])
			}
		}
	}
}

func TestFlagsTable(t *testing.T) {
	rep := testReport(t)
	tbl := FlagsTable(rep)

	require.Len(t, tbl.Rows, 9)
	assert.Equal(t, "Number of Kits", tbl.Rows[0][0])
	assert.Equal(t, "", tbl.Rows[0][6], "kit count row carries no flag")

	el := tbl.Rows[2]
	assert.Equal(t, "Engineering Labor", el[0])
	assert.Equal(t, 1000.0, el[1])
	assert.Equal(t, 1100.0, el[3])
	assert.Equal(t, "2024-02", el[6])

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Category,Budget,Budget per Kit,Total Activity,Activity per Kit,Total Activity - Budget,Red Flag", lines[0])
	assert.Equal(t, "Engineering Labor,1000.00,333.33,1100.00,366.67,100.00,2024-02", lines[3])
}

func TestSummaryAndForecastTables(t *testing.T) {
	rep := testReport(t)

	nre := SummaryTable(rep.NRE)
	assert.Equal(t, "NRE Summary", nre.Name)
	labels := make([]string, len(nre.Rows))
	for i, r := range nre.Rows {
		labels[i] = r[0].(string)
	}
	assert.Equal(t, []string{
		"Engineering Labor", "Other NRE Costs", "Total NRE", "Avg NRE per Kit",
		"Milestones", "NRE Cost Vs Billed", "Travel",
	}, labels)
	assert.Equal(t, []int{2}, nre.Breaks)

	fc := ForecastTable(rep.Projections)
	assert.Equal(t, []string{"Month", "Total NRE", "Total Kits"}, fc.Headers)
	assert.Equal(t, "Remaining", fc.Rows[0][0])
	assert.Equal(t, "Monthly Rate", fc.Rows[1][0])
	assert.Equal(t, "Months to Zero", fc.Rows[2][0])
	assert.Equal(t, []int{3}, fc.Breaks)
}

func TestForecastTable_TruncatedPath(t *testing.T) {
	fc := ForecastTable([]model.Projection{pipeline.Project("Total NRE", -10000, 20)})
	assert.Equal(t, []any{"Months to Zero", 500}, fc.Rows[2])
	assert.Len(t, fc.Rows, 3+240)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fc))
	assert.Contains(t, buf.String(), "Months to Zero,500\n")
}

func TestSeriesTable(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := jan.AddDate(0, 1, 0)
	tbl := SeriesTable([]model.RevenueSeries{
		{Project: "P1", Category: "Kit Sales", Points: []model.RevenuePoint{{Month: feb, Amount: 5}}},
		{Project: "P2", Category: "Milestones", Points: []model.RevenuePoint{{Month: jan, Amount: 1}, {Month: feb, Amount: 2}}},
	})
	assert.Equal(t, []string{"Project", "Category", "2024-01", "2024-02"}, tbl.Headers)
	assert.Equal(t, []any{"P1", "Kit Sales", nil, 5.0}, tbl.Rows[0])
	assert.Equal(t, []any{"P2", "Milestones", 1.0, 2.0}, tbl.Rows[1])
}

func TestRedFlagTable(t *testing.T) {
	tbl := RedFlagTable(testReport(t))
	assert.Equal(t, []string{"Category", "Red Flag"}, tbl.Headers)
	require.Len(t, tbl.Rows, len(model.FlagCategories()))

	got := map[string]any{}
	for _, r := range tbl.Rows {
		got[r[0].(string)] = r[1]
	}
	assert.Equal(t, "2024-02", got["Engineering Labor"])
	assert.Equal(t, model.NoRedFlag, got["Ending WIP"])
}

func TestActualsTable(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	tbl := ActualsTable([]model.ActualsRow{{
		Project: "P1",
		Label:   "Kit Sales",
		Months:  []time.Time{jan, jan.AddDate(0, 1, 0)},
		Amounts: []float64{-500.004, 0},
	}})
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []any{"P1", "Kit Sales", "2024-01", -500.0}, tbl.Rows[0])
	assert.Equal(t, []any{"P1", "Kit Sales", "2024-02", 0.0}, tbl.Rows[1])
}

func TestWriteXLSX(t *testing.T) {
	rep := testReport(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, ReportTables(rep)...))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Flags", "NRE Summary", "Kits Summary", "Forecast"}, f.GetSheetList())

	v, err := f.GetCellValue("Flags", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Engineering Labor", v)

	v, err = f.GetCellValue("Flags", "G4")
	require.NoError(t, err)
	assert.Equal(t, "2024-02", v)

	styleID, err := f.GetCellStyle("Flags", "G4")
	require.NoError(t, err)
	assert.NotZero(t, styleID, "crossed flag is highlighted")
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a b", sheetName("a/b", used))
	assert.Equal(t, "A b 2", sheetName("A b", used))
	long := strings.Repeat("x", 40)
	assert.Len(t, sheetName(long, used), maxSheetName)
}

func TestWriteBudgetTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	p := NewProject{
		Name:       "P900",
		HourlyRate: 150,
		Start:      time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		NRE: []Entry{
			{Kind: KindLabor, Qty: 10},
			{Kind: KindTravel, Cost: 300},
			{Kind: KindOtherNRE, Cost: 75},
		},
		Recurring: []Entry{
			{Kind: KindPanels, Qty: 4, Cost: 800},
			{Kind: KindKitMaterial, Cost: 120},
		},
	}
	require.NoError(t, WriteBudgetTemplate(path, p))

	wb, err := sheet.Open(path)
	require.NoError(t, err)
	b, err := wb.Budget("P900")
	require.NoError(t, err)
	require.Len(t, b.Lines, 5)
	assert.Empty(t, b.Issues)

	fig := pipeline.AggregateBudget("P900", classify.Default().Partition(b.Lines))
	assert.InDelta(t, 1500, fig.EngineeringLabor, 1e-9)
	assert.InDelta(t, 375, fig.OtherNRE, 1e-9)
	assert.InDelta(t, 120, fig.MaterialReceipts, 1e-9)
	assert.InDelta(t, -800, fig.KitSales, 1e-9)
	assert.InDelta(t, 4, fig.NumberOfKits, 1e-9)

	// second project lands in the same workbook
	require.NoError(t, WriteBudgetTemplate(path, NewProject{Name: "P901"}))
	err = WriteBudgetTemplate(path, NewProject{Name: "p900 "})
	assert.True(t, errors.Is(err, ErrSheetExists))

	assert.Error(t, WriteBudgetTemplate(path, NewProject{Name: "  "}))
}

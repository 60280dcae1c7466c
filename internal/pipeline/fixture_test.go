package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/wipflags/internal/sheet"
)

func mustMonth(t testing.TB, s string) time.Time {
	t.Helper()
	m, err := time.Parse("2006-01", s)
	if err != nil {
		t.Fatalf("parse month %q: %v", s, err)
	}
	return m
}

var fixtureAsOf = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func fixtureBudget() [][]string {
	return [][]string{
		{"Description", "Notes", "Unit", "NRE ", "CR", "AVG cost based on Qty"},
		{"Engineering Labor", "", "Hour", "1,000", "", ""},
		{"Manufacturing Labor", "", "Hour", "400", "", ""},
		{"Material", "", "Lot", "250", "50", ""},
		{"Other NRE Travel Reimbursement", "", "Trip", "100", "", ""},
		{"NRE Design", "", "Milestone", "2000", "", "1"},
		{"Kit Sales", "", "Each", "1500", "", "3"},
		{"Contingency", "", "", "50", "", ""},
	}
}

func fixtureActuals() [][]string {
	return [][]string{
		{"Revenue Actuals"},
		{"Project #", "Category", "2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "Total Activity"},
		{"P1", "Engineering Labor", "400", "400", "300", "0", ""},
		{"P1", "Manufacturing Labor", "100", "100", "100", "100", ""},
		{"P1", "Material Receipts", "50", "50", "", "", ""},
		{"P1", "Other NRE Costs", "0", "150", "0", "0", ""},
		{"P1", "Milestones", "0", "(1,000)", "(1,500)", "0", "(2,500)"},
		{"P1", "Kit Sales", "0", "0", "(500)", "0", ""},
		{"P2", "Engineering Labor", "1", "1", "1", "1", "4"},
	}
}

// fixtureDataset builds project P1 (with budget) and P2 (actuals only).
func fixtureDataset(t testing.TB) *Dataset {
	t.Helper()
	wb := sheet.FromRows([]string{"Revenue Actuals ", "P1"}, map[string][][]string{
		"Revenue Actuals ": fixtureActuals(),
		"P1":               fixtureBudget(),
	})
	ds, err := NewDataset(wb, sheet.Layout{SkipRows: 1})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

// largeDataset builds n projects with identical shapes for benchmarks.
func largeDataset(t testing.TB, n int) (*Dataset, []string) {
	t.Helper()
	names := []string{"Revenue Actuals"}
	sheets := map[string][][]string{}
	actuals := fixtureActuals()[:2]
	var projects []string
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("P%03d", i)
		projects = append(projects, id)
		for _, row := range fixtureActuals()[2:8] {
			r := append([]string{id}, row[1:]...)
			actuals = append(actuals, r)
		}
		names = append(names, id)
		sheets[id] = fixtureBudget()
	}
	sheets["Revenue Actuals"] = actuals
	ds, err := NewDataset(sheet.FromRows(names, sheets), sheet.Layout{SkipRows: 1})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds, projects
}

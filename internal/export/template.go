package export

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrSheetExists is returned when the workbook already has a sheet for the
// new project.
var ErrSheetExists = errors.New("project sheet already exists")

// Entry kinds offered by the new project form.
const (
	KindLabor       = "Labor"
	KindTravel      = "Travel"
	KindOtherNRE    = "Other NRE"
	KindMonuments   = "Monuments"
	KindPanels      = "Panels"
	KindKits        = "Kits"
	KindKitLabor    = "Kit Labor"
	KindKitMaterial = "Kit Material"
)

// NRE and recurring kinds in form order.
var (
	NREKinds       = []string{KindLabor, KindTravel, KindOtherNRE}
	RecurringKinds = []string{KindMonuments, KindPanels, KindKits, KindKitLabor, KindKitMaterial}
)

// Entry is one cost line of a new project. For Labor, Qty is hours and a
// zero Cost is derived from the hourly rate.
type Entry struct {
	Kind string
	Qty  float64
	Cost float64
}

// NewProject describes a project to add to the workbook.
type NewProject struct {
	Name       string
	HourlyRate float64
	Start      time.Time
	NRE        []Entry
	Recurring  []Entry
}

// budgetHeader matches what the sheet loader looks for.
var budgetHeader = []any{"Description", "Notes", "Unit", "NRE ", "CR", "AVG cost based on Qty"}

// budgetRow maps a form entry onto a budget line whose wording the default
// classification rules recognize.
func budgetRow(e Entry, rate float64, recurring bool) []any {
	cost := e.Cost
	if e.Kind == KindLabor && cost == 0 {
		cost = e.Qty * rate
	}

	var desc, unit string
	switch e.Kind {
	case KindLabor:
		desc, unit = "Engineering Labor", "Hour"
	case KindTravel:
		desc, unit = "NRE Travel", "Trip"
	case KindOtherNRE:
		desc, unit = "Other NRE", "Lot"
	case KindKitLabor:
		desc, unit = "Manufacturing Labor", "Hour"
	case KindKitMaterial:
		desc, unit = "Material Receipts", "Lot"
	default:
		desc, unit = "Kit - "+e.Kind, "Each"
	}

	var qty any = ""
	if e.Kind != KindLabor && e.Kind != KindKitLabor && e.Qty != 0 {
		qty = e.Qty
	}
	if recurring {
		return []any{desc, "", unit, 0.0, cost, qty}
	}
	return []any{desc, "", unit, cost, 0.0, qty}
}

// WriteBudgetTemplate adds a budget sheet for p to the workbook at path,
// creating the workbook when it does not exist.
func WriteBudgetTemplate(path string, p NewProject) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("project name is required")
	}
	if len(name) > maxSheetName {
		return fmt.Errorf("project name %q is longer than %d characters", name, maxSheetName)
	}

	var (
		f   *excelize.File
		err error
	)
	fresh := false
	if _, statErr := os.Stat(path); statErr == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
	} else {
		f = excelize.NewFile()
		fresh = true
	}
	defer func() { _ = f.Close() }()

	for _, existing := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(existing), name) {
			return fmt.Errorf("%w: %q", ErrSheetExists, name)
		}
	}

	if fresh {
		err = f.SetSheetName("Sheet1", name)
	} else {
		_, err = f.NewSheet(name)
	}
	if err != nil {
		return fmt.Errorf("adding sheet %q: %w", name, err)
	}

	rows := [][]any{
		{"Project", name},
		{"Hourly Rate", p.HourlyRate},
		{"Start", p.Start.Format("2006-01-02")},
		{},
		budgetHeader,
	}
	for _, e := range p.NRE {
		rows = append(rows, budgetRow(e, p.HourlyRate, false))
	}
	for _, e := range p.Recurring {
		rows = append(rows, budgetRow(e, p.HourlyRate, true))
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(name, cellRef, &r); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Package model holds the budget, actuals and report types shared by the
// loader, the pipeline and every renderer.
package model

import (
	"fmt"
	"strings"
)

// Category is a budget/actuals bucket.
type Category int

// Categories in the order the flags table lists them.
const (
	NumberOfKits Category = iota
	BeginningWIP
	EngineeringLabor
	ManufacturingLabor
	MaterialReceipts
	OtherNRE
	Milestones
	KitSales
	EndingWIP
	Travel
)

var categoryLabels = [...]string{
	"Number of Kits",
	"Beginning WIP",
	"Engineering Labor",
	"Manufacturing Labor",
	"Material Receipts",
	"Other NRE Costs",
	"Milestones",
	"Kit Sales",
	"Ending WIP",
	"Travel",
}

var categoryKeys = [...]string{
	"number_of_kits",
	"beginning_wip",
	"engineering_labor",
	"manufacturing_labor",
	"material_receipts",
	"other_nre",
	"milestones",
	"kit_sales",
	"ending_wip",
	"travel",
}

// FlagCategories returns the categories checked for budget overruns.
func FlagCategories() []Category {
	return []Category{
		BeginningWIP,
		EngineeringLabor,
		ManufacturingLabor,
		MaterialReceipts,
		OtherNRE,
		Milestones,
		KitSales,
		EndingWIP,
	}
}

// Label is the human-readable name, matching the actuals sheet's Category column.
func (c Category) Label() string {
	if c < 0 || int(c) >= len(categoryLabels) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryLabels[c]
}

// Key is the snake_case identifier used in rule files and JSON.
func (c Category) Key() string {
	if c < 0 || int(c) >= len(categoryKeys) {
		return fmt.Sprintf("category_%d", int(c))
	}
	return categoryKeys[c]
}

func (c Category) String() string { return c.Label() }

// IsRevenue reports whether the category offsets cost. Revenue budgets and
// actuals are stored negated.
func (c Category) IsRevenue() bool {
	return c == Milestones || c == KitSales
}

// FlagsOnShortfall reports whether the category raises a red flag when its
// running total drops below budget instead of exceeding it. Only milestone
// billing does; kit sales are checked like costs.
func (c Category) FlagsOnShortfall() bool {
	return c == Milestones
}

// IsWIP reports whether the category is a work-in-progress balance rather
// than a flow.
func (c Category) IsWIP() bool {
	return c == BeginningWIP || c == EndingWIP
}

// ParseCategory resolves a label or key, ignoring case and surrounding space.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for i := range categoryLabels {
		if strings.EqualFold(s, categoryLabels[i]) || strings.EqualFold(s, categoryKeys[i]) {
			return Category(i), true
		}
	}
	// Older actuals sheets drop the "Costs" suffix.
	if strings.EqualFold(s, "Other NRE") {
		return OtherNRE, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseCategory(string(b))
	if !ok {
		return fmt.Errorf("unknown category %q", string(b))
	}
	*c = parsed
	return nil
}

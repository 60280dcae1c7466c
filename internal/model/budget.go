package model

// BudgetLine is one line item of a project's budget sheet.
type BudgetLine struct {
	Row         int // 1-based sheet row
	Description string
	Unit        string
	NRE         float64
	CR          float64
	Qty         float64
	QtyText     bool // quantity cell held non-numeric text
}

// Cost is the line's NRE + CR total.
func (l BudgetLine) Cost() float64 {
	return l.NRE + l.CR
}

// BudgetFigures holds the per-category budget sums for one project.
// Milestones and KitSales are stored negated: revenue offsets cost.
type BudgetFigures struct {
	Project            string
	NumberOfKits       float64
	BeginningWIP       float64
	EngineeringLabor   float64
	ManufacturingLabor float64
	MaterialReceipts   float64
	OtherNRE           float64
	Milestones         float64
	KitSales           float64
	Travel             float64
}

// EndingWIP is derived, never stored:
// EL + ML + MR + ONRE + Milestones + KitSales (the last two already negated).
func (b BudgetFigures) EndingWIP() float64 {
	return b.EngineeringLabor + b.ManufacturingLabor + b.MaterialReceipts +
		b.OtherNRE + b.Milestones + b.KitSales
}

// Get returns the figure for a category.
func (b BudgetFigures) Get(c Category) float64 {
	switch c {
	case NumberOfKits:
		return b.NumberOfKits
	case BeginningWIP:
		return b.BeginningWIP
	case EngineeringLabor:
		return b.EngineeringLabor
	case ManufacturingLabor:
		return b.ManufacturingLabor
	case MaterialReceipts:
		return b.MaterialReceipts
	case OtherNRE:
		return b.OtherNRE
	case Milestones:
		return b.Milestones
	case KitSales:
		return b.KitSales
	case EndingWIP:
		return b.EndingWIP()
	case Travel:
		return b.Travel
	}
	return 0
}

// Set stores a primitive figure. EndingWIP is derived and ignored.
func (b *BudgetFigures) Set(c Category, v float64) {
	switch c {
	case NumberOfKits:
		b.NumberOfKits = v
	case BeginningWIP:
		b.BeginningWIP = v
	case EngineeringLabor:
		b.EngineeringLabor = v
	case ManufacturingLabor:
		b.ManufacturingLabor = v
	case MaterialReceipts:
		b.MaterialReceipts = v
	case OtherNRE:
		b.OtherNRE = v
	case Milestones:
		b.Milestones = v
	case KitSales:
		b.KitSales = v
	case Travel:
		b.Travel = v
	}
}

package sheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountIssue records a cell whose text could not be read as an amount.
// The cell counts as zero; the issue is kept for auditing.
type AmountIssue struct {
	Sheet   string
	Cell    string
	Raw     string
	Err     error
	Project string // actuals rows only
}

func (i AmountIssue) String() string {
	return fmt.Sprintf("%s!%s %q: %v", i.Sheet, i.Cell, i.Raw, i.Err)
}

var amountReplacer = strings.NewReplacer(
	",", "",
	"$", "",
	" ", "",
	"(", "-",
	")", "",
)

// ParseAmount reads accounting-formatted text: thousands separators are
// dropped, "(500)" is -500, and empty or "-" is zero.
func ParseAmount(raw string) (float64, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	s := amountReplacer.Replace(strings.TrimSpace(raw))
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	// "(-500)" would otherwise become "--500".
	s = strings.Replace(s, "--", "-", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not an amount: %w", err)
	}
	return d, nil
}

// IsNumeric reports whether raw reads as an amount.
func IsNumeric(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	_, err := parseDecimal(raw)
	return err == nil
}

// amountReader parses cells of one sheet and collects issues.
type amountReader struct {
	sheet  string
	issues []AmountIssue
}

func (a *amountReader) read(row, col int, raw string) float64 {
	v, err := ParseAmount(raw)
	if err != nil {
		a.issues = append(a.issues, AmountIssue{
			Sheet: a.sheet,
			Cell:  CellName(row, col),
			Raw:   raw,
			Err:   err,
		})
		return 0
	}
	return v
}

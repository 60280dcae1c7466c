// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a dollar amount with two decimals and comma
// separators, rounded half to even. e.g., -1234.5 -> "-$1,234.50"
func FormatMoney(v float64) string {
	d := decimal.NewFromFloat(v).RoundBank(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	_, frac, _ := strings.Cut(d.StringFixedBank(2), ".")
	return sign + "$" + FormatNumber(d.IntPart()) + "." + frac
}

// FormatOptMoney formats an optional amount; nil renders as "-".
func FormatOptMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatMoney(*v)
}

// FormatCompact formats a dollar amount with a K/M suffix for cards and
// chart labels. e.g., 1234 -> "$1.2K", -2500000 -> "-$2.5M"
func FormatCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatVariance formats a signed difference, always showing the sign.
func FormatVariance(v float64) string {
	if decimal.NewFromFloat(v).RoundBank(2).IsNegative() {
		return FormatMoney(v)
	}
	return "+" + FormatMoney(v)
}

// FormatCell renders a report table cell: money for float64, "-" for
// missing values, integers and text as they are.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return FormatMoney(x)
	case *float64:
		return FormatOptMoney(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// FormatMonth formats a month as "2006-01".
func FormatMonth(t time.Time) string {
	return t.Format("2006-01")
}

// FormatKits formats a kit count, dropping the decimals when whole.
func FormatKits(v float64) string {
	if v == float64(int64(v)) {
		return FormatNumber(int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

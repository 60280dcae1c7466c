package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{-1234.5, "-$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{0.125, "$0.12"},
		{-0.001, "$0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func TestFormatOptMoneyAndVariance(t *testing.T) {
	assert.Equal(t, "-", FormatOptMoney(nil))
	v := 333.333
	assert.Equal(t, "$333.33", FormatOptMoney(&v))

	assert.Equal(t, "+$100.00", FormatVariance(100))
	assert.Equal(t, "+$0.00", FormatVariance(0))
	assert.Equal(t, "-$25.00", FormatVariance(-25))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "$950", FormatCompact(950))
	assert.Equal(t, "$1.2K", FormatCompact(1234))
	assert.Equal(t, "-$2.5M", FormatCompact(-2_500_000))
}

func TestFormatMonthAndKits(t *testing.T) {
	assert.Equal(t, "2024-03", FormatMonth(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12", FormatKits(12))
	assert.Equal(t, "2.50", FormatKits(2.5))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "-12,345", FormatNumber(-12345))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "▁▄█", RenderSparkline([]float64{0, 50, 100}))
	// all-negative revenue series still span the full range
	assert.Equal(t, "█▁", RenderSparkline([]float64{-10, -100}))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Flags",
		Headers: []string{"Category", "Red Flag"},
		Rows: [][]string{
			{"Engineering Labor", "2024-03"},
			{SeparatorRow},
			{"Milestones", "No red flag"},
		},
		Flagged: func(row, col int) bool { return row == 0 && col == 1 },
	})
	assert.Contains(t, out, "Flags")
	assert.Contains(t, out, "Engineering Labor")
	assert.Contains(t, out, "2024-03")
	// title, top border, header, header rule, two rows, separator, bottom
	assert.Equal(t, 8, strings.Count(out, "\n"))
}

func TestFormatCell(t *testing.T) {
	v := 12.5
	assert.Equal(t, "-", FormatCell(nil))
	assert.Equal(t, "$12.50", FormatCell(12.5))
	assert.Equal(t, "$12.50", FormatCell(&v))
	assert.Equal(t, "-", FormatCell((*float64)(nil)))
	assert.Equal(t, "3", FormatCell(3))
	assert.Equal(t, "No red flag", FormatCell("No red flag"))
}

package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report colors (Flexoki Dark), shared with the default TUI theme.
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorBudget    = lipgloss.Color("#4385BE")
	ColorActivity  = lipgloss.Color("#879A39")
	ColorOverrun   = lipgloss.Color("#DA702C")
	ColorFlag      = lipgloss.Color("#D14D41")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle    = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorTextMuted)
	budgetStyle   = lipgloss.NewStyle().Foreground(ColorBudget)
	activityStyle = lipgloss.NewStyle().Foreground(ColorActivity)
	overrunStyle  = lipgloss.NewStyle().Foreground(ColorOverrun)
	flagStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorFlag)
	ruleStyle     = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// SeparatorRow is a Table row drawn as a horizontal rule, used to set
// totals apart from the lines they add up.
const SeparatorRow = "---"

// Table is a bordered report table. The first column is left aligned and
// holds labels; the rest are right aligned amounts.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string

	// Flagged reports whether a data cell should be highlighted as a raised
	// red flag. Row indexes count separator rows.
	Flagged func(row, col int) bool
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

func (t Table) columnWidths() []int {
	n := len(t.Headers)
	if n == 0 && len(t.Rows) > 0 {
		n = len(t.Rows[0])
	}
	widths := make([]int, n)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < n && !isSeparator(row) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == SeparatorRow
}

// rule draws a horizontal border line with the given corner and joint runes.
func rule(widths []int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return ruleStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
}

// pad aligns cell in a column of width w, measuring display width so
// multibyte labels line up.
func pad(cell string, w int, left bool) string {
	gap := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	if left {
		return " " + cell + gap + " "
	}
	return " " + gap + cell + " "
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}
	widths := t.columnWidths()
	bar := ruleStyle.Render("│")

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule(widths, "╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(bar)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], true)) + bar)
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for ri, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(bar)
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style := valueStyle
			if t.Flagged != nil && t.Flagged(ri, i) {
				style = flagStyle
			}
			b.WriteString(style.Render(pad(cell, w, i == 0)) + bar)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

// RenderProgressBar renders the batch progress shown while analyzing many
// projects.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(width, current*width/total)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of
// values. The lowest value maps to the bottom block, so negative revenue
// series render the same way as costs.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return b.String()
}

// RenderBudgetBars renders a budget vs activity pair for one category.
// Activity beyond the budget is drawn in the overrun color.
func RenderBudgetBars(label string, budget, activity, maxValue float64, maxWidth int) string {
	scale := func(v float64) int {
		if maxValue <= 0 {
			return 0
		}
		return max(0, min(int(math.Abs(v)/maxValue*float64(maxWidth)), maxWidth))
	}

	style := activityStyle
	if math.Abs(activity) > math.Abs(budget) {
		style = overrunStyle
	}

	var b strings.Builder
	b.WriteString("  " + valueStyle.Render(fmt.Sprintf("%-22s", label)) + "\n")
	b.WriteString("    " + budgetStyle.Render(strings.Repeat("█", scale(budget))) + " " +
		mutedStyle.Render("budget "+FormatCompact(budget)) + "\n")
	b.WriteString("    " + style.Render(strings.Repeat("█", scale(activity))) + " " +
		mutedStyle.Render("actual "+FormatCompact(activity)) + "\n")
	return b.String()
}

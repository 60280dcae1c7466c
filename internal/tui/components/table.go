package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/wipflags/internal/tui/theme"
)

// Table is a plain grid rendered inside a card. The first column is left
// aligned, the rest right aligned.
type Table struct {
	Headers  []string
	Rows     [][]string
	Selected int // highlighted row, -1 for none
	Flagged  func(row, col int) bool
	Emphasis func(row int) bool // bold rows such as totals
}

// RenderTable renders t to at most width columns. Columns that do not fit
// are dropped from the right.
func RenderTable(tbl Table, width int) string {
	t := theme.Active
	if len(tbl.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(tbl.Headers))
	for i, h := range tbl.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range tbl.Rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	cols := 0
	used := 0
	for i, w := range widths {
		if used+w+2 > width && i > 0 {
			break
		}
		used += w + 2
		cols++
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	boldStyle := cellStyle.Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	flagStyle := lipgloss.NewStyle().Foreground(t.Overrun).Background(t.Surface).Bold(true)
	flagSelStyle := flagStyle.Background(t.SurfaceBright)
	ruleStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	// Cells may carry ANSI styling (sparklines), so pad by visual width.
	pad := func(i int, s string) string {
		fill := strings.Repeat(" ", max(0, widths[i]-lipgloss.Width(s)))
		if i == 0 {
			return s + fill + "  "
		}
		return fill + s + "  "
	}

	var b strings.Builder
	for i := 0; i < cols; i++ {
		b.WriteString(headerStyle.Render(pad(i, tbl.Headers[i])))
	}
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", max(0, used-2))))

	for ri, row := range tbl.Rows {
		b.WriteString("\n")
		selected := ri == tbl.Selected
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			flagged := tbl.Flagged != nil && tbl.Flagged(ri, i)
			style := cellStyle
			switch {
			case flagged && selected:
				style = flagSelStyle
			case flagged:
				style = flagStyle
			case selected:
				style = selStyle
			case tbl.Emphasis != nil && tbl.Emphasis(ri):
				style = boldStyle
			}
			b.WriteString(style.Render(pad(i, cell)))
		}
	}
	return b.String()
}

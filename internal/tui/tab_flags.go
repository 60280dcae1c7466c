package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/export"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/tui/components"
	"github.com/theirongolddev/wipflags/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// tableText formats every cell of a report table for display.
func tableText(tbl export.Table) [][]string {
	rows := make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = cli.FormatCell(v)
		}
	}
	return rows
}

func (a App) renderFlagsTab(cw int) string {
	rep := a.report
	if rep == nil {
		return a.noReportCard(cw)
	}
	innerW := components.CardInnerWidth(cw)

	tbl := export.FlagsTable(rep)
	rows := tableText(tbl)
	table := components.RenderTable(components.Table{
		Headers:  []string{"Category", "Budget", "Budget/Kit", "Activity", "Activity/Kit", "Variance", "Red Flag"},
		Rows:     rows,
		Selected: a.flagCursor,
		Flagged: func(row, col int) bool {
			if col != tbl.FlagCol {
				return false
			}
			v := rows[row][col]
			return v != "" && v != model.NoRedFlag
		},
	}, innerW)

	var b strings.Builder
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Budget vs Activity · as of %s", cli.FormatMonth(rep.AsOf)), table, cw))
	b.WriteString("\n")
	b.WriteString(a.renderFlagChart(cw))
	return b.String()
}

// renderFlagChart charts the running total of the selected category
// against its budget, up to the as-of month.
func (a App) renderFlagChart(cw int) string {
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rep := a.report
	if a.flagCursor >= len(rep.Rows) {
		return ""
	}
	row := rep.Rows[a.flagCursor]
	title := row.Category.Label() + " · cumulative vs budget"

	s, ok := rep.Series[row.Category]
	if !ok || !costCategory(row.Category) {
		return components.ContentCard(title, mutedStyle.Render("Not charted for this category."), cw)
	}
	n := s.ActualMonths()
	if n == 0 {
		return components.ContentCard(title, mutedStyle.Render("No actuals before "+cli.FormatMonth(rep.AsOf)+"."), cw)
	}

	color := t.Series(row.Category.IsRevenue())
	if row.Flag.Raised() {
		color = t.Flag(true)
	}
	chart := components.BarChart(s.Cumulative[:n], monthLabels(s.Months[:n]), color, components.CardInnerWidth(cw), 10, row.Budget)

	legend := mutedStyle.Render(fmt.Sprintf("budget %s  ┄ marks the budget line  red flag %s",
		cli.FormatMoney(row.Budget), row.Flag.String()))
	return components.ContentCard(title, chart+"\n"+legend, cw)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/tui/components"
	"github.com/theirongolddev/wipflags/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw int) string {
	rep := a.report
	if rep == nil {
		return a.noReportCard(cw)
	}
	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	innerW := components.CardInnerWidth(cw)

	rows := make([][]string, len(rep.Projections))
	for i, p := range rep.Projections {
		months := "-"
		if !p.Empty() {
			months = fmt.Sprintf("%d", p.TotalMonths)
		}
		rows[i] = []string{
			p.Label,
			cli.FormatMoney(p.RemainingBudget),
			cli.FormatMoney(p.MonthlyRate),
			months,
			components.Sparkline(p.Months, t.Accent),
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Burn-down", components.RenderTable(components.Table{
		Headers:  []string{"Rollup", "Remaining", "Monthly Rate", "Months", "Path"},
		Rows:     rows,
		Selected: a.forecastCursor,
	}, innerW), cw))
	b.WriteString("\n")

	if a.forecastCursor >= len(rep.Projections) {
		return b.String()
	}
	p := rep.Projections[a.forecastCursor]
	b.WriteString(components.ContentCard(p.Label+" · projected remaining", a.projectionBody(p, innerW, mutedStyle), cw))
	return b.String()
}

func (a App) projectionBody(p model.Projection, width int, mutedStyle lipgloss.Style) string {
	if p.Empty() {
		if p.RemainingBudget >= 0 {
			return mutedStyle.Render("Budget is used up, nothing left to project.")
		}
		return mutedStyle.Render("No spending rate to project from.")
	}

	labels := make([]string, len(p.Months))
	for i := range labels {
		labels[i] = fmt.Sprintf("M%d", i+1)
	}
	chart := components.BarChart(p.Months, labels, theme.Active.Accent, width, 10, 0)
	text := fmt.Sprintf("%s of budget left at %s per month is used up in %d months",
		cli.FormatMoney(-p.RemainingBudget), cli.FormatMoney(p.MonthlyRate), p.TotalMonths)
	if p.Truncated() {
		text += fmt.Sprintf(" (chart shows the first %d)", len(p.Months))
	}
	return chart + "\n" + mutedStyle.Render(text)
}

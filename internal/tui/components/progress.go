package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/tui/theme"
)

// BudgetBar renders a labeled bar of activity against budget with the
// consumed share and the amounts. Consumption over 100% pins the bar full.
func BudgetBar(label string, activity, budget float64, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if budget != 0 {
		pct = activity / budget
	}
	shown := max(0, min(pct, 1))
	color := t.Consumption(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(shown) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", pct*100)) +
		spaceStyle.Render("  ") +
		amountStyle.Render(fmt.Sprintf("%s of %s", cli.FormatCompact(activity), cli.FormatCompact(budget)))
}

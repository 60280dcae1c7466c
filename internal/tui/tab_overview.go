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

const maxListedIssues = 6

func (a App) renderOverviewTab(cw int) string {
	rep := a.report
	if rep == nil {
		return a.noReportCard(cw)
	}
	t := theme.Active

	var costBudget, costActivity float64
	for _, r := range rep.Rows {
		if costCategory(r.Category) && !r.Category.IsRevenue() {
			costBudget += r.Budget
			costActivity += r.TotalActivity
		}
	}
	raised := rep.RaisedFlags()

	kitsNote := ""
	if a.req.Kits != nil {
		kitsNote = "override"
	}
	variance := costActivity - costBudget

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Cost Budget", Value: cli.FormatCompact(costBudget), Note: cli.FormatMoney(costBudget)},
		{Label: "Cost Activity", Value: cli.FormatCompact(costActivity), Note: cli.FormatVariance(variance) + " vs budget", Alert: variance > 0},
		{Label: "Red Flags", Value: fmt.Sprintf("%d of %d", len(raised), len(rep.Flags)), Alert: len(raised) > 0},
		{Label: "Kits", Value: cli.FormatKits(rep.Kits), Note: kitsNote},
	}, cw))
	b.WriteString("\n")

	// Budget consumption per category
	innerW := components.CardInnerWidth(cw)
	labelW := 20
	barW := max(10, innerW-labelW-32)

	var bars strings.Builder
	for _, r := range rep.Rows {
		if !costCategory(r.Category) {
			continue
		}
		if bars.Len() > 0 {
			bars.WriteString("\n")
		}
		bars.WriteString(components.BudgetBar(r.Category.Label(), r.TotalActivity, r.Budget, labelW, barW))
	}

	// Flag list
	flagStyle := lipgloss.NewStyle().Foreground(t.Overrun).Background(t.Surface).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.OnTrack).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var flags strings.Builder
	for i, f := range rep.Flags {
		if i > 0 {
			flags.WriteString("\n")
		}
		if f.Raised() {
			flags.WriteString(flagStyle.Render("● "))
			flags.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.Category.Label())))
			flags.WriteString(flagStyle.Render(f.String()))
		} else {
			flags.WriteString(okStyle.Render("○ "))
			flags.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.Category.Label())))
			flags.WriteString(mutedStyle.Render(model.NoRedFlag))
		}
	}

	if cw >= 140 {
		half := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Budget Consumed", bars.String(), half[0]),
			components.ContentCard("Red Flags", flags.String(), half[1]),
		}))
	} else {
		b.WriteString(components.ContentCard("Budget Consumed", bars.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Red Flags", flags.String(), cw))
	}

	if issues := a.renderIssues(); issues != "" {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Data Issues", issues, cw))
	}
	return b.String()
}

// renderIssues lists budget lines that matched no category, amounts that
// could not be parsed and actuals columns that were not read as months.
func (a App) renderIssues() string {
	rep := a.report
	if len(rep.Unclassified) == 0 && len(rep.Issues) == 0 && len(rep.Skipped) == 0 {
		return ""
	}
	t := theme.Active
	warnStyle := lipgloss.NewStyle().Foreground(t.NearLimit).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	if n := len(rep.Unclassified); n > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d budget lines matched no category", n)))
		for i, l := range rep.Unclassified {
			if i == maxListedIssues {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("  … %d more (wipflags rules explain)", n-i)))
				break
			}
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("  row %d  %s  %s", l.Row, truncStr(l.Description, 40), cli.FormatMoney(l.Cost()))))
		}
	}
	if n := len(rep.Issues); n > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d amounts could not be read and count as zero", n)))
		for i, is := range rep.Issues {
			if i == maxListedIssues {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("  … %d more", n-i)))
				break
			}
			lines = append(lines, mutedStyle.Render("  "+truncStr(is.String(), 70)))
		}
	}
	if n := len(rep.Skipped); n > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d actuals columns are not months and were ignored", n)))
		for i, h := range rep.Skipped {
			if i == maxListedIssues {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("  … %d more", n-i)))
				break
			}
			lines = append(lines, mutedStyle.Render("  "+truncStr(h.String(), 70)))
		}
	}
	return strings.Join(lines, "\n")
}

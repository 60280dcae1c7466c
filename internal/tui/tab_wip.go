package tui

import (
	"strings"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/export"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/tui/components"
)

func (a App) renderWIPTab(cw int) string {
	rep := a.report
	if rep == nil {
		return a.noReportCard(cw)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "NRE Remaining", Value: cli.FormatCompact(rep.NRE.Total.Remaining), Alert: rep.NRE.Total.Remaining > 0},
		{Label: "NRE Net", Value: cli.FormatCompact(rep.NRE.Net.Actual), Note: "after milestones"},
		{Label: "Kits Remaining", Value: cli.FormatCompact(rep.KitSummary.Total.Remaining), Alert: rep.KitSummary.Total.Remaining > 0},
		{Label: "Kits Net", Value: cli.FormatCompact(rep.KitSummary.Net.Actual), Note: "after kit sales"},
	}, cw))
	b.WriteString("\n")
	b.WriteString(a.summaryCard(rep.NRE, cw))
	b.WriteString("\n")
	b.WriteString(a.summaryCard(rep.KitSummary, cw))
	return b.String()
}

// summaryCard renders one WIP rollup. Total, average, revenue and net
// lines are emphasized; a positive remaining total is flagged.
func (a App) summaryCard(s model.WIPSummary, cw int) string {
	tbl := export.SummaryTable(s)
	rows := tableText(tbl)

	firstTotal := len(s.Rows)
	lastTotal := firstTotal + 2 // Total, Revenue, Net
	if s.Averages != nil {
		lastTotal++
	}

	table := components.RenderTable(components.Table{
		Headers:  []string{"Category", "Budget", "Actual", "Forecast", "Remaining"},
		Rows:     rows,
		Selected: -1,
		Emphasis: func(row int) bool {
			return row >= firstTotal && row <= lastTotal
		},
		Flagged: func(row, col int) bool {
			return row == firstTotal && col == 4 && s.Total.Remaining > 0
		},
	}, components.CardInnerWidth(cw))

	return components.ContentCard(tbl.Name, table, cw)
}

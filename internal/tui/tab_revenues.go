package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/tui/components"
	"github.com/theirongolddev/wipflags/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
)

var revenueGroups = []string{pipeline.GroupAll, pipeline.GroupCosts, pipeline.GroupRevenues}

// revenuesState tracks the revenues tab: which rows feed the series and
// which series is selected.
type revenuesState struct {
	group       int // index into revenueGroups
	allProjects bool
	cumulative  bool
	cursor      int

	series []model.RevenueSeries
	months []time.Time
	err    error
}

func newRevenuesState() revenuesState {
	return revenuesState{}
}

// recompute rebuilds the series from the loaded actuals.
func (s *revenuesState) recompute(ds *pipeline.Dataset, project string, asOf time.Time) {
	s.series, s.months, s.err = nil, nil, nil
	if ds == nil {
		return
	}
	var projects []string
	if !s.allProjects {
		if project == "" {
			return
		}
		projects = []string{project}
	}

	rows, err := pipeline.SelectRows(ds.Actuals.Rows, projects, revenueGroups[s.group])
	if err != nil {
		s.err = err
		return
	}
	s.series, s.err = pipeline.RevenueSeries(rows, asOf, s.cumulative)
	s.months = pipeline.UnionMonths(s.series)
	s.cursor = max(0, min(s.cursor, len(s.series)-1))
}

// updateRevenuesKey handles the revenues tab toggles. It reports whether
// the key was consumed.
func (a *App) updateRevenuesKey(key string) bool {
	switch key {
	case "g":
		a.rev.group = (a.rev.group + 1) % len(revenueGroups)
	case "a":
		a.rev.allProjects = !a.rev.allProjects
	case "t":
		a.rev.cumulative = !a.rev.cumulative
	default:
		return false
	}
	a.rev.cursor = 0
	a.rev.recompute(a.ds, a.req.Project, a.asOf())
	return true
}

func (a App) renderRevenuesTab(cw int) string {
	t := theme.Active
	s := a.rev

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.NearLimit).Background(t.Surface)

	scope := a.req.Project
	if s.allProjects {
		scope = "all projects"
	}
	mode := "monthly"
	if s.cumulative {
		mode = "cumulative"
	}
	controls := mutedStyle.Render("group ") + accentStyle.Render(revenueGroups[s.group]) +
		mutedStyle.Render(" │ scope ") + accentStyle.Render(scope) +
		mutedStyle.Render(" │ ") + accentStyle.Render(mode) +
		mutedStyle.Render("    [g] group  [a] scope  [t] mode")

	var b strings.Builder
	switch {
	case s.err != nil:
		b.WriteString(components.ContentCard("Revenues", controls+"\n\n"+warnStyle.Render(s.err.Error()), cw))
		return b.String()
	case len(s.series) == 0:
		msg := "No actuals before " + cli.FormatMonth(a.asOf()) + " match this selection."
		if !s.allProjects && a.req.Project == "" {
			msg = "No project selected. Press [a] for all projects or [p] to choose one."
		}
		b.WriteString(components.ContentCard("Revenues", controls+"\n\n"+mutedStyle.Render(msg), cw))
		return b.String()
	}

	innerW := components.CardInnerWidth(cw)
	trendW := max(8, min(24, len(s.months)))

	rows := make([][]string, len(s.series))
	for i, rs := range s.series {
		vals := rs.Values()
		last := 0.0
		if len(vals) > 0 {
			last = vals[len(vals)-1]
		}
		rows[i] = []string{
			truncStr(rs.Project, 16),
			truncStr(rs.Category, 22),
			fmt.Sprintf("%d", len(rs.Points)),
			components.Sparkline(tail(vals, trendW), t.Accent),
			cli.FormatMoney(last),
		}
		if !s.cumulative {
			rows[i] = append(rows[i], cli.FormatMoney(floats.Sum(vals)))
		}
	}
	headers := []string{"Project", "Category", "Months", "Trend", "Last"}
	if !s.cumulative {
		headers = append(headers, "Total")
	}

	table := components.RenderTable(components.Table{
		Headers:  headers,
		Rows:     rows,
		Selected: s.cursor,
	}, innerW)

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Series (%d)", len(s.series)),
		controls+"\n\n"+table, cw))
	b.WriteString("\n")

	sel := s.series[s.cursor]
	months := make([]time.Time, len(sel.Points))
	for i, p := range sel.Points {
		months[i] = p.Month
	}
	chartTitle := fmt.Sprintf("%s · %s", sel.Project, sel.Category)
	cat, _ := model.ParseCategory(sel.Category)
	chart := components.BarChart(sel.Values(), monthLabels(months), t.Series(cat.IsRevenue()), innerW, 10, 0)
	b.WriteString(components.ContentCard(chartTitle, chart, cw))

	return b.String()
}

func tail(v []float64, n int) []float64 {
	if len(v) <= n {
		return v
	}
	return v[len(v)-n:]
}

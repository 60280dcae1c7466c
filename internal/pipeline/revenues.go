package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

// Category groups accepted by SelectRows.
const (
	GroupAll      = "all"
	GroupCosts    = "costs"
	GroupRevenues = "revenues"
)

// SelectRows filters actuals rows by project and category group. Projects
// are matched case-insensitively; an empty list keeps every project. The
// group is "all", "costs", "revenues" or a single category label. WIP
// balances and the kit count are never part of a money series.
func SelectRows(rows []model.ActualsRow, projects []string, group string) ([]model.ActualsRow, error) {
	keep, err := groupFilter(group)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(projects))
	for _, p := range projects {
		wanted[strings.ToLower(strings.TrimSpace(p))] = true
	}

	var out []model.ActualsRow
	for _, r := range rows {
		if len(wanted) > 0 && !wanted[strings.ToLower(r.Project)] {
			continue
		}
		if r.Known && (r.Category.IsWIP() || r.Category == model.NumberOfKits) {
			continue
		}
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func groupFilter(group string) (func(model.ActualsRow) bool, error) {
	g := strings.ToLower(strings.TrimSpace(group))
	switch g {
	case "", GroupAll:
		return func(model.ActualsRow) bool { return true }, nil
	case GroupCosts:
		return func(r model.ActualsRow) bool { return !r.Known || !r.Category.IsRevenue() }, nil
	case GroupRevenues:
		return func(r model.ActualsRow) bool { return r.Known && r.Category.IsRevenue() }, nil
	}
	if c, ok := model.ParseCategory(group); ok {
		return func(r model.ActualsRow) bool { return r.Known && r.Category == c }, nil
	}
	// Free-text labels the category enum does not know.
	return func(r model.ActualsRow) bool { return strings.EqualFold(r.Label, strings.TrimSpace(group)) }, nil
}

// RevenueSeries returns one series per row, keeping only months before
// asOf's month. With cumulative set each point is the running total.
func RevenueSeries(rows []model.ActualsRow, asOf time.Time, cumulative bool) ([]model.RevenueSeries, error) {
	cutoff := sheet.MonthStart(asOf)
	out := make([]model.RevenueSeries, 0, len(rows))
	for _, r := range rows {
		n := 0
		for n < len(r.Months) && r.Months[n].Before(cutoff) {
			n++
		}
		amounts := r.Amounts[:n]
		if cumulative {
			cum, err := Cumulative(r.Months[:n], amounts)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", r.Project, r.Label, err)
			}
			amounts = cum
		}

		rs := model.RevenueSeries{Project: r.Project, Category: r.Label}
		for i := 0; i < n; i++ {
			rs.Points = append(rs.Points, model.RevenuePoint{Month: r.Months[i], Amount: Round2(amounts[i])})
		}
		out = append(out, rs)
	}
	return out, nil
}

// UnionMonths returns every month present in any series, in order.
func UnionMonths(series []model.RevenueSeries) []time.Time {
	seen := make(map[int64]time.Time)
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.Month.Unix()] = p.Month
		}
	}
	out := make([]time.Time, 0, len(seen))
	for _, m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

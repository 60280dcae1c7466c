// Package pipeline turns a loaded workbook into budget reconciliation
// reports: budget figures, reconciled actuals, red flags, WIP rollups and
// forecasts.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

// Request carries everything one analysis needs. Nothing is read from
// package state.
type Request struct {
	Project string
	AsOf    time.Time         // zero means now
	Kits    *float64          // overrides the budget's kit count
	Rules   *classify.RuleSet // nil means classify.Default()
	Log     *zerolog.Logger
}

func (r Request) logger() zerolog.Logger {
	if r.Log == nil {
		return zerolog.Nop()
	}
	return *r.Log
}

func (r Request) asOf() time.Time {
	if r.AsOf.IsZero() {
		return sheet.MonthStart(time.Now())
	}
	return sheet.MonthStart(r.AsOf)
}

// Report is the full analysis of one project.
type Report struct {
	RunID       uuid.UUID
	Project     string
	AsOf        time.Time
	GeneratedAt time.Time

	Kits         float64
	Budget       model.BudgetFigures
	Unclassified []model.BudgetLine
	Issues       []sheet.AmountIssue   // budget sheet and this project's actuals rows
	Skipped      []sheet.SkippedHeader // actuals columns left out of every series

	Actuals []model.ActualsRow
	Series  map[model.Category]model.Series
	Rows    []model.BudgetRow
	Flags   []model.RedFlag

	NRE         model.WIPSummary
	KitSummary  model.WIPSummary
	Projections []model.Projection
}

// RaisedFlags returns only the flags that crossed budget.
func (r *Report) RaisedFlags() []model.RedFlag {
	var out []model.RedFlag
	for _, f := range r.Flags {
		if f.Raised() {
			out = append(out, f)
		}
	}
	return out
}

// Analyze runs the full reconciliation for one project.
func Analyze(ds *Dataset, req Request) (*Report, error) {
	if req.Project == "" {
		return nil, fmt.Errorf("analyze: no project selected")
	}
	log := req.logger().With().Str("project", req.Project).Logger()

	budget, err := ds.Workbook.Budget(req.Project)
	if err != nil {
		return nil, err
	}

	rules := req.Rules
	if rules == nil {
		rules = classify.Default()
	}
	classified := rules.Partition(budget.Lines)
	for _, l := range classified.Unclassified {
		log.Warn().
			Str("sheet", budget.Sheet).
			Int("row", l.Row).
			Str("description", l.Description).
			Msg("budget line matched no category")
	}

	issues := append([]sheet.AmountIssue(nil), budget.Issues...)
	rows := ds.Actuals.ForProject(req.Project)
	issues = append(issues, ds.Actuals.IssuesFor(req.Project)...)
	for _, iss := range issues {
		log.Warn().
			Str("sheet", iss.Sheet).
			Str("cell", iss.Cell).
			Str("raw", iss.Raw).
			Msg("unreadable amount counted as zero")
	}
	if len(rows) == 0 {
		log.Warn().Msg("no actuals rows for project")
	}

	asOf := req.asOf()
	fig := AggregateBudget(req.Project, classified)

	kits := fig.NumberOfKits
	if req.Kits != nil {
		kits = *req.Kits
	}

	series, err := ReconcileAll(rows, asOf)
	if err != nil {
		return nil, fmt.Errorf("reconciling %s: %w", req.Project, err)
	}

	flags := DetectFlags(fig, series)
	rep := &Report{
		RunID:        uuid.New(),
		Project:      req.Project,
		AsOf:         asOf,
		GeneratedAt:  time.Now(),
		Kits:         kits,
		Budget:       fig,
		Unclassified: classified.Unclassified,
		Issues:       issues,
		Skipped:      ds.Actuals.Skipped,
		Actuals:      rows,
		Series:       series,
		Flags:        flags,
		Rows:         BudgetRows(fig, kits, series, ActivityTotals(rows), flags),
		NRE:          SummarizeNRE(fig, series, kits),
		KitSummary:   SummarizeKits(fig, series, kits),
	}
	rep.Projections = []model.Projection{
		ProjectSummary(rep.NRE, kits),
		ProjectSummary(rep.KitSummary, kits),
	}

	log.Debug().
		Str("run_id", rep.RunID.String()).
		Int("flags", len(rep.RaisedFlags())).
		Int("unclassified", len(rep.Unclassified)).
		Msg("analysis complete")
	return rep, nil
}

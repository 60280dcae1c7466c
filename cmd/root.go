// Package cmd implements the wipflags CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/config"
	"github.com/theirongolddev/wipflags/internal/logging"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

var (
	flagWorkbook string
	flagProject  string
	flagSheet    string
	flagSkipRows int
	flagKits     float64
	flagAsOf     string
	flagRules    string
	flagQuiet    bool
	flagLogLevel string
)

// cfg and logger are populated by initConfig before any command runs.
var (
	cfg    config.Config
	logger zerolog.Logger
)

var errNoWorkbook = errors.New("no workbook: pass --workbook, set WIPFLAGS_WORKBOOK or run `wipflags setup`")

var rootCmd = &cobra.Command{
	Use:   "wipflags",
	Short: "Project budget vs actuals reconciliation",
	Long: "Reconcile project budgets against monthly actuals from a finance workbook:\n" +
		"red flags, WIP rollups, forecasts and revenue series.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runFlags,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagWorkbook, "workbook", "w", "", "Workbook file (.xlsx or .xls)")
	pf.StringVarP(&flagProject, "project", "p", "", "Project id (budget sheet name)")
	pf.StringVar(&flagSheet, "sheet", "", "Actuals sheet name (default \"Revenue Actuals\")")
	pf.IntVar(&flagSkipRows, "skip-rows", 33, "Rows above the actuals header")
	pf.Float64Var(&flagKits, "kits", 0, "Override the budgeted number of kits")
	pf.StringVar(&flagAsOf, "as-of", "", "Reference month YYYY-MM (default current month)")
	pf.StringVar(&flagRules, "rules", "", "YAML classification rules file")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := cfg.General.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger = logging.New(logging.Config{Level: level, Pretty: true})
	logging.SetGlobalLogger(logger)

	if flagWorkbook == "" {
		flagWorkbook = cfg.General.Workbook
	}
	if flagProject == "" {
		flagProject = cfg.General.Project
	}
	if flagSheet == "" {
		flagSheet = cfg.Layout.ActualsSheet
	}
	if !cmd.Flags().Changed("skip-rows") {
		flagSkipRows = cfg.Layout.SkipRows
	}
	if flagRules == "" {
		flagRules = cfg.Rules.File
	}
	return nil
}

func layout() sheet.Layout {
	return sheet.Layout{ActualsSheet: flagSheet, SkipRows: flagSkipRows}
}

// loadData is the shared data loading path used by all commands.
func loadData() (*pipeline.Dataset, error) {
	if flagWorkbook == "" {
		return nil, errNoWorkbook
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", flagWorkbook)
	}

	ds, err := pipeline.Load(flagWorkbook, layout())
	if err != nil {
		return nil, err
	}

	ds.LogSkippedHeaders(logger)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %d sheets, %s actuals rows across %d projects\n",
			len(ds.Workbook.SheetNames()),
			cli.FormatNumber(int64(len(ds.Actuals.Rows))),
			len(ds.Actuals.Projects()),
		)
		if n := len(ds.Actuals.Issues); n > 0 {
			fmt.Fprintf(os.Stderr, "  %d unreadable amounts counted as zero\n", n)
		}
	}
	return ds, nil
}

// request builds the analysis request from flags and config.
func request(cmd *cobra.Command) (pipeline.Request, error) {
	req := pipeline.Request{Project: flagProject, Log: &logger}

	switch {
	case cmd.Flags().Changed("kits"):
		if flagKits < 0 {
			return req, fmt.Errorf("--kits must not be negative")
		}
		kits := flagKits
		req.Kits = &kits
	case cfg.General.Kits != nil:
		kits := *cfg.General.Kits
		req.Kits = &kits
	}

	if flagAsOf != "" {
		asOf, err := parseAsOf(flagAsOf)
		if err != nil {
			return req, err
		}
		req.AsOf = asOf
	}

	rules, err := classify.Load(flagRules)
	if err != nil {
		return req, err
	}
	req.Rules = rules
	return req, nil
}

func parseAsOf(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range []string{"2006-01", "2006-01-02"} {
		if t, err := time.Parse(l, s); err == nil {
			return sheet.MonthStart(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("--as-of: expected YYYY-MM, got %q", s)
}

// analyze loads the workbook and analyzes the selected project.
func analyze(cmd *cobra.Command) (*pipeline.Report, error) {
	req, err := request(cmd)
	if err != nil {
		return nil, err
	}
	if req.Project == "" {
		return nil, fmt.Errorf("no project selected: pass --project (see `wipflags projects`)")
	}
	ds, err := loadData()
	if err != nil {
		return nil, err
	}
	return pipeline.Analyze(ds, req)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/export"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
)

var (
	flagRevProjects   []string
	flagRevGroup      string
	flagRevCumulative bool
	flagRevWide       bool
)

var revenuesCmd = &cobra.Command{
	Use:   "revenues",
	Short: "Monthly actuals series per project and category",
	Long: "Monthly actuals for past months per project and category.\n" +
		"Groups: all, costs, revenues (Kit Sales and Milestones) or a single category label.",
	RunE: runRevenues,
}

func init() {
	revenuesCmd.Flags().StringSliceVar(&flagRevProjects, "projects", nil, "Projects to include (default --project, or all)")
	revenuesCmd.Flags().StringVarP(&flagRevGroup, "group", "g", pipeline.GroupAll, "Category group: all, costs, revenues or a category label")
	revenuesCmd.Flags().BoolVarP(&flagRevCumulative, "cumulative", "c", false, "Show running totals")
	revenuesCmd.Flags().BoolVar(&flagRevWide, "wide", false, "Print one column per month")
	rootCmd.AddCommand(revenuesCmd)
}

// revenueSeries selects and builds the series shared by revenues and export.
func revenueSeries(cmd *cobra.Command, ds *pipeline.Dataset) ([]model.RevenueSeries, time.Time, error) {
	req, err := request(cmd)
	if err != nil {
		return nil, time.Time{}, err
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	rows, err := selectedRows(ds)
	if err != nil {
		return nil, asOf, err
	}
	series, err := pipeline.RevenueSeries(rows, asOf, flagRevCumulative)
	return series, asOf, err
}

// selectedRows applies --projects (default --project) and --group.
func selectedRows(ds *pipeline.Dataset) ([]model.ActualsRow, error) {
	projects := flagRevProjects
	if len(projects) == 0 && flagProject != "" {
		projects = []string{flagProject}
	}
	return pipeline.SelectRows(ds.Actuals.Rows, projects, flagRevGroup)
}

func runRevenues(cmd *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	series, asOf, err := revenueSeries(cmd, ds)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		fmt.Println("\n  No actuals match the selected projects and group.")
		return nil
	}

	title := "REVENUES"
	if flagRevCumulative {
		title += " (cumulative)"
	}
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s  before %s", title, flagRevGroup, cli.FormatMonth(asOf))))
	fmt.Println()

	if flagRevWide {
		fmt.Print(renderTable(export.SeriesTable(series)))
		return nil
	}

	rows := make([][]string, 0, len(series))
	for _, s := range series {
		vals := s.Values()
		last := "-"
		total := 0.0
		for _, v := range vals {
			total += v
		}
		if len(vals) > 0 {
			last = cli.FormatMoney(vals[len(vals)-1])
		}
		if flagRevCumulative && len(vals) > 0 {
			total = vals[len(vals)-1]
		}
		rows = append(rows, []string{
			truncate(s.Project, 16),
			truncate(s.Category, 24),
			cli.FormatNumber(int64(len(vals))),
			cli.RenderSparkline(vals),
			last,
			cli.FormatMoney(total),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Project", "Category", "Months", "Trend", "Last", "Total"},
		Rows:    rows,
	}))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/export"
	"github.com/theirongolddev/wipflags/internal/pipeline"
)

var wipCmd = &cobra.Command{
	Use:     "wip",
	Aliases: []string{"summary"},
	Short:   "NRE and kit WIP rollups",
	RunE:    runWIP,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Months until the remaining budget is spent",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(wipCmd)
	rootCmd.AddCommand(forecastCmd)
}

func runWIP(cmd *cobra.Command, _ []string) error {
	rep, err := analyze(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WIP ANALYSIS  %s  %s kits", rep.Project, cli.FormatKits(rep.Kits))))
	fmt.Println()

	fmt.Print(renderTable(export.SummaryTable(rep.NRE)))
	fmt.Println()
	fmt.Print(renderTable(export.SummaryTable(rep.KitSummary)))
	fmt.Println()
	printForecast(rep)

	printReportWarnings(rep)
	return nil
}

func runForecast(cmd *cobra.Command, _ []string) error {
	rep, err := analyze(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  %s  as of %s", rep.Project, cli.FormatMonth(rep.AsOf))))
	fmt.Println()
	printForecast(rep)
	return nil
}

func printForecast(rep *pipeline.Report) {
	empty := true
	for _, p := range rep.Projections {
		if !p.Empty() {
			empty = false
		}
	}
	if empty {
		fmt.Println("  Nothing to forecast: no remaining budget or no monthly activity yet.")
		return
	}

	fmt.Print(renderTable(export.ForecastTable(rep.Projections)))
	for _, p := range rep.Projections {
		if p.Empty() {
			continue
		}
		note := fmt.Sprintf("%d months", p.TotalMonths)
		if p.Truncated() {
			note += fmt.Sprintf(" (first %d shown)", len(p.Months))
		}
		fmt.Printf("  %-12s %s  %s\n", p.Label, cli.RenderSparkline(p.Months), note)
	}
}

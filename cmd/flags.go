package cmd

import (
	"fmt"
	"math"
	"slices"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/export"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Budget vs total activity with red flags",
	RunE:  runFlags,
}

func init() {
	rootCmd.AddCommand(flagsCmd)
}

func runFlags(cmd *cobra.Command, _ []string) error {
	rep, err := analyze(cmd)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RED FLAGS  %s  as of %s", rep.Project, cli.FormatMonth(rep.AsOf))))
	fmt.Println()

	fmt.Print(renderTable(export.FlagsTable(rep)))

	fmt.Println()
	fmt.Println(budgetChart(rep))

	printReportWarnings(rep)
	return nil
}

// renderTable converts an export table to terminal text, highlighting
// raised red flags.
func renderTable(t export.Table) string {
	rows := make([][]string, 0, len(t.Rows)+len(t.Breaks))
	for i, row := range t.Rows {
		if slices.Contains(t.Breaks, i) && i > 0 {
			rows = append(rows, []string{cli.SeparatorRow})
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cli.FormatCell(v)
		}
		rows = append(rows, cells)
	}
	return cli.RenderTable(cli.Table{
		Title:   t.Name,
		Headers: t.Headers,
		Rows:    rows,
		Flagged: func(row, col int) bool {
			if col != t.FlagCol || row >= len(rows) || col >= len(rows[row]) {
				return false
			}
			s := rows[row][col]
			return s != "" && s != model.NoRedFlag
		},
	})
}

// budgetChart draws budget vs activity bars for the cost categories.
func budgetChart(rep *pipeline.Report) string {
	var rows []model.BudgetRow
	maxVal := 0.0
	for _, r := range rep.Rows {
		if r.Category == model.NumberOfKits || r.Category.IsRevenue() || r.Category.IsWIP() {
			continue
		}
		rows = append(rows, r)
		maxVal = math.Max(maxVal, math.Max(math.Abs(r.Budget), math.Abs(r.TotalActivity)))
	}

	out := ""
	for _, r := range rows {
		out += cli.RenderBudgetBars(r.Category.Label(), r.Budget, r.TotalActivity, maxVal, 40)
	}
	return out
}

func printReportWarnings(rep *pipeline.Report) {
	if flagQuiet {
		return
	}
	if n := len(rep.Unclassified); n > 0 {
		fmt.Printf("\n  %d budget lines matched no category\n", n)
	}
	if len(rep.Actuals) == 0 {
		fmt.Printf("\n  No actuals rows for %s\n", rep.Project)
	}
	for _, h := range rep.Skipped {
		fmt.Printf("\n  Ignored actuals column %s\n", h)
	}
}

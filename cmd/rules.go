package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/cli"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active classification rules as YAML",
	Long: "Print the active budget classification rules as YAML. Save the output,\n" +
		"edit it and pass it back with --rules (or [rules] file in the config).",
	RunE: runRules,
}

var rulesExplainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show which categories each budget line of --project falls into",
	RunE:  runRulesExplain,
}

func init() {
	rulesCmd.AddCommand(rulesExplainCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRules(_ *cobra.Command, _ []string) error {
	rules, err := classify.Load(flagRules)
	if err != nil {
		return err
	}
	return rules.Encode(os.Stdout)
}

func runRulesExplain(_ *cobra.Command, _ []string) error {
	if flagProject == "" {
		return fmt.Errorf("no project selected: pass --project")
	}
	rules, err := classify.Load(flagRules)
	if err != nil {
		return err
	}
	ds, err := loadData()
	if err != nil {
		return err
	}
	budget, err := ds.Workbook.Budget(flagProject)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CLASSIFICATION  %s", budget.Sheet)))
	fmt.Println()

	rows := make([][]string, 0, len(budget.Lines))
	for _, l := range budget.Lines {
		var labels []string
		for _, c := range rules.Classify(l) {
			labels = append(labels, c.Label())
		}
		cats := strings.Join(labels, ", ")
		if cats == "" {
			cats = "unclassified"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", l.Row),
			truncate(l.Description, 32),
			truncate(l.Unit, 12),
			cli.FormatMoney(l.Cost()),
			cats,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Row", "Description", "Unit", "Cost", "Categories"},
		Rows:    rows,
		Flagged: func(row, col int) bool { return col == 4 && rows[row][4] == "unclassified" },
	}))
	return nil
}

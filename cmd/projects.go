package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/pipeline"
)

var flagProjectsAnalyze bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Projects in the actuals sheet",
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVarP(&flagProjectsAnalyze, "analyze", "a", false, "Analyze every budgeted project and count raised flags")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	projects := ds.Projects()
	if len(projects) == 0 {
		fmt.Println("\n  No projects found in the actuals sheet.")
		return nil
	}

	flagged := map[string]string{}
	if flagProjectsAnalyze {
		req, err := request(cmd)
		if err != nil {
			return err
		}
		var ids []string
		for _, p := range projects {
			if p.HasBudget {
				ids = append(ids, p.Project)
			}
		}
		progressFn := func(current, total int) {
			if flagQuiet {
				return
			}
			fmt.Fprintf(os.Stderr, "\r  Analyzing %s", cli.RenderProgressBar(current, total, 20))
		}
		results := pipeline.AnalyzeAll(ds, ids, req, progressFn)
		if !flagQuiet && len(ids) > 0 {
			fmt.Fprintln(os.Stderr)
		}
		for _, r := range results {
			if r.Err != nil {
				flagged[r.Project] = "error: " + r.Err.Error()
				continue
			}
			var cats []string
			for _, f := range r.Report.RaisedFlags() {
				cats = append(cats, f.Category.Label())
			}
			if len(cats) == 0 {
				flagged[r.Project] = "none"
			} else {
				flagged[r.Project] = strings.Join(cats, ", ")
			}
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTS  %d", len(projects))))
	fmt.Println()

	headers := []string{"Project", "Budget Sheet", "Actuals Rows"}
	if flagProjectsAnalyze {
		headers = append(headers, "Raised Flags")
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		budget := "missing"
		if p.HasBudget {
			budget = "yes"
		}
		row := []string{
			truncate(p.Project, 24),
			budget,
			cli.FormatNumber(int64(p.Rows)),
		}
		if flagProjectsAnalyze {
			row = append(row, truncate(flagged[p.Project], 60))
		}
		rows = append(rows, row)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: headers,
		Rows:    rows,
		Flagged: func(row, col int) bool {
			if col != 3 {
				return false
			}
			s := rows[row][col]
			return s != "none" && s != ""
		},
	}))

	return nil
}

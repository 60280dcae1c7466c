package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/export"
)

var (
	flagExportFormat string
	flagExportOut    string
	flagExportWhat   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write report tables as CSV or XLSX",
	Long: "Write the flags, WIP summaries and forecast of --project (--what report),\n" +
		"only its red flags (--what red-flags), the revenue series (--what revenues)\n" +
		"or the selected actuals one month per line (--what actuals), as CSV files\n" +
		"or one XLSX workbook.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "xlsx", "Output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (xlsx) or directory (csv)")
	exportCmd.Flags().StringVar(&flagExportWhat, "what", "report", "What to export: report, red-flags, revenues or actuals")
	exportCmd.Flags().StringSliceVar(&flagRevProjects, "projects", nil, "Projects for --what revenues or actuals")
	exportCmd.Flags().StringVarP(&flagRevGroup, "group", "g", "all", "Category group for --what revenues or actuals")
	exportCmd.Flags().BoolVarP(&flagRevCumulative, "cumulative", "c", false, "Running totals for --what revenues")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(flagExportFormat)
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unknown format %q (want csv or xlsx)", flagExportFormat)
	}

	var tables []export.Table
	var base string
	switch flagExportWhat {
	case "report":
		rep, err := analyze(cmd)
		if err != nil {
			return err
		}
		tables = export.ReportTables(rep)
		base = rep.Project + "-" + rep.AsOf.Format("2006-01")
	case "red-flags":
		rep, err := analyze(cmd)
		if err != nil {
			return err
		}
		tables = []export.Table{export.RedFlagTable(rep)}
		base = rep.Project + "-" + rep.AsOf.Format("2006-01")
	case "revenues":
		ds, err := loadData()
		if err != nil {
			return err
		}
		series, asOf, err := revenueSeries(cmd, ds)
		if err != nil {
			return err
		}
		tables = []export.Table{export.SeriesTable(series)}
		base = "revenues-" + asOf.Format("2006-01")
	case "actuals":
		ds, err := loadData()
		if err != nil {
			return err
		}
		rows, err := selectedRows(ds)
		if err != nil {
			return err
		}
		tables = []export.Table{export.ActualsTable(rows)}
		base = "actuals"
	default:
		return fmt.Errorf("unknown export %q (want report, red-flags, revenues or actuals)", flagExportWhat)
	}

	out := flagExportOut
	if format == "xlsx" {
		if out == "" {
			out = base + ".xlsx"
		}
		if err := export.WriteXLSX(out, tables...); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", out)
		return nil
	}

	if out == "" {
		out = "."
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	for _, t := range tables {
		name := strings.ToLower(strings.ReplaceAll(t.Name, " ", "-"))
		path := filepath.Join(out, base+"-"+name+".csv")
		if err := writeCSVFile(path, t); err != nil {
			return err
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Wrote %s\n", path)
		}
	}
	return nil
}

func writeCSVFile(path string, t export.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func orNotSet(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Workbook:   %s\n", orNotSet(cfg.General.Workbook))
	fmt.Printf("    Project:    %s\n", orNotSet(cfg.General.Project))
	if cfg.General.Kits != nil {
		fmt.Printf("    Kits:       %g\n", *cfg.General.Kits)
	} else {
		fmt.Println("    Kits:       from budget")
	}
	fmt.Printf("    Log level:  %s\n", orNotSet(cfg.General.LogLevel))
	fmt.Println()

	fmt.Println("  [Layout]")
	fmt.Printf("    Actuals sheet: %s\n", cfg.Layout.ActualsSheet)
	fmt.Printf("    Skip rows:     %d\n", cfg.Layout.SkipRows)
	fmt.Println()

	fmt.Println("  [Rules]")
	fmt.Printf("    File: %s\n", orNotSet(cfg.Rules.File))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:     %v\n", cfg.TUI.AutoRefresh)
	fmt.Printf("    Refresh interval: %ds\n", cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Server.PollIntervalSec)
	fmt.Println()

	fmt.Println("  Environment overrides: " + config.EnvWorkbook + ", " + config.EnvProject + ", " +
		config.EnvKits + ", " + config.EnvLogLevel + ", " + config.EnvAddr)
	fmt.Println("  Run `wipflags setup` to reconfigure.")
	return nil
}

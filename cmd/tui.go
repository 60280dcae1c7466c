package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/wipflags/internal/config"
	"github.com/theirongolddev/wipflags/internal/tui"
	"github.com/theirongolddev/wipflags/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	req, err := request(cmd)
	if err != nil {
		return err
	}

	// Log lines on stderr would tear the alt screen. The dashboard shows
	// unclassified lines and amount issues itself.
	req.Log = nil

	app := tui.NewApp(tui.Options{
		Workbook:        flagWorkbook,
		Layout:          layout(),
		Request:         req,
		NeedSetup:       !config.Exists() || flagWorkbook == "",
		AutoRefresh:     cfg.TUI.AutoRefresh,
		RefreshInterval: time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

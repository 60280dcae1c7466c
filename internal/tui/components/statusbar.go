package components

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/wipflags/internal/tui/theme"
)

// Status is what the bottom bar reports about the loaded data.
type Status struct {
	Workbook    string
	Project     string
	AsOf        string
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	Raised      int
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	flagStyle := lipgloss.NewStyle().Foreground(t.Overrun).Background(t.Surface).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.OnTrack).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	left := mutedStyle.Render(" [?]help [p]roject [r]efresh [q]uit ")
	if s.Project != "" {
		if s.Raised > 0 {
			left += flagStyle.Render(fmt.Sprintf(" %d flags ", s.Raised))
		} else {
			left += okStyle.Render(" no flags ")
		}
	}

	right := ""
	if s.Workbook != "" {
		right = filepath.Base(s.Workbook)
	}
	if s.AsOf != "" {
		right += " · " + s.AsOf
	}
	switch {
	case s.Refreshing:
		right += " · refreshing…"
	case s.DataAge != "":
		right += " · " + s.DataAge
	}
	if s.AutoRefresh {
		right += " · auto"
	}
	right = mutedStyle.Render(right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + mutedStyle.Render(fmt.Sprintf("%*s", padding, "")) + right)
}

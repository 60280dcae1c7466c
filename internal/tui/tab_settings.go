package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/wipflags/internal/classify"
	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/config"
	"github.com/theirongolddev/wipflags/internal/sheet"
	"github.com/theirongolddev/wipflags/internal/tui/components"
	"github.com/theirongolddev/wipflags/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldWorkbook = iota
	settingsFieldActualsSheet
	settingsFieldSkipRows
	settingsFieldProject
	settingsFieldKits
	settingsFieldRules
	settingsFieldTheme
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldWorkbook:
		ti.Placeholder = "/path/to/wip.xlsx"
		ti.SetValue(a.opts.Workbook)
	case settingsFieldActualsSheet:
		ti.Placeholder = "Revenue Actuals"
		ti.SetValue(a.opts.Layout.ActualsSheet)
	case settingsFieldSkipRows:
		ti.Placeholder = "33"
		ti.SetValue(strconv.Itoa(a.opts.Layout.SkipRows))
	case settingsFieldProject:
		ti.Placeholder = "project id as on the actuals sheet"
		ti.SetValue(a.req.Project)
	case settingsFieldKits:
		ti.Placeholder = "leave empty to use the budget sheet"
		if a.req.Kits != nil {
			ti.SetValue(strconv.FormatFloat(*a.req.Kits, 'f', -1, 64))
		}
	case settingsFieldRules:
		ti.Placeholder = "rules.yaml (leave empty for built-in rules)"
		ti.SetValue(cfg.Rules.File)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "30 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value, applies it to the running
// dashboard and persists it. It returns a reload command when the value
// changes what the report is built from.
func (a *App) settingsSave() tea.Cmd {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	var reload tea.Cmd
	switch a.settings.cursor {
	case settingsFieldWorkbook:
		if err := validateWorkbookPath(val); err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.General.Workbook = val
		a.opts.Workbook = val
		reload = a.reloadCmd()
	case settingsFieldActualsSheet:
		if val == "" {
			a.settings.saveErr = errors.New("sheet name is required")
			return nil
		}
		cfg.Layout.ActualsSheet = val
		a.opts.Layout.ActualsSheet = val
		reload = a.reloadCmd()
	case settingsFieldSkipRows:
		if err := validateSkipRows(val); err != nil {
			a.settings.saveErr = err
			return nil
		}
		n, _ := strconv.Atoi(val)
		cfg.Layout.SkipRows = n
		a.opts.Layout.SkipRows = n
		reload = a.reloadCmd()
	case settingsFieldProject:
		cfg.General.Project = val
		a.req.Project = val
		if a.ds != nil && val != "" {
			reload = analyzeCmd(a.ds, a.req)
		}
	case settingsFieldKits:
		if val == "" {
			cfg.General.Kits = nil
			a.req.Kits = nil
		} else {
			k, err := sheet.ParseAmount(val)
			if err != nil || k < 0 {
				a.settings.saveErr = fmt.Errorf("not a kit count: %q", val)
				return nil
			}
			cfg.General.Kits = &k
			a.req.Kits = &k
		}
		if a.ds != nil && a.req.Project != "" {
			reload = analyzeCmd(a.ds, a.req)
		}
	case settingsFieldRules:
		rules, err := classify.Load(val)
		if err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.Rules.File = val
		a.req.Rules = rules
		if a.ds != nil && a.req.Project != "" {
			reload = analyzeCmd(a.ds, a.req)
		}
	case settingsFieldTheme:
		if _, ok := theme.Lookup(val); !ok {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return nil
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldAutoRefresh:
		on, err := strconv.ParseBool(val)
		if err != nil {
			on = val == "yes" || val == "on"
		}
		cfg.TUI.AutoRefresh = on
		a.autoRefresh = on
	case settingsFieldRefreshInterval:
		sec, err := strconv.Atoi(val)
		if err != nil || time.Duration(sec)*time.Second < minRefreshInterval {
			a.settings.saveErr = errors.New("expected whole seconds, at least 10")
			return nil
		}
		cfg.TUI.RefreshIntervalSec = sec
		a.refreshInterval = time.Duration(sec) * time.Second
	}

	a.settings.saveErr = config.Save(cfg)
	return reload
}

// reloadCmd rereads the workbook with the current options.
func (a *App) reloadCmd() tea.Cmd {
	a.refreshing = true
	return refreshDataCmd(a.opts.Workbook, a.opts.Layout, a.req, time.Time{})
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Saved).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	orNotSet := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}
	kits := "(from budget sheet)"
	if a.req.Kits != nil {
		kits = cli.FormatKits(*a.req.Kits)
	}
	rules := cfg.Rules.File
	if rules == "" {
		rules = "(built-in)"
	}

	fields := []struct{ label, value string }{
		{"Workbook", orNotSet(a.opts.Workbook)},
		{"Actuals Sheet", a.opts.Layout.ActualsSheet},
		{"Skip Rows", strconv.Itoa(a.opts.Layout.SkipRows)},
		{"Project", orNotSet(a.req.Project)},
		{"Kits Override", kits},
		{"Rules File", rules},
		{"Theme", cfg.Appearance.Theme},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(truncStr(f.value, innerW-22))
			formBody.WriteString(marker + label + value)
			if padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(truncStr(f.value, innerW-22)))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.NearLimit).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	row := func(label, value string) {
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label)) + valueStyle.Render(value) + "\n")
	}
	if a.ds != nil {
		budgeted := 0
		projects := a.ds.Projects()
		for _, p := range projects {
			if p.HasBudget {
				budgeted++
			}
		}
		row("Actuals sheet:", a.ds.Actuals.Sheet)
		row("Actuals rows:", cli.FormatNumber(int64(len(a.ds.Actuals.Rows))))
		row("Projects:", fmt.Sprintf("%d (%d with a budget sheet)", len(projects), budgeted))
	}
	row("Load time:", fmt.Sprintf("%.2fs", a.loadTime.Seconds()))
	if a.report != nil {
		row("Report id:", a.report.RunID.String())
	}
	infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", "Config file:")) + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Workbook", infoBody.String(), cw))
	return b.String()
}

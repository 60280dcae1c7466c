package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/wipflags/internal/config"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
	"github.com/theirongolddev/wipflags/internal/tui/theme"
)

// SetupValues holds the first-run wizard answers.
type SetupValues struct {
	Workbook     string
	ActualsSheet string
	SkipRows     string
	Project      string
	Theme        string
}

// SetupValuesFrom seeds the wizard from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Workbook:     cfg.General.Workbook,
		ActualsSheet: cfg.Layout.ActualsSheet,
		SkipRows:     strconv.Itoa(cfg.Layout.SkipRows),
		Project:      cfg.General.Project,
		Theme:        cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.Workbook = strings.TrimSpace(v.Workbook)
	cfg.General.Project = strings.TrimSpace(v.Project)
	if s := strings.TrimSpace(v.ActualsSheet); s != "" {
		cfg.Layout.ActualsSheet = s
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.SkipRows)); err == nil && n >= 0 {
		cfg.Layout.SkipRows = n
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

func (v SetupValues) layout() sheet.Layout {
	l := sheet.Layout{ActualsSheet: strings.TrimSpace(v.ActualsSheet)}
	if n, err := strconv.Atoi(strings.TrimSpace(v.SkipRows)); err == nil && n >= 0 {
		l.SkipRows = n
	}
	return l
}

func validateWorkbookPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("a workbook path is required")
	}
	if _, err := sheet.FormatFromPath(s); err != nil {
		return errors.New("expected an .xlsx or .xls file")
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	return nil
}

func validateSkipRows(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("expected a row count of 0 or more")
	}
	return nil
}

// projectOptions lists the budgeted projects of the chosen workbook.
func projectOptions(v *SetupValues) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(choose later)", "")}
	if validateWorkbookPath(v.Workbook) != nil {
		return opts
	}
	ds, err := pipeline.Load(strings.TrimSpace(v.Workbook), v.layout())
	if err != nil {
		return opts
	}
	for _, p := range ds.Projects() {
		if p.HasBudget {
			opts = append(opts, huh.NewOption(p.Project, p.Project))
		}
	}
	return opts
}

// NewSetupForm builds the first-run wizard. It is run standalone by
// `wipflags setup` and embedded in the dashboard on first launch.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	if v.Theme == "" {
		v.Theme = theme.FlexokiDark.Name
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to wipflags!").
				Description("Point it at the finance workbook that holds the\nactuals sheet and one budget sheet per project."),
			huh.NewInput().
				Title("Workbook").
				Placeholder("/path/to/wip.xlsx").
				Value(&v.Workbook).
				Validate(validateWorkbookPath),
			huh.NewInput().
				Title("Actuals sheet").
				Value(&v.ActualsSheet),
			huh.NewInput().
				Title("Rows above the actuals header").
				Value(&v.SkipRows).
				Validate(validateSkipRows),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default project").
				OptionsFunc(func() []huh.Option[string] { return projectOptions(v) }, &v.Workbook).
				Value(&v.Project),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	).WithShowHelp(false)
}

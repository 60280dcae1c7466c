// Package tui provides the interactive Bubble Tea dashboard for wipflags.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/config"
	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
	"github.com/theirongolddev/wipflags/internal/tui/components"
	"github.com/theirongolddev/wipflags/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the dashboard.
type Options struct {
	Workbook        string
	Layout          sheet.Layout
	Request         pipeline.Request
	NeedSetup       bool
	AutoRefresh     bool
	RefreshInterval time.Duration
}

// DataLoadedMsg is sent when the workbook finishes loading.
type DataLoadedMsg struct {
	Dataset  *pipeline.Dataset
	Report   *pipeline.Report
	ModTime  time.Time
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background refresh completes. Unchanged is
// set when the workbook was not modified since the last load.
type RefreshDataMsg struct {
	DataLoadedMsg
	Unchanged bool
}

// AnalyzedMsg carries the report for a newly selected project.
type AnalyzedMsg struct {
	Report *pipeline.Report
	Err    error
}

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabFlags
	tabWIP
	tabForecast
	tabRevenues
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	opts Options
	req  pipeline.Request

	// Data
	ds       *pipeline.Dataset
	report   *pipeline.Report
	loaded   bool
	loadErr  error
	loadTime time.Duration
	modTime  time.Time

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int

	// Per-tab state
	flagCursor     int
	forecastCursor int
	rev            revenuesState
	settings       settingsState

	// Project picker (huh form)
	picker  *huh.Form
	pickVal *string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180

	// Scroll navigation
	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1  // minimum lines for half-page scroll
	minContentHeight  = 5  // minimum content area height

	minRefreshInterval     = 10 * time.Second
	defaultRefreshInterval = 30 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	interval := opts.RefreshInterval
	if interval < minRefreshInterval {
		interval = defaultRefreshInterval
	}

	a := App{
		opts:            opts,
		req:             opts.Request,
		autoRefresh:     opts.AutoRefresh,
		refreshInterval: interval,
		spinner:         sp,
		rev:             newRevenuesState(),
	}
	a.req.Log = nil

	if opts.NeedSetup {
		cfg := loadConfigOrDefault()
		vals := SetupValuesFrom(cfg)
		if opts.Workbook != "" {
			vals.Workbook = opts.Workbook
		}
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		tickCmd(),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	} else {
		cmds = append(cmds, loadDataCmd(a.opts.Workbook, a.opts.Layout, a.req))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.picker != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.setTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if !a.loaded {
			if key == "q" {
				return a, tea.Quit
			}
			return a, nil
		}

		if a.picker != nil {
			if key == "esc" {
				a.picker = nil
				return a, nil
			}
			return a.updatePicker(msg)
		}

		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.opts.Workbook, a.opts.Layout, a.req, time.Time{})
			}
			return a, nil
		case "R":
			a.autoRefresh = !a.autoRefresh
			cfg := loadConfigOrDefault()
			cfg.TUI.AutoRefresh = a.autoRefresh
			_ = config.Save(cfg)
			return a, nil
		case "p":
			return a.openPicker()
		case "left", "shift+tab":
			a.setTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
			return a, nil
		case "right", "tab":
			a.setTab((a.activeTab + 1) % len(components.Tabs))
			return a, nil
		case "j", "down":
			a.moveCursor(1)
			return a, nil
		case "k", "up":
			a.moveCursor(-1)
			return a, nil
		case "J":
			a.scroll++
			return a, nil
		case "K":
			a.scroll = max(0, a.scroll-1)
			return a, nil
		case "ctrl+d":
			a.scroll += a.halfPage()
			return a, nil
		case "ctrl+u":
			a.scroll = max(0, a.scroll-a.halfPage())
			return a, nil
		}

		switch a.activeTab {
		case tabRevenues:
			if a.updateRevenuesKey(key) {
				return a, nil
			}
		case tabSettings:
			if key == "enter" {
				return a.settingsStartEdit()
			}
		}

		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.setTab(idx)
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.applyLoad(msg)
		a.loaded = true
		if a.ds != nil && a.req.Project == "" {
			return a.openPicker()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if !msg.Unchanged {
			a.applyLoad(msg.DataLoadedMsg)
		}
		return a, nil

	case AnalyzedMsg:
		a.report = msg.Report
		a.loadErr = msg.Err
		a.clampCursors()
		a.rev.recompute(a.ds, a.req.Project, a.asOf())
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && a.ds != nil {
			if time.Since(a.lastRefresh) >= a.refreshInterval {
				a.refreshing = true
				since := a.modTime
				// A new calendar month moves the as-of month, so the report
				// is rebuilt even when the workbook is untouched.
				if a.report != nil && a.req.AsOf.IsZero() && !sheet.MonthStart(time.Now()).Equal(a.report.AsOf) {
					since = time.Time{}
				}
				cmds = append(cmds, refreshDataCmd(a.opts.Workbook, a.opts.Layout, a.req, since))
			}
		}
		return a, tea.Batch(cmds...)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.picker != nil {
		return a.updatePicker(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) applyLoad(msg DataLoadedMsg) {
	a.lastRefresh = time.Now()
	a.loadTime = msg.LoadTime
	a.loadErr = msg.Err
	if msg.Dataset != nil {
		a.ds = msg.Dataset
		a.modTime = msg.ModTime
	}
	a.report = msg.Report
	a.clampCursors()
	a.rev.recompute(a.ds, a.req.Project, a.asOf())
}

// asOf is the month the report splits actuals from forecast.
func (a App) asOf() time.Time {
	if a.report != nil {
		return a.report.AsOf
	}
	if !a.req.AsOf.IsZero() {
		return sheet.MonthStart(a.req.AsOf)
	}
	return sheet.MonthStart(time.Now())
}

func (a *App) setTab(idx int) {
	if idx != a.activeTab {
		a.scroll = 0
	}
	a.activeTab = idx
}

func (a App) halfPage() int {
	return max(minHalfPageScroll, (a.height-scrollOverhead)/2)
}

// moveCursor moves the selection of the active tab by delta rows.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabFlags:
		a.flagCursor += delta
	case tabForecast:
		a.forecastCursor += delta
	case tabRevenues:
		a.rev.cursor += delta
	case tabSettings:
		if !a.settings.editing {
			a.settings.cursor += delta
		}
	default:
		a.scroll = max(0, a.scroll+delta)
	}
	a.clampCursors()
}

func (a *App) clampCursors() {
	clamp := func(v, n int) int {
		return max(0, min(v, n-1))
	}
	if a.report != nil {
		a.flagCursor = clamp(a.flagCursor, len(a.report.Rows))
		a.forecastCursor = clamp(a.forecastCursor, len(a.report.Projections))
	} else {
		a.flagCursor, a.forecastCursor = 0, 0
	}
	a.rev.cursor = clamp(a.rev.cursor, len(a.rev.series))
	a.settings.cursor = clamp(a.settings.cursor, settingsFieldCount)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := loadConfigOrDefault()
		a.setupVals.Apply(&cfg)
		_ = config.Save(cfg)
		theme.SetActive(cfg.Appearance.Theme)

		a.opts.Workbook = cfg.General.Workbook
		a.opts.Layout = sheet.Layout{ActualsSheet: cfg.Layout.ActualsSheet, SkipRows: cfg.Layout.SkipRows}
		if cfg.General.Project != "" {
			a.req.Project = cfg.General.Project
		}
		a.setupForm = nil
		a.setupVals = nil
		return a, loadDataCmd(a.opts.Workbook, a.opts.Layout, a.req)

	case huh.StateAborted:
		return a, tea.Quit
	}
	return a, cmd
}

// openPicker shows a project chooser listing the budgeted projects.
func (a App) openPicker() (tea.Model, tea.Cmd) {
	if a.ds == nil {
		return a, nil
	}
	var opts []huh.Option[string]
	for _, p := range a.ds.Projects() {
		if p.HasBudget {
			opts = append(opts, huh.NewOption(p.Project, p.Project))
		}
	}
	if len(opts) == 0 {
		return a, nil
	}

	val := a.req.Project
	a.pickVal = &val
	a.picker = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project").
				Description("Budgeted projects in " + baseName(a.opts.Workbook)).
				Options(opts...).
				Value(a.pickVal),
		),
	).WithShowHelp(false).WithWidth(min(60, max(30, a.width-4)))
	return a, a.picker.Init()
}

func (a App) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.picker = f
	}

	switch a.picker.State {
	case huh.StateCompleted:
		a.picker = nil
		if *a.pickVal == "" || (strings.EqualFold(*a.pickVal, a.req.Project) && a.report != nil) {
			return a, nil
		}
		a.req.Project = *a.pickVal
		a.flagCursor, a.forecastCursor, a.scroll = 0, 0, 0
		return a, analyzeCmd(a.ds, a.req)
	case huh.StateAborted:
		a.picker = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.picker != nil {
		return a.viewPicker()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  wipflags needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ wipflags"))
	b.WriteString(subtitleStyle.Render(" · Budget Red Flags"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading " + baseName(a.opts.Workbook) + "..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewPicker() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render("enter select · esc cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(a.picker.View()+"\n"+hint),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.KeyHint).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"o f w c v x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move selection"},
		{"J K", "Scroll"},
		{"^d ^u", "Half-page scroll"},
	})
	b.WriteString("\n")
	section(&b, "Revenues", [][2]string{
		{"g", "Cycle category group"},
		{"a", "This project / all projects"},
		{"t", "Monthly / cumulative"},
	})
	b.WriteString("\n")
	section(&b, "Actions", [][2]string{
		{"p", "Choose project"},
		{"Enter", "Edit setting"},
		{"Esc", "Cancel"},
		{"r", "Reload workbook"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + project pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	project := a.req.Project
	if project == "" {
		project = "no project"
	}
	filterStr := pillStyle.Render(" ") + accentStyle.Render(project)
	if a.report != nil {
		filterStr += pillStyle.Render(" │ as of ") + accentStyle.Render(cli.FormatMonth(a.report.AsOf))
		filterStr += pillStyle.Render(" │ kits ") + accentStyle.Render(cli.FormatKits(a.report.Kits))
	}
	filterStr += pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	// 2. Status bar
	status := components.Status{
		Workbook:    a.opts.Workbook,
		Project:     a.req.Project,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	}
	if !a.lastRefresh.IsZero() {
		status.DataAge = fmt.Sprintf("loaded %s", a.lastRefresh.Format("15:04:05"))
	}
	if a.report != nil {
		status.AsOf = cli.FormatMonth(a.report.AsOf)
		status.Raised = len(a.report.RaisedFlags())
	}
	statusBar := components.RenderStatusBar(w, status)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabFlags:
		content = a.renderFlagsTab(cw)
	case tabWIP:
		content = a.renderWIPTab(cw)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabRevenues:
		content = a.renderRevenuesTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Scroll, then truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(dropLines(content, a.scroll), contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// noReportCard explains why a tab has nothing to show.
func (a App) noReportCard(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.NearLimit).Background(t.Surface)

	var body string
	switch {
	case a.loadErr != nil:
		body = warn.Render(a.loadErr.Error()) + "\n\n" + muted.Render("[r] reload  [p] choose project  [x] settings")
	case a.ds == nil:
		body = muted.Render("No workbook loaded. Set one on the settings tab [x].")
	default:
		body = muted.Render("No project selected. Press [p] to choose one.")
	}
	return components.ContentCard("No report", body, cw)
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadWorkbook reads the workbook and, when a project is set, analyzes it.
// A failed analysis keeps the dataset so another project can be picked.
func loadWorkbook(path string, layout sheet.Layout, req pipeline.Request) DataLoadedMsg {
	start := time.Now()
	if path == "" {
		return DataLoadedMsg{Err: fmt.Errorf("no workbook configured"), LoadTime: time.Since(start)}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
	}

	ds, err := pipeline.Load(path, layout)
	if err != nil {
		return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
	}
	msg := DataLoadedMsg{Dataset: ds, ModTime: fi.ModTime()}
	if req.Project != "" {
		msg.Report, msg.Err = pipeline.Analyze(ds, req)
	}
	msg.LoadTime = time.Since(start)
	return msg
}

func loadDataCmd(path string, layout sheet.Layout, req pipeline.Request) tea.Cmd {
	return func() tea.Msg {
		return loadWorkbook(path, layout, req)
	}
}

// refreshDataCmd reloads the workbook in the background. A non-zero since
// skips the reload when the file has not been modified after it.
func refreshDataCmd(path string, layout sheet.Layout, req pipeline.Request, since time.Time) tea.Cmd {
	return func() tea.Msg {
		if !since.IsZero() {
			if fi, err := os.Stat(path); err == nil && !fi.ModTime().After(since) {
				return RefreshDataMsg{Unchanged: true}
			}
		}
		return RefreshDataMsg{DataLoadedMsg: loadWorkbook(path, layout, req)}
	}
}

func analyzeCmd(ds *pipeline.Dataset, req pipeline.Request) tea.Cmd {
	return func() tea.Msg {
		rep, err := pipeline.Analyze(ds, req)
		return AnalyzedMsg{Report: rep, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// monthLabels builds X-axis labels: the year on January and on the first
// month, the month abbreviation elsewhere.
func monthLabels(months []time.Time) []string {
	labels := make([]string, len(months))
	for i, m := range months {
		if i == 0 || m.Month() == time.January {
			labels[i] = m.Format("Jan06")
		} else {
			labels[i] = m.Format("Jan")
		}
	}
	return labels
}

// costCategory reports whether c is charted against a spend budget.
func costCategory(c model.Category) bool {
	return c != model.NumberOfKits && !c.IsWIP()
}

func baseName(path string) string {
	if path == "" {
		return "workbook"
	}
	return filepath.Base(path)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func dropLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if n >= len(lines) {
		n = len(lines) - 1
	}
	return strings.Join(lines[n:], "\n")
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

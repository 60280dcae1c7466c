package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

var testAsOf = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func testDataset(t *testing.T) *pipeline.Dataset {
	t.Helper()
	wb := sheet.FromRows([]string{"Revenue Actuals", "P1"}, map[string][][]string{
		"Revenue Actuals": {
			{"Revenue Actuals"},
			{"Project #", "Category", "2024-01-01", "2024-02-01", "2024-03-01", "Total Activity"},
			{"P1", "Engineering Labor", "600", "600", "100", ""},
			{"P1", "Manufacturing Labor", "100", "100", "100", ""},
			{"P1", "Milestones", "0", "(1,000)", "0", ""},
			{"P2", "Engineering Labor", "1", "1", "1", ""},
		},
		"P1": {
			{"Description", "Notes", "Unit", "NRE ", "CR", "AVG cost based on Qty"},
			{"Engineering Labor", "", "Hour", "1,000", "", ""},
			{"Manufacturing Labor", "", "Hour", "400", "", ""},
			{"NRE Design", "", "Milestone", "2000", "", "1"},
			{"Kit Sales", "", "Each", "1500", "", "3"},
		},
	})
	ds, err := pipeline.NewDataset(wb, sheet.Layout{SkipRows: 1})
	require.NoError(t, err)
	return ds
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func keyPress(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m tea.Model, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	a, ok := m.(App)
	require.True(t, ok)
	return a
}

// loadedApp returns a dashboard with project P1 analyzed.
func loadedApp(t *testing.T) App {
	t.Helper()
	isolateConfig(t)
	ds := testDataset(t)
	req := pipeline.Request{Project: "P1", AsOf: testAsOf}
	rep, err := pipeline.Analyze(ds, req)
	require.NoError(t, err)

	a := NewApp(Options{Workbook: "wip.xlsx", Request: req, RefreshInterval: time.Minute})
	return send(t, a,
		tea.WindowSizeMsg{Width: 120, Height: 60},
		DataLoadedMsg{Dataset: ds, Report: rep},
	)
}

func TestApp_DataLoaded(t *testing.T) {
	a := loadedApp(t)
	assert.True(t, a.loaded)
	assert.Nil(t, a.picker)
	require.NotNil(t, a.report)
	assert.Equal(t, "P1", a.report.Project)

	view := a.View()
	assert.Contains(t, view, "Red Flags")
	assert.Contains(t, view, "Engineering Labor")
}

func TestApp_TabKeys(t *testing.T) {
	a := loadedApp(t)

	a = send(t, a, keyPress("f"))
	assert.Equal(t, tabFlags, a.activeTab)
	assert.Contains(t, a.View(), "Budget vs Activity")

	a = send(t, a, keyPress("w"))
	assert.Equal(t, tabWIP, a.activeTab)
	assert.Contains(t, a.View(), "NRE Summary")

	a = send(t, a, keyPress("c"))
	assert.Equal(t, tabForecast, a.activeTab)
	assert.Contains(t, a.View(), "Burn-down")

	a = send(t, a, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabRevenues, a.activeTab)

	a = send(t, a, keyPress("x"))
	assert.Equal(t, tabSettings, a.activeTab)
	assert.Contains(t, a.View(), "Kits Override")
}

func TestApp_FlagCursorClamped(t *testing.T) {
	a := loadedApp(t)
	a = send(t, a, keyPress("f"))
	for i := 0; i < 50; i++ {
		a = send(t, a, keyPress("j"))
	}
	assert.Equal(t, len(a.report.Rows)-1, a.flagCursor)

	a = send(t, a, keyPress("k"))
	assert.Equal(t, len(a.report.Rows)-2, a.flagCursor)
}

func TestApp_NoProjectOpensPicker(t *testing.T) {
	isolateConfig(t)
	a := NewApp(Options{Workbook: "wip.xlsx"})
	a = send(t, a,
		tea.WindowSizeMsg{Width: 120, Height: 40},
		DataLoadedMsg{Dataset: testDataset(t)},
	)
	require.NotNil(t, a.picker)
	require.NotNil(t, a.pickVal)
	// the select highlights the first budgeted project
	assert.Equal(t, "P1", *a.pickVal)
	assert.Empty(t, a.req.Project)

	// leaving the picker does not adopt the highlighted project
	a = send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.picker)
	assert.Empty(t, a.req.Project)
	assert.Nil(t, a.report)
	assert.Contains(t, a.View(), "No project selected")
}

func TestApp_RevenueToggles(t *testing.T) {
	a := loadedApp(t)
	a = send(t, a, keyPress("v"))
	require.NotEmpty(t, a.rev.series)
	for _, s := range a.rev.series {
		assert.Equal(t, "P1", s.Project)
	}

	a = send(t, a, keyPress("a"))
	assert.True(t, a.rev.allProjects)
	projects := map[string]bool{}
	for _, s := range a.rev.series {
		projects[s.Project] = true
	}
	assert.True(t, projects["P2"])

	a = send(t, a, keyPress("g"), keyPress("g"))
	assert.Equal(t, pipeline.GroupRevenues, revenueGroups[a.rev.group])
	for _, s := range a.rev.series {
		assert.Equal(t, "Milestones", s.Category)
	}

	a = send(t, a, keyPress("t"))
	assert.True(t, a.rev.cumulative)
	assert.Contains(t, a.View(), "cumulative")
}

func TestApp_RefreshUnchangedKeepsReport(t *testing.T) {
	a := loadedApp(t)
	rep := a.report
	a.refreshing = true
	a = send(t, a, RefreshDataMsg{Unchanged: true})
	assert.False(t, a.refreshing)
	assert.Same(t, rep, a.report)
}

func TestApp_AnalyzeErrorShown(t *testing.T) {
	a := loadedApp(t)
	a = send(t, a, AnalyzedMsg{Err: assert.AnError})
	assert.Nil(t, a.report)
	assert.Contains(t, a.View(), assert.AnError.Error())
}

func TestApp_SettingsKitsOverride(t *testing.T) {
	a := loadedApp(t)
	a = send(t, a, keyPress("x"))
	for i := 0; i < settingsFieldKits; i++ {
		a = send(t, a, keyPress("j"))
	}
	m, _ := a.settingsStartEdit()
	a = m.(App)
	require.True(t, a.settings.editing)

	a.settings.input.SetValue("4")
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = m.(App)
	require.NoError(t, a.settings.saveErr)
	require.NotNil(t, a.req.Kits)
	assert.Equal(t, 4.0, *a.req.Kits)
	require.NotNil(t, cmd)

	msg, ok := cmd().(AnalyzedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, 4.0, msg.Report.Kits)
}

func TestApp_SettingsRejectsBadInterval(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = tabSettings
	a.settings.cursor = settingsFieldRefreshInterval
	m, _ := a.settingsStartEdit()
	a = m.(App)
	a.settings.input.SetValue("3")
	a = send(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Error(t, a.settings.saveErr)
	assert.Equal(t, time.Minute, a.refreshInterval)
}

func TestLoadWorkbook_Missing(t *testing.T) {
	msg := loadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"), sheet.Layout{}, pipeline.Request{})
	assert.Error(t, msg.Err)
	assert.Nil(t, msg.Dataset)

	msg = loadWorkbook("", sheet.Layout{}, pipeline.Request{})
	assert.Error(t, msg.Err)
}

func TestRefreshDataCmd_Unchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wip.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o600))

	msg := refreshDataCmd(path, sheet.Layout{}, pipeline.Request{}, time.Now().Add(time.Hour))()
	rm, ok := msg.(RefreshDataMsg)
	require.True(t, ok)
	assert.True(t, rm.Unchanged)

	msg = refreshDataCmd(path, sheet.Layout{}, pipeline.Request{}, time.Time{})()
	rm = msg.(RefreshDataMsg)
	assert.False(t, rm.Unchanged)
	assert.Error(t, rm.Err)
}

func TestMonthLabels(t *testing.T) {
	months := []time.Time{
		time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, []string{"Nov23", "Dec", "Jan24"}, monthLabels(months))
}

func TestHeightHelpers(t *testing.T) {
	assert.Equal(t, "a\nb", truncateHeight("a\nb\nc", 2))
	assert.Equal(t, "a\n\n", padHeight("a", 3))
	assert.Equal(t, "c", dropLines("a\nb\nc", 5))
	assert.Equal(t, "ab…", truncStr("abcd", 3))
	assert.True(t, strings.HasPrefix(baseName("/tmp/x/wip.xlsx"), "wip"))
}

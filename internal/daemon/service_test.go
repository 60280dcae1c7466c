package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

var testAsOf = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

// testDataset builds project P1 with an Engineering Labor budget of 1,000
// and the given monthly labor actuals for Jan-Mar 2024.
func testDataset(t *testing.T, labor ...string) *pipeline.Dataset {
	t.Helper()
	row := append([]string{"P1", "Engineering Labor"}, labor...)
	wb := sheet.FromRows([]string{"Revenue Actuals", "P1"}, map[string][][]string{
		"Revenue Actuals": {
			{"Revenue Actuals"},
			{"Project #", "Category", "2024-01-01", "2024-02-01", "2024-03-01", "Total Activity"},
			append(row, ""),
			{"P1", "Manufacturing Labor", "10", "10", "10", ""},
		},
		"P1": {
			{"Description", "Notes", "Unit", "NRE ", "CR", "AVG cost based on Qty"},
			{"Engineering Labor", "", "Hour", "1,000", "", ""},
			{"Manufacturing Labor", "", "Hour", "400", "", ""},
			{"Kit Sales", "", "Each", "1500", "", "3"},
		},
	})
	ds, err := pipeline.NewDataset(wb, sheet.Layout{SkipRows: 1})
	require.NoError(t, err)
	return ds
}

func testService(t *testing.T, ds *pipeline.Dataset) *Service {
	t.Helper()
	s := New(Config{
		Workbook:     filepath.Join(t.TempDir(), "wip.xlsx"),
		Request:      pipeline.Request{Project: "P1", AsOf: testAsOf},
		EventsBuffer: 10,
	})
	s.loader = func() (*pipeline.Dataset, error) { return ds, nil }
	return s
}

func analyze(t *testing.T, ds *pipeline.Dataset, kits *float64) *pipeline.Report {
	t.Helper()
	rep, err := pipeline.Analyze(ds, pipeline.Request{Project: "P1", AsOf: testAsOf, Kits: kits})
	require.NoError(t, err)
	return rep
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Flags: []FlagState{
		{Category: "Engineering Labor", Raised: true, Month: "2024-02"},
		{Category: "Manufacturing Labor"},
		{Category: "Milestones", Raised: true, Month: "2024-01"},
	}}
	curr := Snapshot{Flags: []FlagState{
		{Category: "Engineering Labor", Raised: true, Month: "2024-02"},
		{Category: "Manufacturing Labor", Raised: true, Month: "2024-03"},
		{Category: "Milestones"},
	}}

	changes := diffSnapshots(prev, curr)
	require.Len(t, changes, 2)
	assert.Equal(t, FlagChange{Category: "Manufacturing Labor", From: model.NoRedFlag, To: "2024-03"}, changes[0])
	assert.Equal(t, FlagChange{Category: "Milestones", From: "2024-01", To: model.NoRedFlag}, changes[1])

	assert.Empty(t, diffSnapshots(curr, curr))
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Workbook:     "wip.xlsx",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestApplyPublishesChanges(t *testing.T) {
	quiet := testDataset(t, "100", "100", "100")
	over := testDataset(t, "600", "600", "100")
	s := testService(t, quiet)
	now := time.Now()

	s.apply(analyze(t, quiet, nil), "start", now)
	s.apply(analyze(t, quiet, nil), "poll", now)

	kits := 2.0
	s.apply(analyze(t, quiet, &kits), "kits", now)
	s.apply(analyze(t, over, &kits), "workbook changed", now)

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()

	require.Len(t, events, 3)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, EventReport, events[1].Type)
	assert.Equal(t, EventFlagsChanged, events[2].Type)
	assert.Equal(t, "workbook changed", events[2].Reason)
	assert.Contains(t, events[2].Changes, FlagChange{Category: "Engineering Labor", From: model.NoRedFlag, To: "2024-02"})
	assert.Equal(t, 1, events[2].Snapshot.RaisedFlags)

	for i, ev := range events {
		assert.Equal(t, int64(i+1), ev.ID)
	}
}

func TestPollOnceSkipsUnchangedWorkbook(t *testing.T) {
	s := testService(t, testDataset(t, "100", "100", "100"))
	require.NoError(t, os.WriteFile(s.cfg.Workbook, []byte("x"), 0o600))

	s.pollOnce()
	s.pollOnce()
	st := s.snapshotStatus()
	assert.Equal(t, int64(2), st.PollCount)
	assert.Equal(t, int64(1), st.AnalysisCount)
	assert.Empty(t, st.LastError)
	assert.Equal(t, "P1", st.Summary.Project)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(s.cfg.Workbook, later, later))
	s.pollOnce()
	assert.Equal(t, int64(2), s.snapshotStatus().AnalysisCount)
}

func TestPollOnceMissingWorkbook(t *testing.T) {
	s := testService(t, testDataset(t, "1", "1", "1"))
	s.pollOnce()
	st := s.snapshotStatus()
	assert.NotEmpty(t, st.LastError)
	assert.Equal(t, int64(0), st.AnalysisCount)
}

func TestAnalyzeErrorKeepsLastReport(t *testing.T) {
	ds := testDataset(t, "1", "1", "1")
	s := testService(t, ds)
	s.analyze("start")
	require.NotNil(t, s.currentReport())

	s.cfg.Request.Project = "missing"
	s.analyze("retry")
	assert.NotNil(t, s.currentReport())
	assert.NotEmpty(t, s.snapshotStatus().LastError)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler(t *testing.T) {
	ds := testDataset(t, "600", "600", "100")
	s := testService(t, ds)
	h := s.Handler()

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/v1/report").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/v1/flags").Code)

	s.analyze("start")

	rec = get(t, h, "/v1/report")
	require.Equal(t, http.StatusOK, rec.Code)
	var rep reportView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "P1", rep.Project)
	assert.Equal(t, "2024-03", rep.AsOf)
	require.NotEmpty(t, rep.Rows)
	assert.Equal(t, "Number of Kits", rep.Rows[0].Category)
	assert.Empty(t, rep.Rows[0].RedFlag)

	rec = get(t, h, "/v1/flags")
	require.Equal(t, http.StatusOK, rec.Code)
	var flags []FlagState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flags))
	assert.Contains(t, flags, FlagState{Category: "Engineering Labor", Raised: true, Month: "2024-02"})

	rec = get(t, h, "/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "P1", st.Project)
	assert.Equal(t, 1, st.EventCount)

	rec = get(t, h, "/v1/events?since=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Empty(t, events)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/events?since=abc").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/v1/nope").Code)
}

func TestRolloverSchedule(t *testing.T) {
	sched, err := cron.ParseStandard(RolloverSchedule)
	require.NoError(t, err)
	from := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.Local), sched.Next(from))
}

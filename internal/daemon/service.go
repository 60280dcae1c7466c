// Package daemon provides the long-running watch server: it re-analyzes a
// project whenever its workbook changes or a new month starts, and
// publishes red-flag changes over HTTP and server-sent events.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
	"github.com/theirongolddev/wipflags/internal/sheet"
)

// RolloverSchedule re-runs the analysis at midnight on the first of each
// month, when the as-of month moves.
const RolloverSchedule = "0 0 1 * *"

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventFlagsChanged = "flags_changed"
	EventReport       = "report_updated"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Workbook     string
	Layout       sheet.Layout
	Request      pipeline.Request
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Log          zerolog.Logger
}

// FlagState is one category's red flag in a snapshot.
type FlagState struct {
	Category string `json:"category"`
	Raised   bool   `json:"raised"`
	Month    string `json:"month,omitempty"`
}

// Snapshot is a compact report state for status and event payloads.
type Snapshot struct {
	At            time.Time   `json:"at"`
	RunID         string      `json:"run_id"`
	Project       string      `json:"project"`
	AsOf          string      `json:"as_of"`
	Kits          float64     `json:"kits"`
	RaisedFlags   int         `json:"raised_flags"`
	Flags         []FlagState `json:"flags"`
	NRERemaining  float64     `json:"nre_remaining"`
	KitsRemaining float64     `json:"kits_remaining"`
	Unclassified  int         `json:"unclassified"`
	AmountIssues  int         `json:"amount_issues"`
}

// FlagChange records a category whose red flag moved between analyses.
type FlagChange struct {
	Category string `json:"category"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Event is emitted whenever an analysis changes the snapshot.
type Event struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Snapshot  Snapshot     `json:"snapshot"`
	Changes   []FlagChange `json:"changes,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	LastAnalysisAt  time.Time `json:"last_analysis_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	AnalysisCount   int64     `json:"analysis_count"`
	Workbook        string    `json:"workbook"`
	Project         string    `json:"project"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log zerolog.Logger

	// loader reads the workbook; replaced in tests.
	loader func() (*pipeline.Dataset, error)
	// analyzeMu serializes analyses between the poll loop and cron.
	analyzeMu sync.Mutex

	mu             sync.RWMutex
	startedAt      time.Time
	lastPollAt     time.Time
	lastAnalysisAt time.Time
	pollCount      int64
	analysisCount  int64
	lastError      string
	modTime        time.Time
	report         *pipeline.Report
	hasSnapshot    bool
	snapshot       Snapshot
	nextEventID    int64
	events         []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	cfg.Request.Log = nil

	s := &Service{
		cfg:       cfg,
		log:       cfg.Log.With().Str("component", "daemon").Logger(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.loader = func() (*pipeline.Dataset, error) {
		return pipeline.Load(s.cfg.Workbook, s.cfg.Layout)
	}
	return s
}

// Run starts HTTP endpoints, the rollover schedule and polling until ctx
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sched := cron.New()
	if _, err := sched.AddFunc(RolloverSchedule, func() { s.analyze("month rollover") }); err != nil {
		return fmt.Errorf("schedule rollover: %w", err)
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	// Seed the first analysis so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce re-analyzes when the workbook was modified since the last
// analysis, or when no analysis has succeeded yet.
func (s *Service) pollOnce() {
	fi, err := os.Stat(s.cfg.Workbook)

	s.mu.Lock()
	s.lastPollAt = time.Now()
	s.pollCount++
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("workbook", s.cfg.Workbook).Msg("workbook unavailable")
		return
	}
	unchanged := s.report != nil && !fi.ModTime().After(s.modTime)
	s.mu.Unlock()

	if unchanged {
		return
	}
	s.mu.Lock()
	s.modTime = fi.ModTime()
	s.mu.Unlock()
	s.analyze("workbook changed")
}

// analyze loads the workbook, runs the report and publishes an event when
// the snapshot changed.
func (s *Service) analyze(reason string) {
	s.analyzeMu.Lock()
	defer s.analyzeMu.Unlock()

	start := time.Now()
	ds, err := s.loader()
	var rep *pipeline.Report
	if err == nil {
		ds.LogSkippedHeaders(s.log)
		rep, err = pipeline.Analyze(ds, s.cfg.Request)
	}
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.Error().Err(err).Str("reason", reason).Msg("analysis failed")
		return
	}

	s.log.Info().
		Str("reason", reason).
		Str("project", rep.Project).
		Str("run_id", rep.RunID.String()).
		Int("raised", len(rep.RaisedFlags())).
		Dur("took", time.Since(start)).
		Msg("analysis complete")
	s.apply(rep, reason, time.Now())
}

// apply stores a finished report and publishes the resulting event, if any.
func (s *Service) apply(rep *pipeline.Report, reason string, now time.Time) {
	snap := snapshotFromReport(rep, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.report = rep
	s.hasSnapshot = true
	s.snapshot = snap
	s.lastAnalysisAt = now
	s.analysisCount++
	s.lastError = ""

	switch {
	case !prevExists:
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Reason: reason, Timestamp: now, Snapshot: snap}
		publish = true
	default:
		if changes := diffSnapshots(prev, snap); len(changes) > 0 {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: EventFlagsChanged, Reason: reason, Timestamp: now, Snapshot: snap, Changes: changes}
			publish = true
		} else if totalsChanged(prev, snap) {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: EventReport, Reason: reason, Timestamp: now, Snapshot: snap}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		if ev.Type == EventFlagsChanged {
			for _, c := range ev.Changes {
				s.log.Warn().Str("category", c.Category).Str("from", c.From).Str("to", c.To).Msg("red flag changed")
			}
		}
		s.publishEvent(ev)
	}
}

func snapshotFromReport(rep *pipeline.Report, at time.Time) Snapshot {
	snap := Snapshot{
		At:            at,
		RunID:         rep.RunID.String(),
		Project:       rep.Project,
		AsOf:          rep.AsOf.Format("2006-01"),
		Kits:          rep.Kits,
		NRERemaining:  rep.NRE.Total.Remaining,
		KitsRemaining: rep.KitSummary.Total.Remaining,
		Unclassified:  len(rep.Unclassified),
		AmountIssues:  len(rep.Issues),
	}
	for _, f := range rep.Flags {
		fs := FlagState{Category: f.Category.Label(), Raised: f.Raised()}
		if f.Raised() {
			fs.Month = f.String()
			snap.RaisedFlags++
		}
		snap.Flags = append(snap.Flags, fs)
	}
	return snap
}

// diffSnapshots lists the categories whose red flag differs between prev
// and curr. Categories are matched by name.
func diffSnapshots(prev, curr Snapshot) []FlagChange {
	before := make(map[string]string, len(prev.Flags))
	for _, f := range prev.Flags {
		before[f.Category] = flagText(f)
	}

	var out []FlagChange
	for _, f := range curr.Flags {
		was, ok := before[f.Category]
		if !ok {
			was = model.NoRedFlag
		}
		if now := flagText(f); now != was {
			out = append(out, FlagChange{Category: f.Category, From: was, To: now})
		}
	}
	return out
}

func flagText(f FlagState) string {
	if !f.Raised {
		return model.NoRedFlag
	}
	return f.Month
}

func totalsChanged(prev, curr Snapshot) bool {
	return prev.AsOf != curr.AsOf ||
		prev.Kits != curr.Kits ||
		prev.NRERemaining != curr.NRERemaining ||
		prev.KitsRemaining != curr.KitsRemaining ||
		prev.Unclassified != curr.Unclassified ||
		prev.AmountIssues != curr.AmountIssues
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		LastAnalysisAt:  s.lastAnalysisAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		AnalysisCount:   s.analysisCount,
		Workbook:        s.cfg.Workbook,
		Project:         s.cfg.Request.Project,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

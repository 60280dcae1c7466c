package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/theirongolddev/wipflags/internal/model"
	"github.com/theirongolddev/wipflags/internal/pipeline"
)

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/report", s.handleReport)
		r.Get("/flags", s.handleFlags)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

func (s *Service) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

// reportView is the JSON shape of a report.
type reportView struct {
	RunID        string           `json:"run_id"`
	Project      string           `json:"project"`
	AsOf         string           `json:"as_of"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Kits         float64          `json:"kits"`
	Rows         []rowView        `json:"rows"`
	NRE          summaryView      `json:"nre"`
	Kit          summaryView      `json:"kits_summary"`
	Projections  []projectionView `json:"projections"`
	Unclassified []string         `json:"unclassified,omitempty"`
	AmountIssues []string         `json:"amount_issues,omitempty"`
}

type rowView struct {
	Category       string   `json:"category"`
	Budget         float64  `json:"budget"`
	BudgetPerKit   *float64 `json:"budget_per_kit"`
	TotalActivity  float64  `json:"total_activity"`
	ActivityPerKit *float64 `json:"activity_per_kit"`
	Variance       float64  `json:"variance"`
	RedFlag        string   `json:"red_flag,omitempty"`
}

type summaryRowView struct {
	Label     string  `json:"label"`
	Budget    float64 `json:"budget"`
	Actual    float64 `json:"actual"`
	Forecast  float64 `json:"forecast"`
	Remaining float64 `json:"remaining"`
}

type summaryView struct {
	Title    string           `json:"title"`
	Rows     []summaryRowView `json:"rows"`
	Memo     []summaryRowView `json:"memo,omitempty"`
	Total    summaryRowView   `json:"total"`
	Averages *summaryRowView  `json:"averages,omitempty"`
	Revenue  summaryRowView   `json:"revenue"`
	Net      summaryRowView   `json:"net"`
}

type projectionView struct {
	Label           string    `json:"label"`
	RemainingBudget float64   `json:"remaining_budget"`
	MonthlyRate     float64   `json:"monthly_rate"`
	TotalMonths     int       `json:"total_months"`
	Months          []float64 `json:"months"`
}

func newReportView(rep *pipeline.Report) reportView {
	v := reportView{
		RunID:       rep.RunID.String(),
		Project:     rep.Project,
		AsOf:        rep.AsOf.Format("2006-01"),
		GeneratedAt: rep.GeneratedAt,
		Kits:        rep.Kits,
		NRE:         newSummaryView(rep.NRE),
		Kit:         newSummaryView(rep.KitSummary),
	}
	for _, r := range rep.Rows {
		rv := rowView{
			Category:       r.Category.Label(),
			Budget:         r.Budget,
			BudgetPerKit:   r.BudgetPerKit,
			TotalActivity:  r.TotalActivity,
			ActivityPerKit: r.ActivityPerKit,
			Variance:       r.Variance,
		}
		if r.Category != model.NumberOfKits {
			rv.RedFlag = r.Flag.String()
		}
		v.Rows = append(v.Rows, rv)
	}
	for _, p := range rep.Projections {
		v.Projections = append(v.Projections, projectionView{
			Label:           p.Label,
			RemainingBudget: p.RemainingBudget,
			MonthlyRate:     p.MonthlyRate,
			TotalMonths:     p.TotalMonths,
			Months:          p.Months,
		})
	}
	for _, l := range rep.Unclassified {
		v.Unclassified = append(v.Unclassified, fmt.Sprintf("row %d: %s", l.Row, l.Description))
	}
	for _, is := range rep.Issues {
		v.AmountIssues = append(v.AmountIssues, is.String())
	}
	return v
}

func newSummaryView(s model.WIPSummary) summaryView {
	conv := func(r model.SummaryRow) summaryRowView {
		return summaryRowView{Label: r.Label, Budget: r.Budget, Actual: r.Actual, Forecast: r.Forecast, Remaining: r.Remaining}
	}
	v := summaryView{Title: s.Title, Total: conv(s.Total), Revenue: conv(s.Revenue), Net: conv(s.Net)}
	for _, r := range s.Rows {
		v.Rows = append(v.Rows, conv(r))
	}
	for _, r := range s.Memo {
		v.Memo = append(v.Memo, conv(r))
	}
	if s.Averages != nil {
		avg := conv(*s.Averages)
		v.Averages = &avg
	}
	return v
}

func (s *Service) currentReport() *pipeline.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

func (s *Service) handleReport(w http.ResponseWriter, _ *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		writeError(w, http.StatusServiceUnavailable, "no analysis yet")
		return
	}
	writeJSON(w, http.StatusOK, newReportView(rep))
}

func (s *Service) handleFlags(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ok := s.hasSnapshot
	flags := append([]FlagState(nil), s.snapshot.Flags...)
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no analysis yet")
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

// handleEvents returns the retained events, optionally only those after
// the ?since= event id.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "since must be an event id")
			return
		}
		since = n
	}

	s.mu.RLock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > since {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

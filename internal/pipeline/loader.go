package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/wipflags/internal/sheet"
)

// Dataset is a workbook loaded into memory with its actuals sheet parsed.
type Dataset struct {
	Workbook *sheet.Workbook
	Actuals  *sheet.Actuals
	LoadedAt time.Time
}

// Load reads the workbook at path and parses its actuals sheet.
func Load(path string, layout sheet.Layout) (*Dataset, error) {
	wb, err := sheet.Open(path)
	if err != nil {
		return nil, err
	}
	return NewDataset(wb, layout)
}

// NewDataset parses the actuals sheet of an already opened workbook.
func NewDataset(wb *sheet.Workbook, layout sheet.Layout) (*Dataset, error) {
	act, err := wb.Actuals(layout)
	if err != nil {
		return nil, fmt.Errorf("loading actuals: %w", err)
	}
	return &Dataset{Workbook: wb, Actuals: act, LoadedAt: time.Now()}, nil
}

// LogSkippedHeaders warns about actuals columns whose header is not a month.
// They are shared by every project, so this runs once per load rather than
// once per analysis.
func (d *Dataset) LogSkippedHeaders(log zerolog.Logger) {
	for _, h := range d.Actuals.Skipped {
		log.Warn().
			Str("sheet", h.Sheet).
			Str("cell", h.Cell).
			Str("raw", h.Raw).
			Msg("actuals column header is not a month; column ignored")
	}
}

// ProjectStatus describes one project of the actuals sheet.
type ProjectStatus struct {
	Project   string
	HasBudget bool
	Rows      int
}

// Projects lists every project in the actuals sheet and whether the
// workbook carries its budget sheet.
func (d *Dataset) Projects() []ProjectStatus {
	ids := d.Actuals.Projects()
	out := make([]ProjectStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, ProjectStatus{
			Project:   id,
			HasBudget: d.Workbook.HasBudget(id),
			Rows:      len(d.Actuals.ForProject(id)),
		})
	}
	return out
}

// BatchResult is the outcome of analyzing one project in AnalyzeAll.
type BatchResult struct {
	Project string
	Report  *Report
	Err     error
}

// ProgressFunc is called as projects finish.
type ProgressFunc func(current, total int)

// AnalyzeAll analyzes projects with a bounded worker pool. req is used as
// a template; its Project is replaced per job. Results keep input order.
func AnalyzeAll(ds *Dataset, projects []string, req Request, progressFn ProgressFunc) []BatchResult {
	results := make([]BatchResult, len(projects))
	if len(projects) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(projects) {
		numWorkers = len(projects)
	}

	work := make(chan int, len(projects))
	for i := range projects {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				r := req
				r.Project = projects[idx]
				rep, err := Analyze(ds, r)
				results[idx] = BatchResult{Project: projects[idx], Report: rep, Err: err}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(projects))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

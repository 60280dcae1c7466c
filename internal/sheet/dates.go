package sheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var monthLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006-01",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"Jan-06",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	"Jan 06",
}

// ParseMonth reads a month column header and returns the first day of that
// month in UTC.
func ParseMonth(header string) (time.Time, bool) {
	h := strings.TrimSpace(header)
	if h == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(h, 64); err == nil {
		// 36526 is 2000-01-01; anything outside 2000-2099 is not a month header.
		if serial < 36526 || serial > 73051 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return MonthStart(t), true
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, h); err == nil {
			if t.Year() < 2000 || t.Year() > 2099 {
				return time.Time{}, false
			}
			return MonthStart(t), true
		}
	}
	return time.Time{}, false
}

// SkippedHeader is an actuals header that carries digits but is not a month
// ParseMonth understands. Its column is left out of every series.
type SkippedHeader struct {
	Sheet string
	Cell  string
	Raw   string
}

func (h SkippedHeader) String() string {
	return fmt.Sprintf("%s!%s %q: not a month header", h.Sheet, h.Cell, h.Raw)
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthColumn ties a parsed month to the sheet columns carrying it.
type monthColumn struct {
	Month time.Time
	Cols  []int
}

// monthColumns finds month headers and returns them in chronological order.
// Columns repeating the same month are merged. Headers with digits that do
// not parse as a month are returned as rejected column indexes.
func monthColumns(header []string, skip map[int]bool) ([]monthColumn, []int) {
	byMonth := make(map[time.Time]*monthColumn)
	var rejected []int
	for i, h := range header {
		if skip[i] {
			continue
		}
		m, ok := ParseMonth(h)
		if !ok {
			if strings.ContainsAny(h, "0123456789") {
				rejected = append(rejected, i)
			}
			continue
		}
		mc, exists := byMonth[m]
		if !exists {
			mc = &monthColumn{Month: m}
			byMonth[m] = mc
		}
		mc.Cols = append(mc.Cols, i)
	}

	out := make([]monthColumn, 0, len(byMonth))
	for _, mc := range byMonth {
		out = append(out, *mc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out, rejected
}

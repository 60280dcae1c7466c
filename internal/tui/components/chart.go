package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/wipflags/internal/cli"
	"github.com/theirongolddev/wipflags/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a colored unicode sparkline scaled between the series
// minimum and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(cli.RenderSparkline(values))
}

// yScale is the vertical layout of a bar chart: ticks at every multiple of
// step up to ceiling, each tick rowsPerTick rows apart.
type yScale struct {
	step        float64
	ceiling     float64
	ticks       int
	rowsPerTick int
}

func newYScale(maxVal float64, height int) yScale {
	step := chartTickStep(maxVal)
	maxTicks := max(2, height/2)
	for int(math.Ceil(maxVal/step)) > maxTicks {
		step *= 2
	}
	ceiling := math.Ceil(maxVal/step) * step
	ticks := max(1, int(math.Round(ceiling/step)))
	return yScale{
		step:        step,
		ceiling:     ceiling,
		ticks:       ticks,
		rowsPerTick: max(2, height/ticks),
	}
}

func (s yScale) rows() int { return s.rowsPerTick * s.ticks }

// label returns the axis label drawn on row, or "".
func (s yScale) label(row int) string {
	if row%s.rowsPerTick != 0 {
		return ""
	}
	return axisLabel(s.step * float64(row/s.rowsPerTick))
}

// fitBars picks a bar width for n bars in chartW columns. When even 2-column
// bars do not fit, the series is sampled down evenly, keeping the first and
// last month.
func fitBars(values []float64, labels []string, chartW int) ([]float64, []string, int) {
	n := len(values)
	if n == 1 {
		return values, labels, min(chartW, 6)
	}
	barW := (chartW - (n - 1)) / n
	if barW >= 2 {
		return values, labels, min(barW, 6)
	}

	keep := max(2, (chartW+1)/3)
	sampled := make([]float64, keep)
	var sampledLabels []string
	if labels != nil {
		sampledLabels = make([]string, keep)
	}
	for i := range sampled {
		src := i * (n - 1) / (keep - 1)
		sampled[i] = values[src]
		if labels != nil {
			sampledLabels[i] = labels[src]
		}
	}
	return sampled, sampledLabels, 2
}

// BarChart renders a monthly bar chart. Bars show magnitudes, so revenue
// series (stored negative) chart like costs. A non-zero limit draws a
// dashed budget line at that level; bars that stop just under it get a
// marker so the month the budget was crossed stands out.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int, limit float64) string {
	if len(values) == 0 {
		return ""
	}
	mags := make([]float64, len(values))
	for i, v := range values {
		mags[i] = math.Abs(v)
	}
	limit = math.Abs(limit)
	if width < 15 || height < 3 {
		return Sparkline(mags, color)
	}
	if len(labels) != len(mags) {
		labels = nil
	}

	t := theme.Active
	maxVal := limit
	for _, v := range mags {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	scale := newYScale(maxVal, height)
	yLabelW := max(4, len(axisLabel(scale.ceiling))+1)
	mags, labels, barW := fitBars(mags, labels, max(5, width-yLabelW-1))
	n := len(mags)
	gap := 0
	if n > 1 {
		gap = 1
	}
	axisLen := n*barW + (n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	limitStyle := lipgloss.NewStyle().Foreground(t.Overrun).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	topStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", barW))
	partials := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	chartH := scale.rows()
	for row := chartH; row >= 1; row-- {
		top := scale.ceiling * float64(row) / float64(chartH)
		bottom := scale.ceiling * float64(row-1) / float64(chartH)
		style := barStyle
		if float64(row)/float64(chartH) > 0.8 {
			style = topStyle
		}

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, scale.label(row))))

		onLimit := limit > 0 && limit <= top && limit > bottom
		fill := " "
		if onLimit {
			fill = "┄"
		}
		for i, v := range mags {
			if i > 0 {
				b.WriteString(limitStyle.Render(strings.Repeat(fill, gap)))
			}
			switch {
			case onLimit && v < top && v > bottom:
				b.WriteString(limitStyle.Bold(true).Render(strings.Repeat("▔", barW)))
			case onLimit && v < top:
				b.WriteString(limitStyle.Render(strings.Repeat("┄", barW)))
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := max(0, min(int((v-bottom)/(top-bottom)*8)-1, 7))
				b.WriteString(style.Render(strings.Repeat(string(partials[idx]), barW)))
			default:
				b.WriteString(blank)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└", yLabelW, "0") + strings.Repeat("─", axisLen)))
	if labels != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// xAxisLabels spaces month labels under their bars, skipping labels that
// would collide and always placing the last one.
func xAxisLabels(labels []string, pitch, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	n := len(labels)
	step := max(1, (n*8)/(axisLen+1))

	lastEnd := -1
	put := func(pos int, lbl string) {
		end := min(pos+len(lbl), axisLen)
		if pos <= lastEnd || end-pos < 3 {
			return
		}
		copy(buf[pos:end], lbl[:end-pos])
		lastEnd = end
	}
	for i := 0; i < n; i += step {
		put(i*pitch, labels[i])
	}
	if n > 1 && (n-1)%step != 0 {
		last := labels[n-1]
		put(min((n-1)*pitch, axisLen-len(last)), last)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a round tick interval targeting about 5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// axisLabel is the compact money label of a tick, without a trailing ".0".
func axisLabel(v float64) string {
	if v > 0 && v < 1 {
		return fmt.Sprintf("$%.2f", v)
	}
	return strings.Replace(cli.FormatCompact(v), ".0", "", 1)
}

// Package components provides reusable TUI widgets for the wipflags dashboard.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/wipflags/internal/tui/theme"
)

// Metric is one headline number on the overview.
type Metric struct {
	Label string
	Value string
	Note  string // small print under the value
	Alert bool   // draw the value in the red-flag color
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// cardFrame is the rounded surface shared by every card. outerWidth
// includes the border.
func cardFrame(border lipgloss.Color, outerWidth int) lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(max(10, outerWidth-2)).
		Padding(0, 1)
}

// MetricCard renders a small metric card with label, value, and note.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	border, valueColor := t.Border, t.TextPrimary
	if m.Alert {
		border, valueColor = t.Overrun, t.Overrun
	}

	surface := lipgloss.NewStyle().Background(t.Surface)
	content := surface.Foreground(t.TextMuted).Render(m.Label) + "\n" +
		surface.Foreground(valueColor).Bold(true).Render(m.Value)
	if m.Note != "" {
		content += "\n" + surface.Foreground(t.TextDim).Render(m.Note)
	}
	return cardFrame(border, outerWidth).Render(content)
}

// MetricCardRow renders a row of metric cards side by side.
// totalWidth is the full row width; cards sum to exactly that.
func MetricCardRow(cards []Metric, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(cards))
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = MetricCard(c, widths[i])
	}
	return CardRow(rendered)
}

// ContentCard renders a bordered content card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	content := body
	if title != "" {
		titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardFrame(t.Border, outerWidth).Render(content)
}

// CardRow joins pre-rendered card strings horizontally. Shorter cards are
// padded with background-filled lines so the row stays rectangular.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	t := theme.Active

	tallest := 0
	for _, c := range cards {
		tallest = max(tallest, lipgloss.Height(c))
	}
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = lipgloss.PlaceVertical(tallest, lipgloss.Top, c,
			lipgloss.WithWhitespaceBackground(t.Background))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	return max(10, outerWidth-4)
}

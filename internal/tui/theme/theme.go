// Package theme defines color themes for the wipflags TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the dashboard's color roles to concrete colors. Budget state
// gets its own roles so flag cells, warnings and charts agree across tabs.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Active tab
	SurfaceBright lipgloss.Color // Selected row, focused field
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // Focused borders
	TextDim       lipgloss.Color // Hints, empty bar cells
	TextMuted     lipgloss.Color // Labels, metadata
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color // Cost series, active states
	AccentBright  lipgloss.Color
	KeyHint       lipgloss.Color // Key bindings in the help overlay

	Overrun   lipgloss.Color // Raised red flags, spend past budget
	NearLimit lipgloss.Color // Warnings, 70%+ of budget used
	Watch     lipgloss.Color // 50%+ of budget used
	OnTrack   lipgloss.Color // No red flag
	Saved     lipgloss.Color // Confirmation messages
	Revenue   lipgloss.Color // Milestone and kit sale series
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme, a warm paper-inspired dark palette.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	KeyHint:       lipgloss.Color("#24837B"),
	Overrun:       lipgloss.Color("#D14D41"),
	NearLimit:     lipgloss.Color("#DA702C"),
	Watch:         lipgloss.Color("#D0A215"),
	OnTrack:       lipgloss.Color("#879A39"),
	Saved:         lipgloss.Color("#A3B859"),
	Revenue:       lipgloss.Color("#4385BE"),
}

// FlexokiLight is the light variant for terminals on a white background.
var FlexokiLight = Theme{
	Name:          "flexoki-light",
	Background:    lipgloss.Color("#FFFCF0"),
	Surface:       lipgloss.Color("#F2F0E5"),
	SurfaceHover:  lipgloss.Color("#E6E4D9"),
	SurfaceBright: lipgloss.Color("#DAD8CE"),
	Border:        lipgloss.Color("#CECDC3"),
	BorderAccent:  lipgloss.Color("#24837B"),
	TextDim:       lipgloss.Color("#B7B5AC"),
	TextMuted:     lipgloss.Color("#6F6E69"),
	TextPrimary:   lipgloss.Color("#100F0F"),
	Accent:        lipgloss.Color("#24837B"),
	AccentBright:  lipgloss.Color("#1C6C66"),
	KeyHint:       lipgloss.Color("#24837B"),
	Overrun:       lipgloss.Color("#AF3029"),
	NearLimit:     lipgloss.Color("#BC5215"),
	Watch:         lipgloss.Color("#AD8301"),
	OnTrack:       lipgloss.Color("#66800B"),
	Saved:         lipgloss.Color("#536907"),
	Revenue:       lipgloss.Color("#205EA6"),
}

// CatppuccinMocha is a soft pastel dark theme.
var CatppuccinMocha = Theme{
	Name:          "catppuccin-mocha",
	Background:    lipgloss.Color("#1E1E2E"),
	Surface:       lipgloss.Color("#313244"),
	SurfaceHover:  lipgloss.Color("#45475A"),
	SurfaceBright: lipgloss.Color("#585B70"),
	Border:        lipgloss.Color("#585B70"),
	BorderAccent:  lipgloss.Color("#89B4FA"),
	TextDim:       lipgloss.Color("#6C7086"),
	TextMuted:     lipgloss.Color("#A6ADC8"),
	TextPrimary:   lipgloss.Color("#CDD6F4"),
	Accent:        lipgloss.Color("#94E2D5"),
	AccentBright:  lipgloss.Color("#B4F0E6"),
	KeyHint:       lipgloss.Color("#89DCEB"),
	Overrun:       lipgloss.Color("#F38BA8"),
	NearLimit:     lipgloss.Color("#FAB387"),
	Watch:         lipgloss.Color("#F9E2AF"),
	OnTrack:       lipgloss.Color("#A6E3A1"),
	Saved:         lipgloss.Color("#C6F6C1"),
	Revenue:       lipgloss.Color("#89B4FA"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	KeyHint:       lipgloss.Color("6"),
	Overrun:       lipgloss.Color("1"),
	NearLimit:     lipgloss.Color("3"),
	Watch:         lipgloss.Color("11"),
	OnTrack:       lipgloss.Color("2"),
	Saved:         lipgloss.Color("10"),
	Revenue:       lipgloss.Color("4"),
}

// All available themes.
var All = []Theme{FlexokiDark, FlexokiLight, CatppuccinMocha, Terminal}

// Names lists the available theme names.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// Lookup returns the theme called name.
func Lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Flag returns the color of a red-flag cell.
func (t Theme) Flag(raised bool) lipgloss.Color {
	if raised {
		return t.Overrun
	}
	return t.OnTrack
}

// Series returns the chart color for a cost or revenue series.
func (t Theme) Series(revenue bool) lipgloss.Color {
	if revenue {
		return t.Revenue
	}
	return t.Accent
}

// Consumption grades a share of budget used: under half is on track,
// 90% and over is an overrun.
func (t Theme) Consumption(pct float64) lipgloss.Color {
	switch {
	case pct >= 0.9:
		return t.Overrun
	case pct >= 0.7:
		return t.NearLimit
	case pct >= 0.5:
		return t.Watch
	default:
		return t.OnTrack
	}
}

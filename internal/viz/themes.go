package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view. Frame and Panel are the canvas and stats
// borders; Chart draws the population graph; Alert marks pauses and errors.
type Theme struct {
	Name   string
	Frame  lipgloss.Color
	Panel  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Chart  lipgloss.Color
	Alert  lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:   "nebula",
		Frame:  lipgloss.Color("#b36bff"),
		Panel:  lipgloss.Color("#5fd7ff"),
		Accent: lipgloss.Color("#ffd75f"),
		Text:   lipgloss.Color("#f0e6ff"),
		Muted:  lipgloss.Color("#7a6a99"),
		Chart:  lipgloss.Color("#87ffaf"),
		Alert:  lipgloss.Color("#ff875f"),
	}

	ThemePhosphor = Theme{
		Name:   "phosphor",
		Frame:  lipgloss.Color("#33ff66"),
		Panel:  lipgloss.Color("#22aa44"),
		Accent: lipgloss.Color("#aaffbb"),
		Text:   lipgloss.Color("#33ff66"),
		Muted:  lipgloss.Color("#1f6630"),
		Chart:  lipgloss.Color("#aaffbb"),
		Alert:  lipgloss.Color("#ffee55"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Frame:  lipgloss.Color("#e4e4e4"),
		Panel:  lipgloss.Color("#a8a8a8"),
		Accent: lipgloss.Color("#ffffff"),
		Text:   lipgloss.Color("#e4e4e4"),
		Muted:  lipgloss.Color("#808080"),
		Chart:  lipgloss.Color("#c6c6c6"),
		Alert:  lipgloss.Color("#ffffff"),
	}

	ThemeDeepField = Theme{
		Name:   "deepfield",
		Frame:  lipgloss.Color("#1f6fbf"),
		Panel:  lipgloss.Color("#3fa9d9"),
		Accent: lipgloss.Color("#ffcf40"),
		Text:   lipgloss.Color("#dcebff"),
		Muted:  lipgloss.Color("#4f7394"),
		Chart:  lipgloss.Color("#5fe0c0"),
		Alert:  lipgloss.Color("#ff5f5f"),
	}

	ThemeAccretion = Theme{
		Name:   "accretion",
		Frame:  lipgloss.Color("#ff8c42"),
		Panel:  lipgloss.Color("#ffc857"),
		Accent: lipgloss.Color("#fff3b0"),
		Text:   lipgloss.Color("#fff5eb"),
		Muted:  lipgloss.Color("#a0705a"),
		Chart:  lipgloss.Color("#ffd166"),
		Alert:  lipgloss.Color("#ef476f"),
	}

	// All available themes, in cycling order
	Themes = []Theme{
		ThemeNebula,
		ThemePhosphor,
		ThemeMono,
		ThemeDeepField,
		ThemeAccretion,
	}
)

// GetTheme returns a theme by name, falling back to nebula.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNebula
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	paused lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Frame).
			Foreground(t.Text),
		stats: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Panel).
			Padding(0, 1).
			Width(30),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Frame),
		label: lipgloss.NewStyle().Foreground(t.Muted),
		value: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		graph: lipgloss.NewStyle().Foreground(t.Chart),
		help:  lipgloss.NewStyle().Foreground(t.Muted),
		paused: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Alert),
	}
}

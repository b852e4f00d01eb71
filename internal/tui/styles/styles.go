package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	DexRed     = lipgloss.Color("#E3350D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Red        = lipgloss.Color("#EF4444")
)

// Type colors keyed by API type name
var typeColors = map[string]lipgloss.Color{
	"normal":   lipgloss.Color("#A8A77A"),
	"fire":     lipgloss.Color("#EE8130"),
	"water":    lipgloss.Color("#6390F0"),
	"electric": lipgloss.Color("#F7D02C"),
	"grass":    lipgloss.Color("#7AC74C"),
	"ice":      lipgloss.Color("#96D9D6"),
	"fighting": lipgloss.Color("#C22E28"),
	"poison":   lipgloss.Color("#A33EA1"),
	"ground":   lipgloss.Color("#E2BF65"),
	"flying":   lipgloss.Color("#A98FF3"),
	"psychic":  lipgloss.Color("#F95587"),
	"bug":      lipgloss.Color("#A6B91A"),
	"rock":     lipgloss.Color("#B6A136"),
	"ghost":    lipgloss.Color("#735797"),
	"dragon":   lipgloss.Color("#6F35FC"),
	"dark":     lipgloss.Color("#705746"),
	"steel":    lipgloss.Color("#B7B7CE"),
	"fairy":    lipgloss.Color("#D685AD"),
}

// Stat colors keyed by API stat name
var statColors = map[string]lipgloss.Color{
	"hp":              lipgloss.Color("#F2D94E"),
	"attack":          lipgloss.Color("#F5AC78"),
	"defense":         lipgloss.Color("#FAE078"),
	"special-attack":  lipgloss.Color("#9DB7F5"),
	"special-defense": lipgloss.Color("#A7DB8D"),
	"speed":           lipgloss.Color("#FA92B2"),
}

var statAbbreviations = map[string]string{
	"hp":              "HP",
	"attack":          "Atk",
	"defense":         "Def",
	"special-attack":  "SpAtk",
	"special-defense": "SpDef",
	"speed":           "Spd",
}

// TypeColor returns the badge color for a type, or DimGray when unknown
func TypeColor(name string) lipgloss.Color {
	if c, ok := typeColors[strings.ToLower(name)]; ok {
		return c
	}
	return DimGray
}

// StatColor returns the bar color for a stat, or White when unknown
func StatColor(name string) lipgloss.Color {
	if c, ok := statColors[strings.ToLower(name)]; ok {
		return c
	}
	return White
}

// StatAbbr returns the short label for a stat; unknown stats are returned as is
func StatAbbr(name string) string {
	if abbr, ok := statAbbreviations[strings.ToLower(name)]; ok {
		return abbr
	}
	return name
}

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(DexRed)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)
)

// Panel styles
var (
	BrowserStyle = lipgloss.NewStyle().
			Padding(0, 1)

	DetailStyle = lipgloss.NewStyle().
			Padding(1, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(DexRed).
			Bold(true).
			Padding(0, 1)
)

// Badge style for type chips; foreground/background set per type
var BadgeStyle = lipgloss.NewStyle().
	Foreground(SlateDark).
	Bold(true).
	Padding(0, 1)

// Progress bar styles
var (
	ProgressEmptyStyle = lipgloss.NewStyle().
		Foreground(DimGray)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(DexRed)

// Search prompt styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(DexRed).
				Bold(true)
)

// Match highlight styles for search results
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(DexRed).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(DexRed).
					Background(SlateLight).
					Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(DexRed)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// RenderBar renders a horizontal bar of value/max filled with color
func RenderBar(value, max, width int, color lipgloss.Color) string {
	if width < 1 {
		return ""
	}
	filled := 0
	if max > 0 {
		filled = value * width / max
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	full := lipgloss.NewStyle().Foreground(color)
	return full.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
	Bold       bool
}

// RenderListRow renders a complete list row with uniform background when selected.
// Each part is styled explicitly so ANSI resets do not break the background.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var b strings.Builder
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle().Bold(part.Bold)
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(selectedFg)
		} else {
			style = style.Foreground(defaultFg)
		}
		if selected {
			style = style.Background(bg)
		}
		b.WriteString(style.Render(part.Text))
		visibleLen += lipgloss.Width(part.Text)
	}

	// Fill to width, leaving one column of margin on each side
	padStyle := lipgloss.NewStyle()
	if selected {
		padStyle = padStyle.Background(bg)
	}
	if pad := width - visibleLen - 2; pad > 0 {
		b.WriteString(padStyle.Render(strings.Repeat(" ", pad)))
	}
	margin := padStyle.Render(" ")

	return margin + b.String() + margin
}

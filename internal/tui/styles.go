package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorHeader   = lipgloss.Color("39")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorMuted    = lipgloss.Color("240")
	ColorOK       = lipgloss.Color("42")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
	ColorSpinner  = lipgloss.Color("205")
	ColorSelected = lipgloss.Color("57")
	ColorProtein  = lipgloss.Color("#FF6384")
	ColorCarbs    = lipgloss.Color("#36A2EB")
	ColorFat      = lipgloss.Color("#FFCE56")
)

// Text styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	InfoStyle     = lipgloss.NewStyle().Italic(true).Foreground(ColorLabel)
	OKStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorOK)
	WarningStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCritical).
			Padding(0, 1)
)

// Table and page-control styles.
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorMuted)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(ColorSelected).
				Bold(false)

	ControlStyle         = lipgloss.NewStyle().Padding(0, 1)
	CurrentControlStyle  = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	DisabledControlStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
)

// borderPadding is the horizontal space taken by a box border plus padding.
const borderPadding = 4

// macroColor maps a macro name to its bar color.
func macroColor(name string) lipgloss.Color {
	switch name {
	case "Protein":
		return ColorProtein
	case "Carbs":
		return ColorCarbs
	case "Fat":
		return ColorFat
	default:
		return ColorValue
	}
}

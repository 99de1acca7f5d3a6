// Package ui provides the visual styling for the genesisctl console, with
// light and dark palettes selected through configuration.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Dark palette (default)
	DarkBackground = lipgloss.Color("#0f1419")
	DarkForeground = lipgloss.Color("#e6e1cf")
	DarkPrimary    = lipgloss.Color("#39bae6")
	DarkAccent     = lipgloss.Color("#ffb454")
	DarkSecondary  = lipgloss.Color("#1c2430")
	DarkMuted      = lipgloss.Color("#5c6773")
	DarkBorder     = lipgloss.Color("#2d3640")
	DarkCard       = lipgloss.Color("#161f2a")

	// Light palette
	LightBackground = lipgloss.Color("#fafafa")
	LightForeground = lipgloss.Color("#253340")
	LightPrimary    = lipgloss.Color("#0366d6")
	LightAccent     = lipgloss.Color("#e36209")
	LightSecondary  = lipgloss.Color("#eef1f4")
	LightMuted      = lipgloss.Color("#8b949e")
	LightBorder     = lipgloss.Color("#d0d7de")
	LightCard       = lipgloss.Color("#ffffff")

	// Semantic colors, identical in both modes
	Destructive = lipgloss.Color("#f07178")
	Success     = lipgloss.Color("#aad94c")
	Warning     = lipgloss.Color("#ffcc66")
	Info        = lipgloss.Color("#59c2ff")
)

// Theme holds the active color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// DarkTheme returns the dark scheme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// LightTheme returns the light scheme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// ThemeByName resolves a configured theme name. Unknown names and the empty
// string fall back to dark; GENESIS_LIGHT_MODE=1 forces light regardless.
func ThemeByName(name string) Theme {
	if os.Getenv("GENESIS_LIGHT_MODE") == "1" {
		return LightTheme()
	}
	if strings.EqualFold(name, "light") {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds every styled component the console renders with.
type Styles struct {
	Theme Theme

	// Layout
	Header    lipgloss.Style
	StatusBar lipgloss.Style
	Sidebar   lipgloss.Style
	Content   lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Transcript
	Prompt        lipgloss.Style
	UserMessage   lipgloss.Style
	AgentMessage  lipgloss.Style
	SystemMessage lipgloss.Style
	ModelLabel    lipgloss.Style

	// Status
	Online  lipgloss.Style
	Offline lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner  lipgloss.Style
	Badge    lipgloss.Style
	Selected lipgloss.Style
	Divider  lipgloss.Style
	TabOn    lipgloss.Style
	TabOff   lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Background).
			Padding(0, 2).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Muted).
			Padding(0, 1),

		Sidebar: lipgloss.NewStyle().
			BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			PaddingRight(1),

		Content: lipgloss.NewStyle().
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		AgentMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary),

		SystemMessage: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		ModelLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Online: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Offline: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(theme.Background).
			Padding(0, 1).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Primary).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		TabOn: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true),

		TabOff: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns the dark style set.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}

// RenderDivider returns a horizontal rule of the given width.
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

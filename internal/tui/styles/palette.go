package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault        ThemeName = "default"         // Purple/green dark theme
	ThemeDracula        ThemeName = "dracula"         // Dracula theme colors
	ThemeNord           ThemeName = "nord"            // Nord theme - cool blue-gray
	ThemeSolarizedLight ThemeName = "solarized-light" // Solarized Light variant
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeSolarizedLight),
	}
}

// IsValidTheme checks if a theme name is a built-in theme.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette holds every color the TUI renders with.
type ColorPalette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color

	// Lifecycle badge colors
	StateDraft     lipgloss.Color
	StatePublished lipgloss.Color
	StateClosed    lipgloss.Color
	StateUnknown   lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
// All colors meet WCAG AA contrast on dark surfaces.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		StateDraft:     lipgloss.Color("#FBBF24"), // Yellow
		StatePublished: lipgloss.Color("#10B981"), // Green
		StateClosed:    lipgloss.Color("#60A5FA"), // Blue
		StateUnknown:   lipgloss.Color("#9CA3AF"), // Gray
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"),
		Secondary: lipgloss.Color("#50FA7B"),
		Warning:   lipgloss.Color("#FFB86C"),
		Error:     lipgloss.Color("#FF5555"),
		Muted:     lipgloss.Color("#6272A4"),
		Surface:   lipgloss.Color("#282A36"),
		Text:      lipgloss.Color("#F8F8F2"),
		Border:    lipgloss.Color("#44475A"),

		StateDraft:     lipgloss.Color("#F1FA8C"),
		StatePublished: lipgloss.Color("#50FA7B"),
		StateClosed:    lipgloss.Color("#8BE9FD"),
		StateUnknown:   lipgloss.Color("#6272A4"),
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"),
		Secondary: lipgloss.Color("#A3BE8C"),
		Warning:   lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
		Muted:     lipgloss.Color("#7B88A1"),
		Surface:   lipgloss.Color("#3B4252"),
		Text:      lipgloss.Color("#ECEFF4"),
		Border:    lipgloss.Color("#4C566A"),

		StateDraft:     lipgloss.Color("#EBCB8B"),
		StatePublished: lipgloss.Color("#A3BE8C"),
		StateClosed:    lipgloss.Color("#81A1C1"),
		StateUnknown:   lipgloss.Color("#7B88A1"),
	}
}

// SolarizedLightPalette returns the Solarized Light palette for light terminals.
func SolarizedLightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#6C71C4"),
		Secondary: lipgloss.Color("#859900"),
		Warning:   lipgloss.Color("#B58900"),
		Error:     lipgloss.Color("#DC322F"),
		Muted:     lipgloss.Color("#657B83"),
		Surface:   lipgloss.Color("#EEE8D5"),
		Text:      lipgloss.Color("#073642"),
		Border:    lipgloss.Color("#93A1A1"),

		StateDraft:     lipgloss.Color("#B58900"),
		StatePublished: lipgloss.Color("#859900"),
		StateClosed:    lipgloss.Color("#268BD2"),
		StateUnknown:   lipgloss.Color("#657B83"),
	}
}

// GetPalette returns the palette for name, falling back to the default.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeSolarizedLight:
		return SolarizedLightPalette()
	default:
		return DefaultPalette()
	}
}

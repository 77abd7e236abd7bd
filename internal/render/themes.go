package render

import (
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

// Markdown style names accepted in configuration
const (
	ThemeAuto       = styles.AutoStyle
	ThemeDark       = styles.DarkStyle
	ThemeLight      = styles.LightStyle
	ThemeDracula    = styles.DraculaStyle
	ThemeTokyoNight = styles.TokyoNightStyle
	ThemePink       = styles.PinkStyle
	ThemeNoTTY      = styles.NoTTYStyle
	ThemeASCII      = styles.AsciiStyle
)

// hasDarkBackground is swapped out in tests
var hasDarkBackground = termenv.HasDarkBackground

// IsBuiltinStyle returns true if the style is one of glamour's built-in styles
func IsBuiltinStyle(style string) bool {
	switch style {
	case ThemeAuto, ThemeDark, ThemeLight, ThemeDracula, ThemeTokyoNight, ThemePink, ThemeNoTTY, ThemeASCII:
		return true
	default:
		return false
	}
}

// ResolveStyle turns "auto" (or an empty style) into dark or light based on
// the terminal background. Other values are returned unchanged.
func ResolveStyle(style string) string {
	if style != "" && style != ThemeAuto {
		return style
	}
	if hasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the markdown styles that can be configured.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeAuto, Description: "Dark or light, following the terminal background (default)"},
		{Name: ThemeDark, Description: "Dark theme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

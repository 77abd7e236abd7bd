package render

import (
	"os"

	"github.com/diogo/mongomentor/internal/config"
)

// EnvGlamourStyle overrides the configured markdown style
const EnvGlamourStyle = "GLAMOUR_STYLE"

// OptionsFromConfig builds answer render options from the markdown section
// of the configuration. GLAMOUR_STYLE takes precedence over the file value.
// A style that ValidStyle rejects falls back to auto so answers are still
// rendered.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	style := md.Style
	if env := os.Getenv(EnvGlamourStyle); env != "" {
		style = env
	}
	if style == "" || !ValidStyle(style) {
		style = ThemeAuto
	}

	return DefaultOptions().
		WithStyle(style).
		WithEmoji(md.EnableEmoji).
		WithPreserveNewLines(md.PreserveNewLines).
		WithTableWrap(md.TableWrap).
		WithInlineTableLinks(md.InlineTableLinks)
}

// ValidStyle reports whether glamour can load style: a built-in name, or a
// path to an existing style file. Empty counts as auto.
func ValidStyle(style string) bool {
	if style == "" || IsBuiltinStyle(style) {
		return true
	}
	info, err := os.Stat(style)
	return err == nil && !info.IsDir()
}

// Package tui provides the terminal user interface for mongomentor.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/mongomentor/internal/errors"
	"github.com/diogo/mongomentor/internal/render"
)

// Color variables (updated from theme)
var (
	// Base colors
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	// Accent colors
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	// Text colors
	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style

	// "New messages" indicator, shown in place of the status bar
	indicatorStyle lipgloss.Style

	// Try asking panel
	questionsPanelStyle lipgloss.Style
	questionsTitleStyle lipgloss.Style
	questionKeyStyle    lipgloss.Style
	questionTextStyle   lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style
	pendingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	errorStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style

	// Settings editor
	settingsPanelStyle    lipgloss.Style
	settingsSectionStyle  lipgloss.Style
	settingsItemStyle     lipgloss.Style
	settingsSelectedStyle lipgloss.Style
	settingsCursorStyle   lipgloss.Style
	settingsValueStyle    lipgloss.Style
	settingsPathStyle     lipgloss.Style
	settingsEnabledStyle  lipgloss.Style
	settingsDisabledStyle lipgloss.Style
)

// Gradient colors for the loading bar, greens into teal
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#00684A"),
	lipgloss.Color("#00A35C"),
	lipgloss.Color("#13AA52"),
	lipgloss.Color("#00ED64"),
	lipgloss.Color("#71F6BA"),
	lipgloss.Color("#C0FAE6"),
	lipgloss.Color("#71F6BA"),
	lipgloss.Color("#00ED64"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	// User messages sit on the right, in the primary color
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Background(colorSurface).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	indicatorStyle = lipgloss.NewStyle().
		Foreground(colorSurface).
		Background(colorPrimary).
		Bold(true).
		Padding(0, 2)

	questionsPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	questionsTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true)

	questionKeyStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	questionTextStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	pendingStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Align(lipgloss.Center)

	settingsPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	settingsSectionStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	settingsItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	settingsSelectedStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsCursorStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsValueStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	settingsPathStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	settingsEnabledStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	settingsDisabledStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)
}

// FormatError returns a styled error message with additional context
// extracted from the structured error types.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the MongoMentor service is running and reachable"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The endpoint did not return JSON. Check the configured endpoint URL"))
	case errors.IsNoAnswer(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The service responded without an answer. Try rephrasing the question"))
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}

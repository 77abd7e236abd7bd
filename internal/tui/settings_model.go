package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/mongomentor/internal/config"
	"github.com/diogo/mongomentor/internal/render"
)

// settingsView represents the current view in the settings editor
type settingsView int

const (
	viewMenu settingsView = iota
	viewMarkdownThemeSelect
	viewTUIThemeSelect
)

// Menu item indices for the main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuScrollThreshold
	menuMarkdownTheme
	menuTUITheme
	menuExit
	menuItemCount
)

// maxScrollThreshold bounds the scroll threshold setting
const maxScrollThreshold = 10

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// SettingsOptions configures the settings editor
type SettingsOptions struct {
	// ConfigPath is the file Save writes to; shown in the paths panel.
	ConfigPath string
	LogPath    string
	// Save persists the edited configuration.
	Save func(cfg config.Config) error
}

// SettingsModel edits the persisted configuration
type SettingsModel struct {
	cfg  config.Config
	opts SettingsOptions

	view           settingsView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackErr     bool
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewSettingsModel creates a settings editor for cfg
func NewSettingsModel(cfg config.Config, opts SettingsOptions) SettingsModel {
	if cfg.TUITheme == "" {
		cfg.TUITheme = render.MongoDBTheme.Name
	}
	if cfg.Markdown.Style == "" {
		cfg.Markdown.Style = render.ThemeAuto
	}
	if opts.Save == nil {
		opts.Save = func(config.Config) error { return nil }
	}

	return SettingsModel{
		cfg:             cfg,
		opts:            opts,
		view:            viewMenu,
		themeCursor:     indexOf(render.ThemeNames(), cfg.Markdown.Style),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), cfg.TUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, value string) int {
	for i, item := range items {
		if item == value {
			return i
		}
	}
	return 0
}

// Config returns the configuration as edited so far
func (m SettingsModel) Config() config.Config {
	return m.cfg
}

// Init initializes the model
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackErr = false

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMenu {
				m.view = viewMenu
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "left", "h":
			if m.view == viewMenu && m.cursor == menuScrollThreshold {
				return m.setScrollThreshold(m.cfg.ScrollThreshold - 1)
			}

		case "right", "l":
			if m.view == viewMenu && m.cursor == menuScrollThreshold {
				return m.setScrollThreshold(m.cfg.ScrollThreshold + 1)
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the cursor of the active view, wrapping at both ends
func (m *SettingsModel) move(delta int) {
	wrap := func(cursor, n int) int {
		return ((cursor+delta)%n + n) % n
	}
	switch m.view {
	case viewMenu:
		m.cursor = wrap(m.cursor, menuItemCount)
	case viewMarkdownThemeSelect:
		m.themeCursor = wrap(m.themeCursor, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor, len(render.TUIThemeNames()))
	}
}

// handleSelect handles menu item selection
func (m SettingsModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMenu:
		switch m.cursor {
		case menuVerbose:
			m.cfg.Verbose = !m.cfg.Verbose
			return m.commit(fmt.Sprintf("Verbose logging %s", enabledWord(m.cfg.Verbose)))

		case menuCopyToClipboard:
			m.cfg.CopyToClipboard = !m.cfg.CopyToClipboard
			return m.commit(fmt.Sprintf("Copy to clipboard %s", enabledWord(m.cfg.CopyToClipboard)))

		case menuScrollThreshold:
			next := m.cfg.ScrollThreshold + 1
			if next > maxScrollThreshold {
				next = 1
			}
			return m.setScrollThreshold(next)

		case menuMarkdownTheme:
			m.view = viewMarkdownThemeSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewMarkdownThemeSelect:
		m.cfg.Markdown.Style = render.ThemeNames()[m.themeCursor]
		m.view = viewMenu
		return m.commit(fmt.Sprintf("Markdown theme set to %s", m.cfg.Markdown.Style))

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.cfg.TUITheme = selected

		// Apply the new TUI theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()

		m.view = viewMenu
		return m.commit(fmt.Sprintf("TUI theme set to %s", selected))
	}

	return m, nil
}

func (m SettingsModel) setScrollThreshold(n int) (tea.Model, tea.Cmd) {
	if n < 1 || n > maxScrollThreshold {
		return m, nil
	}
	m.cfg.ScrollThreshold = n
	return m.commit(fmt.Sprintf("Scroll threshold set to %d rows", n))
}

// commit saves the configuration and reports the outcome
func (m SettingsModel) commit(message string) (tea.Model, tea.Cmd) {
	if err := m.opts.Save(m.cfg); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackErr = true
	} else {
		m.feedback = message
		m.feedbackErr = false
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the settings editor
func (m SettingsModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	header := headerStyle.Width(contentWidth).Render(titleStyle.Render("🍃 MongoMentor Settings"))
	sections = append(sections, header)

	paths := lipgloss.JoinVertical(lipgloss.Left,
		settingsSectionStyle.Render("Paths"),
		fmt.Sprintf("   Config:   %s", settingsPathStyle.Render(m.opts.ConfigPath)),
		fmt.Sprintf("   Log:      %s", settingsPathStyle.Render(m.opts.LogPath)),
		fmt.Sprintf("   Endpoint: %s", settingsPathStyle.Render(m.cfg.Endpoint)),
	)
	sections = append(sections, settingsPanelStyle.Width(contentWidth).Render(paths))

	var body string
	switch m.view {
	case viewMenu:
		body = m.renderMenu()
	case viewMarkdownThemeSelect:
		body = m.renderThemeList("Select Markdown Theme", render.AvailableThemes(), m.themeCursor, m.cfg.Markdown.Style)
	case viewTUIThemeSelect:
		themes := render.AvailableTUIThemes()
		infos := make([]render.ThemeInfo, len(themes))
		for i, t := range themes {
			infos[i] = render.ThemeInfo{Name: t.Name, Description: t.Description}
		}
		body = m.renderThemeList("Select TUI Theme", infos, m.tuiThemeCursor, m.cfg.TUITheme)
	}
	sections = append(sections, settingsPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		if m.feedbackErr {
			sections = append(sections, errorStyle.Render("✗ "+m.feedback))
		} else {
			sections = append(sections, settingsEnabledStyle.Render("✓ "+m.feedback))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMenu renders the main settings list
func (m SettingsModel) renderMenu() string {
	rows := []struct {
		label string
		value string
	}{
		{"Verbose Logging", m.renderBool(m.cfg.Verbose)},
		{"Copy to Clipboard", m.renderBool(m.cfg.CopyToClipboard)},
		{"Scroll Threshold", settingsValueStyle.Render(fmt.Sprintf("%d rows", m.cfg.ScrollThreshold))},
		{"Markdown Theme", settingsValueStyle.Render(m.cfg.Markdown.Style)},
		{"TUI Theme", settingsValueStyle.Render(m.cfg.TUITheme)},
	}

	items := []string{settingsSectionStyle.Render("Settings"), ""}
	for i, row := range rows {
		items = append(items, m.cursorPrefix(i == m.cursor)+m.itemStyle(i == m.cursor).Render(fmt.Sprintf("%-20s", row.label))+row.value)
	}
	items = append(items, "", m.cursorPrefix(m.cursor == menuExit)+m.itemStyle(m.cursor == menuExit).Render("Exit"))

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderThemeList renders a theme picker with the current choice marked
func (m SettingsModel) renderThemeList(title string, themes []render.ThemeInfo, cursor int, current string) string {
	items := []string{settingsSectionStyle.Render(title), ""}
	for i, theme := range themes {
		line := m.cursorPrefix(i == cursor) + m.itemStyle(i == cursor).Render(fmt.Sprintf("%s - %s", theme.Name, theme.Description))
		if theme.Name == current {
			line += settingsEnabledStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m SettingsModel) cursorPrefix(selected bool) string {
	if selected {
		return settingsCursorStyle.Render("▸ ")
	}
	return "  "
}

func (m SettingsModel) itemStyle(selected bool) lipgloss.Style {
	if selected {
		return settingsSelectedStyle
	}
	return settingsItemStyle
}

func (m SettingsModel) renderBool(v bool) string {
	if v {
		return settingsEnabledStyle.Render("enabled")
	}
	return settingsDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m SettingsModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMenu {
		back = "Back"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}
	if m.view == viewMenu && m.cursor == menuScrollThreshold {
		shortcuts = append(shortcuts, struct {
			key  string
			desc string
		}{"←→", "Adjust"})
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunSettings starts the settings editor
func RunSettings(cfg config.Config, opts SettingsOptions) error {
	p := tea.NewProgram(NewSettingsModel(cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

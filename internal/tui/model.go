package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/diogo/mongomentor/internal/conversation"
	"github.com/diogo/mongomentor/internal/logging"
	"github.com/diogo/mongomentor/internal/render"
	"github.com/diogo/mongomentor/internal/scroll"
	"github.com/diogo/mongomentor/internal/transcript"
)

// WelcomeText is shown while the conversation is empty
const WelcomeText = "Start the conversation by asking me a question."

// IndicatorText labels the jump-to-latest indicator
const IndicatorText = "New messages ↓"

// Only alt+1..alt+9 exist as shortcuts
const maxShortcutQuestions = 9

// Fixed layout heights, borders and margins included
const (
	headerHeight = 4
	inputHeight  = 5
	statusHeight = 1
	messagesPad  = 4
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// exchangeSettledMsg is delivered when a dispatched question has been
	// answered (or failed) and both messages are in the store.
	exchangeSettledMsg struct {
		exchange conversation.Exchange
	}
	// scrollToBottomMsg runs a pinned scroll on the frame after an append.
	scrollToBottomMsg struct{}
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// Options configures the chat view
type Options struct {
	Endpoint string
	// Questions are offered in the "Try asking" panel, bound to alt+1..alt+9.
	Questions []string
	// ScrollThreshold is the distance from the bottom, in rows, that still
	// counts as following the conversation.
	ScrollThreshold int
	Render          render.Options
	Logger          *slog.Logger
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	dispatcher *conversation.Dispatcher
	store      *conversation.Store
	scroll     *scroll.Controller
	logger     *slog.Logger

	endpoint   string
	questions  []string
	renderOpts render.Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	pending        string // question awaiting its answer
	ready          bool
	feedback       string // result of the last slash command
	err            error
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat view that asks questions through dispatcher
// and displays the dispatcher's store.
func NewChatModel(ctx context.Context, dispatcher *conversation.Dispatcher, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Render == (render.Options{}) {
		opts.Render = render.DefaultOptions()
	}
	questions := opts.Questions
	if len(questions) > maxShortcutQuestions {
		questions = questions[:maxShortcutQuestions]
	}

	ta := textarea.New()
	ta.Placeholder = "Ask anything about MongoDB..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	var scrollOpts []scroll.Option
	if opts.ScrollThreshold > 0 {
		scrollOpts = append(scrollOpts, scroll.WithThreshold(opts.ScrollThreshold))
	}

	return Model{
		ctx:        ctx,
		dispatcher: dispatcher,
		store:      dispatcher.Store(),
		scroll:     scroll.New(scrollOpts...),
		logger:     opts.Logger,
		endpoint:   opts.Endpoint,
		questions:  questions,
		renderOpts: opts.Render,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// scrollToBottom defers the pinned scroll to the next update
func scrollToBottom() tea.Cmd {
	return func() tea.Msg {
		return scrollToBottomMsg{}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			return m.submitInput()

		case "ctrl+g":
			return m.jumpToLatest()

		case "end":
			// End keeps its textarea meaning unless there is something to jump to
			if m.scroll.IndicatorVisible() {
				return m.jumpToLatest()
			}
		}

		if idx, ok := questionShortcut(msg.String()); ok {
			if idx < len(m.questions) {
				return m.submit(m.questions[idx])
			}
			return m, nil
		}

		// Only pass KeyMsg to textarea to prevent escape sequence leaks
		if !m.loading {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.scroll.Observe(m.geometry())

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.scroll.Observe(m.geometry())

	case exchangeSettledMsg:
		return m.settle(msg.exchange)

	case scrollToBottomMsg:
		m.viewport.GotoBottom()
		m.scroll.Observe(m.geometry())

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	return m, tea.Batch(cmds...)
}

// questionShortcut maps alt+1..alt+9 to a zero-based question index
func questionShortcut(keys string) (int, bool) {
	if len(keys) != len("alt+1") || !strings.HasPrefix(keys, "alt+") {
		return 0, false
	}
	d := keys[len(keys)-1]
	if d < '1' || d > '9' {
		return 0, false
	}
	return int(d - '1'), true
}

// submitInput handles Enter: slash commands run locally, anything else is asked
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	trimmed := strings.TrimSpace(input)
	if m.loading || trimmed == "" {
		return m, nil
	}

	if strings.HasPrefix(trimmed, "/") {
		return m.runCommand(trimmed)
	}

	return m.submit(input)
}

// submit starts one exchange. The input keeps its text until it settles.
func (m Model) submit(question string) (tea.Model, tea.Cmd) {
	if m.loading || strings.TrimSpace(question) == "" {
		return m, nil
	}

	m.loading = true
	m.pending = question
	m.feedback = ""
	m.err = nil
	m.animationFrame = 0

	return m, tea.Batch(
		m.ask(question),
		m.spinner.Tick,
		animationTick(),
	)
}

// ask runs the dispatcher off the update loop
func (m Model) ask(question string) tea.Cmd {
	ctx, dispatcher := m.ctx, m.dispatcher
	return func() tea.Msg {
		return exchangeSettledMsg{exchange: dispatcher.Ask(ctx, question)}
	}
}

// settle applies a completed exchange. The scroll decision uses the geometry
// from before the new messages are laid out.
func (m Model) settle(ex conversation.Exchange) (tea.Model, tea.Cmd) {
	action := m.scroll.Appended(m.geometry())

	m.loading = m.dispatcher.Loading()
	m.pending = ""
	m.textarea.Reset()
	m.updateViewport()

	m.logger.Debug("exchange displayed",
		"request_id", ex.ID,
		"outcome", ex.Failure.String(),
		"pinned", m.scroll.Pinned(),
	)

	if action == scroll.ActionScrollToBottom {
		return m, scrollToBottom()
	}
	return m, nil
}

func (m Model) jumpToLatest() (tea.Model, tea.Cmd) {
	if m.scroll.JumpToLatest() == scroll.ActionScrollToBottom {
		return m, scrollToBottom()
	}
	return m, nil
}

// runCommand executes a slash command typed into the input
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	name := strings.Fields(input)[0]
	arg := strings.TrimSpace(strings.TrimPrefix(input, name))

	m.feedback = ""
	m.err = nil

	switch name {
	case "/exit", "/quit":
		return m, tea.Quit
	case "/export":
		if arg == "" {
			arg = transcript.DefaultFileName(time.Now())
		}
		m.exportTranscript(arg)
	case "/copy":
		m.copyLastAnswer()
	default:
		m.feedback = fmt.Sprintf("Unknown command %s (try /export, /copy or /quit)", name)
	}

	m.textarea.Reset()
	return m, nil
}

func (m *Model) exportTranscript(path string) {
	messages := m.store.Messages()
	if len(messages) == 0 {
		m.feedback = "Nothing to export yet"
		return
	}

	format, err := transcript.WriteFile(path, messages, transcript.Options{Endpoint: m.endpoint})
	if err != nil {
		m.err = err
		m.logger.Warn("transcript export failed", "path", path, "err", err)
		return
	}

	m.feedback = fmt.Sprintf("Exported %d messages to %s (%s)", len(messages), path, format)
	m.logger.Info("transcript exported", "path", path, "format", string(format), "messages", len(messages))
}

func (m *Model) copyLastAnswer() {
	answer, ok := m.store.LastAnswer()
	if !ok {
		m.feedback = "No answer to copy yet"
		return
	}
	if err := writeClipboard(answer); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return
	}
	m.feedback = "Copied last answer to clipboard"
}

// geometry measures the message area in rows
func (m Model) geometry() scroll.Geometry {
	return scroll.Geometry{
		ScrollHeight: m.viewport.TotalLineCount(),
		ScrollTop:    m.viewport.YOffset,
		ClientHeight: m.viewport.Height,
	}
}

// questionsHeight is the height of the "Try asking" panel
func (m Model) questionsHeight() int {
	if len(m.questions) == 0 {
		return 0
	}
	rows := (len(m.questions) + 1) / 2
	return rows + 3 // title and border
}

// resize lays the view out for the current window size. A pinned view stays
// on the latest message.
func (m *Model) resize() {
	wasPinned := m.scroll.Pinned()

	vpHeight := m.height - headerHeight - m.questionsHeight() - inputHeight - statusHeight - messagesPad
	if vpHeight < 3 {
		vpHeight = 3
	}

	contentWidth := m.width - 4
	vpWidth := contentWidth - 2

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.viewport.KeyMap = chatViewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
	m.updateViewport()

	if wasPinned {
		m.viewport.GotoBottom()
	}
	m.scroll.Observe(m.geometry())
}

// chatViewportKeyMap limits viewport scrolling to keys the textarea does not
// need for typing.
func chatViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	endpoint := runewidth.Truncate(m.endpoint, contentWidth/2, "…")
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("🍃 MongoMentor"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(endpoint),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if m.store.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Try asking
	if len(m.questions) > 0 {
		sections = append(sections, m.renderQuestions(contentWidth))
	}

	// Input
	var inputContent string
	if m.loading {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderLoadingAnimation(contentWidth-2),
			m.textarea.View(),
		)
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("🍃"),
		"",
		welcomeTitleStyle.Width(width).Render("MongoMentor"),
		"",
		welcomeStyle.Width(width).Render(WelcomeText),
	)

	// Center vertically
	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderQuestions renders the predefined questions two per row
func (m Model) renderQuestions(width int) string {
	colWidth := (width - 2) / 2

	lines := []string{questionsTitleStyle.Render("Try asking:")}
	for i := 0; i < len(m.questions); i += 2 {
		row := m.renderQuestion(i, colWidth)
		if i+1 < len(m.questions) {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, m.renderQuestion(i+1, colWidth))
		}
		lines = append(lines, row)
	}

	return questionsPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderQuestion(i, width int) string {
	label := fmt.Sprintf("alt+%d ", i+1)
	room := width - runewidth.StringWidth(label) - 1
	if room < 1 {
		room = 1
	}
	text := runewidth.Truncate(m.questions[i], room, "…")

	return lipgloss.NewStyle().Width(width).Render(
		questionKeyStyle.Render(label) + questionTextStyle.Render(text),
	)
}

// renderLoadingAnimation renders the spinner, a moving bar and the pending question
func (m Model) renderLoadingAnimation(width int) string {
	barChars := []string{"█", "█", "█", "▓", "▒", "░"}
	frame := m.animationFrame

	barWidth := 12
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	prefix := fmt.Sprintf("%s %s %s", m.spinner.View(), bar.String(), loadingStyle.Render("Thinking about:"))

	room := width - lipgloss.Width(prefix) - 1
	if room < 1 {
		return prefix
	}
	question := strings.Join(strings.Fields(m.pending), " ")
	return prefix + " " + pendingStyle.Render(runewidth.Truncate(question, room, "…"))
}

// renderStatusBar renders the indicator, command feedback or shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.scroll.IndicatorVisible() {
		bar := lipgloss.JoinHorizontal(lipgloss.Center,
			indicatorStyle.Render(IndicatorText),
			statusDescStyle.Render("  ctrl+g to jump"),
		)
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
	}

	if m.feedback != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(feedbackStyle.Render(m.feedback))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Alt+1-9", "Try"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the viewport content from the store
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.store.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Sender == conversation.SenderUser {
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("🍃 MongoMentor")

			rendered, err := render.Markdown(msg.Text, m.renderOpts.WithWidth(bubbleWidth-4))
			if err != nil {
				rendered = msg.Text
			}
			rendered = strings.Trim(rendered, "\n")

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, dispatcher *conversation.Dispatcher, opts Options) error {
	m := NewChatModel(ctx, dispatcher, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}

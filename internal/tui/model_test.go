package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/mongomentor/internal/api"
	"github.com/diogo/mongomentor/internal/config"
	"github.com/diogo/mongomentor/internal/conversation"
	apierrors "github.com/diogo/mongomentor/internal/errors"
	"github.com/diogo/mongomentor/internal/render"
	"github.com/diogo/mongomentor/internal/scroll"
)

// newTestModel returns a sized chat model backed by a mock client
func newTestModel(t *testing.T, client *api.MockClient) Model {
	t.Helper()

	dispatcher := conversation.NewDispatcher(client, conversation.NewStore())
	m := NewChatModel(context.Background(), dispatcher, Options{
		Endpoint:        "http://mentor.test/api/query",
		Questions:       config.DefaultQuestions(),
		ScrollThreshold: config.DefaultScrollThreshold,
		Render:          render.DefaultOptions().WithStyle(render.ThemeNoTTY),
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func enter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// fillConversation appends enough exchanges to overflow the viewport
func fillConversation(m *Model, n int) {
	for i := 0; i < n; i++ {
		m.store.AppendExchange(
			fmt.Sprintf("Question %d?", i),
			fmt.Sprintf("Answer %d\n\nwith a second paragraph", i),
		)
	}
	m.updateViewport()
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	if m.viewport.Width != 94 {
		t.Errorf("viewport width = %d, want 94", m.viewport.Width)
	}
	// 40 - header - questions (2 rows + 3) - input - status - padding
	if m.viewport.Height != 21 {
		t.Errorf("viewport height = %d, want 21", m.viewport.Height)
	}
	if !m.scroll.Pinned() {
		t.Error("view should start pinned")
	}
}

func TestModel_View_NotReady(t *testing.T) {
	dispatcher := conversation.NewDispatcher(&api.MockClient{}, conversation.NewStore())
	m := NewChatModel(context.Background(), dispatcher, Options{})

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view should show initializing before the first resize")
	}
}

func TestModel_View_Welcome(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	view := m.View()

	if !strings.Contains(view, WelcomeText) {
		t.Errorf("empty conversation should show the welcome text, got:\n%s", view)
	}
	if !strings.Contains(view, "Try asking:") {
		t.Error("view should list predefined questions")
	}
	if !strings.Contains(view, "alt+1") || !strings.Contains(view, "alt+4") {
		t.Error("each predefined question should show its shortcut")
	}
	if strings.Contains(view, IndicatorText) {
		t.Error("indicator should be hidden initially")
	}
}

func TestModel_Enter_BlankDoesNothing(t *testing.T) {
	client := &api.MockClient{AnswerVal: "X"}
	m := newTestModel(t, client)
	m.textarea.SetValue("   ")

	m, cmd := update(t, m, enter())

	if m.loading {
		t.Error("blank input must not start loading")
	}
	if cmd != nil {
		t.Error("blank input must not produce a command")
	}
	if client.Calls() != 0 {
		t.Error("blank input must not reach the client")
	}
}

func TestModel_Enter_SubmitsAndSettles(t *testing.T) {
	client := &api.MockClient{AnswerVal: "A replica set is a group of mongod processes."}
	m := newTestModel(t, client)
	m.textarea.SetValue("What is a MongoDB replica set?")

	m, cmd := update(t, m, enter())

	if !m.loading {
		t.Fatal("submitting should set loading")
	}
	if cmd == nil {
		t.Fatal("submitting should return a command")
	}
	if m.pending != "What is a MongoDB replica set?" {
		t.Errorf("pending = %q", m.pending)
	}
	if m.textarea.Value() != "What is a MongoDB replica set?" {
		t.Error("input should keep its text while loading")
	}
	if !strings.Contains(m.View(), "Thinking about:") {
		t.Error("loading panel should be shown")
	}

	msg := m.ask(m.pending)()
	settled, ok := msg.(exchangeSettledMsg)
	if !ok {
		t.Fatalf("ask returned %T, want exchangeSettledMsg", msg)
	}

	m, cmd = update(t, m, settled)

	if m.loading {
		t.Error("loading should clear when the exchange settles")
	}
	if m.textarea.Value() != "" {
		t.Error("input should be cleared when the exchange settles")
	}
	if m.store.Len() != 2 {
		t.Fatalf("store should hold 2 messages, got %d", m.store.Len())
	}
	if client.LastQuestion != "What is a MongoDB replica set?" {
		t.Errorf("client received %q", client.LastQuestion)
	}
	if cmd == nil {
		t.Fatal("pinned view should schedule a scroll to bottom")
	}
	if _, ok := cmd().(scrollToBottomMsg); !ok {
		t.Error("expected scrollToBottomMsg")
	}

	view := m.View()
	if strings.Contains(view, WelcomeText) {
		t.Error("welcome text should be gone once messages exist")
	}
	if !strings.Contains(view, "group of mongod") {
		t.Errorf("answer should be displayed, got:\n%s", view)
	}
}

func TestModel_SubmitDisabledWhileLoading(t *testing.T) {
	client := &api.MockClient{AnswerVal: "X"}
	m := newTestModel(t, client)
	m.textarea.SetValue("first")
	m, _ = update(t, m, enter())

	m, cmd := update(t, m, enter())
	if cmd != nil {
		t.Error("enter while loading should do nothing")
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	if cmd != nil {
		t.Error("predefined question while loading should do nothing")
	}
	if m.pending != "first" {
		t.Errorf("pending question changed to %q", m.pending)
	}
}

func TestModel_PredefinedQuestionShortcut(t *testing.T) {
	m := newTestModel(t, &api.MockClient{AnswerVal: "X"})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true})

	if cmd == nil || !m.loading {
		t.Fatal("alt+3 should submit the third question")
	}
	if m.pending != config.DefaultQuestions()[2] {
		t.Errorf("pending = %q, want %q", m.pending, config.DefaultQuestions()[2])
	}
}

func TestModel_PredefinedQuestionOutOfRange(t *testing.T) {
	m := newTestModel(t, &api.MockClient{AnswerVal: "X"})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}, Alt: true})

	if cmd != nil || m.loading {
		t.Error("alt+9 with four questions should do nothing")
	}
}

func TestQuestionShortcut(t *testing.T) {
	tests := []struct {
		keys string
		idx  int
		ok   bool
	}{
		{"alt+1", 0, true},
		{"alt+9", 8, true},
		{"alt+0", 0, false},
		{"alt+a", 0, false},
		{"1", 0, false},
		{"ctrl+1", 0, false},
	}

	for _, tt := range tests {
		idx, ok := questionShortcut(tt.keys)
		if ok != tt.ok || idx != tt.idx {
			t.Errorf("questionShortcut(%q) = %d, %v; want %d, %v", tt.keys, idx, ok, tt.idx, tt.ok)
		}
	}
}

func TestModel_FailureShowsFallbackText(t *testing.T) {
	client := &api.MockClient{AnswerErr: apierrors.NewNetworkError("query", "http://mentor.test", errors.New("refused"))}
	m := newTestModel(t, client)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})

	m, _ = update(t, m, m.ask(m.pending)())

	last, ok := m.store.Last()
	if !ok || last.Text != conversation.FetchErrorText {
		t.Errorf("last message = %+v, want fetch error text", last)
	}
	if m.err != nil {
		t.Error("fetch failures are shown as messages, not as view errors")
	}
}

func TestModel_UnpinnedAppendShowsIndicator(t *testing.T) {
	m := newTestModel(t, &api.MockClient{AnswerVal: "late answer"})
	fillConversation(&m, 20)

	m.viewport.GotoTop()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.scroll.State() != scroll.Unpinned {
		t.Fatalf("scrolling to the top should unpin, geometry %+v", m.geometry())
	}
	if !strings.Contains(m.View(), IndicatorText) {
		t.Error("indicator should show while unpinned")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})
	m, cmd := update(t, m, m.ask(m.pending)())

	if cmd != nil {
		t.Error("an unpinned view must not auto-scroll")
	}
	if m.viewport.YOffset != 0 {
		t.Errorf("scroll position moved to %d", m.viewport.YOffset)
	}
	if !m.scroll.IndicatorVisible() {
		t.Error("indicator should stay visible after an append")
	}
}

func TestModel_JumpToLatest(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	fillConversation(&m, 20)
	m.viewport.GotoTop()
	m.scroll.Observe(m.geometry())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if cmd == nil {
		t.Fatal("ctrl+g should schedule a scroll to bottom")
	}
	if m.scroll.IndicatorVisible() {
		t.Error("indicator should hide on jump")
	}

	m, _ = update(t, m, cmd())
	if !m.viewport.AtBottom() {
		t.Error("viewport should be at the bottom after the jump")
	}
	if !m.scroll.Pinned() {
		t.Error("view should be pinned after the jump")
	}
	if strings.Contains(m.View(), IndicatorText) {
		t.Error("indicator should be hidden after the jump")
	}
}

func TestModel_EndKeyJumpsWhenUnpinned(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	fillConversation(&m, 20)
	m.viewport.GotoTop()
	m.scroll.Observe(m.geometry())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if cmd == nil {
		t.Fatal("end should jump while unpinned")
	}
	if _, ok := cmd().(scrollToBottomMsg); !ok {
		t.Error("expected scrollToBottomMsg")
	}
	if !m.scroll.Pinned() {
		t.Error("end should pin the view")
	}
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		input string
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, ""},
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, ""},
		{"/quit", enter(), "/quit"},
		{"/exit", enter(), "  /exit  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, &api.MockClient{})
			m.textarea.SetValue(tt.input)

			_, cmd := update(t, m, tt.msg)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	}
}

func TestModel_ExportCommand(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m.store.AppendExchange("What is sharding in MongoDB?", "Horizontal scaling.")

	path := filepath.Join(t.TempDir(), "chat.json")
	m.textarea.SetValue("/export " + path)
	m, _ = update(t, m, enter())

	if m.err != nil {
		t.Fatalf("export failed: %v", m.err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if !strings.Contains(string(data), "Horizontal scaling.") {
		t.Errorf("transcript missing answer: %s", data)
	}
	if !strings.Contains(m.feedback, "Exported 2 messages") {
		t.Errorf("feedback = %q", m.feedback)
	}
	if m.textarea.Value() != "" {
		t.Error("input should be cleared after a command")
	}
	if m.store.Len() != 2 {
		t.Error("commands must not be sent as questions")
	}
}

func TestModel_ExportEmptyConversation(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m.textarea.SetValue("/export")
	m, _ = update(t, m, enter())

	if m.feedback != "Nothing to export yet" {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestModel_CopyCommand(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	defer func() { writeClipboard = orig }()

	m := newTestModel(t, &api.MockClient{})
	m.textarea.SetValue("/copy")
	m, _ = update(t, m, enter())
	if m.feedback != "No answer to copy yet" {
		t.Errorf("feedback = %q", m.feedback)
	}

	m.store.AppendExchange("q", "the answer")
	m.textarea.SetValue("/copy")
	m, _ = update(t, m, enter())

	if copied != "the answer" {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(m.View(), "Copied last answer") {
		t.Error("status bar should confirm the copy")
	}
}

func TestModel_CopyCommandError(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	defer func() { writeClipboard = orig }()

	m := newTestModel(t, &api.MockClient{})
	m.store.AppendExchange("q", "a")
	m.textarea.SetValue("/copy")
	m, _ = update(t, m, enter())

	if m.err == nil || !strings.Contains(m.err.Error(), "no clipboard") {
		t.Errorf("err = %v", m.err)
	}
}

func TestModel_UnknownCommand(t *testing.T) {
	client := &api.MockClient{}
	m := newTestModel(t, client)
	m.textarea.SetValue("/help")
	m, cmd := update(t, m, enter())

	if cmd != nil || m.loading || client.Calls() != 0 {
		t.Error("unknown commands must not be sent")
	}
	if !strings.Contains(m.feedback, "Unknown command /help") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestModel_AnimationTick(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})

	_, cmd := update(t, m, animationTickMsg{})
	if cmd != nil {
		t.Error("animation should not tick while idle")
	}

	m.loading = true
	m, cmd = update(t, m, animationTickMsg{})
	if cmd == nil {
		t.Error("animation should keep ticking while loading")
	}
	if m.animationFrame != 1 {
		t.Errorf("animationFrame = %d, want 1", m.animationFrame)
	}
}

func TestModel_ResizeKeepsPinnedAtBottom(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	fillConversation(&m, 20)
	m.viewport.GotoBottom()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	if !m.viewport.AtBottom() {
		t.Error("a pinned view should stay at the bottom after resize")
	}
	if !m.scroll.Pinned() {
		t.Error("view should remain pinned")
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{
			"network",
			apierrors.NewNetworkError("query", "http://mentor.test", errors.New("refused")),
			[]string{"refused", "Endpoint: http://mentor.test", "reachable"},
		},
		{
			"parse",
			apierrors.NewParseError("response body is not valid JSON", "<html>"),
			[]string{"not valid JSON", "did not return JSON"},
		},
		{
			"wrapped invalid response",
			fmt.Errorf("read answer: %w", apierrors.ErrInvalidResponse),
			[]string{"invalid response format", "did not return JSON"},
		},
		{
			"api status",
			apierrors.NewAPIError(503, "http://mentor.test", "unavailable"),
			[]string{"HTTP Status: 503"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatError(tt.err)
			if tt.err == nil && out != "" {
				t.Errorf("FormatError(nil) = %q", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("FormatError() missing %q in %q", want, out)
				}
			}
		})
	}
}

func TestUpdateTheme(t *testing.T) {
	defer func() {
		render.SetTUITheme("mongodb")
		UpdateTheme()
	}()

	render.SetTUITheme("dracula")
	UpdateTheme()

	if colorPrimary != render.DraculaTheme.Primary {
		t.Errorf("colorPrimary = %s, want %s", colorPrimary, render.DraculaTheme.Primary)
	}
}

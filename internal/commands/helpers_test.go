package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/diogo/mongomentor/internal/api"
	"github.com/diogo/mongomentor/internal/config"
	"github.com/diogo/mongomentor/internal/conversation"
	"github.com/diogo/mongomentor/internal/tui"
)

// mockTUI records how the chat and settings views were started
type mockTUI struct {
	chatCalls  int
	chatOpts   tui.Options
	dispatcher *conversation.Dispatcher
	chatErr    error
	// ask is sent through the dispatcher when set, as a user would
	ask        string

	settingsCalls int
	settingsCfg   config.Config
	settingsOpts  tui.SettingsOptions
}

func (m *mockTUI) RunChat(ctx context.Context, dispatcher *conversation.Dispatcher, opts tui.Options) error {
	m.chatCalls++
	m.chatOpts = opts
	m.dispatcher = dispatcher
	if m.ask != "" {
		dispatcher.Ask(ctx, m.ask)
	}
	return m.chatErr
}

func (m *mockTUI) RunSettings(cfg config.Config, opts tui.SettingsOptions) error {
	m.settingsCalls++
	m.settingsCfg = cfg
	m.settingsOpts = opts
	return nil
}

// testEnv bundles the fakes behind a Dependencies value
type testEnv struct {
	deps      *Dependencies
	client    *api.MockClient
	tui       *mockTUI
	clipboard []string
	clientCfg config.Config
}

// newTestEnv isolates HOME and the environment overrides and wires fakes
func newTestEnv(t *testing.T, client *api.MockClient) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvEndpoint, "")
	t.Setenv(config.EnvTheme, "")
	t.Setenv(config.EnvVerbose, "")

	env := &testEnv{client: client, tui: &mockTUI{}}
	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger *slog.Logger) (api.QAClient, error) {
			env.clientCfg = cfg
			return env.client, nil
		},
		TUI: env.tui,
		CopyToClipboard: func(text string) error {
			env.clipboard = append(env.clipboard, text)
			return nil
		},
	}
	return env
}

// run executes the root command with args and the given stdin
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd(e.deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

package commands

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/diogo/mongomentor/internal/api"
	"github.com/diogo/mongomentor/internal/config"
	"github.com/diogo/mongomentor/internal/conversation"
	"github.com/diogo/mongomentor/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, dispatcher *conversation.Dispatcher, opts tui.Options) error
	RunSettings(cfg config.Config, opts tui.SettingsOptions) error
}

// ClientFactory builds the question-answering client for a configuration.
type ClientFactory func(cfg config.Config, logger *slog.Logger) (api.QAClient, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the answering client.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, dispatcher *conversation.Dispatcher, opts tui.Options) error {
	return tui.RunChat(ctx, dispatcher, opts)
}

func (d *DefaultTUI) RunSettings(cfg config.Config, opts tui.SettingsOptions) error {
	return tui.RunSettings(cfg, opts)
}

// NewAPIClient is the production ClientFactory.
func NewAPIClient(cfg config.Config, logger *slog.Logger) (api.QAClient, error) {
	client, err := api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeoutSeconds(cfg.RequestTimeoutSeconds),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:       NewAPIClient,
		TUI:             &DefaultTUI{},
		CopyToClipboard: clipboard.WriteAll,
	}
}

// withDefaults fills any nil dependency with its production implementation.
func (d *Dependencies) withDefaults() *Dependencies {
	out := NewDependencies()
	if d == nil {
		return out
	}
	if d.NewClient != nil {
		out.NewClient = d.NewClient
	}
	if d.TUI != nil {
		out.TUI = d.TUI
	}
	if d.CopyToClipboard != nil {
		out.CopyToClipboard = d.CopyToClipboard
	}
	return out
}

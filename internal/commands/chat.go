package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/mongomentor/internal/conversation"
	"github.com/diogo/mongomentor/internal/render"
	"github.com/diogo/mongomentor/internal/tui"
)

// newChatCmd creates the interactive chat command
func newChatCmd(deps *Dependencies, global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with MongoMentor.

Every question and answer stays on screen for the session. Press alt+1..alt+9
to ask one of the suggested questions, ctrl+g to jump to the latest message,
and type /export, /copy or /quit for session commands.
Press Ctrl+C or Esc to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, *global)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, global globalFlags) error {
	s, err := openSession(deps, global, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.TUITheme != "" && !render.SetTUITheme(s.cfg.TUITheme) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown theme '%s', using %s\n", s.cfg.TUITheme, render.GetTUITheme().Name)
	}
	tui.UpdateTheme()

	dispatcher := conversation.NewDispatcher(s.client, conversation.NewStore(), conversation.WithLogger(s.logger))
	if s.cfg.CopyToClipboard {
		dispatcher.OnSettled(func(ex conversation.Exchange) {
			if ex.Failure != conversation.FailureNone {
				return
			}
			if err := deps.CopyToClipboard(ex.Answer); err != nil {
				s.logger.Warn("copy to clipboard failed", "request_id", ex.ID, "error", err)
			}
		})
	}

	err = deps.TUI.RunChat(cmd.Context(), dispatcher, tui.Options{
		Endpoint:        s.client.Endpoint(),
		Questions:       s.cfg.PredefinedQuestions,
		ScrollThreshold: s.cfg.ScrollThreshold,
		Render:          render.OptionsFromConfig(s.cfg.Markdown),
		Logger:          s.logger,
	})
	if err != nil {
		s.logger.Error("chat session failed", "error", err)
		return fmt.Errorf("chat session failed: %w", err)
	}

	s.logger.Debug("chat session closed", "messages", dispatcher.Store().Len())
	return nil
}


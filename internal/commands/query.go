package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/mongomentor/internal/conversation"
	apierrors "github.com/diogo/mongomentor/internal/errors"
	"github.com/diogo/mongomentor/internal/render"
	"github.com/diogo/mongomentor/internal/tui"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	questionStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)
)

// queryFlags are the one-shot flags on the root command
type queryFlags struct {
	output string
	file   string
	raw    bool
	copy   bool
}

// runQuery asks a single question and writes the answer. Fetch failures are
// printed like any other answer and then reported as an error so the exit
// status reflects them.
func runQuery(cmd *cobra.Command, deps *Dependencies, global globalFlags, flags queryFlags, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuestion
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	rawOutput := flags.raw || !isTerminal(stdout)

	s, err := openSession(deps, global, stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	dispatcher := conversation.NewDispatcher(s.client, conversation.NewStore(), conversation.WithLogger(s.logger))

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(stderr, "Asking MongoMentor")
		spin.start()
	}

	ex := dispatcher.Ask(cmd.Context(), question)

	if spin != nil {
		if ex.Failure == conversation.FailureNone {
			spin.stopWithSuccess("Done")
		} else {
			spin.stopWithWarning(ex.Answer)
		}
	}

	if s.cfg.Verbose && !rawOutput {
		fmt.Fprintf(stderr, "[verbose] Request %s took %s (%s)\n", ex.ID, ex.Elapsed.Round(time.Millisecond), ex.Failure)
		if ex.Err != nil {
			fmt.Fprintln(stderr, tui.FormatError(ex.Err))
		}
	}

	if flags.copy || s.cfg.CopyToClipboard {
		if err := deps.CopyToClipboard(ex.Answer); err != nil {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else if !rawOutput {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	switch {
	case flags.output != "":
		if err := os.WriteFile(flags.output, []byte(ex.Answer), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Answer saved to %s", flags.output),
			))
		}
	case rawOutput:
		fmt.Fprintln(stdout, ex.Answer)
	default:
		fmt.Fprintln(stdout, renderAnswer(question, ex.Answer, render.OptionsFromConfig(s.cfg.Markdown), getTerminalWidth()))
	}

	if ex.Failure == conversation.FailureFetch {
		return fmt.Errorf("answer retrieval failed: %w", ex.Err)
	}
	return nil
}

// renderAnswer lays out the question and markdown answer the way the chat
// view does, for a terminal termWidth columns wide.
func renderAnswer(question, answer string, opts render.Options, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	rendered, err := render.Markdown(answer, opts.WithWidth(contentWidth))
	if err != nil {
		rendered = answer
	}
	rendered = strings.Trim(rendered, "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		questionStyle.Width(bubbleWidth).Render("> "+question),
		assistantBubbleStyle.Width(bubbleWidth).Render(rendered),
		assistantLabelStyle.Render("🍃 MongoMentor"),
	)
}

// readQuestion picks the question from --file, the argument or piped stdin,
// in that order. Blank piped input counts as no input.
func readQuestion(cmd *cobra.Command, flags queryFlags, args []string) (string, bool, error) {
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if hasPipedInput(cmd.InOrStdin()) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	return "", false, nil
}

// hasPipedInput reports whether r carries data that was not typed at a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// Package commands provides CLI commands for mongomentor.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/mongomentor/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd builds the command tree around deps. A nil deps uses the
// production implementations.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var (
		global  globalFlags
		flags   queryFlags
		version bool
	)

	rootCmd := &cobra.Command{
		Use:   "mongomentor [question]",
		Short: "Ask MongoDB questions from the terminal",
		Long: `mongomentor is a terminal chat for a MongoDB question-answering service.
Questions are sent to the configured endpoint and answers are rendered
as markdown.

Run without a question on a terminal to start the interactive chat.

Examples:
  mongomentor                                     Start interactive chat
  mongomentor chat                                Start interactive chat
  mongomentor config                              Show settings
  mongomentor "What is a replica set?"            Ask a single question
  mongomentor -f question.md                      Read the question from a file
  cat question.md | mongomentor                   Read the question from stdin
  mongomentor "Explain sharding" -o answer.md     Save the answer to a file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version {
				fmt.Fprintf(cmd.OutOrStdout(), "mongomentor %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := readQuestion(cmd, flags, args)
			if err != nil {
				return err
			}
			if !ok {
				// Blank piped input has nothing to ask; a terminal gets the chat.
				if hasPipedInput(cmd.InOrStdin()) {
					return cmd.Help()
				}
				return runChat(cmd, deps, global)
			}
			return runQuery(cmd, deps, global, flags, question)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.endpoint, "endpoint", "", "Question-answering endpoint URL")
	rootCmd.PersistentFlags().BoolVar(&global.verbose, "verbose", false, "Write debug records to the log file")
	rootCmd.PersistentFlags().StringVar(&global.theme, "theme", "", "TUI theme (mongodb, tokyonight, catppuccin, nord, dracula)")

	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read question from file")
	rootCmd.Flags().BoolVar(&flags.raw, "raw", false, "Print the answer without formatting")
	rootCmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy the answer to the clipboard")
	rootCmd.Flags().BoolVarP(&version, "version", "v", false, "Show version and exit")

	rootCmd.AddCommand(newChatCmd(deps, &global))
	rootCmd.AddCommand(newConfigCmd(deps))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd(nil)
	if err := rootCmd.Execute(); err != nil {
		tui.PrintError(err)
		os.Exit(1)
	}
}

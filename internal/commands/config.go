package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/mongomentor/internal/config"
	"github.com/diogo/mongomentor/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd(deps *Dependencies) *cobra.Command {
	var show, initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit configuration",
		Long: `Open the settings editor, or print the effective configuration when
output is not a terminal or --show is given.

Settings are read from ~/.mongomentor/config.toml, falling back to
~/.mongomentor/config.json. MONGOMENTOR_ENDPOINT, MONGOMENTOR_THEME and
MONGOMENTOR_VERBOSE override file values, also when set in a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initFile {
				return initConfig(cmd)
			}
			if show || !isTerminal(cmd.OutOrStdout()) {
				return showConfig(cmd)
			}
			return editConfig(deps)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the effective configuration")
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default config.toml")

	return cmd
}

// showConfig prints the effective configuration and where it came from
func showConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path, err := config.ActiveConfigPath()
	if err != nil {
		return err
	}
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return err
	}

	encoded, err := config.EncodeTOML(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		source = path + " (not found, using defaults)"
	}
	fmt.Fprintf(out, "# Config: %s\n", source)
	fmt.Fprintf(out, "# Log:    %s\n\n", logPath)
	fmt.Fprint(out, encoded)
	return nil
}

// initConfig writes the default configuration as TOML
func initConfig(cmd *cobra.Command) error {
	path, err := config.GetTOMLConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := config.SaveConfigTo(path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// editConfig opens the settings editor on the file-backed configuration.
// Environment overrides are left out so they are not written back.
func editConfig(deps *Dependencies) error {
	cfg, err := config.LoadConfigFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path, err := config.ActiveConfigPath()
	if err != nil {
		return err
	}
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return err
	}

	return deps.TUI.RunSettings(cfg, tui.SettingsOptions{
		ConfigPath: path,
		LogPath:    logPath,
		Save: func(c config.Config) error {
			return config.SaveConfigTo(path, c)
		},
	})
}

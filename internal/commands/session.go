package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/diogo/mongomentor/internal/api"
	"github.com/diogo/mongomentor/internal/config"
	"github.com/diogo/mongomentor/internal/logging"
)

// globalFlags are shared by every command
type globalFlags struct {
	endpoint string
	verbose  bool
	theme    string
}

// apply overrides cfg with flags that were set
func (f globalFlags) apply(cfg *config.Config) {
	if f.endpoint != "" {
		cfg.Endpoint = f.endpoint
	}
	if f.verbose {
		cfg.Verbose = true
	}
	if f.theme != "" {
		cfg.TUITheme = f.theme
	}
}

// session bundles what a command needs to ask questions
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	client   api.QAClient
	closeLog func() error
}

// openSession loads the configuration, opens the log file and creates the
// client. Warnings that should not stop the command go to stderr.
func openSession(deps *Dependencies, flags globalFlags, stderr io.Writer) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	flags.apply(&cfg)

	logger, closeLog := logging.Discard(), func() error { return nil }
	if logPath, err := config.GetLogPath(cfg); err == nil {
		var logErr error
		logger, closeLog, logErr = logging.New(logging.Options{Path: logPath, Verbose: cfg.Verbose})
		if logErr != nil {
			fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", logErr)
		}
	}

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug("session opened", "endpoint", client.Endpoint(), "verbose", cfg.Verbose)

	return &session{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		closeLog: closeLog,
	}, nil
}

// Close releases the client and the log file
func (s *session) Close() {
	s.client.Close()
	_ = s.closeLog()
}

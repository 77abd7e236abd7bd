// Package config handles configuration for mongomentor.
//
// Configuration is read from ~/.mongomentor/config.toml or, if that does not
// exist, ~/.mongomentor/config.json. A .env file in the working directory and
// MONGOMENTOR_* environment variables override file values.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/diogo/mongomentor/internal/api"
)

// Environment variable names
const (
	EnvEndpoint = "MONGOMENTOR_ENDPOINT"
	EnvTheme    = "MONGOMENTOR_THEME"
	EnvVerbose  = "MONGOMENTOR_VERBOSE"
)

// DefaultEndpoint is the question-answering endpoint used when none is configured
const DefaultEndpoint = api.DefaultEndpoint

// DefaultScrollThreshold is the pin threshold for the terminal view, in rows
const DefaultScrollThreshold = 3

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" toml:"style"`                           // "auto", "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" toml:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" toml:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap" toml:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links" toml:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the URL questions are POSTed to.
	Endpoint string `json:"endpoint" toml:"endpoint"`
	// RequestTimeoutSeconds sets a transport timeout. Zero leaves the
	// transport default in place; no other deadline is applied.
	RequestTimeoutSeconds int `json:"request_timeout_seconds" toml:"request_timeout_seconds"`
	// ScrollThreshold is how many rows from the bottom still count as
	// following the conversation.
	ScrollThreshold int `json:"scroll_threshold" toml:"scroll_threshold"`
	// Verbose enables debug records in the log file.
	Verbose             bool           `json:"verbose" toml:"verbose"`
	CopyToClipboard     bool           `json:"copy_to_clipboard" toml:"copy_to_clipboard"`
	TUITheme            string         `json:"tui_theme,omitempty" toml:"tui_theme"`
	LogFile             string         `json:"log_file,omitempty" toml:"log_file"`
	PredefinedQuestions []string       `json:"predefined_questions,omitempty" toml:"predefined_questions"`
	Markdown            MarkdownConfig `json:"markdown,omitempty" toml:"markdown"`
}

// DefaultQuestions are offered in the "Try asking" list
func DefaultQuestions() []string {
	return []string{
		"What is a MongoDB replica set?",
		"How does indexing work in MongoDB?",
		"What is sharding in MongoDB?",
		"What are MongoDB transactions?",
	}
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "auto",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:              DefaultEndpoint,
		RequestTimeoutSeconds: 0,
		ScrollThreshold:       DefaultScrollThreshold,
		Verbose:               false,
		CopyToClipboard:       false,
		TUITheme:              "mongodb",
		PredefinedQuestions:   DefaultQuestions(),
		Markdown:              DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".mongomentor"), nil
}

// GetConfigPath returns the path to the JSON config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetTOMLConfigPath returns the path to the TOML config file
func GetTOMLConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetLogPath returns the log file path from config, defaulting to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "mongomentor.log"), nil
}

// LoadConfig loads the configuration from disk and applies .env and
// environment overrides. A missing config file is not an error.
func LoadConfig() (Config, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return cfg, err
	}

	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)

	return cfg, nil
}

// LoadConfigFile reads config.toml, falling back to config.json, over the defaults
func LoadConfigFile() (Config, error) {
	cfg := DefaultConfig()

	tomlPath, err := GetTOMLConfigPath()
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
		return fillDefaults(cfg), nil
	}

	jsonPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return fillDefaults(cfg), nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with MONGOMENTOR_* environment variables
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.TUITheme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvVerbose)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
}

// fillDefaults restores defaults for values a partial config file left empty
func fillDefaults(cfg Config) Config {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.ScrollThreshold <= 0 {
		cfg.ScrollThreshold = DefaultScrollThreshold
	}
	if cfg.RequestTimeoutSeconds < 0 {
		cfg.RequestTimeoutSeconds = 0
	}
	if len(cfg.PredefinedQuestions) == 0 {
		cfg.PredefinedQuestions = DefaultQuestions()
	}
	if cfg.Markdown.Style == "" {
		cfg.Markdown.Style = DefaultMarkdownConfig().Style
	}
	return cfg
}

// ActiveConfigPath returns the file LoadConfigFile reads: config.toml when it
// exists, config.json otherwise
func ActiveConfigPath() (string, error) {
	tomlPath, err := GetTOMLConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	return GetConfigPath()
}

// SaveConfigTo writes cfg to path, as TOML when the extension is .toml and
// as JSON otherwise
func SaveConfigTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		out, err := EncodeTOML(cfg)
		if err != nil {
			return err
		}
		data = []byte(out)
	} else {
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = out
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeTOML renders cfg in TOML form, for display
func EncodeTOML(cfg Config) (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return sb.String(), nil
}

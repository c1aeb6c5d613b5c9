// Package config handles configuration for ragchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvServerURL = "RAGCHAT_SERVER_URL"
	EnvSessionID = "RAGCHAT_SESSION_ID"
	EnvTimeout   = "RAGCHAT_TIMEOUT"
	EnvTheme     = "RAGCHAT_THEME"
	EnvVerbose   = "RAGCHAT_VERBOSE"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "dracula", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL of the chat backend.
	ServerURL string `json:"server_url"`
	// SessionID pins the chat session. Zero means "ask the backend for
	// the current session".
	SessionID int `json:"session_id,omitempty"`
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int `json:"request_timeout"`
	// Verbose enables diagnostics on stderr and the debug log.
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	ExportDir       string         `json:"export_dir,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		ServerURL:       "http://127.0.0.1:5000",
		RequestTimeout:  120,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		ExportDir:       filepath.Join(homeDir, ".ragchat", "exports"),
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".ragchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetExportDir returns the export directory from config, creating it if necessary
func GetExportDir(cfg Config) (string, error) {
	dir := cfg.ExportDir
	if dir == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "exports")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. On error the returned Config still carries every value that
// could be read.
func LoadConfig() (Config, error) {
	cfg, fileErr := LoadFile()

	loadDotEnv()
	envErr := ApplyEnv(&cfg)

	return cfg, errors.Join(fileErr, envErr)
}

// LoadFile loads the config file alone, without environment overrides.
// A missing file yields the defaults.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env from the working directory and the config directory.
// Variables already present in the environment win.
func loadDotEnv() {
	files := []string{".env"}
	if dir, err := GetConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// ApplyEnv overrides cfg with RAGCHAT_* environment variables. An invalid
// variable is reported but does not stop the others from applying.
func ApplyEnv(cfg *Config) error {
	var errs []error
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvSessionID); v != "" {
		if id, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", EnvSessionID, v, err))
		} else {
			cfg.SessionID = id
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err))
		} else {
			cfg.RequestTimeout = secs
		}
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.TUITheme = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		if verbose, err := strconv.ParseBool(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", EnvVerbose, v, err))
		} else {
			cfg.Verbose = verbose
		}
	}
	return errors.Join(errs...)
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SettableKeys lists the keys accepted by Set
func SettableKeys() []string {
	return []string{
		"server_url",
		"session_id",
		"request_timeout",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"export_dir",
		"markdown.style",
	}
}

// Set assigns a single config value from its string form
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "server_url":
		c.ServerURL = strings.TrimRight(value, "/")
	case "session_id":
		id, err := strconv.Atoi(value)
		if err != nil || id < 0 {
			return fmt.Errorf("session_id must be a non-negative integer")
		}
		c.SessionID = id
	case "request_timeout":
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("request_timeout must be a positive number of seconds")
		}
		c.RequestTimeout = secs
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		c.Verbose = b
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		c.CopyToClipboard = b
	case "tui_theme":
		c.TUITheme = value
	case "export_dir":
		c.ExportDir = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return nil
}

// Package config handles configuration for athena.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apierrors "github.com/monument-ai/athena/internal/errors"
	"github.com/monument-ai/athena/internal/models"
)

// MarkdownConfig configures markdown rendering of bot replies
type MarkdownConfig struct {
	Enabled          bool   `json:"enabled" env:"ATHENA_MARKDOWN"`
	Style            string `json:"style" env:"ATHENA_MARKDOWN_STYLE"` // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`                      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`                 // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`                        // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"`                // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the prompt service root; requests go to BaseURL + "/prompt".
	BaseURL string `json:"base_url" env:"ATHENA_BASE_URL"`
	// RequestTimeout bounds a single exchange in seconds. Zero waits forever.
	RequestTimeout int `json:"request_timeout" env:"ATHENA_REQUEST_TIMEOUT"`
	// SingleFlight rejects new submissions while an exchange is pending.
	SingleFlight    bool           `json:"single_flight" env:"ATHENA_SINGLE_FLIGHT"`
	Verbose         bool           `json:"verbose" env:"ATHENA_VERBOSE"`
	LogFile         string         `json:"log_file,omitempty" env:"ATHENA_LOG_FILE"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"ATHENA_TUI_THEME"`
	Markdown        MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Enabled:          false,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		RequestTimeout:  0,
		SingleFlight:    false,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration (0 = none)
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate checks the configuration for values the client cannot use
func (c Config) Validate() error {
	if err := ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be >= 0, got %d", c.RequestTimeout)
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty", apierrors.ErrInvalidBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", apierrors.ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", apierrors.ErrInvalidBaseURL)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".athena")
	return configDir, nil
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

// GetLogPath returns the log file path from config, defaulting to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "athena.log"), nil
}

// LoadConfig loads the configuration from disk, then applies .env and
// environment overrides. Environment variables win over the file.
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadFile loads the configuration file over the defaults, ignoring the environment
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return cfg, nil
}

// applyEnv loads ./.env (if present) and overlays ATHENA_* variables
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
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

// Keys returns the settable configuration keys
func Keys() []string {
	return []string{
		"base_url",
		"request_timeout",
		"single_flight",
		"verbose",
		"log_file",
		"copy_to_clipboard",
		"tui_theme",
		"markdown",
		"markdown_style",
	}
}

// Set assigns a configuration value by key, parsing it from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "base_url":
		if err := ValidateBaseURL(value); err != nil {
			return err
		}
		c.BaseURL = strings.TrimRight(value, "/")
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("request_timeout must be a non-negative integer, got %q", value)
		}
		c.RequestTimeout = n
	case "single_flight":
		return setBool(&c.SingleFlight, key, value)
	case "verbose":
		return setBool(&c.Verbose, key, value)
	case "log_file":
		c.LogFile = value
	case "copy_to_clipboard":
		return setBool(&c.CopyToClipboard, key, value)
	case "tui_theme":
		c.TUITheme = value
	case "markdown":
		return setBool(&c.Markdown.Enabled, key, value)
	case "markdown_style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s must be true or false, got %q", key, value)
	}
	*dst = b
	return nil
}

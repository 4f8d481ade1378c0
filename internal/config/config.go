// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for jarvis.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/jeranaias/jarvis-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete jarvis configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig describes the backend.
type ServerConfig struct {
	// URL is the server root; the client appends /api.
	URL string `toml:"url" env:"JARVIS_SERVER_URL"`
	// RequestTimeout bounds every HTTP call.
	RequestTimeout Duration `toml:"request_timeout" env:"JARVIS_REQUEST_TIMEOUT"`
	// PollInterval is the status refresh period.
	PollInterval Duration `toml:"poll_interval" env:"JARVIS_POLL_INTERVAL"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" env:"JARVIS_THEME"`
	// Renderer is "lite" (built-in markup) or "glamour".
	Renderer string `toml:"renderer" env:"JARVIS_RENDERER"`
	// ResponseDelay is held between receiving an answer and rendering it.
	ResponseDelay Duration `toml:"response_delay" env:"JARVIS_RESPONSE_DELAY"`
	// ExportDir is where /export writes transcripts.
	ExportDir string `toml:"export_dir" env:"JARVIS_EXPORT_DIR"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level      string `toml:"level" env:"JARVIS_LOG_LEVEL"`
	File       string `toml:"file" env:"JARVIS_LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" env:"JARVIS_LOG_MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" env:"JARVIS_LOG_MAX_BACKUPS"`
}

// Renderer names.
const (
	RendererLite    = "lite"
	RendererGlamour = "glamour"
)

// =============================================================================
// DURATION
// =============================================================================

// Duration is a time.Duration that reads and writes as "30s" in TOML and env.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	logFile := ""
	if dir, err := ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "jarvis.log")
	}

	return &Config{
		Server: ServerConfig{
			URL:            "http://127.0.0.1:5000",
			RequestTimeout: Duration(60 * time.Second),
			PollInterval:   Duration(30 * time.Second),
		},
		UI: UIConfig{
			Theme:         "dark",
			Renderer:      RendererLite,
			ResponseDelay: Duration(800 * time.Millisecond),
			ExportDir:     ".",
		},
		Log: LogConfig{
			Level:      "info",
			File:       logFile,
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the jarvis configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".jarvis"), nil
}

// DefaultPath returns the default TOML config path.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolvePath picks the config file: an explicit path, then JARVIS_CONFIG,
// then the default location. It returns "" if none can be determined.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("JARVIS_CONFIG"); p != "" {
		return p
	}
	p, err := DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the TOML file at path (a missing file is not an error), applies
// environment overrides, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnvOverrides applies JARVIS_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment overrides: %w", err)
	}
	return nil
}

// SetDefaults fills any zero values left by the file or environment.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Server.URL == "" {
		c.Server.URL = d.Server.URL
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = d.Server.RequestTimeout
	}
	if c.Server.PollInterval == 0 {
		c.Server.PollInterval = d.Server.PollInterval
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.Renderer == "" {
		c.UI.Renderer = d.UI.Renderer
	}
	if c.UI.ExportDir == "" {
		c.UI.ExportDir = d.UI.ExportDir
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Encode renders the configuration as TOML with a header comment.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# jarvis configuration file\n")
	buf.WriteString("# Environment variables (JARVIS_*) override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to path with 0600 permissions.
func Save(cfg *Config, path string) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Server.URL),
		})
	}

	if c.Server.RequestTimeout.Std() <= 0 {
		errs = append(errs, ValidationError{Field: "server.request_timeout", Message: "must be positive"})
	}
	if c.Server.PollInterval.Std() < time.Second {
		errs = append(errs, ValidationError{Field: "server.poll_interval", Message: "must be at least 1s"})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if r := strings.ToLower(c.UI.Renderer); r != RendererLite && r != RendererGlamour {
		errs = append(errs, ValidationError{
			Field:   "ui.renderer",
			Message: fmt.Sprintf("invalid renderer '%s', must be one of: lite, glamour", c.UI.Renderer),
		})
	}

	if d := c.UI.ResponseDelay.Std(); d < 0 || d > 10*time.Second {
		errs = append(errs, ValidationError{Field: "ui.response_delay", Message: "must be between 0s and 10s"})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "off": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error, off", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

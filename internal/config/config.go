// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dori/tickle/internal/logging"
	"github.com/dori/tickle/internal/model"
)

// Default values.
const (
	DefaultTheme            = "nord"
	DefaultSort             = string(model.SortByID)
	DefaultReminderInterval = "60s"
	DefaultDueSoonHours     = 24
	DefaultNotifications    = true
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"

	FileName = "tickle.toml"
)

// Config holds the full configuration for tickle.
type Config struct {
	// Directory for the log file and the instance lock
	DataDir string `toml:"data_dir"`

	// UI
	Theme       string `toml:"theme"`
	DefaultSort string `toml:"default_sort"`

	// Reminders
	ReminderInterval string `toml:"reminder_interval"`
	DueSoonHours     int    `toml:"due_soon_hours"`
	Notifications    bool   `toml:"notifications"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Runtime only
	Plain      bool          `toml:"-"` // Use the text menu instead of the TUI
	ConfigFile string        `toml:"-"` // File the config was read from, if any
	Reminder   time.Duration `toml:"-"` // Parsed ReminderInterval
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tickle")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tickle"
	}
	return filepath.Join(home, ".local", "state", "tickle")
}

// UserConfigFile returns the default config file location
func UserConfigFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tickle", FileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tickle", FileName)
}

func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir()
	cfg.Theme = DefaultTheme
	cfg.DefaultSort = DefaultSort
	cfg.ReminderInterval = DefaultReminderInterval
	cfg.DueSoonHours = DefaultDueSoonHours
	cfg.Notifications = DefaultNotifications
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Default returns a finalized default configuration
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	_ = finalize(cfg)
	return cfg
}

// SortMode returns the parsed default sort mode
func (c *Config) SortMode() model.SortMode {
	mode, err := model.ParseSortMode(c.DefaultSort)
	if err != nil {
		return model.SortByID
	}
	return mode
}

// LogOptions returns logger options derived from the config
func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	return opts
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	if _, err := model.ParseSortMode(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.ReminderInterval))
	if err != nil {
		return fmt.Errorf("reminder_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("reminder_interval must be positive, got %s", c.ReminderInterval)
	}
	if c.DueSoonHours <= 0 {
		return fmt.Errorf("due_soon_hours must be positive, got %d", c.DueSoonHours)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("log_format must be text, json or logfmt, got %q", c.LogFormat)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is empty")
	}
	return nil
}

// finalize validates and computes derived values
func finalize(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Reminder, _ = time.ParseDuration(strings.TrimSpace(cfg.ReminderInterval))
	return nil
}

// expandPath expands ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}

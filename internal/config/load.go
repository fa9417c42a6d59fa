package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (--config, TICKLE_CONFIG, or the user config file)
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Config file; an explicitly named file must exist
	path, explicit := findConfigFile(args)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadConfigFile(cfg, path); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
			cfg.ConfigFile = path
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	// 3. Override from environment
	loadFromEnv(cfg)

	// 4. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 5. Compute derived values
	if err := finalize(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// findConfigFile returns the config path and whether it was named explicitly
func findConfigFile(args []string) (string, bool) {
	for i, arg := range args {
		for _, name := range []string{"-config", "--config"} {
			if arg == name && i+1 < len(args) {
				return args[i+1], true
			}
			if v, ok := strings.CutPrefix(arg, name+"="); ok {
				return v, true
			}
		}
	}
	if v := os.Getenv("TICKLE_CONFIG"); v != "" {
		return v, true
	}
	return UserConfigFile(), false
}

// loadFromEnv overrides config from TICKLE_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TICKLE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TICKLE_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TICKLE_SORT"); v != "" {
		cfg.DefaultSort = v
	}
	if v := os.Getenv("TICKLE_REMINDER_INTERVAL"); v != "" {
		cfg.ReminderInterval = v
	}
	if v := os.Getenv("TICKLE_DUE_SOON_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DueSoonHours = n
		}
	}
	if v := os.Getenv("TICKLE_NOTIFICATIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notifications = b
		}
	}
	if v := os.Getenv("TICKLE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TICKLE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tickle", flag.ContinueOnError)
	}

	var configFile string
	var noNotify bool
	fs.StringVar(&configFile, "config", "", "Path to config file")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the log file and lock")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Theme name (nord, dracula)")
	fs.StringVar(&cfg.DefaultSort, "sort", cfg.DefaultSort, "Initial sort (id, priority, title, status, due_date)")
	fs.StringVar(&cfg.ReminderInterval, "reminder-interval", cfg.ReminderInterval, "How often to check for due tasks")
	fs.IntVar(&cfg.DueSoonHours, "due-soon-hours", cfg.DueSoonHours, "Look-ahead window for due-soon reminders")
	fs.BoolVar(&noNotify, "no-notify", false, "Disable desktop notifications")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "Use the plain text menu instead of the TUI")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if noNotify {
		cfg.Notifications = false
	}
	return nil
}

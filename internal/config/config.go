// Package config loads presentation and logging settings. Todo items are
// never part of the config and nothing here is written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

// Default values.
const (
	DefaultTheme     = "classic"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultCharLimit = 200
	FileName         = "todo.toml"
)

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

// Config holds the full configuration for todo.
type Config struct {
	Locale        string `toml:"locale"`
	Theme         string `toml:"theme"`
	DefaultFilter string `toml:"default_filter"`
	CharLimit     int    `toml:"char_limit"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// Path of the file the values came from, empty when none was found.
	Source string `toml:"-"`
}

// Load applies, in order: defaults, the config file, environment variables.
// An explicit path must exist; otherwise ./todo.toml and then the user config
// dir are tried and a missing file is fine. Flags are applied by the caller.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.Source = path
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Locale = systemLocale()
	cfg.Theme = DefaultTheme
	cfg.DefaultFilter = model.FilterAll.String()
	cfg.CharLimit = DefaultCharLimit
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// systemLocale follows the POSIX lookup order for LC_TIME.
func systemLocale() string {
	for _, k := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_FILTER"); v != "" {
		cfg.DefaultFilter = v
	}
	if v := os.Getenv("TODO_CHAR_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CharLimit = n
		}
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func findConfigFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "todo", FileName)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Validate reports every bad value at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := store.ParseLocale(c.Locale); err != nil {
		errs = append(errs, err)
	}
	if !validTheme(c.Theme) {
		errs = append(errs, fmt.Errorf("unknown theme %q (want %s)", c.Theme, strings.Join(Themes, ", ")))
	}
	if _, err := model.ParseFilter(c.DefaultFilter); err != nil {
		errs = append(errs, err)
	}
	if c.CharLimit <= 0 {
		errs = append(errs, fmt.Errorf("char_limit must be positive, got %d", c.CharLimit))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// StoreLocale resolves Locale. Call Validate first.
func (c *Config) StoreLocale() store.Locale {
	l, err := store.ParseLocale(c.Locale)
	if err != nil {
		return store.DefaultLocale()
	}
	return l
}

// Filter resolves DefaultFilter. Call Validate first.
func (c *Config) Filter() model.Filter {
	f, _ := model.ParseFilter(c.DefaultFilter)
	return f
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// Package config handles configuration loading from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/shell"

	"github.com/xonecas/led/internal/constants"
)

// Config is the root configuration structure.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`
	Store  StoreConfig  `toml:"store"`
	Shell  ShellConfig  `toml:"shell"`
}

// EditorConfig holds buffer and display settings.
type EditorConfig struct {
	// PageSize replaces the default of five lines per screen. Zero keeps the
	// default.
	PageSize int `toml:"page_size"`
	// RestorePosition reopens a file at the cursor position it was left at.
	// Needs store.path.
	RestorePosition bool `toml:"restore_position"`
}

// PageSizeOrDefault returns the configured page size or the built-in default.
func (e EditorConfig) PageSizeOrDefault() int {
	if e.PageSize <= 0 {
		return constants.DefaultPageSize
	}
	return e.PageSize
}

// LogConfig holds logging settings. Logging is off when File is empty.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// LevelOrDefault returns the configured zerolog level, "info" if unset.
func (l LogConfig) LevelOrDefault() zerolog.Level {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// StoreConfig holds the session database location. Empty disables it.
type StoreConfig struct {
	Path string `toml:"path"`
}

// ShellConfig controls the ! command.
type ShellConfig struct {
	Enabled bool     `toml:"enabled"`
	Blocked []string `toml:"blocked"`
}

// Default returns the configuration used when no file is given: no log file,
// no session store, shell escape enabled.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{Enabled: true},
	}
}

// Load reads configuration from a TOML file on top of Default. Relative
// paths in the file are resolved against the data directory; "~" and
// $VARIABLES are expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for _, p := range []*string{&cfg.Log.File, &cfg.Store.Path} {
		resolved, err := resolvePath(*p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = resolved
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Editor.PageSize < 0 {
		errs = append(errs, fmt.Errorf("editor.page_size=%d must not be negative", c.Editor.PageSize))
	}
	if c.Editor.RestorePosition && c.Store.Path == "" {
		errs = append(errs, errors.New("editor.restore_position requires store.path"))
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level=%q is invalid: %v", c.Log.Level, err))
		}
	}
	for i, name := range c.Shell.Blocked {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("shell.blocked[%d] is empty", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// resolvePath expands ~ and environment variables in p and anchors relative
// results in the data directory.
func resolvePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, rest)
	}
	expanded, err := shell.Expand(p, nil)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, expanded), nil
}

// DataDir returns the path to the led data directory (~/.config/led).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0750)
}

// Package config handles global bibgroom configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration stored in
// $XDG_CONFIG_HOME/bibgroom/config.yml.
type Config struct {
	TemplatesPath      string   `yaml:"templates_path,omitempty"`
	LogDir             string   `yaml:"log_dir,omitempty"`
	HistoryDB          string   `yaml:"history_db,omitempty"`
	MonthRequiredTypes []string `yaml:"month_required_types,omitempty"`
	ProtectedTerms     []string `yaml:"protected_terms,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "bibgroom"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// DefaultTemplatesFile is the template set file name.
	DefaultTemplatesFile = "templates.yml"
	// DefaultHistoryFile is the run history database file name.
	DefaultHistoryFile = "history.db"
)

// DefaultMonthRequiredTypes lists entry types that normally carry a month.
var DefaultMonthRequiredTypes = []string{"inproceedings", "article", "proceedings", "conference"}

// Path returns the global config file path. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/bibgroom/config.yml.
func Path() string {
	return filepath.Join(configHome(), ConfigDir, ConfigFile)
}

func configHome() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// Load reads the global configuration. A missing file yields defaults, not
// an error. Environment variables BIBGROOM_TEMPLATES, BIBGROOM_LOG_DIR, and
// BIBGROOM_HISTORY_DB override file values.
func Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", Path(), err)
		}
	case os.IsNotExist(err):
		// Defaults apply
	default:
		return nil, fmt.Errorf("reading %s: %w", Path(), err)
	}

	if v := os.Getenv("BIBGROOM_TEMPLATES"); v != "" {
		cfg.TemplatesPath = v
	}
	if v := os.Getenv("BIBGROOM_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("BIBGROOM_HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}

	cfg.TemplatesPath = ExpandTilde(cfg.TemplatesPath)
	cfg.LogDir = ExpandTilde(cfg.LogDir)
	cfg.HistoryDB = ExpandTilde(cfg.HistoryDB)

	if len(cfg.MonthRequiredTypes) == 0 {
		cfg.MonthRequiredTypes = DefaultMonthRequiredTypes
	}

	return &cfg, nil
}

// TemplatesFile returns the configured templates path, or the default
// location next to the config file.
func (c *Config) TemplatesFile() string {
	if c.TemplatesPath != "" {
		return c.TemplatesPath
	}
	return filepath.Join(configHome(), ConfigDir, DefaultTemplatesFile)
}

// HistoryPath returns the configured history database path, or the default
// location next to the config file.
func (c *Config) HistoryPath() string {
	if c.HistoryDB != "" {
		return c.HistoryDB
	}
	return filepath.Join(configHome(), ConfigDir, DefaultHistoryFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

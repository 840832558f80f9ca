// Package config loads tzselect settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tzlist/tzselect/catalog"
	"github.com/tzlist/tzselect/logging"
	"github.com/tzlist/tzselect/timesync"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// ZoneinfoDirs are searched in order for zone files.
	ZoneinfoDirs []string `yaml:"zoneinfo_dirs"`
	// QueryCommand prints the host zone; no arguments are added.
	QueryCommand []string `yaml:"query_command"`
	// SetCommand changes the host zone; the zone is appended.
	SetCommand []string      `yaml:"set_command"`
	Timeout    time.Duration `yaml:"timeout"`
	// PageSize is the number of rows shown by the line prompt.
	PageSize int    `yaml:"page_size"`
	LogLevel string `yaml:"log_level"`
	// LogFile receives logs while the full screen picker runs. Other modes
	// log to stderr.
	LogFile string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		ZoneinfoDirs: catalog.DefaultDirs(),
		QueryCommand: slices.Clone(timesync.DefaultQueryCommand),
		SetCommand:   slices.Clone(timesync.DefaultSetCommand),
		Timeout:      timesync.DefaultTimeout,
		PageSize:     15,
		LogLevel:     "info",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/tzselect/config.yaml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tzselect", "config.yaml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath, which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			slog.Debug("No user config directory", "error", err)
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logging.Trace("No config file", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	slog.Debug("Loaded config", "path", path)
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case len(c.ZoneinfoDirs) == 0:
		return fmt.Errorf("%w: zoneinfo_dirs is empty", ErrInvalid)
	case len(c.QueryCommand) == 0 || c.QueryCommand[0] == "":
		return fmt.Errorf("%w: query_command is empty", ErrInvalid)
	case len(c.SetCommand) == 0 || c.SetCommand[0] == "":
		return fmt.Errorf("%w: set_command is empty", ErrInvalid)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout %v is negative", ErrInvalid, c.Timeout)
	case c.PageSize < 1:
		return fmt.Errorf("%w: page_size must be at least 1", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Syncer builds the timedatectl syncer described by c.
func (c Config) Syncer() *timesync.Timedatectl {
	return &timesync.Timedatectl{
		Runner:       timesync.ExecRunner{},
		QueryCommand: c.QueryCommand,
		SetCommand:   c.SetCommand,
		Timeout:      c.Timeout,
	}
}

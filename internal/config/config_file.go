package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers for
// booleans, so TOML can distinguish "unset" from "false".
type FileConfig struct {
	XfoilPath    string `toml:"xfoil_path"`
	WorkDir      string `toml:"work_dir"`
	Iter         int    `toml:"iter"`
	Timeout      string `toml:"timeout"`
	SaveCp       *bool  `toml:"save_cp"`
	SaveGeometry *bool  `toml:"save_geometry"`
	Pane         *bool  `toml:"pane"`
	Force        *bool  `toml:"force"`
	Verbose      *bool  `toml:"verbose"`
	Quiet        *bool  `toml:"quiet"`
	Color        string `toml:"color"`
	LogFile      string `toml:"log_file"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.foilrun/config.toml when the user home
// directory is accessible, empty otherwise.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".foilrun", "config.toml")
	}
	return ""
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// ApplyFileConfig applies file values onto cfg, skipping any field whose
// CLI flag was explicitly set (changed map keyed by flag name).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("xfoil", fc.XfoilPath, &cfg.XfoilPath)
	s.setString("workdir", fc.WorkDir, &cfg.WorkDir)
	s.setInt("iter", fc.Iter, &cfg.Iter)
	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	s.setBool("save-cp", fc.SaveCp, &cfg.SaveCp)
	s.setBool("save-geometry", fc.SaveGeometry, &cfg.SaveGeometry)
	s.setBool("pane", fc.Pane, &cfg.Pane)
	s.setBool("force", fc.Force, &cfg.Force)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)
	s.setBool("quiet", fc.Quiet, &cfg.Quiet)
	s.setString("log", fc.LogFile, &cfg.LogFile)
	if fc.Color != "" && !changed["color"] {
		cfg.ColorMode = ColorMode(fc.Color)
	}
	return nil
}

// configSetter applies layered configuration values while respecting flag
// precedence: a value is skipped when its flag was explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

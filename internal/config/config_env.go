package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ApplyEnvConfig applies FOILRUN_* environment variables onto cfg.
// Environment overrides the config file but is itself overridden by
// explicitly set flags (changed map keyed by flag name). A .env file, when
// present, has already been folded into the environment by the CLI.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("xfoil", os.Getenv("FOILRUN_XFOIL"), &cfg.XfoilPath)
	s.setString("workdir", os.Getenv("FOILRUN_WORKDIR"), &cfg.WorkDir)
	s.setString("log", os.Getenv("FOILRUN_LOG"), &cfg.LogFile)

	if v := os.Getenv("FOILRUN_ITER"); v != "" && !changed["iter"] {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse FOILRUN_ITER: %w", err)
		}
		if n > 0 {
			cfg.Iter = n
		}
	}
	if v := os.Getenv("FOILRUN_TIMEOUT"); v != "" && !changed["timeout"] {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FOILRUN_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("FOILRUN_COLOR"); v != "" && !changed["color"] {
		cfg.ColorMode = ColorMode(v)
	}
	setEnvBool("FOILRUN_FORCE", "force", changed, &cfg.Force)
	setEnvBool("FOILRUN_VERBOSE", "verbose", changed, &cfg.Verbose)
	setEnvBool("FOILRUN_QUIET", "quiet", changed, &cfg.Quiet)
	return nil
}

// setEnvBool treats "true" and "1" as true, anything else as false.
func setEnvBool(env, flag string, changed map[string]bool, dst *bool) {
	v := os.Getenv(env)
	if v == "" || changed[flag] {
		return
	}
	*dst = v == "true" || v == "1"
}

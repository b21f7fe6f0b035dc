// Package config holds runtime configuration: defaults, TOML config file
// and environment layering, and validation. Precedence is defaults < file
// < environment < explicit CLI flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// layered from file/env, then mutated by flag binding before being passed
// (by pointer) to packages that need it.
type Config struct {
	// XfoilPath is the XFOIL binary: an absolute path or a name resolved
	// on PATH.
	XfoilPath string

	// WorkDir is where per-foil artifact directories are created.
	// Default: "Data".
	WorkDir string

	// Iter is the default viscous iteration limit for cases that don't
	// set their own. XFOIL's built-in default of 20 rarely converges;
	// 100 is the working default. Once a batch is submitted the limit
	// cannot be raised, so err on the high side.
	Iter int

	// Timeout bounds each case's XFOIL invocation. Zero means wait
	// forever, matching XFOIL's own behavior.
	Timeout time.Duration

	// Per-case defaults applied by the case-file loader.
	SaveCp       bool // Write surface Cp per alpha. Default: true.
	SaveGeometry bool // Save loaded geometry. Default: true.
	Pane         bool // Smooth paneling before analysis. Default: false.

	// Force reruns cases whose polar artifact already exists. When false
	// (default) an existing polar is parsed and reused instead of
	// re-invoking XFOIL.
	Force bool

	// DryRun builds and logs each case's script without spawning XFOIL.
	DryRun bool

	// Display and logging.
	Verbose   bool
	Quiet     bool
	ColorMode ColorMode
	LogFile   string

	// CaseFile is the TOML run definition; empty when the batch comes
	// from single-case flags.
	CaseFile string
}

// DefaultConfig returns a Config with working defaults.
func DefaultConfig() Config {
	return Config{
		XfoilPath:    DefaultXfoilPath(),
		WorkDir:      "Data",
		Iter:         100,
		SaveCp:       true,
		SaveGeometry: true,
		ColorMode:    ColorAuto,
	}
}

// DefaultXfoilPath returns the conventional XFOIL location for the host
// platform: the Xfoil.app bundle on macOS, xfoil.exe beside the tool on
// Windows, and plain PATH lookup elsewhere.
func DefaultXfoilPath() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Applications/Xfoil.app/Contents/Resources/xfoil"
	case "windows":
		return "xfoil.exe"
	default:
		return "xfoil"
	}
}

// Validate checks enum fields and physically sensible values.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.XfoilPath == "" {
		return errors.New("xfoil path must not be empty")
	}
	if c.WorkDir == "" {
		return errors.New("work directory must not be empty")
	}
	if c.Iter <= 0 {
		return fmt.Errorf("iteration limit must be positive (got %d)", c.Iter)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.Verbose && c.Quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

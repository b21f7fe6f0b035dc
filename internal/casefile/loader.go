// Package casefile loads batch run definitions from TOML: a [defaults]
// table plus one [[case]] block per analysis. The loader applies defaults,
// expands alpha sweep specs, and appends each case to a fresh Batch, so a
// malformed case surfaces as a validation error before anything runs.
package casefile

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/jberkman/foilrun/internal/batch"
	"github.com/jberkman/foilrun/internal/config"
)

// maxSweepPoints caps sweep expansion so a typo'd step cannot allocate an
// absurd batch.
const maxSweepPoints = 10000

// fileDefaults is the optional [defaults] table.
type fileDefaults struct {
	Reynolds     float64 `toml:"reynolds"`
	Mach         float64 `toml:"mach"`
	Iter         int     `toml:"iter"`
	Viscous      *bool   `toml:"viscous"`
	SaveCp       *bool   `toml:"save_cp"`
	Pane         *bool   `toml:"pane"`
	SaveGeometry *bool   `toml:"save_geometry"`
}

// fileCase is one [[case]] block. Unset fields fall back to [defaults],
// then to the runtime config.
type fileCase struct {
	Foil         string    `toml:"foil"`
	NACA         *bool     `toml:"naca"`
	Reynolds     *float64  `toml:"reynolds"`
	Mach         *float64  `toml:"mach"`
	Alphas       []float64 `toml:"alphas"`
	Sweep        string    `toml:"sweep"`
	Iter         int       `toml:"iter"`
	Viscous      *bool     `toml:"viscous"`
	SaveCp       *bool     `toml:"save_cp"`
	Pane         *bool     `toml:"pane"`
	SaveGeometry *bool     `toml:"save_geometry"`
}

type runFile struct {
	Defaults fileDefaults `toml:"defaults"`
	Cases    []fileCase   `toml:"case"`
}

// Load reads a TOML run definition and returns the batch it describes.
// cfg supplies the fallback iteration limit and artifact flags.
func Load(path string, cfg *config.Config) (*batch.Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("casefile: %w", err)
	}
	var rf runFile
	if err := toml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("casefile: parse %q: %w", path, err)
	}
	if len(rf.Cases) == 0 {
		return nil, fmt.Errorf("casefile: %q defines no [[case]] blocks", path)
	}

	b := batch.New()
	for i, fc := range rf.Cases {
		c, err := buildCase(fc, rf.Defaults, cfg)
		if err != nil {
			return nil, fmt.Errorf("casefile: case %d: %w", i+1, err)
		}
		if err := b.Add(c); err != nil {
			return nil, fmt.Errorf("casefile: case %d (%s): %w", i+1, fc.Foil, err)
		}
	}
	return b, nil
}

// buildCase merges one [[case]] block with the file defaults and runtime
// config into a concrete Case.
func buildCase(fc fileCase, d fileDefaults, cfg *config.Config) (batch.Case, error) {
	c := batch.Case{
		Foil:         fc.Foil,
		Re:           d.Reynolds,
		Mach:         d.Mach,
		Iter:         d.Iter,
		SaveCp:       cfg.SaveCp,
		SaveGeometry: cfg.SaveGeometry,
		Pane:         cfg.Pane,
	}
	if c.Iter == 0 {
		c.Iter = cfg.Iter
	}
	if fc.Reynolds != nil {
		c.Re = *fc.Reynolds
	}
	if fc.Mach != nil {
		c.Mach = *fc.Mach
	}
	if fc.Iter > 0 {
		c.Iter = fc.Iter
	}

	// Viscous defaults to "a Reynolds number was given"; an explicit
	// viscous key wins either way.
	c.Viscous = c.Re > 0
	if d.Viscous != nil {
		c.Viscous = *d.Viscous
	}
	if fc.Viscous != nil {
		c.Viscous = *fc.Viscous
	}

	// NACA defaults to "the foil reference is all digits".
	c.NACA = isDigits(fc.Foil)
	if fc.NACA != nil {
		c.NACA = *fc.NACA
	}

	applyBool(&c.SaveCp, d.SaveCp, fc.SaveCp)
	applyBool(&c.SaveGeometry, d.SaveGeometry, fc.SaveGeometry)
	applyBool(&c.Pane, d.Pane, fc.Pane)

	switch {
	case len(fc.Alphas) > 0 && fc.Sweep != "":
		return c, fmt.Errorf("%w: use either alphas or sweep, not both", batch.ErrValidation)
	case len(fc.Alphas) > 0:
		c.Alphas = fc.Alphas
	case fc.Sweep != "":
		alphas, err := ParseAlphaSpec(fc.Sweep)
		if err != nil {
			return c, err
		}
		c.Alphas = alphas
	}
	return c, nil
}

func applyBool(dst *bool, layers ...*bool) {
	for _, p := range layers {
		if p != nil {
			*dst = *p
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseAlphaSpec expands an angle-of-attack specification: either a comma
// list ("0,2,4") or a start:stop:step sweep ("-4:12:0.5" runs inclusive of
// both ends). Shared by the case-file loader and the --alpha CLI flag.
func ParseAlphaSpec(spec string) ([]float64, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty alpha specification", batch.ErrValidation)
	}
	if strings.Contains(spec, ":") {
		return parseSweep(spec)
	}

	var alphas []float64
	for _, part := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad alpha %q", batch.ErrValidation, part)
		}
		alphas = append(alphas, v)
	}
	return alphas, nil
}

func parseSweep(spec string) ([]float64, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: sweep must be start:stop:step (got %q)", batch.ErrValidation, spec)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad sweep component %q", batch.ErrValidation, p)
		}
		vals[i] = v
	}
	start, stop, step := vals[0], vals[1], vals[2]
	if step == 0 {
		return nil, fmt.Errorf("%w: sweep step must not be zero", batch.ErrValidation)
	}
	if (stop-start)/step < 0 {
		return nil, fmt.Errorf("%w: sweep step direction never reaches stop (%q)", batch.ErrValidation, spec)
	}

	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	if n > maxSweepPoints {
		return nil, fmt.Errorf("%w: sweep expands to %d points (max %d)", batch.ErrValidation, n, maxSweepPoints)
	}
	alphas := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		alphas = append(alphas, start+float64(i)*step)
	}
	return alphas, nil
}

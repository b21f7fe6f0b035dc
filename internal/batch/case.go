// Package batch holds the analysis domain model: a Case describes one
// airfoil/flow-condition request, a Batch is the ordered write-once
// collection of Cases awaiting execution, and a Result is the parsed
// outcome of one case.
package batch

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Case is one airfoil/condition combination to analyze. A case is immutable
// once appended to a Batch: the XFOIL session it describes is scripted
// up-front and cannot be edited or resubmitted after the run starts, so the
// iteration limit must be chosen high enough for convergence on the first
// and only attempt.
type Case struct {
	// Foil is either a 4/5-digit NACA designation ("0012") or the path to
	// an airfoil coordinate file, depending on NACA.
	Foil string
	NACA bool

	// Viscous selects a viscous analysis at Reynolds number Re. Inviscid
	// cases ignore Re entirely; viscous cases require Re > 0.
	Viscous bool
	Re      float64

	// Mach is the freestream Mach number. XFOIL is a subsonic code, so
	// values at or above 1 are rejected.
	Mach float64

	// Alphas are the angles of attack to run, in degrees, in order.
	Alphas []float64

	// Iter is the viscous iteration limit per operating point.
	Iter int

	// SaveCp writes the surface pressure distribution for each alpha.
	SaveCp bool

	// Pane smooths the paneling before analysis. Useful for rough
	// geometry files, can destabilize already-smooth shapes.
	Pane bool

	// SaveGeometry writes the loaded geometry back out before running,
	// for downstream slope calculations.
	SaveGeometry bool
}

// Name returns the identifier used in artifact paths: "nacaNNNN" for NACA
// cases, the file basename without extension for geometry-file cases.
func (c Case) Name() string {
	if c.NACA {
		return "naca" + c.Foil
	}
	base := filepath.Base(c.Foil)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Validate checks that the case is complete and physically sensible.
// All failures wrap ErrValidation.
func (c Case) Validate() error {
	if c.Foil == "" {
		return fmt.Errorf("%w: foil reference is required", ErrValidation)
	}
	if !c.NACA {
		if err := checkGeometryFile(c.Foil); err != nil {
			return err
		}
	}
	if c.Viscous && c.Re <= 0 {
		return fmt.Errorf("%w: viscous case needs Reynolds number > 0 (got %g)", ErrValidation, c.Re)
	}
	if c.Mach < 0 || c.Mach >= 1 {
		return fmt.Errorf("%w: Mach number must be in [0, 1) (got %g)", ErrValidation, c.Mach)
	}
	if len(c.Alphas) == 0 {
		return fmt.Errorf("%w: at least one angle of attack is required", ErrValidation)
	}
	if c.Iter <= 0 {
		return fmt.Errorf("%w: iteration limit must be positive (got %d)", ErrValidation, c.Iter)
	}
	return nil
}

// checkGeometryFile verifies a coordinate file exists and holds at least a
// name line plus one data line. XFOIL itself reports missing files only
// deep inside an interactive session, so catching this at build time gives
// a much clearer failure.
func checkGeometryFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: geometry file %q: %v", ErrValidation, path, err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for lines < 2 && sc.Scan() {
		lines++
	}
	if lines < 2 {
		return fmt.Errorf("%w: geometry file %q is empty (no coordinate data)", ErrValidation, path)
	}
	return nil
}

// key identifies the artifact paths a case will produce. Two cases with the
// same key would overwrite each other's polar file mid-batch, so Add
// rejects the duplicate.
func (c Case) key() string {
	visc := "inv"
	if c.Viscous {
		visc = fmt.Sprintf("re%1.2e", c.Re)
	}
	if len(c.Alphas) == 1 {
		return fmt.Sprintf("%s|%s|a%1.2f", c.Name(), visc, c.Alphas[0])
	}
	return fmt.Sprintf("%s|%s|a%1.1f-%1.1f",
		c.Name(), visc, c.Alphas[0], c.Alphas[len(c.Alphas)-1])
}

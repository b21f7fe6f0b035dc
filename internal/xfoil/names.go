package xfoil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jberkman/foilrun/internal/batch"
)

// Paths holds the per-case artifact locations. Every path embeds the foil
// name, Reynolds number, and alpha range, so distinct cases in a batch
// never write to the same file.
type Paths struct {
	// Dir is the case's artifact directory: <workdir>/<foilname>.
	Dir string

	// Geometry is where the loaded geometry is saved back out.
	Geometry string

	// Polar is the polar accumulation file.
	Polar string

	// Script is the temporary command script written for the session.
	// The runner removes it on every exit path.
	Script string

	re float64
}

// ForCase derives the artifact paths for a case under workDir, following
// the save-name conventions: polars are
// <name>_polar_Re<1.2e><alpharange>.dat, surface pressure files are
// <name>_surfCP_Re<1.2e>a<1.1f>.dat.
func ForCase(workDir string, c batch.Case) Paths {
	name := c.Name()
	dir := filepath.Join(workDir, name)

	re := 0.0
	if c.Viscous {
		re = c.Re
	}

	var alphaRange string
	if len(c.Alphas) == 1 {
		alphaRange = fmt.Sprintf("a%1.2f", c.Alphas[0])
	} else {
		alphaRange = fmt.Sprintf("a%1.1f-%1.1f", c.Alphas[0], c.Alphas[len(c.Alphas)-1])
	}

	polar := filepath.Join(dir, fmt.Sprintf("%s_polar_Re%1.2e%s.dat", name, re, alphaRange))
	return Paths{
		Dir:      dir,
		Geometry: filepath.Join(dir, name+".dat"),
		Polar:    polar,
		Script:   strings.TrimSuffix(polar, ".dat") + ".in",
		re:       re,
	}
}

// SurfaceCp returns the surface pressure artifact path for one angle of
// attack.
func (p Paths) SurfaceCp(alpha float64) string {
	name := filepath.Base(p.Dir)
	return filepath.Join(p.Dir, fmt.Sprintf("%s_surfCP_Re%1.2ea%1.1f.dat", name, p.re, alpha))
}

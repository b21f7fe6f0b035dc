// Package xfoil builds XFOIL command scripts and executes them against the
// external binary, one one-shot subprocess per case. XFOIL is driven by a
// static script piped to stdin, not an interactive session: the whole
// command sequence is fixed before the process starts and cannot be
// adjusted afterwards.
package xfoil

import (
	"fmt"
	"strings"

	"github.com/jberkman/foilrun/internal/batch"
)

// script accumulates newline-terminated XFOIL commands.
type script struct {
	b strings.Builder
}

func (s *script) add(cmd string) {
	s.b.WriteString(cmd)
	s.b.WriteByte('\n')
}

// BuildScript serializes a case into XFOIL's command dialect. The sequence
// per session:
//
//	plop/g f    turn off graphics so XFOIL runs headless (no X11)
//	naca/load   load the geometry
//	pane        optional panel smoothing
//	save        optional geometry save (top menu)
//	oper        enter the operating menu
//	visc/mach   viscous Reynolds number and Mach, when set
//	iter        iteration limit — fixed up-front, no mid-run changes
//	pacc        polar accumulation on, polar file name, blank dump name
//	alfa/cpwr   one operating point per alpha, optional Cp write
//	pacc        accumulation off
//	quit        unwind menus and exit
//
// The builder is pure: existing artifacts are the runner's concern.
func BuildScript(c batch.Case, paths Paths) string {
	var s script

	// Headless: enter the plotting options menu, disable graphics, return.
	s.add("plop")
	s.add("g f")
	s.add("")

	if c.NACA {
		s.add("naca " + c.Foil)
	} else {
		s.add("load " + c.Foil)
	}
	if c.Pane {
		s.add("pane")
	}
	if c.SaveGeometry {
		s.add("save " + paths.Geometry)
	}

	s.add("oper")
	if c.Viscous {
		s.add(fmt.Sprintf("visc %g", c.Re))
	}
	if c.Mach > 0 {
		s.add(fmt.Sprintf("mach %g", c.Mach))
	}
	s.add(fmt.Sprintf("iter %d", c.Iter))

	s.add("pacc")
	s.add(paths.Polar)
	s.add("") // no dump file

	for _, alpha := range c.Alphas {
		s.add(fmt.Sprintf("alfa %g", alpha))
		if c.SaveCp {
			s.add("cpwr " + paths.SurfaceCp(alpha))
		}
	}

	s.add("pacc")

	// Blank lines climb back to the top menu from wherever we are.
	s.add("")
	s.add("")
	s.add("")
	s.add("")
	s.add("quit")

	return s.b.String()
}

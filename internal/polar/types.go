// Package polar parses the plain-text artifacts XFOIL writes: polar sweep
// files, surface pressure distributions, and airfoil coordinate files.
// Parsing is separated from execution so it can be tested without a real
// XFOIL binary.
package polar

// Point is one converged operating point of a polar sweep.
type Point struct {
	Alpha  float64 // Angle of attack, degrees.
	Cl     float64 // Lift coefficient.
	Cd     float64 // Total drag coefficient.
	Cdp    float64 // Pressure drag coefficient.
	Cm     float64 // Quarter-chord moment coefficient.
	TopXtr float64 // Top-surface transition location, x/c.
	BotXtr float64 // Bottom-surface transition location, x/c.
}

// Polar is a parsed polar file: header metadata plus the converged points
// in the order XFOIL wrote them.
type Polar struct {
	Name   string  // Airfoil name from the file banner, if present.
	Mach   float64 // Freestream Mach number from the header.
	Re     float64 // Reynolds number from the header (0 for inviscid).
	Ncrit  float64 // e^n transition criterion from the header.
	Points []Point
}

// Len returns the number of converged points.
func (p *Polar) Len() int { return len(p.Points) }

// XY is one airfoil surface coordinate.
type XY struct {
	X float64
	Z float64
}

// Geometry is a parsed airfoil coordinate file: a name line followed by
// surface points from trailing edge around the nose and back.
type Geometry struct {
	Name   string
	Points []XY
}

// CpPoint is one surface pressure sample. Y is zero when the file carries
// the two-column (x, Cp) variant.
type CpPoint struct {
	X  float64
	Y  float64
	Cp float64
}

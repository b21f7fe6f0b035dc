package xfoil

import (
	"strings"
	"testing"

	"github.com/jberkman/foilrun/internal/batch"
)

func viscousCase() batch.Case {
	return batch.Case{
		Foil: "0012", NACA: true,
		Viscous: true, Re: 2e5,
		Alphas: []float64{0, 2},
		Iter:   100,
		SaveCp: true,
	}
}

// indexAfter returns the index of sub in script, failing the test when it is
// absent or appears before from.
func indexAfter(t *testing.T, script, sub string, from int) int {
	t.Helper()
	i := strings.Index(script[from:], sub)
	if i < 0 {
		t.Fatalf("script missing %q after offset %d:\n%s", sub, from, script)
	}
	return from + i + len(sub)
}

func TestBuildScript_ViscousSweep(t *testing.T) {
	c := viscousCase()
	paths := ForCase("Data", c)
	script := BuildScript(c, paths)

	// Commands must appear in session order.
	pos := 0
	for _, cmd := range []string{
		"plop\ng f\n\n",
		"naca 0012\n",
		"oper\n",
		"visc 200000\n",
		"iter 100\n",
		"pacc\n" + paths.Polar + "\n\n",
		"alfa 0\n",
		"cpwr " + paths.SurfaceCp(0) + "\n",
		"alfa 2\n",
		"cpwr " + paths.SurfaceCp(2) + "\n",
		"pacc\n",
	} {
		pos = indexAfter(t, script, cmd, pos)
	}

	if !strings.HasSuffix(script, "\n\n\n\nquit\n") {
		t.Errorf("script must unwind menus and quit:\n%s", script)
	}
}

func TestBuildScript_InviscidOmitsVisc(t *testing.T) {
	c := viscousCase()
	c.Viscous = false
	c.Re = 0
	script := BuildScript(c, ForCase("Data", c))

	if strings.Contains(script, "visc") {
		t.Errorf("inviscid script must not set a Reynolds number:\n%s", script)
	}
}

func TestBuildScript_MachOnlyWhenPositive(t *testing.T) {
	c := viscousCase()
	script := BuildScript(c, ForCase("Data", c))
	if strings.Contains(script, "mach") {
		t.Errorf("mach command present for Mach 0:\n%s", script)
	}

	c.Mach = 0.3
	script = BuildScript(c, ForCase("Data", c))
	if !strings.Contains(script, "mach 0.3\n") {
		t.Errorf("mach command missing:\n%s", script)
	}
}

func TestBuildScript_GeometryFile(t *testing.T) {
	c := viscousCase()
	c.NACA = false
	c.Foil = "foils/s1223.dat"
	c.Pane = true
	c.SaveGeometry = true
	paths := ForCase("Data", c)
	script := BuildScript(c, paths)

	pos := indexAfter(t, script, "load foils/s1223.dat\n", 0)
	pos = indexAfter(t, script, "pane\n", pos)
	indexAfter(t, script, "save "+paths.Geometry+"\n", pos)
}

func TestBuildScript_NoCpWrite(t *testing.T) {
	c := viscousCase()
	c.SaveCp = false
	script := BuildScript(c, ForCase("Data", c))
	if strings.Contains(script, "cpwr") {
		t.Errorf("cpwr present with SaveCp disabled:\n%s", script)
	}
}

package polar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadGeometry parses an airfoil coordinate file: a name line followed by
// whitespace-delimited x/z pairs.
func ReadGeometry(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("polar: open geometry %q: %w", path, err)
	}
	defer f.Close()

	g := &Geometry{}
	sc := bufio.NewScanner(f)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first {
			first = false
			// The name line is any first line that isn't a coordinate pair.
			if len(fields) != 2 || !allFloats(fields) {
				g.Name = line
				continue
			}
		}
		if len(fields) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		z, errZ := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errZ != nil {
			continue
		}
		g.Points = append(g.Points, XY{X: x, Z: z})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(g.Points) == 0 {
		return nil, fmt.Errorf("polar: geometry %q: %w", path, ErrNoData)
	}
	return g, nil
}

// WriteGeometry writes points in XFOIL's load format: the name line, then
// left-aligned 14-wide columns with 7 decimal places.
func WriteGeometry(w io.Writer, name string, points []XY) error {
	if _, err := fmt.Fprintln(w, name); err != nil {
		return err
	}
	for _, pt := range points {
		if _, err := fmt.Fprintf(w, "    %-14.7f%-14.7f\n", pt.X, pt.Z); err != nil {
			return err
		}
	}
	return nil
}

// ReadSurfaceCp parses a surface pressure file written by XFOIL's cpwr
// command. Depending on the build, rows carry either two columns (x, Cp)
// or three (x, y, Cp); the variant is detected from the data rather than
// the host platform. Header lines are discarded.
func ReadSurfaceCp(path string) ([]CpPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("polar: open surface cp %q: %w", path, err)
	}
	defer f.Close()

	var pts []CpPoint
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if !allFloats(fields) {
			continue
		}
		switch len(fields) {
		case 2:
			x, _ := strconv.ParseFloat(fields[0], 64)
			cp, _ := strconv.ParseFloat(fields[1], 64)
			pts = append(pts, CpPoint{X: x, Cp: cp})
		case 3:
			x, _ := strconv.ParseFloat(fields[0], 64)
			y, _ := strconv.ParseFloat(fields[1], 64)
			cp, _ := strconv.ParseFloat(fields[2], 64)
			pts = append(pts, CpPoint{X: x, Y: y, Cp: cp})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("polar: surface cp %q: %w", path, ErrNoData)
	}
	return pts, nil
}

func allFloats(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return false
		}
	}
	return true
}

package polar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoData is returned when a polar file never contains a row with the
// expected seven numeric columns. The pipeline maps it onto the batch
// parse-error kind.
var ErrNoData = errors.New("polar: no data rows found")

// polarColumns is the column count of a polar data row:
// alpha, CL, CD, CDp, CM, Top_Xtr, Bot_Xtr.
const polarColumns = 7

var (
	reName = regexp.MustCompile(`Calculated polar for:\s*(.+?)\s*$`)

	// XFOIL prints exponents with embedded spaces ("Re = 0.200 e 6"), so
	// the mantissa and exponent are captured separately.
	reMach  = regexp.MustCompile(`Mach\s*=\s*([0-9.+-]+)`)
	reRe    = regexp.MustCompile(`Re\s*=\s*([0-9.+-]+)\s*e\s*([0-9+-]+)`)
	reNcrit = regexp.MustCompile(`Ncrit\s*=\s*([0-9.+-]+)`)
)

// ParsePolar reads an XFOIL polar save file from path.
func ParsePolar(path string) (*Polar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("polar: open %q: %w", path, err)
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("polar: %q: %w", path, err)
	}
	return p, nil
}

// Parse reads a polar file from r, discarding the multi-line banner and
// header. Any line whose fields are exactly seven floats is a data row;
// header metadata (name, Mach, Re, Ncrit) is recovered when present.
// Returns ErrNoData when no data rows exist.
func Parse(r io.Reader) (*Polar, error) {
	p := &Polar{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()

		if m := reName.FindStringSubmatch(line); m != nil {
			p.Name = m[1]
			continue
		}
		if m := reMach.FindStringSubmatch(line); m != nil {
			p.Mach, _ = strconv.ParseFloat(m[1], 64)
			if mm := reRe.FindStringSubmatch(line); mm != nil {
				mant, _ := strconv.ParseFloat(mm[1], 64)
				exp, _ := strconv.Atoi(mm[2])
				p.Re = mant * math.Pow10(exp)
			}
			if mm := reNcrit.FindStringSubmatch(line); mm != nil {
				p.Ncrit, _ = strconv.ParseFloat(mm[1], 64)
			}
			continue
		}

		if pt, ok := parseRow(line); ok {
			p.Points = append(p.Points, pt)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Points) == 0 {
		return nil, ErrNoData
	}
	return p, nil
}

// parseRow interprets a line as a polar data row: exactly seven
// whitespace-delimited floats.
func parseRow(line string) (Point, bool) {
	fields := strings.Fields(line)
	if len(fields) != polarColumns {
		return Point{}, false
	}
	var vals [polarColumns]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Point{}, false
		}
		vals[i] = v
	}
	return Point{
		Alpha:  vals[0],
		Cl:     vals[1],
		Cd:     vals[2],
		Cdp:    vals[3],
		Cm:     vals[4],
		TopXtr: vals[5],
		BotXtr: vals[6],
	}, true
}

package display

import (
	"fmt"
	"time"
)

// FormatReynolds returns a short label for a Reynolds number in engineering
// notation, or "inviscid" for a non-viscous case.
func FormatReynolds(re float64) string {
	if re <= 0 {
		return "inviscid"
	}
	return fmt.Sprintf("Re %1.2e", re)
}

// FormatAlphaRange summarizes an angle-of-attack list, e.g. "a=2.0" or
// "a=-4.0..12.0 (33 pts)".
func FormatAlphaRange(alphas []float64) string {
	switch len(alphas) {
	case 0:
		return "a=?"
	case 1:
		return fmt.Sprintf("a=%.1f", alphas[0])
	default:
		return fmt.Sprintf("a=%.1f..%.1f (%d pts)",
			alphas[0], alphas[len(alphas)-1], len(alphas))
	}
}

// FormatDuration rounds d for display: sub-second runs keep milliseconds,
// everything else is shown in tenths of a second.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

package batch

import (
	"time"

	"github.com/jberkman/foilrun/internal/polar"
)

// CaseState is the per-case lifecycle: Built → Running → Succeeded/Failed.
// Terminal states are final; there is no transition back to Built.
type CaseState int

const (
	StateBuilt CaseState = iota
	StateRunning
	StateSucceeded
	StateFailed
)

// String returns the lowercase state name.
func (s CaseState) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one case. The caller owns it once returned;
// nothing in foilrun mutates it afterwards.
type Result struct {
	Case  Case
	State CaseState

	// Polar holds the parsed sweep on success, nil on failure.
	Polar *polar.Polar

	// PolarFile and CpFiles are the artifact paths XFOIL wrote, kept for
	// downstream plotting.
	PolarFile string
	CpFiles   []string

	// Output is the tail of XFOIL's combined stdout/stderr, kept on
	// failure as the tool's own diagnostic text.
	Output string

	// Err wraps ErrExecution or ErrParse when the case failed.
	Err error

	Elapsed time.Duration
}

// Failed reports whether the case ended in the Failed state.
func (r *Result) Failed() bool { return r.State == StateFailed }

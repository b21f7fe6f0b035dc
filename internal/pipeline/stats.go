package pipeline

import "time"

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int // Cases in the sealed batch.
	Current   int // 1-based index of the last case reached.
	Succeeded int
	Failed    int
	Skipped   int // Existing polars reused without re-running XFOIL.

	Points  int // Converged operating points across all succeeded cases.
	Elapsed time.Duration
}

// Completed reports whether every case was reached (no interruption).
func (s *RunStats) Completed() bool {
	return s.Current == s.Total
}

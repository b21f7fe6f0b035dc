// Package pipeline orchestrates batch execution: preflight, the strictly
// sequential per-case XFOIL loop, artifact parsing, and summary reporting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jberkman/foilrun/internal/batch"
	"github.com/jberkman/foilrun/internal/check"
	"github.com/jberkman/foilrun/internal/config"
	"github.com/jberkman/foilrun/internal/display"
	"github.com/jberkman/foilrun/internal/polar"
	"github.com/jberkman/foilrun/internal/xfoil"
)

// outputTailLines is how much of XFOIL's session output a failed Result
// keeps for diagnostics.
const outputTailLines = 20

// Run executes every case in b in insertion order, one blocking XFOIL
// subprocess at a time, and returns one Result per executed case in the
// same order.
//
// An empty batch is a no-op: empty results, nil error. A missing or
// unspawnable XFOIL binary aborts before any case runs (batch.ErrEnvironment).
// Per-case failures are captured in their Result and never abort the batch.
// Context cancellation stops between cases; Results already collected are
// returned.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger, b *batch.Batch) ([]batch.Result, RunStats, error) {
	var stats RunStats

	if b.Empty() {
		b.Seal()
		log.Info().Msg("empty batch, nothing to run")
		return []batch.Result{}, stats, nil
	}

	bin, err := check.Resolve(cfg.XfoilPath)
	if err != nil {
		return nil, stats, err
	}

	cases := b.Seal()
	stats.Total = len(cases)
	log.Info().
		Int("cases", stats.Total).
		Str("xfoil", bin).
		Str("workdir", cfg.WorkDir).
		Msg("starting batch")

	start := time.Now()
	results := make([]batch.Result, 0, len(cases))
	for i, c := range cases {
		if ctx.Err() != nil {
			log.Warn().Int("remaining", stats.Total-i).Msg("interrupted, returning partial results")
			break
		}
		stats.Current = i + 1

		log.Info().
			Str("case", fmt.Sprintf("%d/%d", stats.Current, stats.Total)).
			Str("foil", c.Name()).
			Str("conditions", conditionLabel(c)).
			Msg("running")

		res := runCase(ctx, cfg, log, bin, c, &stats)
		results = append(results, res)
	}
	stats.Elapsed = time.Since(start)

	logSummary(log, &stats)
	return results, stats, nil
}

// conditionLabel is the one-line flow-condition summary for logging.
func conditionLabel(c batch.Case) string {
	re := 0.0
	if c.Viscous {
		re = c.Re
	}
	label := display.FormatReynolds(re) + " " + display.FormatAlphaRange(c.Alphas)
	if c.Mach > 0 {
		label = fmt.Sprintf("M %.2f %s", c.Mach, label)
	}
	return label
}

// runCase handles one case: resolve artifact paths → reuse or rerun →
// build script → execute → parse polar. The script file is removed on
// every exit path; a failed case's partial polar is removed too.
func runCase(ctx context.Context, cfg *config.Config, log zerolog.Logger, bin string, c batch.Case, stats *RunStats) batch.Result {
	res := batch.Result{Case: c, State: batch.StateRunning}
	paths := xfoil.ForCase(cfg.WorkDir, c)

	// Reuse an existing polar unless forced. Deterministic inputs make the
	// existing artifact equivalent to a rerun.
	if !cfg.Force {
		if p, err := polar.ParsePolar(paths.Polar); err == nil {
			log.Info().Str("polar", paths.Polar).Msg("exists, reusing (--force reruns)")
			res.State = batch.StateSucceeded
			res.Polar = p
			res.PolarFile = paths.Polar
			res.CpFiles = existingCpFiles(paths, c)
			stats.Skipped++
			stats.Points += p.Len()
			return res
		}
	}

	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return fail(&res, stats, log, fmt.Errorf("%w: create %q: %v", batch.ErrExecution, paths.Dir, err))
	}

	// pacc appends to an existing polar file, so a stale one must go
	// before the run; same for the geometry save, which XFOIL would
	// prompt to overwrite and stall on.
	os.Remove(paths.Polar)
	if c.SaveGeometry {
		os.Remove(paths.Geometry)
	}

	script := xfoil.BuildScript(c, paths)

	if cfg.DryRun {
		log.Info().Msg("[dry-run] would run:")
		for _, line := range strings.Split(strings.TrimRight(script, "\n"), "\n") {
			log.Info().Msgf("  %s", line)
		}
		res.State = batch.StateSucceeded
		stats.Succeeded++
		return res
	}

	if err := os.WriteFile(paths.Script, []byte(script), 0o644); err != nil {
		return fail(&res, stats, log, fmt.Errorf("%w: write script: %v", batch.ErrExecution, err))
	}
	defer os.Remove(paths.Script)

	start := time.Now()
	exec := xfoil.Execute(ctx, bin, script, xfoil.Options{
		Verbose: cfg.Verbose,
		Timeout: cfg.Timeout,
	})
	res.Elapsed = time.Since(start)
	res.Output = tail(exec.Output, outputTailLines)

	if exec.Err != nil {
		os.Remove(paths.Polar)
		return fail(&res, stats, log, executionError(exec.Err, exec.Output))
	}

	p, err := polar.ParsePolar(paths.Polar)
	if err != nil {
		os.Remove(paths.Polar)
		return fail(&res, stats, log, parseError(err, exec.Output))
	}

	if p.Len() < len(c.Alphas) {
		// No retry by design: the iteration limit was fixed when the batch
		// was built. The shortfall is reported, not repaired.
		log.Warn().
			Int("converged", p.Len()).
			Int("requested", len(c.Alphas)).
			Msg("some operating points did not converge")
	}

	res.State = batch.StateSucceeded
	res.Polar = p
	res.PolarFile = paths.Polar
	res.CpFiles = existingCpFiles(paths, c)
	stats.Succeeded++
	stats.Points += p.Len()

	log.Info().
		Int("points", p.Len()).
		Str("elapsed", display.FormatDuration(res.Elapsed)).
		Str("polar", paths.Polar).
		Msg("done")
	return res
}

// executionError wraps a subprocess failure, annotated with whatever XFOIL
// said about it.
func executionError(err error, output string) error {
	if label := xfoil.Classify(output); label != "" {
		return fmt.Errorf("%w: %s: %v", batch.ErrExecution, label, err)
	}
	return fmt.Errorf("%w: %v", batch.ErrExecution, err)
}

// parseError distinguishes "no artifact at all" (an execution failure) from
// "artifact present but malformed" (a parse failure).
func parseError(err error, output string) error {
	if errors.Is(err, fs.ErrNotExist) {
		if label := xfoil.Classify(output); label != "" {
			return fmt.Errorf("%w: %s (no output artifact)", batch.ErrExecution, label)
		}
		return fmt.Errorf("%w: produced no output artifact", batch.ErrExecution)
	}
	if label := xfoil.Classify(output); label != "" {
		return fmt.Errorf("%w: %s: %v", batch.ErrParse, label, err)
	}
	return fmt.Errorf("%w: %v", batch.ErrParse, err)
}

// fail records a case failure without aborting the batch.
func fail(res *batch.Result, stats *RunStats, log zerolog.Logger, err error) batch.Result {
	res.State = batch.StateFailed
	res.Err = err
	stats.Failed++

	log.Error().Err(err).Str("foil", res.Case.Name()).Msg("case failed")
	if res.Output != "" {
		log.Debug().Msg("last xfoil output:")
		for _, line := range strings.Split(res.Output, "\n") {
			log.Debug().Msgf("  %s", line)
		}
	}
	return *res
}

// existingCpFiles returns the surface-Cp artifact paths that XFOIL actually
// wrote (non-converged alphas produce none).
func existingCpFiles(paths xfoil.Paths, c batch.Case) []string {
	if !c.SaveCp {
		return nil
	}
	var files []string
	for _, alpha := range c.Alphas {
		p := paths.SurfaceCp(alpha)
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	return files
}

// tail returns at most n trailing lines of s.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func logSummary(log zerolog.Logger, stats *RunStats) {
	ev := log.Info().
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("points", stats.Points).
		Str("elapsed", display.FormatDuration(stats.Elapsed))
	if stats.Skipped > 0 {
		ev = ev.Int("reused", stats.Skipped)
	}
	if !stats.Completed() {
		ev = ev.Int("not_run", stats.Total-stats.Current)
	}
	ev.Msgf("batch finished: %d/%d cases", stats.Succeeded+stats.Skipped, stats.Total)
}

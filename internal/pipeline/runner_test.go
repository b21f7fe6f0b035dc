package pipeline

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jberkman/foilrun/internal/batch"
	"github.com/jberkman/foilrun/internal/config"
	"github.com/jberkman/foilrun/internal/xfoil"
)

// testPolar is what the stand-in binary writes as its polar artifact: two
// converged operating points at alpha 0 and 2.
const testPolar = `
       XFOIL         Version 6.99

 Calculated polar for: NACA 0012

 1 1 Reynolds number fixed          Mach number fixed

 xtrf =   1.000 (top)        1.000 (bottom)
 Mach =   0.000     Re =     0.200 e 6     Ncrit =   9.000

   alpha    CL        CD       CDp       CM    Top_Xtr  Bot_Xtr
  ------ -------- --------- --------- -------- -------- --------
   0.000   0.0000   0.00539   0.00086  -0.0000   0.6511   0.6511
   2.000   0.2177   0.00572   0.00110  -0.0003   0.5642   0.7414
`

// fakeXfoil writes a shell script that mimics XFOIL's scripted interface:
// it consumes the piped session, extracts the polar path (the line after
// the first "pacc"), rejects the 9999 designation, and runs the given
// behavior with $polar set.
func fakeXfoil(t *testing.T, behavior string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stand-in binary needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	sample := filepath.Join(dir, "sample_polar.txt")
	if err := os.WriteFile(sample, []byte(testPolar), 0o644); err != nil {
		t.Fatal(err)
	}

	script := `#!/bin/sh
in=$(cat)
if printf '%s\n' "$in" | grep -q 'naca 9999'; then
    echo ' Enter NACA 4 or 5-digit airfoil designation   i>'
    exit 1
fi
polar=$(printf '%s\n' "$in" | awk '/^pacc$/{getline; print; exit}')
sample="$(dirname "$0")/sample_polar.txt"
` + behavior + "\n"

	bin := filepath.Join(dir, "fake-xfoil")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin
}

func testConfig(t *testing.T, bin string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.XfoilPath = bin
	cfg.WorkDir = t.TempDir()
	cfg.SaveCp = false
	cfg.SaveGeometry = false
	return &cfg
}

func addCase(t *testing.T, b *batch.Batch, foil string) {
	t.Helper()
	if err := b.AddPolar(foil, true, 2e5, 0, []float64{0, 2}, 100); err != nil {
		t.Fatal(err)
	}
}

func TestRun_Success(t *testing.T) {
	bin := fakeXfoil(t, `cp "$sample" "$polar"`)
	cfg := testConfig(t, bin)

	b := batch.New()
	addCase(t, b, "0012")
	addCase(t, b, "2412")

	results, stats, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if !b.Sealed() {
		t.Error("batch must be sealed after a run")
	}

	// Results come back in insertion order.
	if results[0].Case.Name() != "naca0012" || results[1].Case.Name() != "naca2412" {
		t.Errorf("result order: %s, %s", results[0].Case.Name(), results[1].Case.Name())
	}
	for i, r := range results {
		if r.State != batch.StateSucceeded {
			t.Errorf("results[%d].State = %v (err %v)", i, r.State, r.Err)
		}
		if r.Polar == nil || r.Polar.Len() != 2 {
			t.Errorf("results[%d] polar not parsed", i)
		}
		if r.PolarFile == "" {
			t.Errorf("results[%d] missing polar path", i)
		}
		// Session scripts are transient.
		paths := xfoil.ForCase(cfg.WorkDir, r.Case)
		if _, err := os.Stat(paths.Script); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("script %q not cleaned up", paths.Script)
		}
	}

	if stats.Succeeded != 2 || stats.Failed != 0 || stats.Points != 4 {
		t.Errorf("stats = %+v", stats)
	}
	if !stats.Completed() {
		t.Error("stats must report completion")
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	bin := fakeXfoil(t, `cp "$sample" "$polar"`)
	cfg := testConfig(t, bin)

	b := batch.New()
	addCase(t, b, "0012")
	addCase(t, b, "9999") // rejected by the stand-in binary
	addCase(t, b, "2412")

	results, stats, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3 (failure must not abort the batch)", len(results))
	}

	if results[0].State != batch.StateSucceeded || results[2].State != batch.StateSucceeded {
		t.Error("cases around the failure must still run")
	}
	mid := results[1]
	if !mid.Failed() {
		t.Fatal("middle case should have failed")
	}
	if !errors.Is(mid.Err, batch.ErrExecution) {
		t.Errorf("mid.Err = %v, want ErrExecution", mid.Err)
	}
	if mid.Output == "" {
		t.Error("failed result should keep session output for diagnostics")
	}

	if stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRun_NoOutputArtifact(t *testing.T) {
	bin := fakeXfoil(t, `exit 0`) // clean exit, no polar written
	cfg := testConfig(t, bin)

	b := batch.New()
	addCase(t, b, "0012")

	results, _, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := results[0]
	if !errors.Is(r.Err, batch.ErrExecution) {
		t.Errorf("Err = %v, want ErrExecution for missing artifact", r.Err)
	}
}

func TestRun_MalformedArtifact(t *testing.T) {
	bin := fakeXfoil(t, `echo "not a polar file" > "$polar"`)
	cfg := testConfig(t, bin)

	b := batch.New()
	addCase(t, b, "0012")

	results, _, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r := results[0]
	if !errors.Is(r.Err, batch.ErrParse) {
		t.Errorf("Err = %v, want ErrParse for malformed artifact", r.Err)
	}

	// The unusable artifact must not linger to be "reused" next run.
	paths := xfoil.ForCase(cfg.WorkDir, r.Case)
	if _, err := os.Stat(paths.Polar); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("malformed polar %q not removed", paths.Polar)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	cfg := testConfig(t, "irrelevant")

	b := batch.New()
	results, stats, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
	if stats.Total != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if !b.Sealed() {
		t.Error("even an empty run seals the batch")
	}
}

func TestRun_MissingBinary(t *testing.T) {
	cfg := testConfig(t, "definitely-not-a-real-binary-4821")

	b := batch.New()
	addCase(t, b, "0012")

	_, _, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if !errors.Is(err, batch.ErrEnvironment) {
		t.Fatalf("err = %v, want ErrEnvironment", err)
	}
}

func TestRun_ReusesExistingPolar(t *testing.T) {
	bin := fakeXfoil(t, `cp "$sample" "$polar"`)
	cfg := testConfig(t, bin)

	b := batch.New()
	addCase(t, b, "0012")
	if _, _, err := Run(context.Background(), cfg, zerolog.Nop(), b); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Second run with a binary that always fails: the existing polar must
	// satisfy the case without spawning it.
	cfg.XfoilPath = fakeXfoil(t, `exit 1`)
	b2 := batch.New()
	addCase(t, b2, "0012")
	results, stats, err := Run(context.Background(), cfg, zerolog.Nop(), b2)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if results[0].State != batch.StateSucceeded {
		t.Errorf("State = %v, want reuse success (err %v)", results[0].State, results[0].Err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}

	// Force reruns and fails against the broken binary.
	cfg.Force = true
	b3 := batch.New()
	addCase(t, b3, "0012")
	results, stats, err = Run(context.Background(), cfg, zerolog.Nop(), b3)
	if err != nil {
		t.Fatalf("forced Run: %v", err)
	}
	if !results[0].Failed() {
		t.Error("--force must re-invoke the binary")
	}
	if stats.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0 under --force", stats.Skipped)
	}
}

func TestRun_DryRun(t *testing.T) {
	cfg := testConfig(t, fakeXfoil(t, `exit 1`)) // must never be spawned
	cfg.DryRun = true

	b := batch.New()
	addCase(t, b, "0012")

	results, stats, err := Run(context.Background(), cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].State != batch.StateSucceeded {
		t.Errorf("State = %v (err %v)", results[0].State, results[0].Err)
	}
	if stats.Succeeded != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if results[0].Polar != nil {
		t.Error("dry run must not produce a polar")
	}
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	bin := fakeXfoil(t, `cp "$sample" "$polar"`)
	cfg := testConfig(t, bin)

	b := batch.New()
	addCase(t, b, "0012")
	addCase(t, b, "2412")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, stats, err := Run(ctx, cfg, zerolog.Nop(), b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0 for pre-canceled context", len(results))
	}
	if stats.Completed() {
		t.Error("interrupted run must not report completion")
	}
}

func TestTail(t *testing.T) {
	if got := tail("", 3); got != "" {
		t.Errorf("tail empty = %q", got)
	}
	if got := tail("a\nb", 3); got != "a\nb" {
		t.Errorf("tail short = %q", got)
	}
	if got := tail("a\nb\nc\nd", 2); got != "c\nd" {
		t.Errorf("tail long = %q", got)
	}
}

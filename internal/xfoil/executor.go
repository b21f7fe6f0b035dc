package xfoil

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ExecResult holds the outcome of a single XFOIL invocation.
type ExecResult struct {
	// Output is the combined stdout/stderr of the process. XFOIL reports
	// convergence failures on stdout with a zero exit status, so both
	// streams are kept together for classification.
	Output string
	Err    error
}

// Options controls a single invocation.
type Options struct {
	// Verbose tees XFOIL's output to the terminal in real time; otherwise
	// it is captured silently for failure diagnostics.
	Verbose bool

	// Timeout bounds one invocation. XFOIL offers no cancellation of its
	// own — if it hangs, the run hangs — so this is the explicit hardening
	// knob. Zero disables it.
	Timeout time.Duration
}

// Execute pipes script into a fresh XFOIL process at binPath and waits for
// it to exit. The subprocess is scoped to ctx: cancellation (or the
// configured timeout) kills it, so no process outlives the call on any
// exit path.
func Execute(ctx context.Context, binPath, script string, opts Options) ExecResult {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdin = strings.NewReader(script)

	var buf bytes.Buffer
	if opts.Verbose {
		out := io.MultiWriter(&buf, os.Stdout)
		cmd.Stdout = out
		cmd.Stderr = out
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	return ExecResult{
		Output: buf.String(),
		Err:    err,
	}
}

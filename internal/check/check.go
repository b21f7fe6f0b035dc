// Package check provides XFOIL availability diagnostics: the interactive
// `foilrun check` flow and the pre-run validation the pipeline performs
// before touching a batch.
package check

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jberkman/foilrun/internal/batch"
	"github.com/jberkman/foilrun/internal/config"
	"github.com/jberkman/foilrun/internal/xfoil"
)

// smokeTimeout bounds the trivial scripted session used to verify the
// binary accepts piped input. A healthy XFOIL exits in milliseconds.
const smokeTimeout = 10 * time.Second

// smokeScript is the smallest useful session: quit from the top menu.
const smokeScript = "\nquit\n"

var reVersion = regexp.MustCompile(`XFOIL\s+Version\s+([0-9.]+)`)

// Resolve locates the XFOIL binary: an explicit path is used as-is, a bare
// name is looked up on PATH. Failure wraps batch.ErrEnvironment, which is
// fatal for a whole batch.
func Resolve(xfoilPath string) (string, error) {
	p, err := exec.LookPath(xfoilPath)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", batch.ErrEnvironment, xfoilPath, err)
	}
	return p, nil
}

// CheckDeps is the non-interactive pre-run validation: the binary must
// resolve and survive a trivial scripted session.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	bin, err := Resolve(cfg.XfoilPath)
	if err != nil {
		return err
	}
	res := xfoil.Execute(ctx, bin, smokeScript, xfoil.Options{Timeout: smokeTimeout})
	if res.Err != nil {
		return fmt.Errorf("%w: %q failed a trivial session: %v", batch.ErrEnvironment, bin, res.Err)
	}
	return nil
}

// RunCheck runs the interactive `foilrun check` flow: binary resolution,
// a smoke session, and the version banner. Informational only; it logs
// failures instead of stopping on them.
func RunCheck(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("=== system check ===")

	bin, err := Resolve(cfg.XfoilPath)
	if err != nil {
		log.Error().Str("path", cfg.XfoilPath).Msg("xfoil not found")
		return
	}
	log.Info().Str("binary", bin).Msg("xfoil found")

	res := xfoil.Execute(ctx, bin, smokeScript, xfoil.Options{Timeout: smokeTimeout})
	if res.Err != nil {
		log.Error().Err(res.Err).Msg("xfoil rejected a trivial scripted session")
		return
	}
	if v := Version(res.Output); v != "" {
		log.Info().Str("version", v).Msg("xfoil accepts piped input")
	} else {
		log.Warn().Msg("xfoil ran but printed no recognizable version banner")
	}
}

// Version extracts the version number from XFOIL's startup banner, or ""
// when absent.
func Version(output string) string {
	m := reVersion.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

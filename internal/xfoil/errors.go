package xfoil

import "regexp"

// Pre-compiled regexes for classifying XFOIL session output. Runs are never
// retried — the iteration limit is fixed when the batch is built — so these
// only label failed results with the condition XFOIL itself reported.
var (
	reConvergenceFailed = regexp.MustCompile(
		`VISCAL:\s+Convergence failed`)

	reLoadError = regexp.MustCompile(
		`(?i)File OPEN error|LOAD NOT COMPLETED|File READ error`)

	reBadNaca = regexp.MustCompile(
		`(?i)Enter NACA 4.*digit|not implemented`)
)

// MatchConvergenceFailure reports whether output contains a viscous
// convergence failure for at least one operating point.
func MatchConvergenceFailure(output string) bool {
	return reConvergenceFailed.MatchString(output)
}

// MatchLoadError reports whether output contains a geometry load failure.
func MatchLoadError(output string) bool {
	return reLoadError.MatchString(output)
}

// Classify returns a short label for the first recognized failure condition
// in output, or "" when nothing matched.
func Classify(output string) string {
	switch {
	case reLoadError.MatchString(output):
		return "geometry load failed"
	case reBadNaca.MatchString(output):
		return "invalid NACA designation"
	case reConvergenceFailed.MatchString(output):
		return "viscous solution did not converge"
	default:
		return ""
	}
}

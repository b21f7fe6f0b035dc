package batch

import "errors"

// Sentinel errors for the four failure kinds a run can produce, plus the
// write-once violation. Callers check them with errors.Is; wrapped errors
// carry the case-specific detail.
var (
	// ErrValidation is returned by Add when a case is missing required
	// fields or holds physically impossible values. The batch is left
	// unchanged.
	ErrValidation = errors.New("foilrun: invalid case")

	// ErrExecution marks a Result whose XFOIL invocation exited non-zero
	// or produced no readable output artifact. Other cases still run.
	ErrExecution = errors.New("foilrun: xfoil execution failed")

	// ErrParse marks a Result whose output artifact exists but never
	// contains rows with the expected column count.
	ErrParse = errors.New("foilrun: unparseable xfoil output")

	// ErrEnvironment is fatal for the whole batch: the XFOIL binary is
	// missing or cannot be spawned.
	ErrEnvironment = errors.New("foilrun: xfoil unavailable")

	// ErrBatchSealed is returned by Add once a run has started. A batch is
	// write-once/run-once; build a new one instead.
	ErrBatchSealed = errors.New("foilrun: batch already submitted")
)

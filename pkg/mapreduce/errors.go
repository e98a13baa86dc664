package mapreduce

import "fmt"

// MapAbortedError indicates a map pass failed: one of the chunk calls
// returned a permanent error or exhausted its backoff budget. Partial
// results were discarded.
type MapAbortedError struct {
	// Chunks is the number of chunks the pass dispatched.
	Chunks int

	// Cause is the chunk call error that aborted the pass.
	Cause error
}

// Error implements the error interface.
func (e *MapAbortedError) Error() string {
	return fmt.Sprintf("map phase aborted (%d chunks dispatched): %v", e.Chunks, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *MapAbortedError) Unwrap() error {
	return e.Cause
}

// ConvergenceError indicates a reduce run hit the round cap without the
// output shrinking below the improvement threshold. Surfaced to users as
// "could not reduce further".
type ConvergenceError struct {
	// Rounds is the number of passes executed before giving up.
	Rounds int
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("could not reduce further after %d rounds", e.Rounds)
}

package kelly

import "errors"

// Sentinel errors of the core. driveSolver returns ErrCancelled, and
// Allocate reports ErrNoFeasibleSolution's message; ErrNumerical and
// ErrInternal are not returned by any code path. Allocate and Analyze
// report failures through the Error wire type rather than as bare Go errors.
var (
	ErrNoFeasibleSolution = errors.New("no viable solution found for any activation pattern")
	ErrNumerical          = errors.New("numerical failure solving the allocation system")
	ErrCancelled          = errors.New("allocation cancelled")
	ErrInternal           = errors.New("internal invariant violation")
)

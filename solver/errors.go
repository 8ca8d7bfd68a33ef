// Package solver adjusts free sketch points until every driving
// constraint is satisfied, using damped Gauss-Newton iteration over the
// stacked residual vector.
package solver

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a solve gave up.
type FailureReason int

const (
	// DidNotConverge means the iteration cap was reached, or progress
	// stalled, while residuals were still above tolerance.
	DidNotConverge FailureReason = iota
	// Redundant means the system's Jacobian lost rank: constraints
	// duplicate or contradict each other and no adjustment of the free
	// points can satisfy them all.
	Redundant
)

// String returns the string representation of a FailureReason.
func (r FailureReason) String() string {
	switch r {
	case DidNotConverge:
		return "did not converge"
	case Redundant:
		return "redundant constraints"
	default:
		return "unknown"
	}
}

// SolveError reports a failed solve. The caller's sketch is untouched;
// the error carries the state of the attempt for diagnostics.
type SolveError struct {
	Reason     FailureReason
	Iterations int
	Residual   float64 // Largest residual magnitude at the final iterate
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solve failed after %d iterations: %s (max residual %.3g)", e.Iterations, e.Reason, e.Residual)
}

// IsDidNotConverge reports whether err is a SolveError with reason
// DidNotConverge.
func IsDidNotConverge(err error) bool {
	var se *SolveError
	return errors.As(err, &se) && se.Reason == DidNotConverge
}

// IsRedundant reports whether err is a SolveError with reason
// Redundant.
func IsRedundant(err error) bool {
	var se *SolveError
	return errors.As(err, &se) && se.Reason == Redundant
}

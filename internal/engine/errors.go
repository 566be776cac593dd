package engine

import "errors"

// ErrEmptyRoster is returned when optimize is called with no players. It is
// raised before any model construction or solver work.
var ErrEmptyRoster = errors.New("empty roster: no players to assign")

// ErrInvalidPlayer wraps input-shape failures (unknown position category,
// negative skill, missing id). Inputs are rejected, never coerced.
var ErrInvalidPlayer = errors.New("invalid player record")

// ErrSolverTimeout is returned when the solver budget was exhausted before
// any feasible assignment was found. Unlike InfeasibleRosterError it does not
// prove the roster cannot be split; retrying with a larger budget is a caller
// decision.
var ErrSolverTimeout = errors.New("solver budget exhausted before a feasible assignment was found")

// InfeasibleRosterError reports a roster that cannot be split into two valid
// teams, with a best-effort human-readable cause.
type InfeasibleRosterError struct {
	Reason string
}

func (e *InfeasibleRosterError) Error() string {
	return "infeasible roster: " + e.Reason
}

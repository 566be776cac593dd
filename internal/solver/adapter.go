package solver

import (
	"context"
	"time"
)

// Outcome classifies the result of one solver run.
type Outcome int

const (
	// OutcomeOptimal means the returned assignment provably minimizes |Gap|.
	OutcomeOptimal Outcome = iota
	// OutcomeFeasible means a valid assignment was found but the time budget
	// ran out before optimality was proven.
	OutcomeFeasible
	// OutcomeInfeasible means the constraints admit no assignment.
	OutcomeInfeasible
	// OutcomeTimeout means the budget was exhausted before any valid
	// assignment was found. Unlike OutcomeInfeasible it proves nothing.
	OutcomeTimeout
)

// String implements fmt.Stringer for log output.
func (o Outcome) String() string {
	switch o {
	case OutcomeOptimal:
		return "optimal"
	case OutcomeFeasible:
		return "feasible"
	case OutcomeInfeasible:
		return "infeasible"
	case OutcomeTimeout:
		return "timeout"
	}
	return "unknown"
}

// Solution is the answer from a backend. Assignment is indexed by variable-1
// and is only populated for OutcomeOptimal and OutcomeFeasible.
type Solution struct {
	Outcome    Outcome
	Assignment []bool
	Objective  int
}

// Adapter abstracts the external constraint solver: submit a model, get an
// assignment or infeasibility. Backends must be safe for concurrent use, with
// each Solve call operating only on its own model instance.
type Adapter interface {
	Solve(ctx context.Context, m *Model, budget time.Duration) (*Solution, error)
}

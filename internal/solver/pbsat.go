package solver

import (
	"context"
	"fmt"
	"time"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/sirupsen/logrus"
)

// PBSolver solves models with the gophersat pseudo-boolean engine. The
// minimal |Gap| is found by binary search on a bound: each probe asks the
// backend for any assignment with |Gap| <= k and tightens k from the best
// incumbent. The budget is enforced around each probe, so a run never blocks
// past its deadline even though a single backend call is not interruptible.
type PBSolver struct {
	logger *logrus.Logger
}

// NewPBSolver creates a gophersat-backed adapter.
func NewPBSolver(logger *logrus.Logger) *PBSolver {
	return &PBSolver{logger: logger}
}

// Solve implements Adapter.
func (p *PBSolver) Solve(ctx context.Context, m *Model, budget time.Duration) (*Solution, error) {
	if m.NumVars() == 0 {
		return nil, fmt.Errorf("model has no variables")
	}
	for _, c := range m.Constraints {
		for _, t := range c.Expr.Terms {
			if t.Var < 1 || t.Var > m.NumVars() {
				return nil, fmt.Errorf("constraint references unknown variable %d", t.Var)
			}
		}
	}

	deadline := time.Now().Add(budget)
	base, err := translateConstraints(m.Constraints)
	if err != nil {
		return nil, err
	}

	log := p.logger.WithFields(logrus.Fields{
		"variables":   m.NumVars(),
		"constraints": len(m.Constraints),
	})
	log.Debug("Submitting model to PB solver")

	probes := 0
	solveOnce := func(constrs []gophersat.PBConstr) (gophersat.Status, []bool) {
		probes++
		return p.runWithDeadline(ctx, deadline, constrs)
	}

	// Unbounded probe: establishes feasibility and the first incumbent.
	status, assignment := solveOnce(base)
	switch status {
	case gophersat.Unsat:
		log.Debug("Model proven infeasible")
		return &Solution{Outcome: OutcomeInfeasible}, nil
	case gophersat.Indet:
		log.Warn("Solver budget exhausted before any solution was found")
		return &Solution{Outcome: OutcomeTimeout}, nil
	}

	best := assignment
	bestObj := abs(m.Gap.Eval(assignment))

	// Tighten the gap bound until the incumbent is proven minimal.
	lo, hi := 0, bestObj-1
	for lo <= hi {
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			log.WithFields(logrus.Fields{
				"objective": bestObj,
				"probes":    probes,
			}).Info("Budget exhausted, returning best feasible solution")
			return &Solution{Outcome: OutcomeFeasible, Assignment: best, Objective: bestObj}, nil
		}

		mid := (lo + hi) / 2
		status, assignment = solveOnce(append(base, gapBound(m.Gap, mid)...))
		switch status {
		case gophersat.Sat:
			best = assignment
			bestObj = abs(m.Gap.Eval(assignment))
			hi = bestObj - 1
		case gophersat.Unsat:
			lo = mid + 1
		default: // Indet: probe timed out, incumbent stands
			return &Solution{Outcome: OutcomeFeasible, Assignment: best, Objective: bestObj}, nil
		}
	}

	log.WithFields(logrus.Fields{
		"objective": bestObj,
		"probes":    probes,
	}).Debug("Optimal solution proven")
	return &Solution{Outcome: OutcomeOptimal, Assignment: best, Objective: bestObj}, nil
}

type probeResult struct {
	status gophersat.Status
	model  []bool
}

// runWithDeadline runs one backend solve in a goroutine and abandons it when
// the deadline or context expires. An abandoned probe finishes on its own and
// is discarded; its result channel is buffered so it never leaks a goroutine
// forever.
func (p *PBSolver) runWithDeadline(ctx context.Context, deadline time.Time, constrs []gophersat.PBConstr) (gophersat.Status, []bool) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return gophersat.Indet, nil
	}

	ch := make(chan probeResult, 1)
	go func() {
		s := gophersat.New(gophersat.ParsePBConstrs(constrs))
		s.Verbose = false
		status := s.Solve()
		var model []bool
		if status == gophersat.Sat {
			model = s.Model()
		}
		ch <- probeResult{status: status, model: model}
	}()

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.status, res.model
	case <-ctx.Done():
		return gophersat.Indet, nil
	case <-timer.C:
		p.logger.Warn("Abandoning in-flight solver probe at deadline")
		return gophersat.Indet, nil
	}
}

// translateConstraints lowers the linear constraints onto pseudo-boolean
// at-least constraints with positive weights.
func translateConstraints(constraints []Constraint) ([]gophersat.PBConstr, error) {
	var out []gophersat.PBConstr
	for _, c := range constraints {
		bound := c.Bound - c.Expr.Const
		switch c.Op {
		case OpGtEq:
			out = appendAtLeast(out, c.Expr.Terms, bound)
		case OpLtEq:
			out = appendAtLeast(out, negateTerms(c.Expr.Terms), -bound)
		case OpEq:
			out = appendAtLeast(out, c.Expr.Terms, bound)
			out = appendAtLeast(out, negateTerms(c.Expr.Terms), -bound)
		default:
			return nil, fmt.Errorf("unknown constraint op %d", c.Op)
		}
	}
	return out, nil
}

// gapBound produces the two constraints enforcing |gap| <= k.
func gapBound(gap Linear, k int) []gophersat.PBConstr {
	var out []gophersat.PBConstr
	// gap >= -k
	out = appendAtLeast(out, gap.Terms, -k-gap.Const)
	// gap <= k
	out = appendAtLeast(out, negateTerms(gap.Terms), -(k - gap.Const))
	return out
}

// appendAtLeast normalizes sum(coef*var) >= bound into a PB constraint with
// strictly positive weights. A term with a negative coefficient w is rewritten
// as |w| times the negated literal, raising the bound by |w|.
func appendAtLeast(out []gophersat.PBConstr, terms []Term, bound int) []gophersat.PBConstr {
	lits := make([]int, 0, len(terms))
	weights := make([]int, 0, len(terms))
	for _, t := range terms {
		switch {
		case t.Coef > 0:
			lits = append(lits, t.Var)
			weights = append(weights, t.Coef)
		case t.Coef < 0:
			lits = append(lits, -t.Var)
			weights = append(weights, -t.Coef)
			bound += -t.Coef
		}
	}
	if bound <= 0 {
		// Trivially satisfied once all weights are positive.
		return out
	}
	return append(out, gophersat.GtEq(lits, weights, bound))
}

func negateTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package engine implements the fair-partition assignment pipeline: validate
// the roster, restore goalkeeper parity, build the constraint model, dispatch
// it to the solver and interpret the assignment into two team rosters. Each
// call is an independent, synchronous computation with no state shared across
// calls.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/logiflow/team-balancer/internal/models"
	"github.com/logiflow/team-balancer/internal/solver"
	"github.com/logiflow/team-balancer/pkg/logger"
)

// DefaultSolverTimeLimit bounds solver execution when the caller does not
// supply a budget.
const DefaultSolverTimeLimit = 10 * time.Second

// Options carries the per-call knobs. They are explicit parameters rather
// than ambient process state so identical calls stay reproducible.
type Options struct {
	SolverTimeLimit time.Duration
}

func (o Options) timeLimit() time.Duration {
	if o.SolverTimeLimit <= 0 {
		return DefaultSolverTimeLimit
	}
	return o.SolverTimeLimit
}

// Engine runs fair-partition optimizations against a pluggable solver
// backend. It is safe for concurrent use; every call builds its own model.
type Engine struct {
	adapter solver.Adapter
	logger  *logrus.Logger
}

// New creates an engine on top of the given solver adapter.
func New(adapter solver.Adapter, log *logrus.Logger) *Engine {
	return &Engine{adapter: adapter, logger: log}
}

// Optimize splits the roster into two teams with even goalkeeper coverage,
// near-equal outfield position counts and a minimal total-skill gap.
func (e *Engine) Optimize(ctx context.Context, players []models.PlayerRecord, opts Options) (*models.PartitionResult, error) {
	optimizationID := uuid.New().String()
	start := time.Now()
	log := logger.WithOptimizationID(optimizationID)

	if len(players) == 0 {
		return nil, ErrEmptyRoster
	}
	for _, p := range players {
		if p.IsGhost {
			return nil, fmt.Errorf("%w: player %s: is_ghost is reserved for injected placeholders", ErrInvalidPlayer, p.ID)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
		}
	}

	log.WithField("players", len(players)).Info("Starting roster optimization")

	roster, ghostInjected, err := injectGhost(players, log)
	if err != nil {
		return nil, err
	}

	am, err := buildModel(roster, log)
	if err != nil {
		return nil, err
	}

	sol, err := e.adapter.Solve(ctx, am.model, opts.timeLimit())
	if err != nil {
		return nil, fmt.Errorf("solver failed: %w", err)
	}

	result, err := interpret(am, sol, log)
	if err != nil {
		return nil, err
	}
	result.GhostInjected = ghostInjected
	result.OptimizationTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

// OptimizeCohorts groups the roster by birth-year cohort and balances each
// cohort independently. A cohort that cannot be split reports its error in
// place without failing the other cohorts.
func (e *Engine) OptimizeCohorts(ctx context.Context, players []models.PlayerRecord, opts Options) ([]models.CohortResult, error) {
	if len(players) == 0 {
		return nil, ErrEmptyRoster
	}

	groups := models.GroupByCohort(players)
	cohorts := make([]models.Cohort, 0, len(groups))
	for c := range groups {
		cohorts = append(cohorts, c)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i] < cohorts[j] })

	results := make([]models.CohortResult, 0, len(cohorts))
	for _, c := range cohorts {
		roster := groups[c]
		res := models.CohortResult{Cohort: c, Players: len(roster)}
		partition, err := e.Optimize(ctx, roster, opts)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"cohort":  c,
				"players": len(roster),
			}).WithError(err).Warn("Cohort could not be balanced")
			res.Error = err.Error()
		} else {
			res.Result = partition
		}
		results = append(results, res)
	}
	return results, nil
}

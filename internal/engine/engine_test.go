package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiflow/team-balancer/internal/models"
	"github.com/logiflow/team-balancer/internal/solver"
	"github.com/logiflow/team-balancer/pkg/logger"
)

func newTestEngine() *Engine {
	log := logger.InitLogger("error", false)
	return New(solver.NewPBSolver(log), log)
}

func player(id string, pos models.Position, skill int) models.PlayerRecord {
	return models.PlayerRecord{ID: id, Name: "Player " + id, Position: pos, SkillScore: skill}
}

func TestOptimize_FourPlayerScenario(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 10),
		player("gk2", models.PositionGoalkeeper, 8),
		player("d1", models.PositionDefender, 5),
		player("d2", models.PositionDefender, 5),
	}

	result, err := newTestEngine().Optimize(context.Background(), players, Options{})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "optimal", result.Outcome)
	assert.False(t, result.GhostInjected)
	assert.Len(t, result.TeamA.Members, 2)
	assert.Len(t, result.TeamB.Members, 2)
	assert.Equal(t, 1, result.TeamA.PositionCounts[models.PositionGoalkeeper])
	assert.Equal(t, 1, result.TeamB.PositionCounts[models.PositionGoalkeeper])

	// Brute-force minimum for this roster is |15-13| = 2.
	assert.Equal(t, 2, result.Objective)
	assert.Equal(t, result.Objective, absInt(result.TeamA.TotalSkill-result.TeamB.TotalSkill))
}

func TestOptimize_GhostInjectedAndExcluded(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 9),
		player("m1", models.PositionMidfielder, 7),
		player("m2", models.PositionMidfielder, 6),
	}

	result, err := newTestEngine().Optimize(context.Background(), players, Options{})
	require.NoError(t, err)
	assert.True(t, result.GhostInjected)

	// All three real players come back, the ghost does not.
	var members []string
	members = append(members, result.TeamA.Members...)
	members = append(members, result.TeamB.Members...)
	sort.Strings(members)
	assert.Equal(t, []string{"gk1", "m1", "m2"}, members)

	// Ghost skill is zero, so totals only reflect real players.
	assert.Equal(t, 9+7+6, result.TeamA.TotalSkill+result.TeamB.TotalSkill)

	// One team hosts the ghost and therefore shows one fewer visible member.
	sizes := []int{len(result.TeamA.Members), len(result.TeamB.Members)}
	sort.Ints(sizes)
	assert.Equal(t, []int{1, 2}, sizes)
}

func TestOptimize_NoGoalkeepersIsInfeasible(t *testing.T) {
	players := []models.PlayerRecord{
		player("d1", models.PositionDefender, 4),
		player("f1", models.PositionForward, 6),
	}

	result, err := newTestEngine().Optimize(context.Background(), players, Options{})
	require.Error(t, err)
	assert.Nil(t, result)

	var infeasible *InfeasibleRosterError
	require.ErrorAs(t, err, &infeasible)
	assert.Contains(t, infeasible.Reason, "goalkeeper")
}

func TestOptimize_EmptyRoster(t *testing.T) {
	result, err := newTestEngine().Optimize(context.Background(), nil, Options{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestOptimize_RejectsUnknownPosition(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 5),
		{ID: "x1", Name: "Sweeper", Position: "SW", SkillScore: 5},
	}

	_, err := newTestEngine().Optimize(context.Background(), players, Options{})
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestOptimize_RejectsGhostInInput(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 5),
		{ID: "g", Name: GhostName, Position: models.PositionGoalkeeper, IsGhost: true},
	}

	_, err := newTestEngine().Optimize(context.Background(), players, Options{})
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestOptimize_PartitionProperties(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 12),
		player("gk2", models.PositionGoalkeeper, 7),
		player("d1", models.PositionDefender, 9),
		player("d2", models.PositionDefender, 8),
		player("d3", models.PositionDefender, 3),
		player("m1", models.PositionMidfielder, 11),
		player("m2", models.PositionMidfielder, 6),
		player("f1", models.PositionForward, 10),
		player("f2", models.PositionForward, 5),
		player("f3", models.PositionForward, 4),
	}

	result, err := newTestEngine().Optimize(context.Background(), players, Options{})
	require.NoError(t, err)

	// Combined members exactly partition the input ids.
	var members []string
	members = append(members, result.TeamA.Members...)
	members = append(members, result.TeamB.Members...)
	require.Len(t, members, len(players))
	seen := make(map[string]bool, len(members))
	for _, id := range members {
		assert.False(t, seen[id], "duplicate member %s", id)
		seen[id] = true
	}
	for _, p := range players {
		assert.True(t, seen[p.ID], "missing member %s", p.ID)
	}

	// Exactly half the goalkeepers per team, every position within one.
	assert.Equal(t, 1, result.TeamA.PositionCounts[models.PositionGoalkeeper])
	assert.Equal(t, 1, result.TeamB.PositionCounts[models.PositionGoalkeeper])
	for _, pos := range models.Positions {
		diff := absInt(result.TeamA.PositionCounts[pos] - result.TeamB.PositionCounts[pos])
		assert.LessOrEqual(t, diff, 1, "position %s unbalanced", pos)
	}

	assert.Equal(t, bruteForceObjective(t, players), result.Objective)
}

func TestOptimize_MatchesBruteForceOnRandomRosters(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	outfield := []models.Position{models.PositionDefender, models.PositionMidfielder, models.PositionForward}
	eng := newTestEngine()

	for trial := 0; trial < 20; trial++ {
		size := 6 + rng.Intn(5) // 6..10 players, odd sizes included
		players := []models.PlayerRecord{
			player("gk1", models.PositionGoalkeeper, rng.Intn(40)),
			player("gk2", models.PositionGoalkeeper, rng.Intn(40)),
		}
		for i := len(players); i < size; i++ {
			pos := outfield[rng.Intn(len(outfield))]
			players = append(players, player(fmt.Sprintf("p%d", i), pos, rng.Intn(60)))
		}

		result, err := eng.Optimize(context.Background(), players, Options{})
		require.NoError(t, err, "trial %d", trial)
		assert.Equal(t, bruteForceObjective(t, players), result.Objective, "trial %d", trial)
	}
}

func TestOptimize_ObjectiveIsIdempotent(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 14),
		player("gk2", models.PositionGoalkeeper, 3),
		player("d1", models.PositionDefender, 9),
		player("m1", models.PositionMidfielder, 7),
		player("m2", models.PositionMidfielder, 7),
		player("f1", models.PositionForward, 2),
	}

	eng := newTestEngine()
	first, err := eng.Optimize(context.Background(), players, Options{})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := eng.Optimize(context.Background(), players, Options{})
		require.NoError(t, err)
		assert.Equal(t, first.Objective, again.Objective)
	}
}

func TestOptimize_ZeroBudgetTimesOut(t *testing.T) {
	players := []models.PlayerRecord{
		player("gk1", models.PositionGoalkeeper, 10),
		player("gk2", models.PositionGoalkeeper, 8),
		player("d1", models.PositionDefender, 5),
		player("d2", models.PositionDefender, 5),
	}

	_, err := newTestEngine().Optimize(context.Background(), players, Options{SolverTimeLimit: time.Nanosecond})
	assert.ErrorIs(t, err, ErrSolverTimeout)
}

func TestOptimizeCohorts_GroupsIndependently(t *testing.T) {
	older := func(id string, pos models.Position, skill int) models.PlayerRecord {
		p := player(id, pos, skill)
		p.BirthYear = 2006
		return p
	}
	younger := func(id string, pos models.Position, skill int) models.PlayerRecord {
		p := player(id, pos, skill)
		p.BirthYear = 2011
		return p
	}

	players := []models.PlayerRecord{
		older("o-gk1", models.PositionGoalkeeper, 10),
		older("o-gk2", models.PositionGoalkeeper, 9),
		older("o-d1", models.PositionDefender, 5),
		older("o-d2", models.PositionDefender, 4),
		// The young cohort has no goalkeeper and must fail on its own.
		younger("y-d1", models.PositionDefender, 3),
		younger("y-d2", models.PositionDefender, 2),
	}

	results, err := newTestEngine().OptimizeCohorts(context.Background(), players, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byCohort := make(map[models.Cohort]models.CohortResult)
	for _, r := range results {
		byCohort[r.Cohort] = r
	}

	oldCohort := byCohort[models.Cohort2007Earlier]
	require.NotNil(t, oldCohort.Result)
	assert.Empty(t, oldCohort.Error)
	assert.Equal(t, 4, oldCohort.Players)

	youngCohort := byCohort[models.Cohort2010Plus]
	assert.Nil(t, youngCohort.Result)
	assert.Contains(t, youngCohort.Error, "goalkeeper")
}

// bruteForceObjective enumerates every valid partition and returns the
// minimal skill gap, ghost-adjusting the roster the same way the engine does.
func bruteForceObjective(t *testing.T, players []models.PlayerRecord) int {
	t.Helper()

	goalkeepers := 0
	for _, p := range players {
		if p.Position == models.PositionGoalkeeper {
			goalkeepers++
		}
	}
	require.NotZero(t, goalkeepers)
	roster := players
	if goalkeepers%2 != 0 {
		roster = append(append([]models.PlayerRecord{}, players...), models.PlayerRecord{
			ID: "bf-ghost", Position: models.PositionGoalkeeper, IsGhost: true,
		})
	}

	n := len(roster)
	counts := models.CountByPosition(roster)
	best := -1
	for mask := 0; mask < 1<<n; mask++ {
		sizeA := 0
		skillA, skillTotal := 0, 0
		posA := make(map[models.Position]int)
		for i, p := range roster {
			skillTotal += p.SkillScore
			if mask&(1<<i) != 0 {
				sizeA++
				skillA += p.SkillScore
				posA[p.Position]++
			}
		}
		if sizeA < n/2 || sizeA > (n+1)/2 {
			continue
		}
		valid := true
		for pos, count := range counts {
			a := posA[pos]
			if pos == models.PositionGoalkeeper {
				if a != count/2 {
					valid = false
					break
				}
			} else if a < count/2 || a > (count+1)/2 {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		gap := absInt(2*skillA - skillTotal)
		if best < 0 || gap < best {
			best = gap
		}
	}
	require.GreaterOrEqual(t, best, 0, "brute force found no valid partition")
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

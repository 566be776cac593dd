package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/logiflow/team-balancer/internal/models"
	"github.com/logiflow/team-balancer/internal/solver"
)

// interpret turns a solver solution back into two team rosters. Ghosts are
// stripped from membership, skill totals and position counts before anything
// is returned to the caller.
func interpret(am *assignmentModel, sol *solver.Solution, log *logrus.Entry) (*models.PartitionResult, error) {
	switch sol.Outcome {
	case solver.OutcomeInfeasible:
		return nil, &InfeasibleRosterError{Reason: diagnoseInfeasibility(am.players)}
	case solver.OutcomeTimeout:
		return nil, ErrSolverTimeout
	}

	teams := [numTeams]models.TeamAssignment{}
	skills := [numTeams][]float64{}
	for t := range teams {
		teams[t] = models.TeamAssignment{
			TeamID:         t,
			Members:        []string{},
			PositionCounts: make(map[models.Position]int),
		}
	}

	for p, player := range am.players {
		team := -1
		for t := 0; t < numTeams; t++ {
			v := am.vars[p][t]
			if v-1 < len(sol.Assignment) && sol.Assignment[v-1] {
				team = t
				break
			}
		}
		if team < 0 {
			return nil, fmt.Errorf("solver assignment leaves player %s without a team", player.ID)
		}
		if player.IsGhost {
			continue
		}
		teams[team].Members = append(teams[team].Members, player.ID)
		teams[team].TotalSkill += player.SkillScore
		teams[team].PositionCounts[player.Position]++
		skills[team] = append(skills[team], float64(player.SkillScore))
	}

	for t := range teams {
		if len(skills[t]) > 0 {
			teams[t].SkillMean = stat.Mean(skills[t], nil)
		}
		if len(skills[t]) > 1 {
			teams[t].SkillStdDev = stat.StdDev(skills[t], nil)
		}
	}

	objective := teams[0].TotalSkill - teams[1].TotalSkill
	if objective < 0 {
		objective = -objective
	}

	log.WithFields(logrus.Fields{
		"outcome":      sol.Outcome.String(),
		"objective":    objective,
		"team_a_size":  len(teams[0].Members),
		"team_b_size":  len(teams[1].Members),
		"team_a_skill": teams[0].TotalSkill,
		"team_b_skill": teams[1].TotalSkill,
	}).Info("Partition interpreted")

	return &models.PartitionResult{
		TeamA:     teams[0],
		TeamB:     teams[1],
		Objective: objective,
		Outcome:   sol.Outcome.String(),
	}, nil
}

// diagnoseInfeasibility names the constraint family that most plausibly made
// the model unsatisfiable. The solver reports no conflict information, so
// this is best-effort.
func diagnoseInfeasibility(players []models.PlayerRecord) string {
	counts := models.CountByPosition(players)
	if counts[models.PositionGoalkeeper]%2 != 0 {
		return "goalkeeper count cannot be split evenly between two teams"
	}
	if len(players)%2 != 0 {
		return "roster size does not divide into two balanced teams"
	}
	return "position parity constraints cannot all be satisfied"
}

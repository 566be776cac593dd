package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/logiflow/team-balancer/internal/models"
	"github.com/logiflow/team-balancer/internal/solver"
)

const numTeams = 2

// assignmentModel ties the solver model back to the roster it was built
// from: vars[p][t] is the binary variable meaning player p plays on team t.
type assignmentModel struct {
	model   *solver.Model
	players []models.PlayerRecord
	vars    [][numTeams]int
}

// buildModel translates a ghost-adjusted roster into binary decision
// variables, the assignment and parity constraints, and the skill-gap
// objective. Goalkeeper counts must already be even here.
func buildModel(players []models.PlayerRecord, log *logrus.Entry) (*assignmentModel, error) {
	if len(players) == 0 {
		return nil, ErrEmptyRoster
	}

	m := solver.NewModel()
	am := &assignmentModel{
		model:   m,
		players: players,
		vars:    make([][numTeams]int, len(players)),
	}

	// One binary variable per (player, team), each player on exactly one team.
	for p := range players {
		for t := 0; t < numTeams; t++ {
			am.vars[p][t] = m.NewVar()
		}
		m.Add(solver.Sum(am.vars[p][0], am.vars[p][1]), solver.OpEq, 1)
	}

	// Team sizes: equal when the roster size is even, off by one otherwise.
	n := len(players)
	for t := 0; t < numTeams; t++ {
		size := teamVars(am, t)
		if n%2 == 0 {
			m.Add(size, solver.OpEq, n/2)
		} else {
			m.AddRange(size, n/2, n/2+1)
		}
	}

	// Goalkeepers split exactly; outfield positions within the floor/ceil band.
	counts := models.CountByPosition(players)
	for _, pos := range models.Positions {
		count := counts[pos]
		if count == 0 {
			continue
		}
		for t := 0; t < numTeams; t++ {
			expr := positionVars(am, pos, t)
			if pos == models.PositionGoalkeeper {
				m.Add(expr, solver.OpEq, count/2)
			} else {
				m.AddRange(expr, count/2, (count+1)/2)
			}
		}
	}

	// Objective: minimize |skill(team 0) - skill(team 1)|.
	var gap solver.Linear
	for p, player := range players {
		if player.SkillScore == 0 {
			continue
		}
		gap.Terms = append(gap.Terms,
			solver.Term{Var: am.vars[p][0], Coef: player.SkillScore},
			solver.Term{Var: am.vars[p][1], Coef: -player.SkillScore},
		)
	}
	m.SetGapObjective(gap)

	log.WithFields(logrus.Fields{
		"players":     n,
		"goalkeepers": counts[models.PositionGoalkeeper],
		"variables":   m.NumVars(),
		"constraints": len(m.Constraints),
	}).Debug("Assignment model built")

	return am, nil
}

func teamVars(am *assignmentModel, team int) solver.Linear {
	vars := make([]int, len(am.players))
	for p := range am.players {
		vars[p] = am.vars[p][team]
	}
	return solver.Sum(vars...)
}

func positionVars(am *assignmentModel, pos models.Position, team int) solver.Linear {
	var vars []int
	for p, player := range am.players {
		if player.Position == pos {
			vars = append(vars, am.vars[p][team])
		}
	}
	return solver.Sum(vars...)
}

package engine

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/logiflow/team-balancer/internal/models"
)

// GhostName labels the synthetic goalkeeper appended when the real
// goalkeeper count is odd.
const GhostName = "GHOST_GK_PLACEHOLDER"

// injectGhost restores goalkeeper parity. An even goalkeeper count passes
// through untouched; an odd count gets one zero-skill ghost goalkeeper
// appended so both teams can receive the same number. A roster with no
// goalkeepers at all is rejected outright: a single ghost cannot give both
// teams goalkeeper coverage.
func injectGhost(players []models.PlayerRecord, log *logrus.Entry) ([]models.PlayerRecord, bool, error) {
	goalkeepers := 0
	for _, p := range players {
		if p.Position == models.PositionGoalkeeper {
			goalkeepers++
		}
	}

	if goalkeepers == 0 {
		return nil, false, &InfeasibleRosterError{
			Reason: "roster has no goalkeepers; every team needs goalkeeper coverage",
		}
	}
	if goalkeepers%2 == 0 {
		return players, false, nil
	}

	ghost := models.PlayerRecord{
		ID:       "ghost-" + uuid.New().String(),
		Name:     GhostName,
		Position: models.PositionGoalkeeper,
		IsGhost:  true,
	}
	log.WithFields(logrus.Fields{
		"goalkeepers": goalkeepers,
		"ghost_id":    ghost.ID,
	}).Info("Odd goalkeeper count, injecting ghost goalkeeper")

	augmented := make([]models.PlayerRecord, len(players), len(players)+1)
	copy(augmented, players)
	return append(augmented, ghost), true, nil
}

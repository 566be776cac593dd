package models

import "fmt"

// Position is the normalized position category of a player. Normalization of
// free-text positions into this set happens upstream; the engine rejects
// anything outside it.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// Positions lists every valid position category, goalkeepers first.
var Positions = []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}

// Valid reports whether p is one of the four known categories.
func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	}
	return false
}

// Outfield reports whether p is a non-goalkeeper position.
func (p Position) Outfield() bool {
	return p.Valid() && p != PositionGoalkeeper
}

// PlayerRecord is the cleaned, scored representation of one player. Records
// are immutable inputs to an optimization call; the only record the engine
// ever creates itself is the ghost goalkeeper.
type PlayerRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Position   Position `json:"position"`
	SkillScore int      `json:"skill_score"`
	BirthYear  int      `json:"birth_year,omitempty"`
	IsGhost    bool     `json:"is_ghost,omitempty"`
}

// Validate rejects records the optimizer cannot accept. Validation fails
// closed: unknown positions are errors, never coerced.
func (p PlayerRecord) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player %q: missing id", p.Name)
	}
	if !p.Position.Valid() {
		return fmt.Errorf("player %s: unknown position category %q", p.ID, p.Position)
	}
	if p.SkillScore < 0 {
		return fmt.Errorf("player %s: negative skill score %d", p.ID, p.SkillScore)
	}
	return nil
}

// CountByPosition tallies players per position category, ghosts included.
func CountByPosition(players []PlayerRecord) map[Position]int {
	counts := make(map[Position]int, len(Positions))
	for _, p := range players {
		counts[p.Position]++
	}
	return counts
}

package models

// TeamAssignment is one side of a balanced partition. It is built once by the
// result interpreter and never mutated afterwards; ghosts are excluded from
// Members, TotalSkill and PositionCounts.
type TeamAssignment struct {
	TeamID         int              `json:"team_id"`
	Members        []string         `json:"members"`
	TotalSkill     int              `json:"total_skill"`
	PositionCounts map[Position]int `json:"position_counts"`
	SkillMean      float64          `json:"skill_mean"`
	SkillStdDev    float64          `json:"skill_std_dev"`
}

// PartitionResult is the outcome of one successful optimization call.
type PartitionResult struct {
	TeamA              TeamAssignment `json:"team_a"`
	TeamB              TeamAssignment `json:"team_b"`
	Objective          int            `json:"objective"`
	Outcome            string         `json:"outcome"` // "optimal" or "feasible"
	GhostInjected      bool           `json:"ghost_injected"`
	OptimizationTimeMs int64          `json:"optimization_time_ms"`
}

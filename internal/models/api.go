package models

// OptimizeRequest is the payload for POST /api/v1/optimize.
type OptimizeRequest struct {
	Players                []PlayerRecord `json:"players"`
	SolverTimeLimitSeconds float64        `json:"solver_time_limit_seconds,omitempty"`
}

// CohortResult is the per-cohort slice of a grouped optimization response.
// Exactly one of Result and Error is set.
type CohortResult struct {
	Cohort  Cohort           `json:"cohort"`
	Players int              `json:"players"`
	Result  *PartitionResult `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ErrorResponse is the standard error envelope for API responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

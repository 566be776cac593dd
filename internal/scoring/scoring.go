// Package scoring turns declared experience into a skill score. The exact
// weighting is a league policy choice, so it is configurable rather than
// hard-coded; the one contract every scorer must honor is monotonicity in
// declared experience years.
package scoring

import "strings"

// Scorer computes a non-negative skill score from declared experience years
// and a free-text playing-history blurb.
type Scorer interface {
	Score(experienceYears int, history string) int
}

// Weights parameterizes HistoryScorer. PerExperienceYear is added once per
// declared year; exactly one tier bonus applies based on the strongest
// keyword found in the history text.
type Weights struct {
	PerExperienceYear int
	TierElite         int // premier, academy, club
	TierVarsity       int // varsity, high school
	TierYouthLeague   int // ayso, aysa
	TierRecreational  int // jv, rec
	TierDefault       int // no recognized keyword
}

// DefaultWeights returns the league's standard scoring policy.
func DefaultWeights() Weights {
	return Weights{
		PerExperienceYear: 2,
		TierElite:         50,
		TierVarsity:       30,
		TierYouthLeague:   20,
		TierRecreational:  10,
		TierDefault:       15,
	}
}

// HistoryScorer scores players from experience years plus keyword matches in
// their competitive-history text.
type HistoryScorer struct {
	weights Weights
}

// NewHistoryScorer creates a scorer with the given weights.
func NewHistoryScorer(weights Weights) *HistoryScorer {
	return &HistoryScorer{weights: weights}
}

// Score implements Scorer.
func (s *HistoryScorer) Score(experienceYears int, history string) int {
	if experienceYears < 0 {
		experienceYears = 0
	}
	score := experienceYears * s.weights.PerExperienceYear

	text := strings.ToLower(history)
	switch {
	case containsAny(text, "premier", "academy", "club"):
		score += s.weights.TierElite
	case containsAny(text, "varsity", "high school"):
		score += s.weights.TierVarsity
	case containsAny(text, "ayso", "aysa"):
		score += s.weights.TierYouthLeague
	case containsAny(text, "jv", "rec"):
		score += s.weights.TierRecreational
	default:
		score += s.weights.TierDefault
	}
	return score
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

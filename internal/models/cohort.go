package models

// Cohort is a birth-year age group. Each cohort is balanced independently so
// players only ever face opponents of a similar age.
type Cohort string

const (
	Cohort2007Earlier Cohort = "group_2007_earlier"
	Cohort2008To2009  Cohort = "group_2008_2009"
	Cohort2010Plus    Cohort = "group_2010_plus"
)

// CohortFor maps a birth year onto its age group. A zero birth year (age data
// withheld upstream) falls into the youngest group.
func CohortFor(birthYear int) Cohort {
	switch {
	case birthYear == 0:
		return Cohort2010Plus
	case birthYear <= 2007:
		return Cohort2007Earlier
	case birthYear <= 2009:
		return Cohort2008To2009
	default:
		return Cohort2010Plus
	}
}

// GroupByCohort splits a roster into per-cohort rosters, preserving the input
// order within each cohort.
func GroupByCohort(players []PlayerRecord) map[Cohort][]PlayerRecord {
	groups := make(map[Cohort][]PlayerRecord)
	for _, p := range players {
		c := CohortFor(p.BirthYear)
		groups[c] = append(groups[c], p)
	}
	return groups
}

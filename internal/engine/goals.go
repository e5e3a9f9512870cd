package engine

import (
	"kvk-tracker/internal/domain"
	"math"
	"sort"
)

type GoalPercents struct {
	DkpPercent  float64
	DeadPercent float64
	// Bracket is the matched bracket index in MinPower order, -1 for the
	// flat fallback.
	Bracket int
}

// ResolveGoal picks the target percentages for a base power. Brackets are
// half-open [MinPower, MaxPower) and checked in ascending MinPower order;
// the first match wins. With no match the rule's flat pair applies.
func ResolveGoal(basePower float64, rule domain.GoalRule) GoalPercents {
	if len(rule.Brackets) > 0 {
		brackets := make([]domain.PowerBracket, len(rule.Brackets))
		copy(brackets, rule.Brackets)
		sort.SliceStable(brackets, func(i, j int) bool {
			return brackets[i].MinPower < brackets[j].MinPower
		})

		for i, b := range brackets {
			upper := math.Inf(1)
			if b.MaxPower != nil {
				upper = *b.MaxPower
			}
			if basePower >= b.MinPower && basePower < upper {
				return GoalPercents{DkpPercent: b.DkpPercent, DeadPercent: b.DeadPercent, Bracket: i}
			}
		}
	}

	return GoalPercents{DkpPercent: rule.DkpPercent, DeadPercent: rule.DeadPercent, Bracket: -1}
}

// ApplyGoals returns st with goal and attainment fields filled in. A player
// without a resolved baseline gets no goals. An attainment percent is only
// set when its goal is non-zero.
func ApplyGoals(st domain.AccumulatedPlayerStats, rule domain.GoalRule) domain.AccumulatedPlayerStats {
	st.DkpGoal, st.DkpPercent, st.DeadGoal, st.DeadPercent = nil, nil, nil, nil
	if st.BaseSource == domain.BaseNone {
		return st
	}

	base := float64(st.BasePower)
	pct := ResolveGoal(base, rule)

	dkpGoal := base * pct.DkpPercent / 100
	deadGoal := base * pct.DeadPercent / 100
	st.DkpGoal = &dkpGoal
	st.DeadGoal = &deadGoal
	st.DkpPercent = attainment(st.Score, dkpGoal)
	st.DeadPercent = attainment(float64(st.DeadDelta), deadGoal)
	return st
}

func attainment(achieved, goal float64) *float64 {
	if goal == 0 || math.IsNaN(goal) || math.IsInf(goal, 0) {
		return nil
	}
	p := achieved / goal * 100
	return &p
}

// HasGoal reports whether at least one goal is configured for the player.
func HasGoal(st domain.AccumulatedPlayerStats) bool {
	return st.DkpPercent != nil || st.DeadPercent != nil
}

// MissedGoal reports whether a configured goal was not reached.
func MissedGoal(st domain.AccumulatedPlayerStats) bool {
	if st.DkpPercent != nil && *st.DkpPercent < 100 {
		return true
	}
	return st.DeadPercent != nil && *st.DeadPercent < 100
}

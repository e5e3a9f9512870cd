package engine

import "kvk-tracker/internal/domain"

// Score applies the weight table to accumulated deltas. Disabled fields
// contribute nothing. No rounding is applied.
func Score(st domain.AccumulatedPlayerStats, w domain.ScoringWeights) float64 {
	var total float64
	for _, f := range []struct {
		weight domain.FieldWeight
		delta  int64
	}{
		{w.T1, st.T1Delta},
		{w.T2, st.T2Delta},
		{w.T3, st.T3Delta},
		{w.T4, st.T4Delta},
		{w.T5, st.T5Delta},
		{w.Dead, st.DeadDelta},
	} {
		if !f.weight.Enabled {
			continue
		}
		total += float64(f.delta) * f.weight.Points
	}
	return total
}

package engine

import (
	"fmt"
	"kvk-tracker/internal/domain"
)

// Accumulate sums per-player deltas over phases in order.
//
// A player is tracked from the first phase whose end snapshot contains them.
// Their BasePower is taken once, at that point, from the baseline snapshot
// when configured (see BaselinePolicy), else the phase start, else the phase
// end. Phases that reference unknown snapshots are skipped and reported as
// warnings. Phase lists must not repeat a phase: totals are additive.
func Accumulate(phases []domain.Phase, idx *Index, baselineSnapshotID string, policy domain.BaselinePolicy) (map[domain.PlayerID]domain.AccumulatedPlayerStats, []domain.Warning) {
	var warnings []domain.Warning
	acc := make(map[domain.PlayerID]*domain.AccumulatedPlayerStats)

	var baseline *domain.Snapshot
	if baselineSnapshotID != "" {
		if s, ok := idx.Get(baselineSnapshotID); ok {
			baseline = &s
		} else {
			warnings = append(warnings, domain.Warning{
				Code:       domain.WarnMissingBaselineSnapshot,
				SnapshotID: baselineSnapshotID,
				Message:    fmt.Sprintf("baseline snapshot %q not found, falling back to phase snapshots", baselineSnapshotID),
			})
		}
	}

	for _, phase := range phases {
		start, ok := idx.Get(phase.StartSnapshotID)
		if !ok {
			warnings = append(warnings, domain.Warning{
				Code:       domain.WarnMissingStartSnapshot,
				PhaseID:    phase.ID,
				SnapshotID: phase.StartSnapshotID,
				Message:    fmt.Sprintf("phase %q skipped: start snapshot %q not found", phase.Name, phase.StartSnapshotID),
			})
			continue
		}
		end, ok := idx.Get(phase.EndSnapshotID)
		if !ok {
			warnings = append(warnings, domain.Warning{
				Code:       domain.WarnMissingEndSnapshot,
				PhaseID:    phase.ID,
				SnapshotID: phase.EndSnapshotID,
				Message:    fmt.Sprintf("phase %q skipped: end snapshot %q not found", phase.Name, phase.EndSnapshotID),
			})
			continue
		}

		for id, curr := range end.Rows {
			var prev *domain.SnapshotRow
			if row, ok := start.Rows[id]; ok {
				prev = &row
			}

			st, tracked := acc[id]
			if !tracked {
				st = &domain.AccumulatedPlayerStats{PlayerID: id}
				st.BasePower, st.BaseSource = resolveBase(id, baseline, policy, prev, curr)
				acc[id] = st
			}

			st.Name = curr.Name
			st.Faction = curr.Faction
			addDeltas(st, Delta(prev, curr))
			st.PhasesParticipated++
		}
	}

	out := make(map[domain.PlayerID]domain.AccumulatedPlayerStats, len(acc))
	for id, st := range acc {
		out[id] = *st
	}
	return out, warnings
}

func resolveBase(id domain.PlayerID, baseline *domain.Snapshot, policy domain.BaselinePolicy, start *domain.SnapshotRow, end domain.SnapshotRow) (int64, domain.BaseSource) {
	if baseline != nil {
		if row, ok := baseline.Rows[id]; ok {
			return row.Power, domain.BaseFromEvent
		}
		if policy == domain.BaselineEventOnly {
			return 0, domain.BaseNone
		}
	}
	if start != nil {
		return start.Power, domain.BaseFromPhaseStart
	}
	return end.Power, domain.BaseFromPhaseEnd
}

func addDeltas(st *domain.AccumulatedPlayerStats, d FieldDeltas) {
	st.PowerDelta += d.Power
	st.T1Delta += d.T1Kills
	st.T2Delta += d.T2Kills
	st.T3Delta += d.T3Kills
	st.T4Delta += d.T4Kills
	st.T5Delta += d.T5Kills
	st.DeadDelta += d.DeadTroops
	st.KillPointsDelta += d.KillPoints
}

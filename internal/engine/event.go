package engine

import (
	"fmt"
	"kvk-tracker/internal/domain"
	"sort"
)

type EventResult struct {
	EventID   string
	Stats     map[domain.PlayerID]domain.AccumulatedPlayerStats
	Attrition map[domain.PlayerID]struct{}
	Warnings  []domain.Warning
}

// ComputeEvent accumulates the event's phases, scores every player, resolves
// goals and runs attrition detection.
func ComputeEvent(idx *Index, ev domain.Event) EventResult {
	policy := ev.BaselinePolicy
	if policy == "" {
		policy = domain.BaselinePreferEvent
	}

	acc, warnings := Accumulate(ev.Phases, idx, ev.BaselineSnapshotID, policy)

	stats := make(map[domain.PlayerID]domain.AccumulatedPlayerStats, len(acc))
	for id, st := range acc {
		st.Score = Score(st, ev.Scoring)
		stats[id] = ApplyGoals(st, ev.Goals)
	}

	return EventResult{
		EventID:   ev.ID,
		Stats:     stats,
		Attrition: DetectAttrition(EventSnapshotIDs(ev), idx.ordered),
		Warnings:  warnings,
	}
}

type SortKey string

const (
	SortScore      SortKey = "score"
	SortPower      SortKey = "power"
	SortKillPoints SortKey = "killpoints"
	SortDead       SortKey = "dead"
	SortDkpPercent SortKey = "dkp"
	SortBasePower  SortKey = "base"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortScore, SortPower, SortKillPoints, SortDead, SortDkpPercent, SortBasePower:
		return k, nil
	case "":
		return SortScore, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Rank orders stats descending by key, ties broken by player id. Players
// without a DKP goal sort after every player with one under SortDkpPercent.
func Rank(stats map[domain.PlayerID]domain.AccumulatedPlayerStats, key SortKey) []domain.AccumulatedPlayerStats {
	out := make([]domain.AccumulatedPlayerStats, 0, len(stats))
	for _, st := range stats {
		out = append(out, st)
	}

	value := func(st domain.AccumulatedPlayerStats) (float64, bool) {
		switch key {
		case SortPower:
			return float64(st.PowerDelta), true
		case SortKillPoints:
			return float64(st.KillPointsDelta), true
		case SortDead:
			return float64(st.DeadDelta), true
		case SortBasePower:
			return float64(st.BasePower), true
		case SortDkpPercent:
			if st.DkpPercent == nil {
				return 0, false
			}
			return *st.DkpPercent, true
		default:
			return st.Score, true
		}
	}

	sort.Slice(out, func(i, j int) bool {
		vi, oki := value(out[i])
		vj, okj := value(out[j])
		if oki != okj {
			return oki
		}
		if vi != vj {
			return vi > vj
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

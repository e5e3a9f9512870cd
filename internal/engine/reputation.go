package engine

import (
	"kvk-tracker/internal/domain"
	"sort"
)

// ReputationProgression folds snapshots in the given order into per-player
// histories and per-snapshot totals. Values are taken as-is.
func ReputationProgression(snapshots []domain.Snapshot) domain.ReputationProgression {
	prog := domain.ReputationProgression{
		History: make(map[domain.PlayerID][]domain.ReputationPoint),
		Totals:  make([]domain.SnapshotTotal, 0, len(snapshots)),
	}

	for _, s := range snapshots {
		total := domain.SnapshotTotal{SnapshotID: s.ID, Label: s.Label}
		for id, row := range s.Rows {
			prog.History[id] = append(prog.History[id], domain.ReputationPoint{
				SnapshotID: s.ID,
				Label:      s.Label,
				Reputation: row.Reputation,
			})
			total.Total += row.Reputation
		}
		prog.Totals = append(prog.Totals, total)
	}
	return prog
}

// ReputationChanges is the signed reputation difference per player between two
// snapshots, for players present at the end. Players absent at the start
// count from zero. Sorted by change descending, then player id.
func ReputationChanges(start, end domain.Snapshot) []domain.ReputationChange {
	out := make([]domain.ReputationChange, 0, len(end.Rows))
	for id, row := range end.Rows {
		c := domain.ReputationChange{PlayerID: id, Name: row.Name, End: row.Reputation}
		if prev, ok := start.Rows[id]; ok {
			c.Start = prev.Reputation
		}
		c.Change = c.End - c.Start
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Change != out[j].Change {
			return out[i].Change > out[j].Change
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

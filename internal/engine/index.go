// Package engine turns roster snapshots into per-player progression, scores,
// goal attainment and the migration review list.
//
// Everything here is a pure function over its inputs. Results are rebuilt on
// every call and nothing is cached, so independent events can be computed
// concurrently against the same Index.
package engine

import (
	"kvk-tracker/internal/columns"
	"kvk-tracker/internal/domain"
	"sort"
)

// Index is an immutable, ordered set of snapshots.
type Index struct {
	ordered  []domain.Snapshot
	position map[string]int
}

// NewIndex resolves the headers of every raw snapshot and orders the result
// by upload time, then label, then id.
func NewIndex(raws []domain.RawSnapshot) *Index {
	snaps := make([]domain.Snapshot, 0, len(raws))
	for _, raw := range raws {
		snaps = append(snaps, columns.Build(raw))
	}
	return NewIndexFromSnapshots(snaps)
}

func NewIndexFromSnapshots(snaps []domain.Snapshot) *Index {
	ordered := make([]domain.Snapshot, len(snaps))
	copy(ordered, snaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.UploadedAt.Equal(b.UploadedAt) {
			return a.UploadedAt.Before(b.UploadedAt)
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.ID < b.ID
	})

	position := make(map[string]int, len(ordered))
	for i, s := range ordered {
		position[s.ID] = i
	}

	return &Index{ordered: ordered, position: position}
}

func (x *Index) Len() int {
	return len(x.ordered)
}

func (x *Index) Get(id string) (domain.Snapshot, bool) {
	i, ok := x.position[id]
	if !ok {
		return domain.Snapshot{}, false
	}
	return x.ordered[i], true
}

// Ordered returns the snapshots in order. The slice is a copy; the row maps
// are shared and must not be modified.
func (x *Index) Ordered() []domain.Snapshot {
	out := make([]domain.Snapshot, len(x.ordered))
	copy(out, x.ordered)
	return out
}

// Between returns the inclusive range from fromID to toID. An empty bound is
// open. Unknown ids or a reversed range give an empty result.
func (x *Index) Between(fromID, toID string) []domain.Snapshot {
	lo, hi := 0, len(x.ordered)-1
	if fromID != "" {
		i, ok := x.position[fromID]
		if !ok {
			return nil
		}
		lo = i
	}
	if toID != "" {
		i, ok := x.position[toID]
		if !ok {
			return nil
		}
		hi = i
	}
	if lo > hi {
		return nil
	}
	out := make([]domain.Snapshot, hi-lo+1)
	copy(out, x.ordered[lo:hi+1])
	return out
}

// LastSeen returns the latest row recorded for a player.
func (x *Index) LastSeen(id domain.PlayerID) (domain.SnapshotRow, bool) {
	for i := len(x.ordered) - 1; i >= 0; i-- {
		if row, ok := x.ordered[i].Rows[id]; ok {
			return row, true
		}
	}
	return domain.SnapshotRow{}, false
}

package engine

import (
	"kvk-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexOrdering(t *testing.T) {
	raws := []domain.RawSnapshot{
		{ID: "late", Label: "b", UploadedAt: t0.AddDate(0, 0, 2), Headers: []string{"ID", "Power"}, Rows: [][]string{{"1", "10"}}},
		{ID: "tie-b", Label: "b", UploadedAt: t0, Headers: []string{"ID"}},
		{ID: "tie-a", Label: "a", UploadedAt: t0, Headers: []string{"ID"}},
	}
	idx := NewIndex(raws)
	require.Equal(t, 3, idx.Len())

	var order []string
	for _, s := range idx.Ordered() {
		order = append(order, s.ID)
	}
	assert.Equal(t, []string{"tie-a", "tie-b", "late"}, order)

	late, ok := idx.Get("late")
	require.True(t, ok)
	assert.Equal(t, int64(10), late.Rows["1"].Power)

	_, ok = idx.Get("missing")
	assert.False(t, ok)
}

func TestIndexBetween(t *testing.T) {
	idx := NewIndexFromSnapshots([]domain.Snapshot{
		snap("s1", 0, nil), snap("s2", 1, nil), snap("s3", 2, nil),
	})

	assert.Len(t, idx.Between("", ""), 3)
	assert.Len(t, idx.Between("s2", ""), 2)
	assert.Len(t, idx.Between("", "s2"), 2)
	assert.Len(t, idx.Between("s2", "s2"), 1)
	assert.Empty(t, idx.Between("s3", "s1"))
	assert.Empty(t, idx.Between("nope", ""))
}

func TestIndexLastSeen(t *testing.T) {
	idx := NewIndexFromSnapshots([]domain.Snapshot{
		snap("s1", 0, map[domain.PlayerID]domain.SnapshotRow{"p": {Name: "old"}}),
		snap("s2", 1, map[domain.PlayerID]domain.SnapshotRow{"p": {Name: "new"}}),
		snap("s3", 2, map[domain.PlayerID]domain.SnapshotRow{}),
	})
	row, ok := idx.LastSeen("p")
	require.True(t, ok)
	assert.Equal(t, "new", row.Name)

	_, ok = idx.LastSeen("ghost")
	assert.False(t, ok)
}

func TestReputationProgression(t *testing.T) {
	s1 := snap("s1", 0, map[domain.PlayerID]domain.SnapshotRow{"a": {Reputation: 10}, "b": {Reputation: 5}})
	s2 := snap("s2", 1, map[domain.PlayerID]domain.SnapshotRow{"a": {Reputation: 7}})

	prog := ReputationProgression([]domain.Snapshot{s1, s2})
	assert.Equal(t, []domain.SnapshotTotal{
		{SnapshotID: "s1", Label: "s1", Total: 15},
		{SnapshotID: "s2", Label: "s2", Total: 7},
	}, prog.Totals)
	assert.Equal(t, []domain.ReputationPoint{
		{SnapshotID: "s1", Label: "s1", Reputation: 10},
		{SnapshotID: "s2", Label: "s2", Reputation: 7},
	}, prog.History["a"])
	assert.Len(t, prog.History["b"], 1)

	empty := ReputationProgression(nil)
	assert.Empty(t, empty.History)
	assert.Empty(t, empty.Totals)
}

func TestReputationChanges(t *testing.T) {
	start := snap("s1", 0, map[domain.PlayerID]domain.SnapshotRow{"a": {Reputation: 10}, "gone": {Reputation: 3}})
	end := snap("s2", 1, map[domain.PlayerID]domain.SnapshotRow{"a": {Name: "A", Reputation: 4}, "new": {Reputation: 9}})

	got := ReputationChanges(start, end)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ReputationChange{PlayerID: "new", Start: 0, End: 9, Change: 9}, got[0])
	assert.Equal(t, domain.ReputationChange{PlayerID: "a", Name: "A", Start: 10, End: 4, Change: -6}, got[1])
}

package engine

import (
	"kvk-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(ids ...domain.PlayerID) map[domain.PlayerID]struct{} {
	out := make(map[domain.PlayerID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestGoalFailures(t *testing.T) {
	stats := map[domain.PlayerID]domain.AccumulatedPlayerStats{
		"under":  {PlayerID: "under", DkpPercent: ptr(40)},
		"met":    {PlayerID: "met", DkpPercent: ptr(100), DeadPercent: ptr(150)},
		"dead":   {PlayerID: "dead", DkpPercent: ptr(120), DeadPercent: ptr(99)},
		"nogoal": {PlayerID: "nogoal", Score: 0},
	}
	assert.Equal(t, set("under", "dead"), GoalFailures(stats))
}

func TestCompose(t *testing.T) {
	got := Compose(set("g1", "x"), set("a1", "g1"), set("m1"), set("x", "nobody"))
	assert.Equal(t, []domain.PlayerID{"a1", "g1", "m1"}, got)
	assert.Empty(t, Compose(nil, nil, nil, nil))
}

func TestBuildMigrationList(t *testing.T) {
	idx := NewIndexFromSnapshots([]domain.Snapshot{
		snap("s1", 0, map[domain.PlayerID]domain.SnapshotRow{
			"left":   {Name: "Leaver", Faction: "OLD"},
			"manual": {Name: "Manual", Faction: "ABC"},
		}),
	})

	stats := map[domain.PlayerID]domain.AccumulatedPlayerStats{
		"weak":   {PlayerID: "weak", Name: "Weak", DkpPercent: ptr(10)},
		"strong": {PlayerID: "strong", Name: "Strong", DkpPercent: ptr(200)},
		"both":   {PlayerID: "both", Name: "Both", DkpPercent: ptr(50)},
		"skip":   {PlayerID: "skip", Name: "Skip", DkpPercent: ptr(1)},
	}

	state := domain.NewMigrationState("ev")
	state.Adds = set("manual")
	state.Excludes = set("skip")
	state.Migrated = set("weak")
	state.Unmigrated = set("both")
	state.Annotations["weak"] = domain.Annotation{Reason: "zeroed", Contacted: true, Notes: "pinged"}
	state.Annotations["strong"] = domain.Annotation{Notes: "kept"}

	entries := BuildMigrationList(stats, set("left", "both"), state, idx)
	require.Len(t, entries, 4)

	byID := map[domain.PlayerID]domain.MigrationEntry{}
	for _, e := range entries {
		byID[e.PlayerID] = e
	}

	weak := byID["weak"]
	assert.Equal(t, []domain.MigrationCause{domain.CauseGoal}, weak.Causes)
	assert.Equal(t, domain.OverrideYes, weak.Override)
	assert.True(t, weak.Migrated)
	assert.False(t, weak.AutoMigrated)
	assert.Equal(t, "zeroed", weak.Reason)
	assert.True(t, weak.Contacted)
	assert.Equal(t, "pinged", weak.Notes)

	both := byID["both"]
	assert.Equal(t, []domain.MigrationCause{domain.CauseGoal, domain.CauseAttrition}, both.Causes)
	assert.True(t, both.AutoMigrated)
	assert.False(t, both.Migrated, "manual unmigrated beats the automatic flag")
	assert.Equal(t, domain.OverrideNo, both.Override)

	left := byID["left"]
	assert.Equal(t, "Leaver", left.Name)
	assert.Equal(t, "OLD", left.Faction)
	assert.True(t, left.Migrated)
	assert.Equal(t, domain.OverrideUnset, left.Override)
	assert.Nil(t, left.DkpPercent)

	manual := byID["manual"]
	assert.Equal(t, []domain.MigrationCause{domain.CauseManual}, manual.Causes)
	assert.Equal(t, "Manual", manual.Name)
	assert.False(t, manual.Migrated)

	_, ok := byID["skip"]
	assert.False(t, ok)
	_, ok = byID["strong"]
	assert.False(t, ok)
	assert.Equal(t, "kept", state.Annotations["strong"].Notes, "state for players off the list is untouched")
}

func TestBuildMigrationListMigratedWinsOverUnmigrated(t *testing.T) {
	state := domain.NewMigrationState("ev")
	state.Adds = set("p")
	state.Migrated = set("p")
	state.Unmigrated = set("p")

	entries := BuildMigrationList(nil, nil, state, nil)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Migrated)
	assert.Equal(t, domain.OverrideYes, entries[0].Override)
}

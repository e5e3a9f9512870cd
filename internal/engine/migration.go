package engine

import (
	"kvk-tracker/internal/domain"
	"sort"
)

type playerSet = map[domain.PlayerID]struct{}

// GoalFailures returns players with at least one configured goal below 100%.
// Players without any configured goal are not failures.
func GoalFailures(stats map[domain.PlayerID]domain.AccumulatedPlayerStats) playerSet {
	out := make(playerSet)
	for id, st := range stats {
		if MissedGoal(st) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Compose unions goal failures, attrition and manual additions, then removes
// manual exclusions. The result is sorted by player id.
func Compose(goalFailures, attrition, adds, excludes playerSet) []domain.PlayerID {
	union := make(playerSet, len(goalFailures)+len(attrition)+len(adds))
	for _, set := range []playerSet{goalFailures, attrition, adds} {
		for id := range set {
			union[id] = struct{}{}
		}
	}
	for id := range excludes {
		delete(union, id)
	}

	ids := make([]domain.PlayerID, 0, len(union))
	for id := range union {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuildMigrationList composes the review list for an event and layers the
// manual state on top. Players on the list without accumulated stats (manual
// additions, or players who left before the event's phases) are filled from
// their last known snapshot row.
//
// The effective status is: manual migrated, else manual unmigrated, else the
// attrition flag.
func BuildMigrationList(stats map[domain.PlayerID]domain.AccumulatedPlayerStats, attrition playerSet, state domain.MigrationState, idx *Index) []domain.MigrationEntry {
	failures := GoalFailures(stats)
	ids := Compose(failures, attrition, state.Adds, state.Excludes)

	entries := make([]domain.MigrationEntry, 0, len(ids))
	for _, id := range ids {
		st, ok := stats[id]
		if !ok {
			st = domain.AccumulatedPlayerStats{PlayerID: id, BaseSource: domain.BaseNone}
			if idx != nil {
				if row, seen := idx.LastSeen(id); seen {
					st.Name = row.Name
					st.Faction = row.Faction
				}
			}
		}

		entry := domain.MigrationEntry{AccumulatedPlayerStats: st}
		if _, ok := failures[id]; ok {
			entry.Causes = append(entry.Causes, domain.CauseGoal)
		}
		if _, ok := attrition[id]; ok {
			entry.Causes = append(entry.Causes, domain.CauseAttrition)
			entry.AutoMigrated = true
		}
		if _, ok := state.Adds[id]; ok {
			entry.Causes = append(entry.Causes, domain.CauseManual)
		}

		if a, ok := state.Annotations[id]; ok {
			entry.Reason = a.Reason
			entry.Contacted = a.Contacted
			entry.Notes = a.Notes
		}

		_, migrated := state.Migrated[id]
		_, unmigrated := state.Unmigrated[id]
		switch {
		case migrated:
			entry.Override = domain.OverrideYes
			entry.Migrated = true
		case unmigrated:
			entry.Override = domain.OverrideNo
			entry.Migrated = false
		default:
			entry.Override = domain.OverrideUnset
			entry.Migrated = entry.AutoMigrated
		}

		entries = append(entries, entry)
	}
	return entries
}

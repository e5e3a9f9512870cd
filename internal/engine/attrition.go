package engine

import "kvk-tracker/internal/domain"

// EventSnapshotIDs is the set of snapshots an event touches: every phase
// start and end plus the baseline.
func EventSnapshotIDs(ev domain.Event) map[string]struct{} {
	ids := make(map[string]struct{}, len(ev.Phases)*2+1)
	for _, p := range ev.Phases {
		if p.StartSnapshotID != "" {
			ids[p.StartSnapshotID] = struct{}{}
		}
		if p.EndSnapshotID != "" {
			ids[p.EndSnapshotID] = struct{}{}
		}
	}
	if ev.BaselineSnapshotID != "" {
		ids[ev.BaselineSnapshotID] = struct{}{}
	}
	return ids
}

// DetectAttrition flags players seen in any of the event's snapshots up to
// and including the latest one (the anchor) who are missing from the anchor
// or from any snapshot after it. Flags are never cleared by a later snapshot
// that has the player again.
func DetectAttrition(eventSnapshotIDs map[string]struct{}, ordered []domain.Snapshot) map[domain.PlayerID]struct{} {
	migrated := make(map[domain.PlayerID]struct{})

	anchor := -1
	for i, s := range ordered {
		if _, ok := eventSnapshotIDs[s.ID]; ok {
			anchor = i
		}
	}
	if anchor < 0 {
		return migrated
	}

	seen := make(map[domain.PlayerID]struct{})
	for _, s := range ordered[:anchor+1] {
		if _, ok := eventSnapshotIDs[s.ID]; !ok {
			continue
		}
		for id := range s.Rows {
			seen[id] = struct{}{}
		}
	}

	for _, later := range ordered[anchor:] {
		for id := range seen {
			if _, ok := later.Rows[id]; !ok {
				migrated[id] = struct{}{}
			}
		}
	}
	return migrated
}

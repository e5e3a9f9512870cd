package domain

import "time"

type Override string

const (
	OverrideUnset Override = ""
	OverrideYes   Override = "yes"
	OverrideNo    Override = "no"
)

type MigrationCause string

const (
	CauseGoal      MigrationCause = "goal"
	CauseAttrition MigrationCause = "attrition"
	CauseManual    MigrationCause = "manual"
)

// Annotation is reviewer-entered data for one player on an event's list.
type Annotation struct {
	Reason    string
	Contacted bool
	Notes     string
	UpdatedAt time.Time
}

// MigrationState is the manual review state for one event. It is owned by the
// caller; the engine only reads it.
type MigrationState struct {
	EventID     string
	Adds        map[PlayerID]struct{}
	Excludes    map[PlayerID]struct{}
	Migrated    map[PlayerID]struct{}
	Unmigrated  map[PlayerID]struct{}
	Annotations map[PlayerID]Annotation
}

func NewMigrationState(eventID string) MigrationState {
	return MigrationState{
		EventID:     eventID,
		Adds:        map[PlayerID]struct{}{},
		Excludes:    map[PlayerID]struct{}{},
		Migrated:    map[PlayerID]struct{}{},
		Unmigrated:  map[PlayerID]struct{}{},
		Annotations: map[PlayerID]Annotation{},
	}
}

type MigrationEntry struct {
	AccumulatedPlayerStats
	Causes       []MigrationCause
	Reason       string
	Contacted    bool
	Notes        string
	Override     Override
	AutoMigrated bool
	Migrated     bool
}

type ReputationPoint struct {
	SnapshotID string
	Label      string
	Reputation int64
}

type SnapshotTotal struct {
	SnapshotID string
	Label      string
	Total      int64
}

type ReputationProgression struct {
	History map[PlayerID][]ReputationPoint
	Totals  []SnapshotTotal
}

type ReputationChange struct {
	PlayerID PlayerID
	Name     string
	Start    int64
	End      int64
	Change   int64
}

// MigrationPatch changes a player's manual state. Nil fields are left as-is.
type MigrationPatch struct {
	Add       *bool
	Exclude   *bool
	Override  *Override
	Contacted *bool
	Reason    *string
	Notes     *string
}

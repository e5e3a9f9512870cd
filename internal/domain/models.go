package domain

import (
	"time"
)

type PlayerID string

// RawSnapshot is an upload as it comes out of the parser: free-text headers
// plus string cells. Column meaning is resolved later.
type RawSnapshot struct {
	ID         string
	Label      string
	UploadedAt time.Time
	Headers    []string
	Rows       [][]string
}

type Snapshot struct {
	ID         string
	Label      string
	UploadedAt time.Time
	Rows       map[PlayerID]SnapshotRow
}

type SnapshotRow struct {
	Name       string
	Faction    string
	Power      int64
	T1Kills    int64
	T2Kills    int64
	T3Kills    int64
	T4Kills    int64
	T5Kills    int64
	DeadTroops int64
	KillPoints int64
	Reputation int64
}

// SnapshotInfo is snapshot metadata without rows.
type SnapshotInfo struct {
	ID         string
	Label      string
	UploadedAt time.Time
	RowCount   int
	CreatedAt  time.Time
}

type Phase struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	StartSnapshotID string `yaml:"start"`
	EndSnapshotID   string `yaml:"end"`
}

type BaselinePolicy string

const (
	// event baseline, then phase start, then phase end
	BaselinePreferEvent BaselinePolicy = "prefer-event"
	// event baseline only when one is configured
	BaselineEventOnly BaselinePolicy = "event-only"
)

type Event struct {
	ID                 string         `yaml:"id"`
	Name               string         `yaml:"name"`
	Phases             []Phase        `yaml:"phases"`
	Scoring            ScoringWeights `yaml:"scoring"`
	Goals              GoalRule       `yaml:"goals"`
	BaselineSnapshotID string         `yaml:"baseline"`
	BaselinePolicy     BaselinePolicy `yaml:"baseline_policy"`
	CreatedAt          time.Time      `yaml:"-"`
	UpdatedAt          time.Time      `yaml:"-"`
}

type FieldWeight struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Points  float64 `yaml:"points" json:"points"`
}

type ScoringWeights struct {
	T1   FieldWeight `yaml:"t1" json:"t1"`
	T2   FieldWeight `yaml:"t2" json:"t2"`
	T3   FieldWeight `yaml:"t3" json:"t3"`
	T4   FieldWeight `yaml:"t4" json:"t4"`
	T5   FieldWeight `yaml:"t5" json:"t5"`
	Dead FieldWeight `yaml:"dead" json:"dead"`
}

// GoalRule maps base power to target percentages. DkpPercent/DeadPercent are
// the flat fallback used when no bracket matches.
type GoalRule struct {
	Brackets    []PowerBracket `yaml:"brackets" json:"brackets"`
	DkpPercent  float64        `yaml:"dkp_percent" json:"dkp_percent"`
	DeadPercent float64        `yaml:"dead_percent" json:"dead_percent"`
}

// PowerBracket covers [MinPower, MaxPower). A nil MaxPower is unbounded.
type PowerBracket struct {
	MinPower    float64  `yaml:"min_power" json:"min_power"`
	MaxPower    *float64 `yaml:"max_power" json:"max_power"`
	DkpPercent  float64  `yaml:"dkp_percent" json:"dkp_percent"`
	DeadPercent float64  `yaml:"dead_percent" json:"dead_percent"`
}

type BaseSource string

const (
	BaseFromEvent      BaseSource = "event"
	BaseFromPhaseStart BaseSource = "phase-start"
	BaseFromPhaseEnd   BaseSource = "phase-end"
	BaseNone           BaseSource = "none"
)

type AccumulatedPlayerStats struct {
	PlayerID           PlayerID
	Name               string
	Faction            string
	BasePower          int64
	BaseSource         BaseSource
	PowerDelta         int64
	T1Delta            int64
	T2Delta            int64
	T3Delta            int64
	T4Delta            int64
	T5Delta            int64
	DeadDelta          int64
	KillPointsDelta    int64
	PhasesParticipated int
	Score              float64
	// nil means no goal, which is not the same as 0%
	DkpGoal     *float64
	DkpPercent  *float64
	DeadGoal    *float64
	DeadPercent *float64
}

type WarningCode string

const (
	WarnMissingStartSnapshot    WarningCode = "missing_start_snapshot"
	WarnMissingEndSnapshot      WarningCode = "missing_end_snapshot"
	WarnMissingBaselineSnapshot WarningCode = "missing_baseline_snapshot"
)

// Warning reports a data-quality condition the engine degraded around.
type Warning struct {
	Code       WarningCode
	PhaseID    string
	SnapshotID string
	Message    string
}

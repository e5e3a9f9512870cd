package db

import (
	"time"
)

type Snapshot struct {
	ID         string
	Label      string
	UploadedAt time.Time
	Headers    string
	RowCount   int64
	CreatedAt  time.Time
}

type SnapshotRow struct {
	SnapshotID string
	RowIndex   int64
	Cells      string
}

type Event struct {
	ID                 string
	Name               string
	BaselineSnapshotID string
	BaselinePolicy     string
	Scoring            string
	Goals              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Phase struct {
	ID              string
	EventID         string
	Position        int64
	Name            string
	StartSnapshotID string
	EndSnapshotID   string
}

type MigrationState struct {
	EventID          string
	PlayerID         string
	ManualAdd        bool
	ManualExclude    bool
	MigratedOverride string
	Contacted        bool
	Reason           string
	Notes            string
	UpdatedAt        time.Time
}

package db

import (
	"context"
	"time"
)

const upsertEvent = `
INSERT INTO events (id, name, baseline_snapshot_id, baseline_policy, scoring, goals, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    baseline_snapshot_id = excluded.baseline_snapshot_id,
    baseline_policy = excluded.baseline_policy,
    scoring = excluded.scoring,
    goals = excluded.goals,
    updated_at = excluded.updated_at
`

type UpsertEventParams struct {
	ID                 string
	Name               string
	BaselineSnapshotID string
	BaselinePolicy     string
	Scoring            string
	Goals              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (q *Queries) UpsertEvent(ctx context.Context, arg UpsertEventParams) error {
	_, err := q.db.ExecContext(ctx, upsertEvent,
		arg.ID,
		arg.Name,
		arg.BaselineSnapshotID,
		arg.BaselinePolicy,
		arg.Scoring,
		arg.Goals,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getEvent = `
SELECT id, name, baseline_snapshot_id, baseline_policy, scoring, goals, created_at, updated_at
FROM events
WHERE id = ?
`

func (q *Queries) GetEvent(ctx context.Context, id string) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, id)
	var i Event
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.BaselineSnapshotID,
		&i.BaselinePolicy,
		&i.Scoring,
		&i.Goals,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listEvents = `
SELECT id, name, baseline_snapshot_id, baseline_policy, scoring, goals, created_at, updated_at
FROM events
ORDER BY created_at, id
`

func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.BaselineSnapshotID,
			&i.BaselinePolicy,
			&i.Scoring,
			&i.Goals,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deletePhasesByEvent = `
DELETE FROM phases WHERE event_id = ?
`

func (q *Queries) DeletePhasesByEvent(ctx context.Context, eventID string) error {
	_, err := q.db.ExecContext(ctx, deletePhasesByEvent, eventID)
	return err
}

const insertPhase = `
INSERT INTO phases (id, event_id, position, name, start_snapshot_id, end_snapshot_id)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertPhaseParams struct {
	ID              string
	EventID         string
	Position        int64
	Name            string
	StartSnapshotID string
	EndSnapshotID   string
}

func (q *Queries) InsertPhase(ctx context.Context, arg InsertPhaseParams) error {
	_, err := q.db.ExecContext(ctx, insertPhase,
		arg.ID,
		arg.EventID,
		arg.Position,
		arg.Name,
		arg.StartSnapshotID,
		arg.EndSnapshotID,
	)
	return err
}

const listPhasesByEvent = `
SELECT id, event_id, position, name, start_snapshot_id, end_snapshot_id
FROM phases
WHERE event_id = ?
ORDER BY position
`

func (q *Queries) ListPhasesByEvent(ctx context.Context, eventID string) ([]Phase, error) {
	rows, err := q.db.QueryContext(ctx, listPhasesByEvent, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Phase
	for rows.Next() {
		var i Phase
		if err := rows.Scan(
			&i.ID,
			&i.EventID,
			&i.Position,
			&i.Name,
			&i.StartSnapshotID,
			&i.EndSnapshotID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

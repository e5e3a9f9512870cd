package db

import (
	"context"
	"time"
)

const upsertMigrationState = `
INSERT INTO migration_state (event_id, player_id, manual_add, manual_exclude, migrated_override, contacted, reason, notes, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (event_id, player_id) DO UPDATE SET
    manual_add = excluded.manual_add,
    manual_exclude = excluded.manual_exclude,
    migrated_override = excluded.migrated_override,
    contacted = excluded.contacted,
    reason = excluded.reason,
    notes = excluded.notes,
    updated_at = excluded.updated_at
`

type UpsertMigrationStateParams struct {
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

func (q *Queries) UpsertMigrationState(ctx context.Context, arg UpsertMigrationStateParams) error {
	_, err := q.db.ExecContext(ctx, upsertMigrationState,
		arg.EventID,
		arg.PlayerID,
		arg.ManualAdd,
		arg.ManualExclude,
		arg.MigratedOverride,
		arg.Contacted,
		arg.Reason,
		arg.Notes,
		arg.UpdatedAt,
	)
	return err
}

const getMigrationStateRow = `
SELECT event_id, player_id, manual_add, manual_exclude, migrated_override, contacted, reason, notes, updated_at
FROM migration_state
WHERE event_id = ? AND player_id = ?
`

type GetMigrationStateRowParams struct {
	EventID  string
	PlayerID string
}

func (q *Queries) GetMigrationStateRow(ctx context.Context, arg GetMigrationStateRowParams) (MigrationState, error) {
	row := q.db.QueryRowContext(ctx, getMigrationStateRow, arg.EventID, arg.PlayerID)
	var i MigrationState
	err := row.Scan(
		&i.EventID,
		&i.PlayerID,
		&i.ManualAdd,
		&i.ManualExclude,
		&i.MigratedOverride,
		&i.Contacted,
		&i.Reason,
		&i.Notes,
		&i.UpdatedAt,
	)
	return i, err
}

const listMigrationState = `
SELECT event_id, player_id, manual_add, manual_exclude, migrated_override, contacted, reason, notes, updated_at
FROM migration_state
WHERE event_id = ?
ORDER BY player_id
`

func (q *Queries) ListMigrationState(ctx context.Context, eventID string) ([]MigrationState, error) {
	rows, err := q.db.QueryContext(ctx, listMigrationState, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MigrationState
	for rows.Next() {
		var i MigrationState
		if err := rows.Scan(
			&i.EventID,
			&i.PlayerID,
			&i.ManualAdd,
			&i.ManualExclude,
			&i.MigratedOverride,
			&i.Contacted,
			&i.Reason,
			&i.Notes,
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

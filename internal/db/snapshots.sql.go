package db

import (
	"context"
	"time"
)

const insertSnapshot = `
INSERT INTO snapshots (id, label, uploaded_at, headers, row_count, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertSnapshotParams struct {
	ID         string
	Label      string
	UploadedAt time.Time
	Headers    string
	RowCount   int64
	CreatedAt  time.Time
}

func (q *Queries) InsertSnapshot(ctx context.Context, arg InsertSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, insertSnapshot,
		arg.ID,
		arg.Label,
		arg.UploadedAt,
		arg.Headers,
		arg.RowCount,
		arg.CreatedAt,
	)
	return err
}

const insertSnapshotRow = `
INSERT INTO snapshot_rows (snapshot_id, row_index, cells)
VALUES (?, ?, ?)
`

type InsertSnapshotRowParams struct {
	SnapshotID string
	RowIndex   int64
	Cells      string
}

func (q *Queries) InsertSnapshotRow(ctx context.Context, arg InsertSnapshotRowParams) error {
	_, err := q.db.ExecContext(ctx, insertSnapshotRow, arg.SnapshotID, arg.RowIndex, arg.Cells)
	return err
}

const getSnapshot = `
SELECT id, label, uploaded_at, headers, row_count, created_at
FROM snapshots
WHERE id = ?
`

func (q *Queries) GetSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := q.db.QueryRowContext(ctx, getSnapshot, id)
	var i Snapshot
	err := row.Scan(
		&i.ID,
		&i.Label,
		&i.UploadedAt,
		&i.Headers,
		&i.RowCount,
		&i.CreatedAt,
	)
	return i, err
}

const listSnapshots = `
SELECT id, label, uploaded_at, headers, row_count, created_at
FROM snapshots
ORDER BY uploaded_at, label, id
`

func (q *Queries) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Snapshot
	for rows.Next() {
		var i Snapshot
		if err := rows.Scan(
			&i.ID,
			&i.Label,
			&i.UploadedAt,
			&i.Headers,
			&i.RowCount,
			&i.CreatedAt,
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

const listSnapshotRows = `
SELECT snapshot_id, row_index, cells
FROM snapshot_rows
ORDER BY snapshot_id, row_index
`

func (q *Queries) ListSnapshotRows(ctx context.Context) ([]SnapshotRow, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshotRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SnapshotRow
	for rows.Next() {
		var i SnapshotRow
		if err := rows.Scan(&i.SnapshotID, &i.RowIndex, &i.Cells); err != nil {
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

const deleteSnapshot = `
DELETE FROM snapshots WHERE id = ?
`

func (q *Queries) DeleteSnapshot(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSnapshot, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

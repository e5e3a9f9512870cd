package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"kvk-tracker/internal/constants"
	"kvk-tracker/internal/db"
	"kvk-tracker/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// SnapshotRepository stores uploads as raw tables; header resolution happens
// when they are loaded into the engine.
type SnapshotRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create stores a snapshot and its rows in one transaction and returns its id.
// An id is generated when raw.ID is empty.
func (r *SnapshotRepository) Create(ctx context.Context, raw domain.RawSnapshot) (string, error) {
	id := raw.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return "", fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	headers, err := json.Marshal(raw.Headers)
	if err != nil {
		return "", fmt.Errorf("failed to encode headers: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.InsertSnapshot(ctx, db.InsertSnapshotParams{
		ID:         id,
		Label:      raw.Label,
		UploadedAt: raw.UploadedAt.UTC(),
		Headers:    string(headers),
		RowCount:   int64(len(raw.Rows)),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot %s: %w", id, err)
	}

	for i := 0; i < len(raw.Rows); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(raw.Rows) {
			end = len(raw.Rows)
		}

		for j, cells := range raw.Rows[i:end] {
			encoded, err := json.Marshal(cells)
			if err != nil {
				return "", fmt.Errorf("failed to encode row %d: %w", i+j, err)
			}
			err = qtx.InsertSnapshotRow(ctx, db.InsertSnapshotRowParams{
				SnapshotID: id,
				RowIndex:   int64(i + j),
				Cells:      string(encoded),
			})
			if err != nil {
				return "", fmt.Errorf("failed to insert row %d of snapshot %s: %w", i+j, id, err)
			}
		}

		r.logger.Debug().
			Str("snapshot_id", id).
			Int("rows_written", end).
			Int("rows_total", len(raw.Rows)).
			Msg("snapshot rows batch written")
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot %s: %w", id, err)
	}
	return id, nil
}

func (r *SnapshotRepository) Get(ctx context.Context, id string) (*domain.SnapshotInfo, error) {
	s, err := r.queries.GetSnapshot(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	info := toSnapshotInfo(s)
	return &info, nil
}

func (r *SnapshotRepository) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	snaps, err := r.queries.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.SnapshotInfo, len(snaps))
	for i, s := range snaps {
		result[i] = toSnapshotInfo(s)
	}
	return result, nil
}

// LoadAll returns every stored snapshot with its rows, in upload order.
func (r *SnapshotRepository) LoadAll(ctx context.Context) ([]domain.RawSnapshot, error) {
	snaps, err := r.queries.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	rows, err := r.queries.ListSnapshotRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot rows: %w", err)
	}

	byID := make(map[string][][]string, len(snaps))
	for _, row := range rows {
		var cells []string
		if err := json.Unmarshal([]byte(row.Cells), &cells); err != nil {
			r.logger.Warn().
				Err(err).
				Str("snapshot_id", row.SnapshotID).
				Int64("row_index", row.RowIndex).
				Msg("skipping undecodable snapshot row")
			continue
		}
		byID[row.SnapshotID] = append(byID[row.SnapshotID], cells)
	}

	result := make([]domain.RawSnapshot, 0, len(snaps))
	for _, s := range snaps {
		var headers []string
		if err := json.Unmarshal([]byte(s.Headers), &headers); err != nil {
			return nil, fmt.Errorf("failed to decode headers of snapshot %s: %w", s.ID, err)
		}
		result = append(result, domain.RawSnapshot{
			ID:         s.ID,
			Label:      s.Label,
			UploadedAt: s.UploadedAt,
			Headers:    headers,
			Rows:       byID[s.ID],
		})
	}

	r.logger.Debug().Int("snapshots", len(result)).Int("rows", len(rows)).Msg("snapshots loaded")
	return result, nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteSnapshot(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return nil
}

func toSnapshotInfo(s db.Snapshot) domain.SnapshotInfo {
	return domain.SnapshotInfo{
		ID:         s.ID,
		Label:      s.Label,
		UploadedAt: s.UploadedAt,
		RowCount:   int(s.RowCount),
		CreatedAt:  s.CreatedAt,
	}
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"kvk-tracker/internal/db"
	"kvk-tracker/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type EventRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Upsert writes the event and replaces its phase list. Missing event and
// phase ids are generated; the stored event is returned.
func (r *EventRepository) Upsert(ctx context.Context, ev domain.Event) (*domain.Event, error) {
	var err error
	if ev.ID == "" {
		if ev.ID, err = gonanoid.New(); err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	scoring, err := json.Marshal(ev.Scoring)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scoring: %w", err)
	}
	goals, err := json.Marshal(ev.Goals)
	if err != nil {
		return nil, fmt.Errorf("failed to encode goals: %w", err)
	}

	now := time.Now().UTC()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	ev.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if existing, err := qtx.GetEvent(ctx, ev.ID); err == nil {
		ev.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read event %s: %w", ev.ID, err)
	}

	err = qtx.UpsertEvent(ctx, db.UpsertEventParams{
		ID:                 ev.ID,
		Name:               ev.Name,
		BaselineSnapshotID: ev.BaselineSnapshotID,
		BaselinePolicy:     string(ev.BaselinePolicy),
		Scoring:            string(scoring),
		Goals:              string(goals),
		CreatedAt:          ev.CreatedAt,
		UpdatedAt:          ev.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert event %s: %w", ev.ID, err)
	}

	if err := qtx.DeletePhasesByEvent(ctx, ev.ID); err != nil {
		return nil, fmt.Errorf("failed to clear phases of event %s: %w", ev.ID, err)
	}

	phases := make([]domain.Phase, len(ev.Phases))
	for i, p := range ev.Phases {
		if p.ID == "" {
			if p.ID, err = gonanoid.New(); err != nil {
				return nil, fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		err = qtx.InsertPhase(ctx, db.InsertPhaseParams{
			ID:              p.ID,
			EventID:         ev.ID,
			Position:        int64(i),
			Name:            p.Name,
			StartSnapshotID: p.StartSnapshotID,
			EndSnapshotID:   p.EndSnapshotID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to insert phase %s: %w", p.ID, err)
		}
		phases[i] = p
	}
	ev.Phases = phases

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event %s: %w", ev.ID, err)
	}

	r.logger.Debug().Str("event_id", ev.ID).Int("phases", len(phases)).Msg("event saved")
	return &ev, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	row, err := r.queries.GetEvent(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, row)
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.queries.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		ev, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		result = append(result, *ev)
	}
	return result, nil
}

func (r *EventRepository) hydrate(ctx context.Context, row db.Event) (*domain.Event, error) {
	ev := &domain.Event{
		ID:                 row.ID,
		Name:               row.Name,
		BaselineSnapshotID: row.BaselineSnapshotID,
		BaselinePolicy:     domain.BaselinePolicy(row.BaselinePolicy),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Scoring), &ev.Scoring); err != nil {
		return nil, fmt.Errorf("failed to decode scoring of event %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Goals), &ev.Goals); err != nil {
		return nil, fmt.Errorf("failed to decode goals of event %s: %w", row.ID, err)
	}

	phases, err := r.queries.ListPhasesByEvent(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases of event %s: %w", row.ID, err)
	}
	ev.Phases = make([]domain.Phase, len(phases))
	for i, p := range phases {
		ev.Phases[i] = domain.Phase{
			ID:              p.ID,
			Name:            p.Name,
			StartSnapshotID: p.StartSnapshotID,
			EndSnapshotID:   p.EndSnapshotID,
		}
	}
	return ev, nil
}

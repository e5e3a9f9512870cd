package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"kvk-tracker/internal/db"
	"kvk-tracker/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type MigrationStateRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMigrationStateRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MigrationStateRepository {
	return &MigrationStateRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *MigrationStateRepository) Get(ctx context.Context, eventID string) (domain.MigrationState, error) {
	state := domain.NewMigrationState(eventID)

	rows, err := r.queries.ListMigrationState(ctx, eventID)
	if err != nil {
		return state, fmt.Errorf("failed to list migration state of event %s: %w", eventID, err)
	}

	for _, row := range rows {
		id := domain.PlayerID(row.PlayerID)
		if row.ManualAdd {
			state.Adds[id] = struct{}{}
		}
		if row.ManualExclude {
			state.Excludes[id] = struct{}{}
		}
		switch domain.Override(row.MigratedOverride) {
		case domain.OverrideYes:
			state.Migrated[id] = struct{}{}
		case domain.OverrideNo:
			state.Unmigrated[id] = struct{}{}
		}
		if row.Contacted || row.Reason != "" || row.Notes != "" {
			state.Annotations[id] = domain.Annotation{
				Reason:    row.Reason,
				Contacted: row.Contacted,
				Notes:     row.Notes,
				UpdatedAt: row.UpdatedAt,
			}
		}
	}
	return state, nil
}

// Apply merges patch into the stored state of one player. Fields the patch
// leaves nil keep their stored value.
func (r *MigrationStateRepository) Apply(ctx context.Context, eventID string, playerID domain.PlayerID, patch domain.MigrationPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	current, err := qtx.GetMigrationStateRow(ctx, db.GetMigrationStateRowParams{
		EventID:  eventID,
		PlayerID: string(playerID),
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read migration state: %w", err)
	}

	next := db.UpsertMigrationStateParams{
		EventID:          eventID,
		PlayerID:         string(playerID),
		ManualAdd:        current.ManualAdd,
		ManualExclude:    current.ManualExclude,
		MigratedOverride: current.MigratedOverride,
		Contacted:        current.Contacted,
		Reason:           current.Reason,
		Notes:            current.Notes,
		UpdatedAt:        time.Now().UTC(),
	}
	if patch.Add != nil {
		next.ManualAdd = *patch.Add
	}
	if patch.Exclude != nil {
		next.ManualExclude = *patch.Exclude
	}
	if patch.Override != nil {
		next.MigratedOverride = string(*patch.Override)
	}
	if patch.Contacted != nil {
		next.Contacted = *patch.Contacted
	}
	if patch.Reason != nil {
		next.Reason = *patch.Reason
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}

	if err := qtx.UpsertMigrationState(ctx, next); err != nil {
		return fmt.Errorf("failed to upsert migration state: %w", err)
	}

	r.logger.Debug().
		Str("event_id", eventID).
		Str("player_id", string(playerID)).
		Bool("add", next.ManualAdd).
		Bool("exclude", next.ManualExclude).
		Str("override", next.MigratedOverride).
		Msg("migration state updated")

	return tx.Commit()
}

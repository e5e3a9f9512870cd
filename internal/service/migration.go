package service

import (
	"context"
	"fmt"
	"kvk-tracker/internal/constants"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/engine"
	"kvk-tracker/internal/middleware"
	"kvk-tracker/internal/repository"
	"strings"

	"github.com/rs/zerolog"
)

type MigrationService struct {
	reports *ReportService
	events  *repository.EventRepository
	state   *repository.MigrationStateRepository
	logger  zerolog.Logger
}

func NewMigrationService(
	reports *ReportService,
	events *repository.EventRepository,
	state *repository.MigrationStateRepository,
	logger zerolog.Logger,
) *MigrationService {
	return &MigrationService{reports: reports, events: events, state: state, logger: logger}
}

type MigrationReport struct {
	Event    domain.Event
	Entries  []domain.MigrationEntry
	Warnings []domain.Warning
}

// List builds the event's migration list from computed stats, attrition and
// the stored manual state.
func (s *MigrationService) List(ctx context.Context, eventID string) (*MigrationReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ReportTimeout)
	defer cancel()

	idx, err := s.reports.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	state, err := s.state.Get(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration state: %w", err)
	}

	res := s.reports.compute(ctx, idx, *ev)
	entries := engine.BuildMigrationList(res.Stats, res.Attrition, state, idx)

	migrated := 0
	for _, e := range entries {
		if e.Migrated {
			migrated++
		}
	}
	logger := middleware.Logger(ctx, s.logger)
	logger.Info().
		Str("event_id", ev.ID).
		Int("entries", len(entries)).
		Int("migrated", migrated).
		Msg("migration list built")

	return &MigrationReport{Event: *ev, Entries: entries, Warnings: res.Warnings}, nil
}

// Update applies a manual change to one player's migration state.
func (s *MigrationService) Update(ctx context.Context, eventID string, playerID domain.PlayerID, patch domain.MigrationPatch) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	playerID = domain.PlayerID(strings.TrimSpace(string(playerID)))
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	if patch.Override != nil {
		switch *patch.Override {
		case domain.OverrideUnset, domain.OverrideYes, domain.OverrideNo:
		default:
			return fmt.Errorf("unknown override %q", *patch.Override)
		}
	}

	if _, err := s.events.Get(ctx, eventID); err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	if err := s.state.Apply(ctx, eventID, playerID, patch); err != nil {
		logger := middleware.Logger(ctx, s.logger)
		logger.Error().Err(err).Str("event_id", eventID).Str("player_id", string(playerID)).Msg("failed to update migration state")
		return fmt.Errorf("failed to update migration state: %w", err)
	}

	logger := middleware.Logger(ctx, s.logger)

	logger.Info().
		Str("event_id", eventID).
		Str("player_id", string(playerID)).
		Msg("migration state updated")
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"kvk-tracker/internal/constants"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/engine"
	"kvk-tracker/internal/ingest"
	"kvk-tracker/internal/middleware"
	"kvk-tracker/internal/repository"
	"sort"

	"github.com/rs/zerolog"
)

type EventService struct {
	events    *repository.EventRepository
	snapshots *repository.SnapshotRepository
	logger    zerolog.Logger
}

func NewEventService(events *repository.EventRepository, snapshots *repository.SnapshotRepository, logger zerolog.Logger) *EventService {
	return &EventService{events: events, snapshots: snapshots, logger: logger}
}

type ApplyResult struct {
	Event *domain.Event
	// referenced snapshot ids with no stored snapshot
	Unresolved []string
}

// ApplyFile creates or updates an event from a YAML definition.
func (s *EventService) ApplyFile(ctx context.Context, path string) (*ApplyResult, error) {
	ev, err := ingest.LoadEventFile(path)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, *ev)
}

// Apply stores the event. Snapshot references that do not resolve are
// reported but not rejected; the engine degrades around them.
func (s *EventService) Apply(ctx context.Context, ev domain.Event) (*ApplyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	logger := middleware.Logger(ctx, s.logger)

	if err := ingest.ValidateEvent(&ev); err != nil {
		return nil, err
	}

	var unresolved []string
	for id := range engine.EventSnapshotIDs(ev) {
		_, err := s.snapshots.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			unresolved = append(unresolved, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check snapshot %s: %w", id, err)
		}
	}
	sort.Strings(unresolved)
	if len(unresolved) > 0 {
		logger.Warn().Strs("snapshot_ids", unresolved).Str("event", ev.Name).Msg("event references unknown snapshots")
	}

	saved, err := s.events.Upsert(ctx, ev)
	if err != nil {
		logger.Error().Err(err).Str("event", ev.Name).Msg("failed to store event")
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	logger.Info().
		Str("event_id", saved.ID).
		Str("name", saved.Name).
		Int("phases", len(saved.Phases)).
		Msg("event applied")

	return &ApplyResult{Event: saved, Unresolved: unresolved}, nil
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.events.List(ctx)
}

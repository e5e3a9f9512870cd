package service

import (
	"context"
	"fmt"
	"kvk-tracker/internal/constants"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/engine"
	"kvk-tracker/internal/middleware"
	"kvk-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ReportService struct {
	snapshots *repository.SnapshotRepository
	events    *repository.EventRepository
	logger    zerolog.Logger
}

func NewReportService(snapshots *repository.SnapshotRepository, events *repository.EventRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{snapshots: snapshots, events: events, logger: logger}
}

// EventReport is one event's ranked leaderboard.
type EventReport struct {
	Event     domain.Event
	Ranked    []domain.AccumulatedPlayerStats
	Attrition map[domain.PlayerID]struct{}
	Warnings  []domain.Warning
}

func (s *ReportService) EventReport(ctx context.Context, eventID string, key engine.SortKey) (*EventReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ReportTimeout)
	defer cancel()

	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return s.report(ctx, idx, *ev, key), nil
}

// AllEventReports computes every stored event concurrently over one shared index.
func (s *ReportService) AllEventReports(ctx context.Context, key engine.SortKey) ([]EventReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ReportTimeout)
	defer cancel()

	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	reports := make([]EventReport, len(events))
	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = *s.report(gctx, idx, ev, key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute event reports: %w", err)
	}

	return reports, nil
}

func (s *ReportService) report(ctx context.Context, idx *engine.Index, ev domain.Event, key engine.SortKey) *EventReport {
	res := s.compute(ctx, idx, ev)
	return &EventReport{
		Event:     ev,
		Ranked:    engine.Rank(res.Stats, key),
		Attrition: res.Attrition,
		Warnings:  res.Warnings,
	}
}

// compute runs the engine for one event and logs the warnings it produced.
func (s *ReportService) compute(ctx context.Context, idx *engine.Index, ev domain.Event) engine.EventResult {
	logger := middleware.Logger(ctx, s.logger)

	res := engine.ComputeEvent(idx, ev)
	for _, w := range res.Warnings {
		logger.Warn().
			Str("event_id", ev.ID).
			Str("code", string(w.Code)).
			Str("phase_id", w.PhaseID).
			Str("snapshot_id", w.SnapshotID).
			Msg(w.Message)
	}

	logger.Info().
		Str("event_id", ev.ID).
		Int("players", len(res.Stats)).
		Int("attrition", len(res.Attrition)).
		Int("warnings", len(res.Warnings)).
		Msg("event computed")
	return res
}

func (s *ReportService) loadIndex(ctx context.Context) (*engine.Index, error) {
	raws, err := s.snapshots.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	idx := engine.NewIndex(raws)
	logger := middleware.Logger(ctx, s.logger)
	logger.Debug().Int("snapshots", idx.Len()).Msg("snapshot index built")
	return idx, nil
}

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
)

type ReputationService struct {
	snapshots *repository.SnapshotRepository
	reports   *ReportService
	logger    zerolog.Logger
}

func NewReputationService(snapshots *repository.SnapshotRepository, reports *ReportService, logger zerolog.Logger) *ReputationService {
	return &ReputationService{snapshots: snapshots, reports: reports, logger: logger}
}

type ReputationReport struct {
	Snapshots   []domain.Snapshot
	Progression domain.ReputationProgression
	// between the first and last snapshot of the range; nil with fewer than two
	Changes []domain.ReputationChange
}

// Progression reports reputation over the inclusive snapshot range. Empty
// bounds are open.
func (s *ReputationService) Progression(ctx context.Context, fromID, toID string) (*ReputationReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ReportTimeout)
	defer cancel()

	idx, err := s.reports.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	snaps := idx.Between(fromID, toID)
	if snaps == nil && (fromID != "" || toID != "") {
		return nil, fmt.Errorf("invalid snapshot range %q..%q: unknown snapshot or reversed range", fromID, toID)
	}

	report := &ReputationReport{
		Snapshots:   snaps,
		Progression: engine.ReputationProgression(snaps),
	}
	if len(snaps) >= 2 {
		report.Changes = engine.ReputationChanges(snaps[0], snaps[len(snaps)-1])
	}

	logger := middleware.Logger(ctx, s.logger)

	logger.Info().
		Int("snapshots", len(snaps)).
		Int("players", len(report.Progression.History)).
		Msg("reputation progression computed")
	return report, nil
}

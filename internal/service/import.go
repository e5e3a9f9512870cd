package service

import (
	"context"
	"fmt"
	"kvk-tracker/internal/columns"
	"kvk-tracker/internal/config"
	"kvk-tracker/internal/constants"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/ingest"
	"kvk-tracker/internal/middleware"
	"kvk-tracker/internal/repository"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ImportService struct {
	factory *ingest.Factory
	repo    *repository.SnapshotRepository
	logger  zerolog.Logger
}

func NewImportService(cfg *config.Config, repo *repository.SnapshotRepository, logger zerolog.Logger) *ImportService {
	return &ImportService{factory: ingest.NewFactory(cfg.Sheet), repo: repo, logger: logger}
}

type ImportResult struct {
	Snapshot domain.SnapshotInfo
	// rows with a usable player id
	Players int
	Missing []columns.Field
}

// ImportFile stores a roster export as a new snapshot. An empty label falls
// back to the file name and a zero uploadedAt to the current time.
func (s *ImportService) ImportFile(ctx context.Context, path, label string, uploadedAt time.Time) (*ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ImportTimeout)
	defer cancel()

	logger := middleware.Logger(ctx, s.logger)

	reader, err := s.factory.GetReader(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	table, err := reader.Read(data)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to parse export")
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if strings.TrimSpace(label) == "" {
		label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	raw := domain.RawSnapshot{
		Label:      label,
		UploadedAt: uploadedAt.UTC(),
		Headers:    table.Headers,
		Rows:       table.Rows,
	}

	missing := columns.NewMapping(table.Headers).Missing()
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		logger.Warn().Strs("fields", names).Str("path", path).Msg("export is missing columns, they will read as zero")
	}

	players := len(columns.Build(raw).Rows)

	id, err := s.repo.Create(ctx, raw)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to store snapshot")
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	logger.Info().
		Str("snapshot_id", id).
		Str("label", label).
		Int("rows", len(raw.Rows)).
		Int("players", players).
		Msg("snapshot imported")

	return &ImportResult{
		Snapshot: domain.SnapshotInfo{
			ID:         id,
			Label:      label,
			UploadedAt: raw.UploadedAt,
			RowCount:   len(raw.Rows),
		},
		Players: players,
		Missing: missing,
	}, nil
}

func (s *ImportService) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *ImportService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger := middleware.Logger(ctx, s.logger)
	logger.Info().Str("snapshot_id", id).Msg("snapshot deleted")
	return nil
}

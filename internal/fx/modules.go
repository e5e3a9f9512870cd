package fx

import (
	"database/sql"
	"kvk-tracker/internal/config"
	"kvk-tracker/internal/database"
	"kvk-tracker/internal/db"
	"kvk-tracker/internal/logger"
	"kvk-tracker/internal/repository"
	"kvk-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(repository.NewEventRepository),
	fx.Provide(repository.NewMigrationStateRepository),
	// svc
	fx.Provide(service.NewImportService),
	fx.Provide(service.NewEventService),
	fx.Provide(service.NewReportService),
	fx.Provide(service.NewMigrationService),
	fx.Provide(service.NewReputationService),
)

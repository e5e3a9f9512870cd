package main

import (
	"context"
	"fmt"
	"kvk-tracker/internal/config"
	"kvk-tracker/internal/constants"
	fxmodules "kvk-tracker/internal/fx"
	"kvk-tracker/internal/middleware"
	"kvk-tracker/internal/service"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	dbPath string
	limit  int
)

// app is what a command body gets from the container.
type app struct {
	cfg        *config.Config
	logger     zerolog.Logger
	imports    *service.ImportService
	events     *service.EventService
	reports    *service.ReportService
	migrations *service.MigrationService
	reputation *service.ReputationService
}

// reportLimit is the --limit flag when set, else REPORT_LIMIT.
func (a *app) reportLimit(cmd *cobra.Command) int {
	if cmd.Flags().Changed("limit") {
		return limit
	}
	return a.cfg.ReportLimit
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "kvk-tracker",
		Short: "KvK roster tracker - snapshot progression and scoring",
		Long: `kvk-tracker imports roster exports as snapshots and scores players across
event phases.

Commands:
  import      Import a roster export (.xlsx or .csv) as a snapshot
  snapshots   List or remove snapshots
  event       Define events from YAML and list them
  report      Ranked leaderboard for one or all events
  migration   Migration list review
  reputation  Reputation progression across snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides DB_PATH)")
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "n", 0, "maximum rows to print, 0 for all (overrides REPORT_LIMIT)")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(snapshotsCmd())
	rootCmd.AddCommand(eventCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(migrationCmd())
	rootCmd.AddCommand(reputationCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the container for one command, runs body inside the run-id
// middleware and stops the container afterwards.
func run(body func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var a app
		container := fx.New(
			fxmodules.Module,
			fx.NopLogger,
			fx.Decorate(func(cfg *config.Config) *config.Config {
				if dbPath != "" {
					cfg.DBPath = dbPath
				}
				return cfg
			}),
			fx.Invoke(func(
				cfg *config.Config,
				logger zerolog.Logger,
				imports *service.ImportService,
				events *service.EventService,
				reports *service.ReportService,
				migrations *service.MigrationService,
				reputation *service.ReputationService,
			) {
				a = app{
					cfg:        cfg,
					logger:     logger,
					imports:    imports,
					events:     events,
					reports:    reports,
					migrations: migrations,
					reputation: reputation,
				}
			}),
		)
		if err := container.Err(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := container.Start(ctx); err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := container.Stop(stopCtx); err != nil {
				a.logger.Warn().Err(err).Msg("shutdown failed")
			}
		}()

		wrapped := middleware.RunID(a.logger, cmd.CommandPath())(func(ctx context.Context, args []string) error {
			return body(ctx, &a, cmd, args)
		})
		return wrapped(ctx, args)
	}
}

package service

import (
	"context"
	"kvk-tracker/internal/columns"
	"kvk-tracker/internal/config"
	"kvk-tracker/internal/database"
	"kvk-tracker/internal/db"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/engine"
	"kvk-tracker/internal/repository"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	imports    *ImportService
	events     *EventService
	reports    *ReportService
	migrations *MigrationService
	reputation *ReputationService
}

func newServices(t *testing.T) services {
	t.Helper()
	logger := zerolog.Nop()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	queries := db.New(sqlDB)

	snapshots := repository.NewSnapshotRepository(sqlDB, queries, logger)
	events := repository.NewEventRepository(sqlDB, queries, logger)
	state := repository.NewMigrationStateRepository(sqlDB, queries, logger)

	reports := NewReportService(snapshots, events, logger)
	return services{
		imports:    NewImportService(&config.Config{}, snapshots, logger),
		events:     NewEventService(events, snapshots, logger),
		reports:    reports,
		migrations: NewMigrationService(reports, events, state, logger),
		reputation: NewReputationService(snapshots, reports, logger),
	}
}

const header = "Governor ID,Governor Name,Alliance,Power,T4 Kills,Dead,Kill Points,Reputation\n"

var day1 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// seed imports three snapshots a day apart. Carl leaves before the third.
func seed(t *testing.T, svc services) []string {
	t.Helper()
	ctx := context.Background()

	files := []string{
		header + "1,Alice,AAA,100,0,0,0,10\n2,Bob,BBB,200,0,0,0,20\n3,Carl,AAA,50,0,0,0,5\n",
		header + "1,Alice,AAA,110,3,0,100,15\n2,Bob,BBB,190,0,1,0,40\n3,Carl,AAA,55,1,0,10,5\n",
		header + "1,Alice,AAA,120,3,0,100,20\n2,Bob,BBB,190,0,1,0,40\n",
	}

	ids := make([]string, len(files))
	for i, content := range files {
		res, err := svc.imports.ImportFile(ctx, writeFile(t, "roster.csv", content), "", day1.Add(time.Duration(i)*24*time.Hour))
		require.NoError(t, err)
		ids[i] = res.Snapshot.ID
	}
	return ids
}

func applyEvent(t *testing.T, svc services, s1, s2 string) *domain.Event {
	t.Helper()
	res, err := svc.events.Apply(context.Background(), domain.Event{
		Name:   "KvK",
		Phases: []domain.Phase{{Name: "Pass", StartSnapshotID: s1, EndSnapshotID: s2}},
		Scoring: domain.ScoringWeights{
			T4:   domain.FieldWeight{Enabled: true, Points: 10},
			Dead: domain.FieldWeight{Enabled: true, Points: 5},
		},
		Goals: domain.GoalRule{DkpPercent: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Unresolved)
	return res.Event
}

func TestImportService(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	res, err := svc.imports.ImportFile(ctx, writeFile(t, "week-1.csv", "Governor ID,Power\n1,100\n,5\n2,200\n"), "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "week-1", res.Snapshot.Label)
	assert.Equal(t, 3, res.Snapshot.RowCount)
	assert.Equal(t, 2, res.Players, "rows without an id are skipped")
	assert.Contains(t, res.Missing, columns.FieldT4)
	assert.False(t, res.Snapshot.UploadedAt.IsZero())

	infos, err := svc.imports.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, res.Snapshot.ID, infos[0].ID)

	_, err = svc.imports.ImportFile(ctx, writeFile(t, "roster.pdf", "x"), "", time.Time{})
	assert.Error(t, err)

	_, err = svc.imports.ImportFile(ctx, writeFile(t, "bad.csv", "foo,bar\n1,2\n"), "", time.Time{})
	assert.Error(t, err)

	require.NoError(t, svc.imports.Delete(ctx, res.Snapshot.ID))
	assert.ErrorIs(t, svc.imports.Delete(ctx, res.Snapshot.ID), repository.ErrNotFound)
}

func TestEventService_UnresolvedSnapshots(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	ids := seed(t, svc)

	res, err := svc.events.Apply(ctx, domain.Event{
		ID:                 "ev",
		Name:               "With gaps",
		BaselineSnapshotID: "nope",
		Phases:             []domain.Phase{{StartSnapshotID: ids[0], EndSnapshotID: "later"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"later", "nope"}, res.Unresolved)
	assert.Equal(t, domain.BaselinePreferEvent, res.Event.BaselinePolicy)

	_, err = svc.events.Apply(ctx, domain.Event{Name: "  "})
	assert.Error(t, err)

	events, err := svc.events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	report, err := svc.reports.EventReport(ctx, "ev", engine.SortScore)
	require.NoError(t, err)
	assert.Empty(t, report.Ranked)
	codes := make([]domain.WarningCode, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []domain.WarningCode{domain.WarnMissingBaselineSnapshot, domain.WarnMissingEndSnapshot}, codes)
}

func TestReportService(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	ids := seed(t, svc)
	ev := applyEvent(t, svc, ids[0], ids[1])

	report, err := svc.reports.EventReport(ctx, ev.ID, engine.SortScore)
	require.NoError(t, err)
	require.Len(t, report.Ranked, 3)
	assert.Equal(t, domain.PlayerID("1"), report.Ranked[0].PlayerID)
	assert.Equal(t, 30.0, report.Ranked[0].Score)
	assert.Equal(t, domain.PlayerID("3"), report.Ranked[1].PlayerID)
	assert.Equal(t, 5.0, report.Ranked[2].Score)
	assert.Contains(t, report.Attrition, domain.PlayerID("3"))
	assert.Empty(t, report.Warnings)

	bob := report.Ranked[2]
	require.NotNil(t, bob.DkpGoal)
	assert.Equal(t, 20.0, *bob.DkpGoal)
	require.NotNil(t, bob.DkpPercent)
	assert.Equal(t, 25.0, *bob.DkpPercent)
	assert.Nil(t, bob.DeadPercent, "zero dead goal has no attainment")
	assert.Equal(t, int64(-10), bob.PowerDelta)

	_, err = svc.reports.EventReport(ctx, "missing", engine.SortScore)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReportService_AllEventReports(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	ids := seed(t, svc)
	applyEvent(t, svc, ids[0], ids[1])
	applyEvent(t, svc, ids[1], ids[2])

	reports, err := svc.reports.AllEventReports(ctx, engine.SortPower)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byEnd := map[string]EventReport{}
	for _, r := range reports {
		byEnd[r.Event.Phases[0].EndSnapshotID] = r
	}
	require.Len(t, byEnd[ids[1]].Ranked, 3)
	require.Len(t, byEnd[ids[2]].Ranked, 2)
	assert.Equal(t, domain.PlayerID("1"), byEnd[ids[2]].Ranked[0].PlayerID)
}

func TestMigrationService(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	ids := seed(t, svc)
	ev := applyEvent(t, svc, ids[0], ids[1])

	list, err := svc.migrations.List(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)

	bob, carl := list.Entries[0], list.Entries[1]
	assert.Equal(t, domain.PlayerID("2"), bob.PlayerID)
	assert.Equal(t, []domain.MigrationCause{domain.CauseGoal}, bob.Causes)
	assert.False(t, bob.Migrated)
	assert.Equal(t, domain.PlayerID("3"), carl.PlayerID)
	assert.Equal(t, []domain.MigrationCause{domain.CauseAttrition}, carl.Causes)
	assert.True(t, carl.Migrated)

	yes := true
	no := domain.OverrideNo
	reason := "went inactive"
	require.NoError(t, svc.migrations.Update(ctx, ev.ID, "1", domain.MigrationPatch{Add: &yes, Reason: &reason}))
	require.NoError(t, svc.migrations.Update(ctx, ev.ID, "3", domain.MigrationPatch{Override: &no}))
	require.NoError(t, svc.migrations.Update(ctx, ev.ID, "2", domain.MigrationPatch{Exclude: &yes}))

	list, err = svc.migrations.List(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, domain.PlayerID("1"), list.Entries[0].PlayerID)
	assert.Equal(t, reason, list.Entries[0].Reason)
	assert.Equal(t, "Alice", list.Entries[0].Name)
	assert.Equal(t, domain.OverrideNo, list.Entries[1].Override)
	assert.False(t, list.Entries[1].Migrated)

	bad := domain.Override("maybe")
	assert.Error(t, svc.migrations.Update(ctx, ev.ID, "1", domain.MigrationPatch{Override: &bad}))
	assert.Error(t, svc.migrations.Update(ctx, ev.ID, " ", domain.MigrationPatch{Add: &yes}))
	assert.ErrorIs(t, svc.migrations.Update(ctx, "missing", "1", domain.MigrationPatch{Add: &yes}), repository.ErrNotFound)
}

func TestReputationService(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	ids := seed(t, svc)

	report, err := svc.reputation.Progression(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, report.Progression.Totals, 3)
	assert.Equal(t, int64(35), report.Progression.Totals[0].Total)
	assert.Equal(t, int64(60), report.Progression.Totals[1].Total)
	assert.Len(t, report.Progression.History["3"], 2)

	require.Len(t, report.Changes, 2)
	assert.Equal(t, domain.PlayerID("2"), report.Changes[0].PlayerID)
	assert.Equal(t, int64(20), report.Changes[0].Change)
	assert.Equal(t, int64(10), report.Changes[1].Change)

	report, err = svc.reputation.Progression(ctx, ids[1], ids[1])
	require.NoError(t, err)
	assert.Len(t, report.Snapshots, 1)
	assert.Nil(t, report.Changes)

	_, err = svc.reputation.Progression(ctx, ids[2], ids[0])
	assert.Error(t, err)
	_, err = svc.reputation.Progression(ctx, "unknown", "")
	assert.Error(t, err)
}

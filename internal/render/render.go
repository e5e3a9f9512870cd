// Package render prints service results as terminal tables.
package render

import (
	"fmt"
	"io"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/engine"
	"kvk-tracker/internal/service"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const none = "-"

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

func rightAlign(cols ...int) []table.ColumnConfig {
	cfg := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfg[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return cfg
}

func signed(n int64) string {
	if n > 0 {
		return "+" + humanize.Comma(n)
	}
	return humanize.Comma(n)
}

func percent(p *float64) string {
	if p == nil {
		return none
	}
	return fmt.Sprintf("%.1f%%", *p)
}

func amount(f *float64) string {
	if f == nil {
		return none
	}
	return humanize.Comma(int64(math.Round(*f)))
}

func Snapshots(w io.Writer, infos []domain.SnapshotInfo, now time.Time) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No snapshots imported")
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"#", "ID", "Label", "Uploaded", "Rows"})
	for i, s := range infos {
		tbl.AppendRow(table.Row{
			i + 1,
			s.ID,
			s.Label,
			fmt.Sprintf("%s (%s)", s.UploadedAt.Format("2006-01-02 15:04"), humanize.RelTime(s.UploadedAt, now, "ago", "from now")),
			humanize.Comma(int64(s.RowCount)),
		})
	}
	tbl.SetColumnConfigs(rightAlign(5))
	tbl.AppendFooter(table.Row{"", "", "", "Total", len(infos)})
	tbl.Render()
}

func Events(w io.Writer, events []domain.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events defined")
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Name", "Phases", "Baseline", "Policy", "Updated"})
	for _, ev := range events {
		baseline := ev.BaselineSnapshotID
		if baseline == "" {
			baseline = none
		}
		tbl.AppendRow(table.Row{ev.ID, ev.Name, len(ev.Phases), baseline, ev.BaselinePolicy, ev.UpdatedAt.Format("2006-01-02 15:04")})
	}
	tbl.Render()
}

func Warnings(w io.Writer, warnings []domain.Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
}

// Leaderboard prints the ranked stats. limit <= 0 prints every player.
func Leaderboard(w io.Writer, report *service.EventReport, limit int) {
	fmt.Fprintf(w, "=== %s ===\n", strings.ToUpper(report.Event.Name))
	Warnings(w, report.Warnings)

	if len(report.Ranked) == 0 {
		fmt.Fprintln(w, "No players in this event")
		return
	}

	rows := report.Ranked
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"#", "ID", "Name", "Alliance", "Base", "Power", "Kill Pts", "T4", "T5", "Dead", "Score", "DKP Goal", "DKP %", "Dead %", ""})
	for i, st := range rows {
		var flags []string
		if _, ok := report.Attrition[st.PlayerID]; ok {
			flags = append(flags, "left")
		}
		if !engine.HasGoal(st) {
			flags = append(flags, "no goal")
		}
		tbl.AppendRow(table.Row{
			i + 1,
			st.PlayerID,
			st.Name,
			st.Faction,
			humanize.Comma(st.BasePower),
			signed(st.PowerDelta),
			humanize.Comma(st.KillPointsDelta),
			humanize.Comma(st.T4Delta),
			humanize.Comma(st.T5Delta),
			humanize.Comma(st.DeadDelta),
			humanize.CommafWithDigits(st.Score, 1),
			amount(st.DkpGoal),
			percent(st.DkpPercent),
			percent(st.DeadPercent),
			strings.Join(flags, ","),
		})
	}
	tbl.SetColumnConfigs(rightAlign(5, 6, 7, 8, 9, 10, 11, 12, 13, 14))
	tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("Showing %d of %d", len(rows), len(report.Ranked))})
	tbl.Render()
}

func MigrationList(w io.Writer, report *service.MigrationReport) {
	fmt.Fprintf(w, "=== %s: MIGRATION LIST ===\n", strings.ToUpper(report.Event.Name))
	Warnings(w, report.Warnings)

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "Nobody on the list")
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Name", "Alliance", "Causes", "DKP %", "Dead %", "Migrated", "Override", "Contacted", "Reason", "Notes"})
	migrated := 0
	for _, e := range report.Entries {
		causes := make([]string, len(e.Causes))
		for i, c := range e.Causes {
			causes[i] = string(c)
		}
		override := string(e.Override)
		if override == "" {
			override = none
		}
		if e.Migrated {
			migrated++
		}
		tbl.AppendRow(table.Row{
			e.PlayerID,
			e.Name,
			e.Faction,
			strings.Join(causes, ","),
			percent(e.DkpPercent),
			percent(e.DeadPercent),
			yesNo(e.Migrated),
			override,
			yesNo(e.Contacted),
			e.Reason,
			e.Notes,
		})
	}
	tbl.SetColumnConfigs(rightAlign(5, 6))
	tbl.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d listed, %d migrated", len(report.Entries), migrated)})
	tbl.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Reputation prints per-snapshot totals and the largest changes across the
// range. limit <= 0 prints every change.
func Reputation(w io.Writer, report *service.ReputationReport, limit int) {
	if len(report.Snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots in range")
		return
	}

	totals := newTable(w)
	totals.AppendHeader(table.Row{"Snapshot", "Label", "Players", "Total Reputation"})
	for i, t := range report.Progression.Totals {
		totals.AppendRow(table.Row{t.SnapshotID, t.Label, len(report.Snapshots[i].Rows), humanize.Comma(t.Total)})
	}
	totals.SetColumnConfigs(rightAlign(3, 4))
	totals.Render()

	if len(report.Changes) == 0 {
		return
	}

	changes := report.Changes
	if limit > 0 && len(changes) > limit {
		changes = changes[:limit]
	}

	fmt.Fprintln(w)
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Name", "Start", "End", "Change"})
	for _, c := range changes {
		tbl.AppendRow(table.Row{c.PlayerID, c.Name, humanize.Comma(c.Start), humanize.Comma(c.End), signed(c.Change)})
	}
	tbl.SetColumnConfigs(rightAlign(3, 4, 5))
	tbl.Render()
}

// History prints one player's reputation across the range.
func History(w io.Writer, report *service.ReputationReport, id domain.PlayerID) {
	points := report.Progression.History[id]
	if len(points) == 0 {
		fmt.Fprintf(w, "No reputation recorded for %s\n", id)
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Snapshot", "Label", "Reputation"})
	for _, p := range points {
		tbl.AppendRow(table.Row{p.SnapshotID, p.Label, humanize.Comma(p.Reputation)})
	}
	tbl.SetColumnConfigs(rightAlign(3))
	tbl.Render()
}

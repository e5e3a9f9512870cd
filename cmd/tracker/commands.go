package main

import (
	"context"
	"fmt"
	"kvk-tracker/internal/domain"
	"kvk-tracker/internal/engine"
	"kvk-tracker/internal/render"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// parseTime accepts RFC 3339 or a plain date. Empty means zero.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, use RFC 3339 or YYYY-MM-DD", s)
}

func importCmd() *cobra.Command {
	var label, at string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a roster export as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			uploadedAt, err := parseTime(at)
			if err != nil {
				return err
			}

			res, err := a.imports.ImportFile(ctx, args[0], label, uploadedAt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %s as %s: %d rows, %d players\n", res.Snapshot.Label, res.Snapshot.ID, res.Snapshot.RowCount, res.Players)
			if len(res.Missing) > 0 {
				names := make([]string, len(res.Missing))
				for i, f := range res.Missing {
					names[i] = string(f)
				}
				fmt.Fprintf(out, "columns not found (read as 0): %s\n", strings.Join(names, ", "))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "snapshot label (defaults to the file name)")
	cmd.Flags().StringVar(&at, "at", "", "upload time, RFC 3339 or YYYY-MM-DD (defaults to now)")
	return cmd
}

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List imported snapshots in upload order",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			infos, err := a.imports.List(ctx)
			if err != nil {
				return err
			}
			render.Snapshots(cmd.OutOrStdout(), infos, time.Now())
			return nil
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a snapshot and its rows",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if err := a.imports.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed snapshot %s\n", args[0])
			return nil
		}),
	})
	return cmd
}

func eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage event definitions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <file.yaml>",
		Short: "Create or update an event from a YAML definition",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			res, err := a.events.ApplyFile(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "event %s saved as %s with %d phases\n", res.Event.Name, res.Event.ID, len(res.Event.Phases))
			for _, id := range res.Unresolved {
				fmt.Fprintf(out, "warning: snapshot %s is not imported yet\n", id)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			events, err := a.events.List(ctx)
			if err != nil {
				return err
			}
			render.Events(cmd.OutOrStdout(), events)
			return nil
		}),
	})
	return cmd
}

func reportCmd() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "report [event-id]",
		Short: "Ranked leaderboard for an event, or every event when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			key, err := engine.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			n := a.reportLimit(cmd)

			if len(args) == 1 {
				report, err := a.reports.EventReport(ctx, args[0], key)
				if err != nil {
					return err
				}
				render.Leaderboard(out, report, n)
				return nil
			}

			reports, err := a.reports.AllEventReports(ctx, key)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(out, "No events defined")
			}
			for i := range reports {
				if i > 0 {
					fmt.Fprintln(out)
				}
				render.Leaderboard(out, &reports[i], n)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&sortBy, "sort", "s", string(engine.SortScore), "sort key: score, power, killpoints, dead, dkp, base")
	return cmd
}

func migrationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migration",
		Short: "Review the migration list of an event",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <event-id>",
		Short: "Show the migration list",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			report, err := a.migrations.List(ctx, args[0])
			if err != nil {
				return err
			}
			render.MigrationList(cmd.OutOrStdout(), report)
			return nil
		}),
	})

	cmd.AddCommand(migrationSetCmd())
	return cmd
}

func migrationSetCmd() *cobra.Command {
	var (
		add, exclude, contacted bool
		override, reason, notes string
	)

	cmd := &cobra.Command{
		Use:   "set <event-id> <player-id>",
		Short: "Change a player's manual migration state",
		Long: `Change a player's manual migration state. Only the flags given are changed.

  --add / --add=false          put on or take off the list by hand
  --exclude / --exclude=false  keep off the list regardless of cause
  --override yes|no|clear      force migrated status or clear the override
  --contacted, --reason, --notes  reviewer annotations`,
		Args: cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			var patch domain.MigrationPatch
			flags := cmd.Flags()
			changed := false

			if flags.Changed("add") {
				patch.Add = &add
				changed = true
			}
			if flags.Changed("exclude") {
				patch.Exclude = &exclude
				changed = true
			}
			if flags.Changed("override") {
				o := domain.Override(strings.ToLower(override))
				if o == "clear" {
					o = domain.OverrideUnset
				}
				patch.Override = &o
				changed = true
			}
			if flags.Changed("contacted") {
				patch.Contacted = &contacted
				changed = true
			}
			if flags.Changed("reason") {
				patch.Reason = &reason
				changed = true
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to change, see --help")
			}

			if err := a.migrations.Update(ctx, args[0], domain.PlayerID(args[1]), patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s on %s\n", args[1], args[0])
			return nil
		}),
	}

	cmd.Flags().BoolVar(&add, "add", false, "add the player to the list")
	cmd.Flags().BoolVar(&exclude, "exclude", false, "exclude the player from the list")
	cmd.Flags().StringVar(&override, "override", "", "migrated override: yes, no or clear")
	cmd.Flags().BoolVar(&contacted, "contacted", false, "player has been contacted")
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the decision")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func reputationCmd() *cobra.Command {
	var from, to, player string

	cmd := &cobra.Command{
		Use:   "reputation",
		Short: "Reputation totals and changes over a snapshot range",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			report, err := a.reputation.Progression(ctx, from, to)
			if err != nil {
				return err
			}
			if player != "" {
				render.History(cmd.OutOrStdout(), report, domain.PlayerID(player))
				return nil
			}
			render.Reputation(cmd.OutOrStdout(), report, a.reportLimit(cmd))
			return nil
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first snapshot id (default: earliest)")
	cmd.Flags().StringVar(&to, "to", "", "last snapshot id (default: latest)")
	cmd.Flags().StringVarP(&player, "player", "p", "", "show one player's history")
	return cmd
}

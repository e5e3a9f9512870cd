package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"2026-03-01 18:30", time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC), false},
		{"2026-03-01T18:30:00Z", time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC), false},
		{"yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestCommandTree(t *testing.T) {
	subcommands := func(names ...string) []string { return names }
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"snapshots", commandNames(snapshotsCmd()), subcommands("rm")},
		{"event", commandNames(eventCmd()), subcommands("apply", "list")},
		{"migration", commandNames(migrationCmd()), subcommands("list", "set")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, tt.got)
		})
	}

	set := migrationSetCmd()
	for _, flag := range []string{"add", "exclude", "override", "contacted", "reason", "notes"} {
		assert.NotNil(t, set.Flags().Lookup(flag), flag)
	}
}

func commandNames(cmd *cobra.Command) []string {
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}

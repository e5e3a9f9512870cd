package columns

import (
	"kvk-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "governorid", Normalize(" Governor_ID "))
	assert.Equal(t, "t4kills", Normalize("T4-Kills"))
	assert.Equal(t, "", Normalize("  -_ "))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		candidates []string
		want       int
		wantOK     bool
	}{
		{
			name:       "exact match after normalization",
			headers:    []string{"Name", "Governor ID", "Power"},
			candidates: []string{"governor_id"},
			want:       1,
			wantOK:     true,
		},
		{
			name:       "exact beats earlier substring",
			headers:    []string{"Highest Power", "Power"},
			candidates: []string{"power"},
			want:       1,
			wantOK:     true,
		},
		{
			name:       "substring fallback",
			headers:    []string{"Name", "Total Dead Troops (KvK)"},
			candidates: []string{"dead troops"},
			want:       1,
			wantOK:     true,
		},
		{
			name:       "leftmost header wins",
			headers:    []string{"Power", "power"},
			candidates: []string{"power"},
			want:       0,
			wantOK:     true,
		},
		{
			name:       "absent",
			headers:    []string{"Name", "Power"},
			candidates: []string{"reputation"},
			want:       -1,
			wantOK:     false,
		},
		{
			name:       "no headers",
			headers:    nil,
			candidates: []string{"id"},
			want:       -1,
			wantOK:     false,
		},
		{
			name:       "blank candidate never matches",
			headers:    []string{"Power"},
			candidates: []string{"  "},
			want:       -1,
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.headers, tt.candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := map[string]int64{
		"":          0,
		"1,234,567": 1234567,
		"12 345":    12345,
		"99.9":      99,
		"n/a":       0,
		"-5":        -5,
		"1e3":       1000,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseNumber(in))
		})
	}
}

func TestMappingMissing(t *testing.T) {
	m := NewMapping([]string{"Governor ID", "Name", "Power"})
	assert.True(t, m.Has(FieldPower))
	assert.False(t, m.Has(FieldReputation))
	assert.Contains(t, m.Missing(), FieldT4)
	assert.NotContains(t, m.Missing(), FieldID)
}

func TestBuild(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := domain.RawSnapshot{
		ID:         "s1",
		Label:      "week 1",
		UploadedAt: at,
		Headers:    []string{"Governor ID", "Governor Name", "Alliance Tag", "Power", "T4 Kills", "T5 Kills", "Deads"},
		Rows: [][]string{
			{"101", "Alpha", "ABC", "1,000,000", "50", "10", "7"},
			{"", "NoID", "ABC", "5", "5", "5", "5"},
			{"102", "Beta", "XYZ", "oops"},
		},
	}

	snap := Build(raw)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "s1", snap.ID)
	assert.Equal(t, at, snap.UploadedAt)

	alpha := snap.Rows["101"]
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, "ABC", alpha.Faction)
	assert.Equal(t, int64(1000000), alpha.Power)
	assert.Equal(t, int64(50), alpha.T4Kills)
	assert.Equal(t, int64(10), alpha.T5Kills)
	assert.Equal(t, int64(7), alpha.DeadTroops)
	assert.Zero(t, alpha.Reputation)

	beta := snap.Rows["102"]
	assert.Equal(t, "Beta", beta.Name)
	assert.Zero(t, beta.Power)
	assert.Zero(t, beta.T4Kills)
}

package columns

import (
	"kvk-tracker/internal/domain"
	"math"
	"strconv"
	"strings"
)

type Field string

const (
	FieldID         Field = "id"
	FieldName       Field = "name"
	FieldFaction    Field = "faction"
	FieldPower      Field = "power"
	FieldT1         Field = "t1"
	FieldT2         Field = "t2"
	FieldT3         Field = "t3"
	FieldT4         Field = "t4"
	FieldT5         Field = "t5"
	FieldDead       Field = "dead"
	FieldKillPoints Field = "killpoints"
	FieldReputation Field = "reputation"
)

// Fields lists every canonical field in resolution order.
var Fields = []Field{
	FieldID, FieldName, FieldFaction, FieldPower,
	FieldT1, FieldT2, FieldT3, FieldT4, FieldT5,
	FieldDead, FieldKillPoints, FieldReputation,
}

// Candidates holds the header spellings seen in roster exports.
var Candidates = map[Field][]string{
	FieldID:         {"governor id", "gov id", "player id", "character id", "id"},
	FieldName:       {"governor name", "player name", "name"},
	FieldFaction:    {"alliance tag", "alliance", "alliance name", "faction", "tag"},
	FieldPower:      {"power", "current power"},
	FieldT1:         {"t1 kills", "tier 1 kills", "kills t1", "t1"},
	FieldT2:         {"t2 kills", "tier 2 kills", "kills t2", "t2"},
	FieldT3:         {"t3 kills", "tier 3 kills", "kills t3", "t3"},
	FieldT4:         {"t4 kills", "tier 4 kills", "kills t4", "t4"},
	FieldT5:         {"t5 kills", "tier 5 kills", "kills t5", "t5"},
	FieldDead:       {"dead troops", "deads", "dead", "dead units"},
	FieldKillPoints: {"kill points", "killpoints", "total kill points", "kp"},
	FieldReputation: {"reputation", "rep"},
}

// Mapping is the resolved header index per field.
type Mapping struct {
	index map[Field]int
}

func NewMapping(headers []string) Mapping {
	m := Mapping{index: make(map[Field]int, len(Fields))}
	for _, f := range Fields {
		if i, ok := Resolve(headers, Candidates[f]); ok {
			m.index[f] = i
		}
	}
	return m
}

func (m Mapping) Index(f Field) (int, bool) {
	i, ok := m.index[f]
	return i, ok
}

// Has reports whether the field was found in the headers.
func (m Mapping) Has(f Field) bool {
	_, ok := m.index[f]
	return ok
}

// Missing lists the fields the headers did not provide.
func (m Mapping) Missing() []Field {
	var out []Field
	for _, f := range Fields {
		if !m.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (m Mapping) cell(cells []string, f Field) string {
	i, ok := m.index[f]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func (m Mapping) number(cells []string, f Field) int64 {
	return ParseNumber(m.cell(cells, f))
}

// Row reads one data row. ok is false when the row has no identifier.
func (m Mapping) Row(cells []string) (domain.PlayerID, domain.SnapshotRow, bool) {
	id := m.cell(cells, FieldID)
	if id == "" {
		return "", domain.SnapshotRow{}, false
	}

	return domain.PlayerID(id), domain.SnapshotRow{
		Name:       m.cell(cells, FieldName),
		Faction:    m.cell(cells, FieldFaction),
		Power:      m.number(cells, FieldPower),
		T1Kills:    m.number(cells, FieldT1),
		T2Kills:    m.number(cells, FieldT2),
		T3Kills:    m.number(cells, FieldT3),
		T4Kills:    m.number(cells, FieldT4),
		T5Kills:    m.number(cells, FieldT5),
		DeadTroops: m.number(cells, FieldDead),
		KillPoints: m.number(cells, FieldKillPoints),
		Reputation: m.number(cells, FieldReputation),
	}, true
}

// ParseNumber reads a spreadsheet cell as an integer. Thousand separators are
// ignored and decimals truncated. Anything unparsable is 0.
func ParseNumber(s string) int64 {
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "_", "").Replace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// Build resolves raw headers and turns the rows into a Snapshot. Later rows
// with an identifier already seen replace earlier ones.
func Build(raw domain.RawSnapshot) domain.Snapshot {
	m := NewMapping(raw.Headers)
	rows := make(map[domain.PlayerID]domain.SnapshotRow, len(raw.Rows))
	for _, cells := range raw.Rows {
		id, row, ok := m.Row(cells)
		if !ok {
			continue
		}
		rows[id] = row
	}

	return domain.Snapshot{
		ID:         raw.ID,
		Label:      raw.Label,
		UploadedAt: raw.UploadedAt,
		Rows:       rows,
	}
}

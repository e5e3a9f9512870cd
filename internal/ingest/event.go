package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"kvk-tracker/internal/domain"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadEventFile reads an event definition from a YAML file.
func LoadEventFile(path string) (*domain.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return ParseEvent(data)
}

// ParseEvent decodes a YAML event definition. Unknown keys are rejected.
func ParseEvent(data []byte) (*domain.Event, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ev domain.Event
	if err := dec.Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("event file is empty")
		}
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	if err := ValidateEvent(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// ValidateEvent checks the parts of an event the engine cannot recover from.
// Snapshot references are not checked here: missing snapshots only produce
// warnings at computation time.
func ValidateEvent(ev *domain.Event) error {
	ev.Name = strings.TrimSpace(ev.Name)
	if ev.Name == "" {
		return fmt.Errorf("event name is required")
	}

	switch ev.BaselinePolicy {
	case "":
		ev.BaselinePolicy = domain.BaselinePreferEvent
	case domain.BaselinePreferEvent, domain.BaselineEventOnly:
	default:
		return fmt.Errorf("unknown baseline_policy %q", ev.BaselinePolicy)
	}

	seen := make(map[string]struct{}, len(ev.Phases))
	for i, p := range ev.Phases {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("phase %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	for i, b := range ev.Goals.Brackets {
		if b.MinPower < 0 {
			return fmt.Errorf("goal bracket %d: min_power must not be negative", i)
		}
		if b.MaxPower != nil && *b.MaxPower <= b.MinPower {
			return fmt.Errorf("goal bracket %d: max_power must be greater than min_power", i)
		}
		if b.DkpPercent < 0 || b.DeadPercent < 0 {
			return fmt.Errorf("goal bracket %d: percentages must not be negative", i)
		}
	}
	if ev.Goals.DkpPercent < 0 || ev.Goals.DeadPercent < 0 {
		return fmt.Errorf("goal percentages must not be negative")
	}

	return nil
}

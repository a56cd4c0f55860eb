package main

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// output is the printed shape of a result. The transcript is opt-in.
type output struct {
	ID             uint64                `json:"id,omitempty" yaml:"id,omitempty"`
	Title          string                `json:"title" yaml:"title"`
	CreatedAt      time.Time             `json:"created_at" yaml:"created_at"`
	Summary        string                `json:"summary" yaml:"summary"`
	Decisions      []string              `json:"decisions" yaml:"decisions"`
	ActionItems    []entities.ActionItem `json:"action_items" yaml:"action_items"`
	ImportantDates []string              `json:"important_dates" yaml:"important_dates"`
	OtherNotes     []string              `json:"other_notes" yaml:"other_notes"`
	Transcript     string                `json:"transcript,omitempty" yaml:"transcript,omitempty"`
}

func render(m *entities.MeetingResult, format string, withTranscript bool) ([]byte, error) {
	out := output{
		ID:             m.ID,
		Title:          m.Title,
		CreatedAt:      m.CreatedAt,
		Summary:        m.Summary,
		Decisions:      m.Decisions,
		ActionItems:    m.ActionItems,
		ImportantDates: m.ImportantDates,
		OtherNotes:     m.OtherNotes,
	}
	if withTranscript {
		out.Transcript = m.Transcript
	}

	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case formatYAML:
		return yaml.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

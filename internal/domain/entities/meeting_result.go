package entities

import (
	"strings"
	"time"
)

// DefaultTitle is used when a meeting is submitted without a title
const DefaultTitle = "Untitled Meeting"

// MeetingResult is the durable record of one summarization run.
// It is never updated after construction; only ID is assigned, once, on first save.
type MeetingResult struct {
	ID             uint64       `json:"id,omitempty" yaml:"id,omitempty"`
	Title          string       `json:"title" yaml:"title"`
	Transcript     string       `json:"transcript" yaml:"transcript"`
	Summary        string       `json:"summary" yaml:"summary"`
	Decisions      []string     `json:"decisions" yaml:"decisions"`
	ActionItems    []ActionItem `json:"action_items" yaml:"action_items"`
	ImportantDates []string     `json:"important_dates" yaml:"important_dates"`
	OtherNotes     []string     `json:"other_notes" yaml:"other_notes"`
	CreatedAt      time.Time    `json:"created_at" yaml:"created_at"`
}

// NewMeetingResult creates an unsaved result with empty list fields
func NewMeetingResult(title, transcript string, createdAt time.Time) *MeetingResult {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return &MeetingResult{
		Title:          title,
		Transcript:     transcript,
		Decisions:      []string{},
		ActionItems:    []ActionItem{},
		ImportantDates: []string{},
		OtherNotes:     []string{},
		CreatedAt:      createdAt.UTC().Truncate(time.Microsecond),
	}
}

// IsPersisted reports whether the store has assigned an identifier
func (m *MeetingResult) IsPersisted() bool {
	return m != nil && m.ID != 0
}

// SummaryItem projects the record onto its history listing shape
func (m *MeetingResult) SummaryItem() MeetingSummaryItem {
	return MeetingSummaryItem{
		ID:        m.ID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		Summary:   m.Summary,
	}
}

// MeetingSummaryItem is one row of the meeting history
type MeetingSummaryItem struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
}

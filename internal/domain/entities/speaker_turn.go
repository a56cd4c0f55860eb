package entities

import (
	"fmt"
	"time"
)

// SpeakerTurn is one line of a speaker-tagged transcript
type SpeakerTurn struct {
	Speaker int           `json:"speaker"`
	Text    string        `json:"text"`
	Start   time.Duration `json:"start"`
	End     time.Duration `json:"end"`
}

// String renders the turn as "Speaker <n>: <text>"
func (t SpeakerTurn) String() string {
	return fmt.Sprintf("Speaker %d: %s", t.Speaker, t.Text)
}

package ingest

import (
	"strings"
	"time"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

// DefaultSpeakerGap is the silence after which the next segment is attributed
// to the other speaker.
const DefaultSpeakerGap = 1500 * time.Millisecond

// SpeakerTurns attributes timed segments to two alternating speakers. The
// speaker changes whenever the silence before a segment exceeds gap.
func SpeakerTurns(segments []ai.Segment, gap time.Duration) []entities.SpeakerTurn {
	if gap <= 0 {
		gap = DefaultSpeakerGap
	}

	turns := make([]entities.SpeakerTurn, 0, len(segments))
	speaker := 1
	var lastEnd time.Duration
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if len(turns) > 0 && seg.Start-lastEnd > gap {
			speaker = 3 - speaker
		}
		turns = append(turns, entities.SpeakerTurn{
			Speaker: speaker,
			Text:    text,
			Start:   seg.Start,
			End:     seg.End,
		})
		lastEnd = seg.End
	}
	return turns
}

// FormatSpeakerTurns renders segments as "Speaker <n>: <text>" lines
func FormatSpeakerTurns(segments []ai.Segment, gap time.Duration) string {
	turns := SpeakerTurns(segments, gap)
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.String())
	}
	return strings.Join(lines, "\n")
}

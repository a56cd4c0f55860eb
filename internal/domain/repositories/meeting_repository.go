package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// MeetingRepository is the append-only store of meeting results
type MeetingRepository interface {
	// Save inserts the result, assigns its ID and returns it.
	// IDs are unique and increase with insertion order.
	Save(ctx context.Context, m *entities.MeetingResult) (uint64, error)

	// List returns at most limit items, most recent first.
	List(ctx context.Context, limit int) ([]entities.MeetingSummaryItem, error)

	// Get returns the result or nil when no record has that ID.
	Get(ctx context.Context, id uint64) (*entities.MeetingResult, error)
}

// List limits shared by every implementation
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ClampListLimit applies the default to non-positive limits and caps the rest
func ClampListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

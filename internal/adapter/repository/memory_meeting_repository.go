package repository

import (
	"context"
	"sync"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
)

// memoryMeetingRepository keeps meetings in process memory. It backs
// DB_DRIVER=memory and tests; contents are lost on restart.
type memoryMeetingRepository struct {
	mu     sync.RWMutex
	nextID uint64
	rows   []*entities.MeetingResult
	byID   map[uint64]*entities.MeetingResult
}

// NewMemoryMeetingRepository creates an empty in-memory repository
func NewMemoryMeetingRepository() repositories.MeetingRepository {
	return &memoryMeetingRepository{
		byID: make(map[uint64]*entities.MeetingResult),
	}
}

func (r *memoryMeetingRepository) Save(ctx context.Context, m *entities.MeetingResult) (uint64, error) {
	if m == nil {
		return 0, entities.ErrNilMeetingResult
	}
	if m.IsPersisted() {
		return 0, entities.ErrAlreadyPersisted
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := cloneMeeting(m)
	stored.ID = r.nextID
	r.rows = append(r.rows, stored)
	r.byID[stored.ID] = stored

	m.ID = stored.ID
	return stored.ID, nil
}

func (r *memoryMeetingRepository) List(ctx context.Context, limit int) ([]entities.MeetingSummaryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = repositories.ClampListLimit(limit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]entities.MeetingSummaryItem, 0, min(limit, len(r.rows)))
	for i := len(r.rows) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, r.rows[i].SummaryItem())
	}
	return items, nil
}

func (r *memoryMeetingRepository) Get(ctx context.Context, id uint64) (*entities.MeetingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneMeeting(stored), nil
}

// cloneMeeting copies the slices so callers cannot mutate stored records
func cloneMeeting(m *entities.MeetingResult) *entities.MeetingResult {
	c := *m
	c.Decisions = append([]string{}, m.Decisions...)
	c.ActionItems = append([]entities.ActionItem{}, m.ActionItems...)
	c.ImportantDates = append([]string{}, m.ImportantDates...)
	c.OtherNotes = append([]string{}, m.OtherNotes...)
	return &c
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
)

// meetingModel is the row shape of the meetings table
type meetingModel struct {
	ID             uint64                                   `gorm:"column:id;primaryKey;autoIncrement"`
	Title          string                                   `gorm:"column:title"`
	Transcript     string                                   `gorm:"column:transcript"`
	Summary        string                                   `gorm:"column:summary"`
	Decisions      datatypes.JSONSlice[string]              `gorm:"column:decisions"`
	ActionItems    datatypes.JSONSlice[entities.ActionItem] `gorm:"column:action_items"`
	ImportantDates datatypes.JSONSlice[string]              `gorm:"column:important_dates"`
	OtherNotes     datatypes.JSONSlice[string]              `gorm:"column:other_notes"`
	CreatedAt      time.Time                                `gorm:"column:created_at"`
}

func (meetingModel) TableName() string {
	return "meetings"
}

// meetingRepository implements MeetingRepository on GORM
type meetingRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewMeetingRepository creates a GORM-backed meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Save inserts a new row; the database sequence assigns the ID
func (r *meetingRepository) Save(ctx context.Context, m *entities.MeetingResult) (uint64, error) {
	if m == nil {
		return 0, entities.ErrNilMeetingResult
	}
	if m.IsPersisted() {
		return 0, entities.ErrAlreadyPersisted
	}

	row := toModel(m)

	r.mu.Lock()
	err := r.db.WithContext(ctx).Create(&row).Error
	r.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("failed to insert meeting: %w", err)
	}

	m.ID = row.ID
	return row.ID, nil
}

// List returns the most recent meetings first
func (r *meetingRepository) List(ctx context.Context, limit int) ([]entities.MeetingSummaryItem, error) {
	var rows []meetingModel
	err := r.db.WithContext(ctx).
		Select("id", "title", "created_at", "summary").
		Order("id DESC").
		Limit(repositories.ClampListLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	items := make([]entities.MeetingSummaryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.MeetingSummaryItem{
			ID:        row.ID,
			Title:     row.Title,
			CreatedAt: row.CreatedAt.UTC(),
			Summary:   row.Summary,
		})
	}
	return items, nil
}

// Get returns nil, nil when the ID is unknown
func (r *meetingRepository) Get(ctx context.Context, id uint64) (*entities.MeetingResult, error) {
	var row meetingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meeting %d: %w", id, err)
	}
	return toEntity(row), nil
}

func toModel(m *entities.MeetingResult) meetingModel {
	return meetingModel{
		Title:          m.Title,
		Transcript:     m.Transcript,
		Summary:        m.Summary,
		Decisions:      nonNil(m.Decisions),
		ActionItems:    nonNil(m.ActionItems),
		ImportantDates: nonNil(m.ImportantDates),
		OtherNotes:     nonNil(m.OtherNotes),
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

func toEntity(row meetingModel) *entities.MeetingResult {
	return &entities.MeetingResult{
		ID:             row.ID,
		Title:          row.Title,
		Transcript:     row.Transcript,
		Summary:        row.Summary,
		Decisions:      nonNil(row.Decisions),
		ActionItems:    nonNil(row.ActionItems),
		ImportantDates: nonNil(row.ImportantDates),
		OtherNotes:     nonNil(row.OtherNotes),
		CreatedAt:      row.CreatedAt.UTC(),
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

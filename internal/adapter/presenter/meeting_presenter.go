package presenter

import (
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// ToMeetingResponse converts a MeetingResult entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.MeetingResult) *dto.MeetingResponse {
	if m == nil {
		return nil
	}

	items := make([]dto.ActionItemDTO, 0, len(m.ActionItems))
	for _, a := range m.ActionItems {
		items = append(items, dto.ActionItemDTO{
			Assignee: a.Assignee,
			Task:     a.Task,
			DueDate:  a.DueDate,
		})
	}

	return &dto.MeetingResponse{
		ID:             m.ID,
		Title:          m.Title,
		Transcript:     m.Transcript,
		Summary:        m.Summary,
		Decisions:      nonNil(m.Decisions),
		ActionItems:    items,
		ImportantDates: nonNil(m.ImportantDates),
		OtherNotes:     nonNil(m.OtherNotes),
		CreatedAt:      m.CreatedAt,
	}
}

// ToListMeetingsResponse converts history rows to the list DTO
func ToListMeetingsResponse(items []entities.MeetingSummaryItem) *dto.ListMeetingsResponse {
	rows := make([]dto.MeetingListItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, dto.MeetingListItem{
			ID:        it.ID,
			Title:     it.Title,
			CreatedAt: it.CreatedAt,
			Summary:   it.Summary,
		})
	}
	return &dto.ListMeetingsResponse{Meetings: rows, Count: len(rows)}
}

// nonNil keeps list fields as [] instead of null in JSON
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package dto

import "time"

// UploadRequest carries the text fields of the upload form. Files and audio
// are read from the multipart form directly.
type UploadRequest struct {
	Title string `json:"title" form:"title" validate:"max=300"`
	Text  string `json:"text" form:"text"`
}

// ListMeetingsRequest holds the history query parameters
type ListMeetingsRequest struct {
	Limit int `query:"limit" validate:"min=0,max=200"`
}

// ActionItemDTO represents an action item
type ActionItemDTO struct {
	Assignee string `json:"assignee"`
	Task     string `json:"task"`
	DueDate  string `json:"due_date"`
}

// MeetingResponse is the full stored record
type MeetingResponse struct {
	ID             uint64          `json:"id"`
	Title          string          `json:"title"`
	Transcript     string          `json:"transcript"`
	Summary        string          `json:"summary"`
	Decisions      []string        `json:"decisions"`
	ActionItems    []ActionItemDTO `json:"action_items"`
	ImportantDates []string        `json:"important_dates"`
	OtherNotes     []string        `json:"other_notes"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MeetingListItem is one history row
type MeetingListItem struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
}

// ListMeetingsResponse wraps the history rows
type ListMeetingsResponse struct {
	Meetings []MeetingListItem `json:"meetings"`
	Count    int               `json:"count"`
}

// ArchivedSourcesResponse lists the object keys archived for a meeting
type ArchivedSourcesResponse struct {
	MeetingID uint64   `json:"meeting_id"`
	Objects   []string `json:"objects"`
}

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Provider    string `json:"provider"`
}

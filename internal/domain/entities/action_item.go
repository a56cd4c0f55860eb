package entities

import "strings"

// Sentinels used when the source does not name an owner or a deadline
const (
	Unassigned = "Unassigned"
	NoDueDate  = "—"
)

// ActionItem is a task extracted from a meeting
type ActionItem struct {
	Assignee string `json:"assignee" yaml:"assignee"`
	Task     string `json:"task" yaml:"task"`
	DueDate  string `json:"due_date" yaml:"due_date"`
}

// IsValid reports whether the item names a task
func (a ActionItem) IsValid() bool {
	return strings.TrimSpace(a.Task) != ""
}

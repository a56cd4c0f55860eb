package summary

import (
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// NormalizeActionItems drops items without a task and fills blank owners
// and deadlines with the sentinels. Order is preserved.
func NormalizeActionItems(items []entities.ActionItem) []entities.ActionItem {
	out := make([]entities.ActionItem, 0, len(items))
	for _, item := range items {
		task := strings.TrimSpace(item.Task)
		if task == "" {
			continue
		}
		assignee := strings.TrimSpace(item.Assignee)
		if assignee == "" {
			assignee = entities.Unassigned
		}
		due := strings.TrimSpace(item.DueDate)
		if due == "" {
			due = entities.NoDueDate
		}
		out = append(out, entities.ActionItem{Assignee: assignee, Task: task, DueDate: due})
	}
	return out
}

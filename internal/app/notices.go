package app

import "github.com/abatilo/taskflow/internal/task"

// User-facing notices for each intent.
const (
	NoticeCreated = "Task created successfully!"
	NoticeUpdated = "Task updated successfully!"
	NoticeDeleted = "Task deleted successfully!"
)

// ToggleNotice is the notice after a status toggle to s.
func ToggleNotice(s task.Status) string {
	if s == task.StatusCompleted {
		return "Task completed!"
	}
	return "Task reopened!"
}

package transport

import (
	"time"

	"github.com/fastygo/todo/domain"
)

// TaskDTO is the wire representation of a task.
type TaskDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Notes     *string `json:"notes,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
	Done      bool    `json:"done"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ErrorResponse is the body of 4xx/5xx responses that carry a message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatTime renders timestamps as RFC 3339 with the original offset kept.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// NewTaskDTO maps a domain task to its wire form.
func NewTaskDTO(t *domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:        t.ID,
		Title:     t.Title,
		Notes:     t.Notes,
		Done:      t.Done,
		CreatedAt: FormatTime(t.CreatedAt),
		UpdatedAt: FormatTime(t.UpdatedAt),
	}
	if t.DueDate != nil {
		due := FormatTime(*t.DueDate)
		dto.DueDate = &due
	}
	return dto
}

// NewTaskDTOs maps a slice of tasks. The result is never nil so it encodes as [].
func NewTaskDTOs(tasks []domain.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskDTO(&tasks[i]))
	}
	return out
}

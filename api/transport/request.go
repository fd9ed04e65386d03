package transport

import "github.com/fastygo/todo/domain"

// CreateTaskRequest is the POST /tasks body.
type CreateTaskRequest struct {
	Title   string  `json:"title"`
	Notes   *string `json:"notes"`
	DueDate *string `json:"dueDate"`
	Done    bool    `json:"done"`
}

// UpdateTaskRequest is the PATCH /tasks/{id} body. Field presence drives the update.
type UpdateTaskRequest = domain.TaskPatch

// ToggleTaskRequest is the POST /tasks/{id}/toggle body.
type ToggleTaskRequest struct {
	Done bool `json:"done"`
}

package dto

import "time"

// CreateTaskRequest entrada para crear una tarea. DueDate YYYY-MM-DD.
type CreateTaskRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=300"`
	DueDate  string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Priority string `json:"priority" validate:"omitempty,oneof=high medium low"`
}

// TaskResponse salida de una tarea.
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DueDate   string    `json:"due_date"`
	Priority  string    `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

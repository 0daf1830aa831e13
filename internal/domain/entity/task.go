package entity

import "time"

// Prioridades de Task.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task tarea personal de un usuario.
type Task struct {
	ID        string
	CompanyID string
	UserID    string
	Title     string
	DueDate   time.Time
	Priority  string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

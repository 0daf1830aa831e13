package entity

import "time"

// Tipos de Activity.
const (
	ActivityClient  = "client"
	ActivityQuote   = "quote"
	ActivityTask    = "task"
	ActivityCompany = "company"
	ActivityUser    = "user"
	ActivityLogin   = "login"
)

// Activity entrada del registro de actividad (append-only).
type Activity struct {
	ID          string
	CompanyID   string // vacío para eventos de sistema
	UserID      string
	Type        string
	Description string
	CreatedAt   time.Time
}

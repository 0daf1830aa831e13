package dto

import "time"

// ActivityResponse entrada del registro de actividad.
type ActivityResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

package dto

import "time"

// UpdateUserRequest cambios de administración sobre un usuario (campos opcionales).
// CompanyID solo lo puede cambiar el superadmin.
type UpdateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role      *string `json:"role" validate:"omitempty,oneof=superadmin admin user"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

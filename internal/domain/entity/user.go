package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperadmin = "superadmin" // rol elevado: sin alcance de empresa
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema. CompanyID vacío solo para superadmin.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive informa si la cuenta puede iniciar sesión.
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

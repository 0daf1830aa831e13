package dto

import (
	"time"

	"github.com/domka/erp-api/internal/domain/access"
)

// RegisterRequest entrada para registro. Se indica company_name para crear
// una empresa nueva o company_code para unirse a una existente.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name" validate:"omitempty,max=200"`
	CompanyName     string `json:"company_name" validate:"omitempty,max=200"`
	CompanyCode     string `json:"company_code" validate:"omitempty,uuid"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y destino de redirección.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      UserResponse    `json:"user"`
	Company   *CompanySummary `json:"company,omitempty"`
	Redirect  string          `json:"redirect"`
}

// SessionResponse estado de la sesión actual (GET /api/auth/me).
type SessionResponse struct {
	User       UserResponse        `json:"user"`
	Company    *CompanySummary     `json:"company,omitempty"`
	Modules    []string            `json:"modules"`
	Navigation []access.NavSection `json:"navigation"`
	Redirect   string              `json:"redirect"`
}

// ForgotPasswordRequest solicita un enlace de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest confirma el cambio con el token recibido.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

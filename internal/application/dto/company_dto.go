package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (superadmin).
// Si Modules es nil se usan los módulos por defecto del plan.
type CreateCompanyRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	Plan    string          `json:"plan" validate:"omitempty,oneof=free basic professional enterprise"`
	Modules map[string]bool `json:"modules"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
// Plan y Status solo los cambia el superadmin.
type UpdateCompanyRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Plan   *string `json:"plan" validate:"omitempty,oneof=free basic professional enterprise"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateModulesRequest nuevos valores de módulos; los ausentes no cambian.
type UpdateModulesRequest struct {
	Modules map[string]bool `json:"modules" validate:"required"`
}

// CompanySummary datos mínimos de la empresa en sesión.
type CompanySummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Plan      string          `json:"plan"`
	Status    string          `json:"status"`
	Modules   map[string]bool `json:"modules"`
	UserCount int             `json:"user_count"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

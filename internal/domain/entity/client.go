package entity

import "time"

// Client representa un cliente de la empresa (módulo clientes).
type Client struct {
	ID          string
	CompanyID   string
	Name        string
	Email       string
	Phone       string
	CompanyName string // razón social del cliente ("empresa" en el formulario)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

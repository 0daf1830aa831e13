package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del inventario de una empresa.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // opcional; único por empresa cuando existe
	Name        string
	Description string
	Stock       int
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

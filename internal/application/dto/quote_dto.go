package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest cotización rápida. ValidUntil en formato YYYY-MM-DD.
type CreateQuoteRequest struct {
	CompanyID   string          `json:"company_id" validate:"omitempty,uuid"`
	ClientID    string          `json:"client_id" validate:"required,uuid"`
	Description string          `json:"description" validate:"required,min=1,max=2000"`
	Amount      decimal.Decimal `json:"amount"`
	ValidUntil  string          `json:"valid_until" validate:"required,datetime=2006-01-02"`
}

// UpdateQuoteStatusRequest cambio de estado.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=borrador enviada aceptada rechazada"`
}

// QuoteResponse salida de una cotización.
type QuoteResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Number      string          `json:"number"`
	ClientID    string          `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ValidUntil  string          `json:"valid_until"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	DocumentKey string          `json:"document_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// QuoteListResponse lista paginada de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ArchiveResponse resultado de archivar el PDF.
type ArchiveResponse struct {
	DocumentKey string `json:"document_key"`
}

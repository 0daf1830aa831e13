package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Quote.
const (
	QuoteStatusDraft    = "borrador"
	QuoteStatusSent     = "enviada"
	QuoteStatusAccepted = "aceptada"
	QuoteStatusRejected = "rechazada"
)

// Quote representa una cotización emitida a un cliente.
type Quote struct {
	ID          string
	CompanyID   string
	ClientID    string
	ClientName  string // desnormalizado en lecturas
	Number      string // COT-000001, secuencial por empresa
	Sequence    int
	Description string
	Amount      decimal.Decimal
	ValidUntil  time.Time
	Status      string
	CreatedBy   string
	DocumentKey string // PDF archivado; vacío si no se archivó
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidQuoteStatus informa si s es un estado conocido.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

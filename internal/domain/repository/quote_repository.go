package repository

import (
	"context"
	"time"

	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MonthlyAmount total agregado de un mes (Month = primer día del mes, UTC).
type MonthlyAmount struct {
	Month  time.Time
	Amount decimal.Decimal
}

// QuoteRepository define el puerto de persistencia para Quote.
type QuoteRepository interface {
	// NextSequence reserva el siguiente número de cotización de la empresa.
	// Debe ejecutarse dentro de la misma transacción que Create.
	NextSequence(ctx context.Context, companyID string) (int, error)
	Create(ctx context.Context, quote *entity.Quote) error
	// GetByID carga también ClientName.
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// List devuelve las más recientes primero, con ClientName.
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Quote, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetDocumentKey(ctx context.Context, id, key string) error
	Count(ctx context.Context, companyID string) (int, error)
	// AcceptedRevenue suma los importes de cotizaciones aceptadas.
	AcceptedRevenue(ctx context.Context, companyID string) (decimal.Decimal, error)
	// MonthlyAcceptedRevenue agrupa por mes de creación desde since; los meses sin datos no aparecen.
	MonthlyAcceptedRevenue(ctx context.Context, companyID string, since time.Time) ([]MonthlyAmount, error)
}

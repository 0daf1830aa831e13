package repository

import (
	"context"

	"github.com/domka/erp-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context, companyID string) (int, error)
	// AdjustStock suma delta al stock de forma atómica. Retorna
	// domain.ErrInsufficientStock si el resultado sería negativo y nil, nil
	// si el producto no existe.
	AdjustStock(ctx context.Context, id string, delta int) (*entity.Product, error)
}

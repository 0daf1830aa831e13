package repository

import (
	"context"

	"github.com/domka/erp-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// En los listados companyID vacío significa "todas las empresas".
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Client, error)
	Count(ctx context.Context, companyID string) (int, error)
}

package repository

import (
	"context"

	"github.com/domka/erp-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// Create persiste la empresa y su mapa de módulos.
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// Update persiste nombre, plan y estado.
	Update(ctx context.Context, company *entity.Company) error
	SetModules(ctx context.Context, companyID string, modules map[string]bool) error
	// List devuelve todas las empresas con UserCount cargado.
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}

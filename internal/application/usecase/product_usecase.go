package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/sanitize"
)

// ProductUseCase aplica reglas de negocio para el inventario de productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso con el puerto de persistencia.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. SKU repetido en la empresa: domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	companyID, err := access.TargetCompany(p, in.CompanyID)
	if err != nil {
		return nil, err
	}
	name := sanitize.Text(in.Name)
	if name == "" || in.Stock < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         strings.ToUpper(sanitize.Text(in.SKU)),
		Name:        name,
		Description: sanitize.Text(in.Description),
		Stock:       in.Stock,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto validando el tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, p *access.Principal, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	scope, err := access.ListCompany(p, companyID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, pr := range list {
		items = append(items, dto.ToProductResponse(pr))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza datos descriptivos y precio; el stock cambia con AdjustStock.
func (uc *ProductUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		product.SKU = strings.ToUpper(sanitize.Text(*in.SKU))
	}
	if in.Name != nil {
		name := sanitize.Text(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = sanitize.Text(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// AdjustStock suma delta unidades; nunca deja el stock por debajo de cero.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, p *access.Principal, id string, delta int) (*dto.ProductResponse, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.load(ctx, p, id); err != nil {
		return nil, err
	}
	product, err := uc.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, p *access.Principal, id string) error {
	product, err := uc.load(ctx, p, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, product.ID)
}

func (uc *ProductUseCase) load(ctx context.Context, p *access.Principal, id string) (*entity.Product, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.ValidateOwnership(p, product.CompanyID); err != nil {
		return nil, err
	}
	return product, nil
}

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

// ClientUseCase casos de uso para clientes (módulo clientes).
type ClientUseCase struct {
	repo     repository.ClientRepository
	activity *ActivityUseCase
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, activity *ActivityUseCase) *ClientUseCase {
	return &ClientUseCase{repo: repo, activity: activity}
}

// Create crea un nuevo cliente. Email repetido dentro de la empresa: domain.ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	companyID, err := access.TargetCompany(p, in.CompanyID)
	if err != nil {
		return nil, err
	}
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       sanitize.Text(in.Phone),
		CompanyName: sanitize.Text(in.CompanyName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, companyID, p.UserID, entity.ActivityClient, "Nuevo cliente agregado: "+client.Name)
	out := dto.ToClientResponse(client)
	return &out, nil
}

// GetByID obtiene un cliente validando el tenant.
func (uc *ClientUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToClientResponse(client)
	return &out, nil
}

// List lista clientes, más recientes primero.
func (uc *ClientUseCase) List(ctx context.Context, p *access.Principal, companyID string, page dto.PageRequest) (*dto.ClientListResponse, error) {
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
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.ToClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza los campos enviados.
func (uc *ClientUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := sanitize.Text(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.Name = name
	}
	if in.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		client.Phone = sanitize.Text(*in.Phone)
	}
	if in.CompanyName != nil {
		client.CompanyName = sanitize.Text(*in.CompanyName)
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, client.CompanyID, p.UserID, entity.ActivityClient, "Cliente actualizado: "+client.Name)
	out := dto.ToClientResponse(client)
	return &out, nil
}

// Delete elimina un cliente (y en cascada sus cotizaciones).
func (uc *ClientUseCase) Delete(ctx context.Context, p *access.Principal, id string) error {
	client, err := uc.load(ctx, p, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, client.ID); err != nil {
		return err
	}
	uc.activity.Record(ctx, client.CompanyID, p.UserID, entity.ActivityClient, "Cliente eliminado: "+client.Name)
	return nil
}

func (uc *ClientUseCase) load(ctx context.Context, p *access.Principal, id string) (*entity.Client, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := access.ValidateOwnership(p, client.CompanyID); err != nil {
		return nil, err
	}
	return client, nil
}

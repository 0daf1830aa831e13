package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/sanitize"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo     repository.CompanyRepository
	activity *ActivityUseCase
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, activity *ActivityUseCase) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, activity: activity}
}

// Create crea una empresa (solo superadmin). Sin módulos explícitos se usan los del plan.
func (uc *CompanyUseCase) Create(ctx context.Context, p *access.Principal, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if !access.HasPermission(p, access.PermManageAllCompanies) {
		return nil, domain.ErrForbidden
	}
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	plan := in.Plan
	if plan == "" {
		plan = entity.PlanFree
	}
	if !access.ValidPlan(plan) {
		return nil, fmt.Errorf("%w: plan %q", domain.ErrInvalidInput, plan)
	}
	modules := access.DefaultModules(plan)
	if in.Modules != nil {
		if err := mergeModules(modules, in.Modules); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		Plan:      plan,
		Status:    entity.CompanyStatusActive,
		Modules:   modules,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, company.ID, p.UserID, entity.ActivityCompany, "Empresa creada: "+company.Name)
	out := dto.ToCompanyResponse(company)
	return &out, nil
}

// GetByID obtiene una empresa. Los miembros solo ven la propia.
func (uc *CompanyUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToCompanyResponse(company)
	return &out, nil
}

// List lista todas las empresas con su número de usuarios (solo superadmin).
func (uc *CompanyUseCase) List(ctx context.Context, p *access.Principal, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	if !access.HasPermission(p, access.PermManageAllCompanies) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.ToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update el superadmin cambia nombre, plan y estado; el admin solo el nombre de la suya.
func (uc *CompanyUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	elevated := access.HasPermission(p, access.PermManageAllCompanies)
	if !elevated {
		if !access.HasPermission(p, access.PermManageCompanySettings) || in.Plan != nil || in.Status != nil {
			return nil, domain.ErrForbidden
		}
	}
	if in.Name != nil {
		name := sanitize.Text(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		company.Name = name
	}
	if in.Plan != nil {
		if !access.ValidPlan(*in.Plan) {
			return nil, fmt.Errorf("%w: plan %q", domain.ErrInvalidInput, *in.Plan)
		}
		company.Plan = *in.Plan
	}
	if in.Status != nil {
		if *in.Status != entity.CompanyStatusActive && *in.Status != entity.CompanyStatusInactive {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
		}
		company.Status = *in.Status
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, company.ID, p.UserID, entity.ActivityCompany, "Empresa actualizada: "+company.Name)
	out := dto.ToCompanyResponse(company)
	return &out, nil
}

// SetModules habilita o deshabilita módulos de una empresa (solo superadmin).
func (uc *CompanyUseCase) SetModules(ctx context.Context, p *access.Principal, id string, in dto.UpdateModulesRequest) (*dto.CompanyResponse, error) {
	if !access.HasPermission(p, access.PermManageAllCompanies) {
		return nil, domain.ErrForbidden
	}
	company, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	modules := make(map[string]bool, len(entity.AllModules))
	for _, m := range entity.AllModules {
		modules[m] = company.Modules[m]
	}
	if err := mergeModules(modules, in.Modules); err != nil {
		return nil, err
	}
	if err := uc.repo.SetModules(ctx, company.ID, modules); err != nil {
		return nil, err
	}
	company.Modules = modules
	uc.activity.Record(ctx, company.ID, p.UserID, entity.ActivityCompany, "Módulos actualizados: "+company.Name)
	out := dto.ToCompanyResponse(company)
	return &out, nil
}

func (uc *CompanyUseCase) load(ctx context.Context, p *access.Principal, id string) (*entity.Company, error) {
	if err := access.ValidateOwnership(p, id); err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return company, nil
}

func mergeModules(dst, src map[string]bool) error {
	for m, enabled := range src {
		if !access.ValidModule(m) {
			return fmt.Errorf("%w: módulo %q", domain.ErrInvalidInput, m)
		}
		dst[m] = enabled
	}
	return nil
}

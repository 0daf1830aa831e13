package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/sanitize"
)

// UserUseCase administración de usuarios: superadmin sobre todos, admin sobre su empresa.
type UserUseCase struct {
	repo      repository.UserRepository
	companies repository.CompanyRepository
	activity  *ActivityUseCase
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, companies repository.CompanyRepository, activity *ActivityUseCase) *UserUseCase {
	return &UserUseCase{repo: repo, companies: companies, activity: activity}
}

func canManageUsers(p *access.Principal) bool {
	return access.HasPermission(p, access.PermManageAllUsers) || access.HasPermission(p, access.PermManageCompanyUsers)
}

// List lista usuarios visibles para p; companyID filtra (superadmin).
func (uc *UserUseCase) List(ctx context.Context, p *access.Principal, companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	if !canManageUsers(p) {
		return nil, domain.ErrForbidden
	}
	scope, err := access.ListCompany(p, companyID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, dto.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetByID obtiene un usuario de la empresa del principal (o cualquiera si es superadmin).
func (uc *UserUseCase) GetByID(ctx context.Context, p *access.Principal, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(user)
	return &out, nil
}

// Update cambia nombre, rol, estado o empresa. Un admin no puede otorgar
// superadmin ni mover usuarios de empresa.
func (uc *UserUseCase) Update(ctx context.Context, p *access.Principal, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !canManageUsers(p) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	elevated := access.HasPermission(p, access.PermManageAllUsers)

	if in.Name != nil {
		name := sanitize.Text(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.Role != nil {
		if !access.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		if *in.Role == entity.RoleSuperadmin && !elevated {
			return nil, domain.ErrForbidden
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
		}
		if user.ID == p.UserID && *in.Status == entity.UserStatusInactive {
			return nil, fmt.Errorf("%w: no puede deshabilitar su propia cuenta", domain.ErrInvalidInput)
		}
		user.Status = *in.Status
	}
	if in.CompanyID != nil && *in.CompanyID != user.CompanyID {
		if !elevated {
			return nil, domain.ErrForbidden
		}
		company, err := uc.companies.GetByID(ctx, *in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrCompanyNotFound
		}
		user.CompanyID = company.ID
	}
	if user.Role == entity.RoleSuperadmin {
		user.CompanyID = ""
	} else if user.CompanyID == "" {
		return nil, fmt.Errorf("%w: el usuario necesita una empresa", domain.ErrInvalidInput)
	}

	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, user.CompanyID, p.UserID, entity.ActivityUser, "Usuario actualizado: "+user.Email)
	out := dto.ToUserResponse(user)
	return &out, nil
}

func (uc *UserUseCase) load(ctx context.Context, p *access.Principal, id string) (*entity.User, error) {
	if err := access.RequireSession(p); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if !access.IsElevated(p) && (user.Role == entity.RoleSuperadmin || !access.CanAccessResource(p, user.CompanyID)) {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

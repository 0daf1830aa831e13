package usecase

import (
	"context"
	"fmt"

	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/repository"
)

// ModuleService verifica qué módulos tiene habilitados la empresa del principal.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// CanAccessModule informa si p puede usar moduleName.
// Devuelve false (sin error) si el módulo no está habilitado o el principal no es válido.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) CanAccessModule(ctx context.Context, p *access.Principal, moduleName string) (bool, error) {
	if access.IsElevated(p) {
		return access.CanAccessModule(p, nil, moduleName), nil
	}
	if p == nil || p.CompanyID == "" {
		return false, nil
	}
	company, err := s.companyRepo.GetByID(ctx, p.CompanyID)
	if err != nil {
		return false, fmt.Errorf("module: cargar empresa: %w", err)
	}
	// Tokens emitidos antes de deshabilitar la empresa siguen vigentes.
	if company != nil && !company.IsActive() {
		return false, nil
	}
	return access.CanAccessModule(p, access.TenantFromCompany(company), moduleName), nil
}

package access

import (
	"strings"

	"github.com/domka/erp-api/internal/domain"
)

// ListCompany resuelve el filtro de empresa de un listado. requested vacío
// significa "lo que permita el principal"; devuelve "" cuando no hay filtro.
func ListCompany(p *Principal, requested string) (string, error) {
	scope, ok := ScopeFor(p)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	scope, ok = scope.Narrow(strings.TrimSpace(requested))
	if !ok {
		return "", domain.ErrForbidden
	}
	if scope.All {
		return "", nil
	}
	return scope.CompanyID, nil
}

// TargetCompany empresa dueña de un documento nuevo. El superadmin no tiene
// empresa propia y debe indicarla.
func TargetCompany(p *Principal, requested string) (string, error) {
	companyID, err := ListCompany(p, requested)
	if err != nil {
		return "", err
	}
	if companyID == "" {
		return "", domain.ErrInvalidInput
	}
	return companyID, nil
}

// ValidateOwnership comprueba que el documento pertenece al tenant del principal.
func ValidateOwnership(p *Principal, resourceCompanyID string) error {
	if _, ok := ScopeFor(p); !ok {
		return domain.ErrUnauthorized
	}
	if !CanAccessResource(p, resourceCompanyID) {
		return domain.ErrForbidden
	}
	return nil
}

// RequireSession devuelve ErrUnauthorized si p no es un principal válido.
func RequireSession(p *Principal) error {
	if _, ok := ScopeFor(p); !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

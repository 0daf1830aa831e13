// Package access concentra las reglas de rol y tenant: quién puede ver qué
// documento, qué módulo y qué acción. Todas las funciones son puras y ante
// datos ausentes o mal formados responden "denegado".
package access

import "github.com/domka/erp-api/internal/domain/entity"

// Principal identidad autenticada que ejecuta la petición.
type Principal struct {
	UserID    string
	Email     string
	Role      string
	CompanyID string // vacío para superadmin
}

// Tenant configuración de la empresa relevante para el acceso.
type Tenant struct {
	ID      string
	Status  string
	Plan    string
	Modules map[string]bool
}

// TenantFromCompany adapta la entidad Company.
func TenantFromCompany(c *entity.Company) *Tenant {
	if c == nil {
		return nil
	}
	return &Tenant{ID: c.ID, Status: c.Status, Plan: c.Plan, Modules: c.Modules}
}

// Permisos de acción.
const (
	PermViewSuperadminPanel   = "view_superadmin_panel"
	PermManageAllCompanies    = "manage_all_companies"
	PermManageAllUsers        = "manage_all_users"
	PermManageSystemSettings  = "manage_system_settings"
	PermManageCompanyUsers    = "manage_company_users"
	PermManageCompanySettings = "manage_company_settings"
)

var rolePermissions = map[string]map[string]bool{
	entity.RoleSuperadmin: {
		PermViewSuperadminPanel:  true,
		PermManageAllCompanies:   true,
		PermManageAllUsers:       true,
		PermManageSystemSettings: true,
	},
	entity.RoleAdmin: {
		PermManageCompanyUsers:    true,
		PermManageCompanySettings: true,
	},
	entity.RoleUser: {},
}

// IsElevated informa si el principal salta el alcance de tenant.
func IsElevated(p *Principal) bool {
	return p != nil && p.Role == entity.RoleSuperadmin
}

// wellFormed: al superadmin le basta el rol; el resto necesita usuario y empresa.
func wellFormed(p *Principal) bool {
	if p == nil || !ValidRole(p.Role) {
		return false
	}
	if p.Role == entity.RoleSuperadmin {
		return true
	}
	return p.UserID != "" && p.CompanyID != ""
}

// CanAccessResource decide si p puede leer o escribir un documento de la
// empresa resourceCompanyID.
func CanAccessResource(p *Principal, resourceCompanyID string) bool {
	if !wellFormed(p) {
		return false
	}
	if IsElevated(p) {
		return true
	}
	return resourceCompanyID != "" && resourceCompanyID == p.CompanyID
}

// CanAccessModule decide si p puede usar module dentro del tenant t. Un tenant
// que no está activo no habilita ningún módulo.
func CanAccessModule(p *Principal, t *Tenant, module string) bool {
	if !wellFormed(p) {
		return false
	}
	if IsElevated(p) {
		return true
	}
	if t == nil || t.ID == "" || t.ID != p.CompanyID || t.Status != entity.CompanyStatusActive {
		return false
	}
	return t.Modules[module]
}

// HasPermission consulta la tabla rol -> permiso.
func HasPermission(p *Principal, perm string) bool {
	if !wellFormed(p) {
		return false
	}
	return rolePermissions[p.Role][perm]
}

// Scope filtro de tenant a aplicar en consultas de listado.
// All=true significa sin filtro (solo superadmin).
type Scope struct {
	All       bool
	CompanyID string
}

// ScopeFor devuelve el alcance de consultas para p; ok=false si p no es válido.
func ScopeFor(p *Principal) (Scope, bool) {
	if !wellFormed(p) {
		return Scope{}, false
	}
	if IsElevated(p) {
		return Scope{All: true}, true
	}
	return Scope{CompanyID: p.CompanyID}, true
}

// Narrow restringe el alcance a una empresa concreta. Un superadmin puede
// apuntar a cualquiera; el resto solo a la propia.
func (s Scope) Narrow(companyID string) (Scope, bool) {
	if companyID == "" {
		return s, true
	}
	if s.All {
		return Scope{CompanyID: companyID}, true
	}
	return s, s.CompanyID == companyID
}

// ValidRole informa si r es un rol conocido.
func ValidRole(r string) bool {
	_, ok := rolePermissions[r]
	return ok
}

// ValidModule informa si m es un módulo conocido.
func ValidModule(m string) bool {
	for _, known := range entity.AllModules {
		if known == m {
			return true
		}
	}
	return false
}

// ValidPlan informa si plan es un plan comercial conocido.
func ValidPlan(plan string) bool {
	_, ok := planModules[plan]
	return ok
}

var planModules = map[string][]string{
	entity.PlanFree:  {entity.ModuleClientes, entity.ModuleCotizaciones},
	entity.PlanBasic: {entity.ModuleClientes, entity.ModuleCotizaciones, entity.ModuleInventario},
	entity.PlanProfessional: {
		entity.ModuleClientes, entity.ModuleCotizaciones, entity.ModuleInventario,
		entity.ModuleContabilidad, entity.ModuleNomina, entity.ModulePagos,
	},
	entity.PlanEnterprise: entity.AllModules,
}

// DefaultModules mapa completo de módulos (todos presentes) para una empresa
// nueva con el plan indicado. Plan desconocido: todo deshabilitado.
func DefaultModules(plan string) map[string]bool {
	out := make(map[string]bool, len(entity.AllModules))
	for _, m := range entity.AllModules {
		out[m] = false
	}
	for _, m := range planModules[plan] {
		out[m] = true
	}
	return out
}

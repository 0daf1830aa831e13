package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
)

const (
	companyA = "11111111-1111-1111-1111-111111111111"
	companyB = "22222222-2222-2222-2222-222222222222"
)

var tenantIDs = []string{companyA, companyB, "", "x"}

func superadmin() *access.Principal {
	return &access.Principal{UserID: "u-root", Role: entity.RoleSuperadmin}
}

func member(role, companyID string) *access.Principal {
	return &access.Principal{UserID: "u-1", Role: role, CompanyID: companyID}
}

func tenantWith(id string, enabled ...string) *access.Tenant {
	mods := access.DefaultModules("")
	for _, m := range enabled {
		mods[m] = true
	}
	return &access.Tenant{ID: id, Status: entity.CompanyStatusActive, Plan: entity.PlanFree, Modules: mods}
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del chequeo rol/tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestSuperadmin_AccedeACualquierTenantYModulo(t *testing.T) {
	p := superadmin()
	modules := append([]string{"modulo-inexistente", ""}, entity.AllModules...)
	for _, id := range tenantIDs {
		assert.True(t, access.CanAccessResource(p, id), "tenant %q", id)
		for _, m := range modules {
			assert.True(t, access.CanAccessModule(p, tenantWith(id), m), "tenant %q módulo %q", id, m)
			assert.True(t, access.CanAccessModule(p, nil, m))
		}
	}
}

func TestNoElevado_TenantDistinto_Deniega(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleUser} {
		p := member(role, companyA)
		for _, id := range []string{companyB, "", "x"} {
			assert.False(t, access.CanAccessResource(p, id), "rol %s tenant %q", role, id)
			for _, m := range entity.AllModules {
				assert.False(t, access.CanAccessModule(p, tenantWith(id, entity.AllModules...), m))
			}
		}
	}
}

func TestNoElevado_MismoTenant_SoloSiModuloHabilitado(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleUser} {
		p := member(role, companyA)
		assert.True(t, access.CanAccessResource(p, companyA))

		tenant := tenantWith(companyA, entity.ModuleClientes, entity.ModuleCRM)
		for _, m := range entity.AllModules {
			assert.Equal(t, tenant.Modules[m], access.CanAccessModule(p, tenant, m), "rol %s módulo %s", role, m)
		}
		assert.False(t, access.CanAccessModule(p, tenant, "desconocido"))
	}
}

func TestPrincipalInvalido_DeniegaSinPanic(t *testing.T) {
	cases := []struct {
		name string
		p    *access.Principal
	}{
		{"nil", nil},
		{"vacío", &access.Principal{}},
		{"sin usuario", &access.Principal{Role: entity.RoleAdmin, CompanyID: companyA}},
		{"rol desconocido", &access.Principal{UserID: "u", Role: "root", CompanyID: companyA}},
		{"admin sin empresa", &access.Principal{UserID: "u", Role: entity.RoleAdmin}},
		{"user sin empresa", &access.Principal{UserID: "u", Role: entity.RoleUser}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, access.CanAccessResource(tc.p, companyA))
				assert.False(t, access.CanAccessResource(tc.p, ""))
				assert.False(t, access.CanAccessModule(tc.p, tenantWith(companyA, entity.AllModules...), entity.ModuleClientes))
				assert.False(t, access.CanAccessModule(tc.p, nil, entity.ModuleClientes))
				assert.False(t, access.HasPermission(tc.p, access.PermManageCompanyUsers))
				_, ok := access.ScopeFor(tc.p)
				assert.False(t, ok)
				assert.Empty(t, access.FilterNavigation(tc.p, tenantWith(companyA, entity.AllModules...), access.NavigationItems))
			})
		})
	}
}

func TestCanAccessModule_TenantNilOModulosNil(t *testing.T) {
	p := member(entity.RoleAdmin, companyA)
	assert.False(t, access.CanAccessModule(p, nil, entity.ModuleClientes))
	assert.False(t, access.CanAccessModule(p, &access.Tenant{ID: companyA}, entity.ModuleClientes))
}

func TestCanAccessModule_TenantInactivoNoHabilitaModulos(t *testing.T) {
	tenant := tenantWith(companyA, entity.AllModules...)
	tenant.Status = entity.CompanyStatusInactive

	for _, role := range []string{entity.RoleAdmin, entity.RoleUser} {
		assert.False(t, access.CanAccessModule(member(role, companyA), tenant, entity.ModuleClientes), role)
		assert.Empty(t, access.FilterNavigation(member(role, companyA), tenant, access.NavigationItems), role)
	}
	// Sin estado también se deniega.
	tenant.Status = ""
	assert.False(t, access.CanAccessModule(member(entity.RoleAdmin, companyA), tenant, entity.ModuleClientes))

	assert.True(t, access.CanAccessModule(superadmin(), tenant, entity.ModuleClientes))
}

func TestSuperadmin_SoloRequiereElRol(t *testing.T) {
	p := &access.Principal{Role: entity.RoleSuperadmin}
	for _, id := range tenantIDs {
		assert.True(t, access.CanAccessResource(p, id), id)
		assert.True(t, access.CanAccessModule(p, tenantWith(id), entity.ModuleAI), id)
	}
	assert.True(t, access.CanAccessModule(p, nil, entity.ModuleNomina))
	assert.True(t, access.HasPermission(p, access.PermViewSuperadminPanel))
	_, ok := access.ScopeFor(p)
	assert.True(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos, alcance y planes
// ──────────────────────────────────────────────────────────────────────────────

func TestHasPermission_TablaDeRoles(t *testing.T) {
	root := superadmin()
	admin := member(entity.RoleAdmin, companyA)
	user := member(entity.RoleUser, companyA)

	assert.True(t, access.HasPermission(root, access.PermViewSuperadminPanel))
	assert.True(t, access.HasPermission(root, access.PermManageAllCompanies))
	assert.False(t, access.HasPermission(admin, access.PermViewSuperadminPanel))
	assert.True(t, access.HasPermission(admin, access.PermManageCompanyUsers))
	assert.True(t, access.HasPermission(admin, access.PermManageCompanySettings))
	assert.False(t, access.HasPermission(user, access.PermManageCompanyUsers))
	assert.False(t, access.HasPermission(user, "desconocido"))
}

func TestScopeFor(t *testing.T) {
	s, ok := access.ScopeFor(superadmin())
	require.True(t, ok)
	assert.True(t, s.All)

	s, ok = access.ScopeFor(member(entity.RoleUser, companyA))
	require.True(t, ok)
	assert.False(t, s.All)
	assert.Equal(t, companyA, s.CompanyID)
}

func TestScope_Narrow(t *testing.T) {
	all := access.Scope{All: true}
	s, ok := all.Narrow(companyB)
	require.True(t, ok)
	assert.Equal(t, access.Scope{CompanyID: companyB}, s)

	own := access.Scope{CompanyID: companyA}
	s, ok = own.Narrow("")
	assert.True(t, ok)
	assert.Equal(t, own, s)
	_, ok = own.Narrow(companyA)
	assert.True(t, ok)
	_, ok = own.Narrow(companyB)
	assert.False(t, ok)
}

func TestDefaultModules_PorPlan(t *testing.T) {
	free := access.DefaultModules(entity.PlanFree)
	assert.Len(t, free, len(entity.AllModules))
	assert.True(t, free[entity.ModuleClientes])
	assert.True(t, free[entity.ModuleCotizaciones])
	assert.False(t, free[entity.ModuleInventario])

	basic := access.DefaultModules(entity.PlanBasic)
	assert.True(t, basic[entity.ModuleInventario])
	assert.False(t, basic[entity.ModuleNomina])

	pro := access.DefaultModules(entity.PlanProfessional)
	assert.True(t, pro[entity.ModulePagos])
	assert.False(t, pro[entity.ModuleAI])

	for _, m := range entity.AllModules {
		assert.True(t, access.DefaultModules(entity.PlanEnterprise)[m])
		assert.False(t, access.DefaultModules("gratis")[m])
	}
}

func TestValidadores(t *testing.T) {
	assert.True(t, access.ValidRole(entity.RoleAdmin))
	assert.False(t, access.ValidRole("owner"))
	assert.True(t, access.ValidModule(entity.ModuleNomina))
	assert.False(t, access.ValidModule("dashboard"))
	assert.True(t, access.ValidPlan(entity.PlanEnterprise))
	assert.False(t, access.ValidPlan(""))
}

func TestTenantFromCompany(t *testing.T) {
	assert.Nil(t, access.TenantFromCompany(nil))
	c := &entity.Company{ID: companyA, Plan: entity.PlanBasic, Status: entity.CompanyStatusActive, Modules: map[string]bool{"crm": true}}
	tn := access.TenantFromCompany(c)
	assert.Equal(t, companyA, tn.ID)
	assert.True(t, tn.Modules["crm"])
}

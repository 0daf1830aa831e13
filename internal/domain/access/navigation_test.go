package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
)

func TestFilterNavigation_SuperadminVeTodo(t *testing.T) {
	items := access.FilterNavigation(superadmin(), nil, access.NavigationItems)
	assert.Len(t, items, len(access.NavigationItems))
}

func TestFilterNavigation_SoloModulosHabilitados(t *testing.T) {
	p := member(entity.RoleUser, companyA)
	tenant := tenantWith(companyA, entity.ModuleClientes, entity.ModulePagos)

	items := access.FilterNavigation(p, tenant, access.NavigationItems)
	require.Len(t, items, 2)
	assert.Equal(t, entity.ModuleClientes, items[0].Module)
	assert.Equal(t, entity.ModulePagos, items[1].Module)

	assert.Empty(t, access.FilterNavigation(p, tenantWith(companyB, entity.AllModules...), access.NavigationItems))
}

func TestBuildNavigation_DashboardSiempreYSeccionesVacias(t *testing.T) {
	p := member(entity.RoleAdmin, companyA)
	sections := access.BuildNavigation(p, tenantWith(companyA, entity.ModuleNomina))

	require.Len(t, sections, 2)
	assert.Equal(t, "principal", sections[0].Key)
	assert.Equal(t, access.DashboardItem, sections[0].Items[0])
	assert.Equal(t, access.SectionFinanzas, sections[1].Key)
	assert.Equal(t, "Finanzas", sections[1].Title)

	assert.Empty(t, access.BuildNavigation(nil, nil))
}

func TestBuildNavigation_Superadmin(t *testing.T) {
	sections := access.BuildNavigation(superadmin(), nil)
	require.Len(t, sections, 4)
	assert.Equal(t, access.SectionHerramientas, sections[3].Key)
	assert.Len(t, sections[3].Items, 2)
}

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, access.SuperadminPath, access.RedirectFor(entity.RoleSuperadmin))
	assert.Equal(t, access.DashboardPath, access.RedirectFor(entity.RoleAdmin))
	assert.Equal(t, access.DashboardPath, access.RedirectFor(entity.RoleUser))
	assert.Equal(t, access.LoginPath, access.RedirectFor(""))
	assert.Equal(t, access.LoginPath, access.RedirectFor("otro"))
}

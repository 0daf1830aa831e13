package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/application/usecase"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/pkg/logger"
)

const (
	companyA = "aaaaaaaa-0000-0000-0000-000000000001"
	companyB = "bbbbbbbb-0000-0000-0000-000000000002"
)

var (
	rootP  = &access.Principal{UserID: "root", Role: entity.RoleSuperadmin}
	adminA = &access.Principal{UserID: "admin-a", Role: entity.RoleAdmin, CompanyID: companyA}
	userA  = &access.Principal{UserID: "user-a", Role: entity.RoleUser, CompanyID: companyA}
	adminB = &access.Principal{UserID: "admin-b", Role: entity.RoleAdmin, CompanyID: companyB}
)

func ptr[T any](v T) *T { return &v }

func companies() *memCompanies {
	return newMemCompanies(
		&entity.Company{ID: companyA, Name: "A", Plan: entity.PlanBasic, Status: entity.CompanyStatusActive, Modules: access.DefaultModules(entity.PlanBasic)},
		&entity.Company{ID: companyB, Name: "B", Plan: entity.PlanFree, Status: entity.CompanyStatusActive, Modules: access.DefaultModules(entity.PlanFree)},
	)
}

func newActivity() (*usecase.ActivityUseCase, *memActivity) {
	repo := &memActivity{}
	return usecase.NewActivityUseCase(repo, logger.Nop()), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestCompany_CreateSoloSuperadmin(t *testing.T) {
	act, log := newActivity()
	uc := usecase.NewCompanyUseCase(companies(), act)
	ctx := context.Background()

	_, err := uc.Create(ctx, adminA, dto.CreateCompanyRequest{Name: "Nueva"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Create(ctx, rootP, dto.CreateCompanyRequest{Name: "<b>Nueva</b>", Plan: entity.PlanBasic, Modules: map[string]bool{entity.ModuleCRM: true}})
	require.NoError(t, err)
	assert.Equal(t, "Nueva", out.Name)
	assert.Equal(t, entity.CompanyStatusActive, out.Status)
	assert.True(t, out.Modules[entity.ModuleInventario])
	assert.True(t, out.Modules[entity.ModuleCRM])
	assert.False(t, out.Modules[entity.ModuleNomina])
	assert.Equal(t, []string{entity.ActivityCompany}, log.types())

	_, err = uc.Create(ctx, rootP, dto.CreateCompanyRequest{Name: "X", Plan: "gold"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, rootP, dto.CreateCompanyRequest{Name: "X", Modules: map[string]bool{"ventas": true}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompany_AdminSoloRenombraLaPropia(t *testing.T) {
	act, _ := newActivity()
	uc := usecase.NewCompanyUseCase(companies(), act)
	ctx := context.Background()

	out, err := uc.Update(ctx, adminA, companyA, dto.UpdateCompanyRequest{Name: ptr("A renombrada")})
	require.NoError(t, err)
	assert.Equal(t, "A renombrada", out.Name)

	_, err = uc.Update(ctx, adminA, companyA, dto.UpdateCompanyRequest{Plan: ptr(entity.PlanEnterprise)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, adminA, companyB, dto.UpdateCompanyRequest{Name: ptr("robada")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, userA, companyA, dto.UpdateCompanyRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err = uc.Update(ctx, rootP, companyB, dto.UpdateCompanyRequest{Status: ptr(entity.CompanyStatusInactive)})
	require.NoError(t, err)
	assert.Equal(t, entity.CompanyStatusInactive, out.Status)
}

func TestCompany_ListYModulos(t *testing.T) {
	act, _ := newActivity()
	repo := companies()
	uc := usecase.NewCompanyUseCase(repo, act)
	ctx := context.Background()

	_, err := uc.List(ctx, adminA, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := uc.List(ctx, rootP, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)

	out, err := uc.SetModules(ctx, rootP, companyB, dto.UpdateModulesRequest{Modules: map[string]bool{entity.ModuleAI: true, entity.ModuleClientes: false}})
	require.NoError(t, err)
	assert.True(t, out.Modules[entity.ModuleAI])
	assert.False(t, out.Modules[entity.ModuleClientes])
	assert.True(t, out.Modules[entity.ModuleCotizaciones], "los módulos no enviados no cambian")
	assert.True(t, repo.items[companyB].Modules[entity.ModuleAI])

	_, err = uc.SetModules(ctx, adminB, companyB, dto.UpdateModulesRequest{Modules: map[string]bool{entity.ModuleAI: true}})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(ctx, rootP, "no-existe")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func seededUsers() *memUsers {
	return newMemUsers(
		&entity.User{ID: "root", Email: "root@x.co", Role: entity.RoleSuperadmin, Status: entity.UserStatusActive},
		&entity.User{ID: "admin-a", Email: "admin@a.co", Role: entity.RoleAdmin, CompanyID: companyA, Status: entity.UserStatusActive},
		&entity.User{ID: "user-a", Email: "user@a.co", Role: entity.RoleUser, CompanyID: companyA, Status: entity.UserStatusActive},
		&entity.User{ID: "user-b", Email: "user@b.co", Role: entity.RoleUser, CompanyID: companyB, Status: entity.UserStatusActive},
	)
}

func TestUser_ListAlcance(t *testing.T) {
	act, _ := newActivity()
	uc := usecase.NewUserUseCase(seededUsers(), companies(), act)
	ctx := context.Background()

	list, err := uc.List(ctx, adminA, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	for _, u := range list.Items {
		assert.Equal(t, companyA, u.CompanyID)
	}

	_, err = uc.List(ctx, adminA, companyB, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.List(ctx, userA, "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err = uc.List(ctx, rootP, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 4)

	list, err = uc.List(ctx, rootP, companyB, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestUser_AdminNoOtorgaSuperadminNiTocaOtraEmpresa(t *testing.T) {
	act, _ := newActivity()
	uc := usecase.NewUserUseCase(seededUsers(), companies(), act)
	ctx := context.Background()

	_, err := uc.Update(ctx, adminA, "user-a", dto.UpdateUserRequest{Role: ptr(entity.RoleSuperadmin)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, adminA, "user-b", dto.UpdateUserRequest{Status: ptr(entity.UserStatusInactive)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(ctx, adminA, "root", dto.UpdateUserRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(ctx, adminA, "user-a", dto.UpdateUserRequest{CompanyID: ptr(companyB)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Update(ctx, adminA, "user-a", dto.UpdateUserRequest{Role: ptr(entity.RoleAdmin), Status: ptr(entity.UserStatusInactive)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.Equal(t, entity.UserStatusInactive, out.Status)

	_, err = uc.Update(ctx, adminA, "admin-a", dto.UpdateUserRequest{Status: ptr(entity.UserStatusInactive)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_GetByID_InexistenteOAjenoEsNotFound(t *testing.T) {
	act, _ := newActivity()
	uc := usecase.NewUserUseCase(seededUsers(), companies(), act)
	ctx := context.Background()

	for _, id := range []string{"no-existe", "user-b", "root"} {
		_, err := uc.GetByID(ctx, adminA, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
		assert.NotErrorIs(t, err, domain.ErrUserNotFound, id)
	}

	_, err := uc.GetByID(ctx, rootP, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := uc.GetByID(ctx, adminA, "user-a")
	require.NoError(t, err)
	assert.Equal(t, "user-a", out.ID)
}

func TestUser_SuperadminMueveYPromueve(t *testing.T) {
	act, _ := newActivity()
	uc := usecase.NewUserUseCase(seededUsers(), companies(), act)
	ctx := context.Background()

	out, err := uc.Update(ctx, rootP, "user-b", dto.UpdateUserRequest{CompanyID: ptr(companyA)})
	require.NoError(t, err)
	assert.Equal(t, companyA, out.CompanyID)

	out, err = uc.Update(ctx, rootP, "user-b", dto.UpdateUserRequest{Role: ptr(entity.RoleSuperadmin)})
	require.NoError(t, err)
	assert.Empty(t, out.CompanyID, "el superadmin no pertenece a una empresa")

	_, err = uc.Update(ctx, rootP, "user-a", dto.UpdateUserRequest{CompanyID: ptr("cccccccc-0000-0000-0000-000000000003")})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ModuleService y actividad
// ──────────────────────────────────────────────────────────────────────────────

func TestModuleService_CanAccessModule(t *testing.T) {
	repo := companies()
	svc := usecase.NewModuleService(repo)
	ctx := context.Background()

	ok, err := svc.CanAccessModule(ctx, rootP, entity.ModuleNomina)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessModule(ctx, adminA, entity.ModuleInventario)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessModule(ctx, adminB, entity.ModuleInventario)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanAccessModule(ctx, nil, entity.ModuleClientes)
	require.NoError(t, err)
	assert.False(t, ok)

	repo.items[companyA].Status = entity.CompanyStatusInactive
	ok, err = svc.CanAccessModule(ctx, adminA, entity.ModuleClientes)
	require.NoError(t, err)
	assert.False(t, ok, "empresa deshabilitada")

	repo.err = errDB
	_, err = svc.CanAccessModule(ctx, adminA, entity.ModuleClientes)
	assert.ErrorIs(t, err, errDB)
}

func TestActivity_RecordBestEffortYRecent(t *testing.T) {
	repo := &memActivity{}
	uc := usecase.NewActivityUseCase(repo, logger.Nop())
	ctx := context.Background()

	uc.Record(ctx, companyA, "u1", entity.ActivityClient, "cliente A")
	uc.Record(ctx, companyB, "u2", entity.ActivityQuote, "cotización B")

	list, err := uc.Recent(ctx, adminA, "", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cliente A", list[0].Description)

	list, err = uc.Recent(ctx, rootP, "", 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "cotización B", list[0].Description)

	repo.err = errDB
	assert.NotPanics(t, func() { uc.Record(ctx, companyA, "u1", entity.ActivityTask, "x") })
}

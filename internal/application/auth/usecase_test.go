package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/domka/erp-api/internal/application/auth"
	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	pkgjwt "github.com/domka/erp-api/pkg/jwt"
)

const testSecret = "auth-usecase-test-secret"

type fixture struct {
	uc          *auth.AuthUseCase
	users       *memUsers
	companies   *memCompanies
	resets      *memResets
	revocations *memRevocations
	tx          *memTx
	notifier    *captureNotifier
	activity    *memActivity
	now         time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:       newMemUsers(),
		companies:   newMemCompanies(),
		resets:      &memResets{byHash: map[string]*entity.PasswordReset{}},
		revocations: &memRevocations{revoked: map[string]time.Time{}},
		notifier:    &captureNotifier{},
		activity:    &memActivity{},
		now:         time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.tx = &memTx{companies: f.companies, users: f.users}
	f.uc = auth.NewAuthUseCase(auth.Deps{
		Users:       f.users,
		Companies:   f.companies,
		Resets:      f.resets,
		Revocations: f.revocations,
		Tx:          f.tx,
		Notifier:    f.notifier,
		Activity:    f.activity,
		BcryptCost:  bcrypt.MinCost,
		Now:         func() time.Time { return f.now },
	}, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"})
	return f
}

func (f *fixture) seedUser(t *testing.T, email, password, role, companyID, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID: uuid.New().String(), Email: email, PasswordHash: string(hash),
		Name: email, Role: role, CompanyID: companyID, Status: status,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) seedCompany(t *testing.T, status string) *entity.Company {
	t.Helper()
	c := &entity.Company{
		ID: uuid.New().String(), Name: "ACME", Plan: entity.PlanBasic, Status: status,
		Modules: access.DefaultModules(entity.PlanBasic),
	}
	require.NoError(t, f.companies.Create(context.Background(), c))
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaEmpresaYAdmin(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "  Ana@Example.com ", Password: "secreto", ConfirmPassword: "secreto",
		Name: "Ana", CompanyName: "Domka SAS",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	require.NotNil(t, resp.Company)
	assert.Equal(t, "Domka SAS", resp.Company.Name)
	assert.Equal(t, entity.PlanFree, resp.Company.Plan)
	assert.Equal(t, access.DashboardPath, resp.Redirect)

	company, err := f.companies.GetByID(context.Background(), resp.Company.ID)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.True(t, company.Modules[entity.ModuleClientes])
	assert.False(t, company.Modules[entity.ModuleInventario])

	claims, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, company.ID, claims.CompanyID)
	assert.ElementsMatch(t, []string{entity.ActivityCompany, entity.ActivityUser}, f.activity.kinds())
}

func TestRegister_ConCodigoSeUneComoUser(t *testing.T) {
	f := newFixture(t)
	c := f.seedCompany(t, entity.CompanyStatusActive)

	resp, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "luis@example.com", Password: "secreto", CompanyCode: c.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, resp.User.Role)
	assert.Equal(t, c.ID, resp.User.CompanyID)
	assert.Len(t, f.companies.byID, 1)
}

func TestRegister_Validaciones(t *testing.T) {
	f := newFixture(t)
	inactive := f.seedCompany(t, entity.CompanyStatusInactive)
	f.seedUser(t, "usado@example.com", "secreto", entity.RoleUser, inactive.ID, entity.UserStatusActive)

	cases := []struct {
		name string
		in   dto.RegisterRequest
		want error
	}{
		{"email inválido", dto.RegisterRequest{Email: "no-es-email", Password: "secreto", CompanyName: "X"}, domain.ErrInvalidEmail},
		{"password corta", dto.RegisterRequest{Email: "a@b.co", Password: "123", CompanyName: "X"}, domain.ErrWeakPassword},
		{"confirmación distinta", dto.RegisterRequest{Email: "a@b.co", Password: "secreto", ConfirmPassword: "otro123", CompanyName: "X"}, domain.ErrPasswordMismatch},
		{"sin empresa", dto.RegisterRequest{Email: "a@b.co", Password: "secreto"}, domain.ErrInvalidInput},
		{"empresa y código", dto.RegisterRequest{Email: "a@b.co", Password: "secreto", CompanyName: "X", CompanyCode: inactive.ID}, domain.ErrInvalidInput},
		{"email en uso", dto.RegisterRequest{Email: "USADO@example.com", Password: "secreto", CompanyName: "X"}, domain.ErrEmailAlreadyExists},
		{"código inexistente", dto.RegisterRequest{Email: "a@b.co", Password: "secreto", CompanyCode: uuid.New().String()}, domain.ErrCompanyNotFound},
		{"empresa deshabilitada", dto.RegisterRequest{Email: "a@b.co", Password: "secreto", CompanyCode: inactive.ID}, domain.ErrCompanyDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Register(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegister_FalloEnTransaccionNoDejaEmpresa(t *testing.T) {
	f := newFixture(t)
	f.tx.failUser = errors.New("insert user: conexión perdida")

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: "secreto", CompanyName: "Domka",
	})
	require.Error(t, err)
	assert.Empty(t, f.companies.byID)
	assert.Empty(t, f.users.byID)
	assert.Empty(t, f.activity.kinds())
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout / Session
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	f := newFixture(t)
	c := f.seedCompany(t, entity.CompanyStatusActive)
	u := f.seedUser(t, "ana@example.com", "secreto", entity.RoleAdmin, c.ID, entity.UserStatusActive)

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ANA@example.com", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.Equal(t, c.ID, resp.Company.ID)
	assert.Equal(t, access.DashboardPath, resp.Redirect)
	assert.Equal(t, []string{entity.ActivityLogin}, f.activity.kinds())
}

func TestLogin_SuperadminSinEmpresa(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "root@example.com", "secreto", entity.RoleSuperadmin, "", entity.UserStatusActive)

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "root@example.com", Password: "secreto"})
	require.NoError(t, err)
	assert.Nil(t, resp.Company)
	assert.Equal(t, access.SuperadminPath, resp.Redirect)

	claims, err := pkgjwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID)
	assert.Equal(t, entity.RoleSuperadmin, claims.Role)
}

func TestLogin_Errores(t *testing.T) {
	f := newFixture(t)
	active := f.seedCompany(t, entity.CompanyStatusActive)
	inactive := f.seedCompany(t, entity.CompanyStatusInactive)
	f.seedUser(t, "ok@example.com", "secreto", entity.RoleUser, active.ID, entity.UserStatusActive)
	f.seedUser(t, "off@example.com", "secreto", entity.RoleUser, active.ID, entity.UserStatusInactive)
	f.seedUser(t, "emp@example.com", "secreto", entity.RoleAdmin, inactive.ID, entity.UserStatusActive)

	cases := []struct {
		email, password string
		want            error
	}{
		{"nadie@example.com", "secreto", domain.ErrUserNotFound},
		{"ok@example.com", "malamala", domain.ErrWrongPassword},
		{"off@example.com", "secreto", domain.ErrUserDisabled},
		{"emp@example.com", "secreto", domain.ErrCompanyDisabled},
		{"roto", "secreto", domain.ErrInvalidEmail},
	}
	for _, tc := range cases {
		_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: tc.email, Password: tc.password})
		assert.ErrorIs(t, err, tc.want, tc.email)
	}
	assert.True(t, auth.IsCredentialError(domain.ErrWrongPassword))
	assert.False(t, auth.IsCredentialError(domain.ErrUserDisabled))
}

func TestLogout_RevocaJTI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.Logout(ctx, "jti-1", f.now.Add(time.Hour)))

	revoked, err := f.uc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = f.uc.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.ErrorIs(t, f.uc.Logout(ctx, "", f.now), domain.ErrUnauthorized)
}

func TestSession_ModulosYNavegacion(t *testing.T) {
	f := newFixture(t)
	c := f.seedCompany(t, entity.CompanyStatusActive)
	u := f.seedUser(t, "ana@example.com", "secreto", entity.RoleUser, c.ID, entity.UserStatusActive)

	s, err := f.uc.Session(context.Background(), &access.Principal{UserID: u.ID, Role: u.Role, CompanyID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.ModuleClientes, entity.ModuleCotizaciones, entity.ModuleInventario}, s.Modules)
	require.Len(t, s.Navigation, 2)
	assert.Equal(t, access.SectionGestion, s.Navigation[1].Key)
	assert.Equal(t, access.DashboardPath, s.Redirect)

	root := f.seedUser(t, "root@example.com", "secreto", entity.RoleSuperadmin, "", entity.UserStatusActive)
	s, err = f.uc.Session(context.Background(), &access.Principal{UserID: root.ID, Role: entity.RoleSuperadmin})
	require.NoError(t, err)
	assert.Len(t, s.Modules, len(entity.AllModules))
	assert.Nil(t, s.Company)

	_, err = f.uc.Session(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCurrentPrincipal_UsaElUsuarioAlmacenado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedCompany(t, entity.CompanyStatusActive)
	u := f.seedUser(t, "ana@example.com", "secreto", entity.RoleAdmin, c.ID, entity.UserStatusActive)

	p, err := f.uc.CurrentPrincipal(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, &access.Principal{UserID: u.ID, Email: u.Email, Role: entity.RoleAdmin, CompanyID: c.ID}, p)

	// Degradado a user: el siguiente principal ya trae el rol nuevo.
	u.Role = entity.RoleUser
	require.NoError(t, f.users.Update(ctx, u))
	p, err = f.uc.CurrentPrincipal(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, p.Role)

	root := f.seedUser(t, "root@example.com", "secreto", entity.RoleSuperadmin, "", entity.UserStatusActive)
	p, err = f.uc.CurrentPrincipal(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperadmin, p.Role)
	assert.Empty(t, p.CompanyID)
}

func TestCurrentPrincipal_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := f.seedCompany(t, entity.CompanyStatusActive)
	inactive := f.seedCompany(t, entity.CompanyStatusInactive)
	disabled := f.seedUser(t, "off@example.com", "secreto", entity.RoleAdmin, active.ID, entity.UserStatusInactive)
	orphan := f.seedUser(t, "huerfano@example.com", "secreto", entity.RoleUser, uuid.New().String(), entity.UserStatusActive)
	member := f.seedUser(t, "miembro@example.com", "secreto", entity.RoleUser, inactive.ID, entity.UserStatusActive)

	cases := []struct {
		name   string
		userID string
		want   error
	}{
		{"sin usuario", "", domain.ErrUnauthorized},
		{"usuario inexistente", uuid.New().String(), domain.ErrUnauthorized},
		{"usuario inactivo", disabled.ID, domain.ErrUserDisabled},
		{"empresa inexistente", orphan.ID, domain.ErrUnauthorized},
		{"empresa inactiva", member.ID, domain.ErrCompanyDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := f.uc.CurrentPrincipal(ctx, tc.userID)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, p)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuperación de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestPasswordReset_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	c := f.seedCompany(t, entity.CompanyStatusActive)
	f.seedUser(t, "ana@example.com", "secreto", entity.RoleAdmin, c.ID, entity.UserStatusActive)
	ctx := context.Background()

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "ana@example.com"))
	require.Equal(t, 1, f.notifier.calls)
	token := f.notifier.token
	require.NotEmpty(t, token)
	for h := range f.resets.byHash {
		assert.NotEqual(t, token, h, "el token no se guarda en claro")
	}

	require.NoError(t, f.uc.ConfirmPasswordReset(ctx, dto.ResetPasswordRequest{Token: token, Password: "nuevo123"}))

	_, err := f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "nuevo123"})
	assert.NoError(t, err)

	err = f.uc.ConfirmPasswordReset(ctx, dto.ResetPasswordRequest{Token: token, Password: "otro1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken, "el token es de un solo uso")
}

func TestPasswordReset_EmailDesconocidoNoNotifica(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.RequestPasswordReset(context.Background(), "nadie@example.com"))
	assert.Equal(t, 0, f.notifier.calls)
}

func TestPasswordReset_TokenVencido(t *testing.T) {
	f := newFixture(t)
	c := f.seedCompany(t, entity.CompanyStatusActive)
	f.seedUser(t, "ana@example.com", "secreto", entity.RoleAdmin, c.ID, entity.UserStatusActive)
	ctx := context.Background()

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "ana@example.com"))
	f.now = f.now.Add(2 * time.Hour)

	err := f.uc.ConfirmPasswordReset(ctx, dto.ResetPasswordRequest{Token: f.notifier.token, Password: "nuevo123"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

	err = f.uc.ConfirmPasswordReset(ctx, dto.ResetPasswordRequest{Token: "inventado", Password: "nuevo123"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

	err = f.uc.ConfirmPasswordReset(ctx, dto.ResetPasswordRequest{Token: f.notifier.token, Password: "123"})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

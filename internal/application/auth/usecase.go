package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/internal/domain/entity"
	"github.com/domka/erp-api/internal/domain/repository"
	"github.com/domka/erp-api/pkg/jwt"
	"github.com/domka/erp-api/pkg/sanitize"
)

const (
	minPasswordLength = 6
	resetTokenTTL     = time.Hour
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Deps puertos que necesita el caso de uso.
type Deps struct {
	Users       repository.UserRepository
	Companies   repository.CompanyRepository
	Resets      repository.PasswordResetRepository
	Revocations repository.TokenRevocationRepository
	Tx          RegistrationTxRunner
	Notifier    ResetNotifier
	Activity    ActivityRecorder
	// BcryptCost por defecto bcrypt.DefaultCost.
	BcryptCost int
	// Now reloj inyectable; por defecto time.Now.
	Now func() time.Time
}

// AuthUseCase casos de uso de autenticación: registro, login, logout, sesión y recuperación.
type AuthUseCase struct {
	deps   Deps
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(deps Deps, jwtCfg JWTConfig) *AuthUseCase {
	if deps.BcryptCost == 0 {
		deps.BcryptCost = bcrypt.DefaultCost
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &AuthUseCase{deps: deps, jwtCfg: jwtCfg}
}

// Register crea el usuario y, si se indicó company_name, su empresa (plan free,
// módulos por defecto). Con company_code el usuario se une a una empresa existente.
// Devuelve la sesión iniciada.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	companyName := sanitize.Text(in.CompanyName)
	companyCode := strings.TrimSpace(in.CompanyCode)
	if (companyName == "") == (companyCode == "") {
		return nil, fmt.Errorf("%w: indique company_name o company_code", domain.ErrInvalidInput)
	}

	existing, err := uc.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := uc.deps.Now()
	var company *entity.Company
	role := entity.RoleAdmin
	if companyCode != "" {
		company, err = uc.deps.Companies.GetByID(ctx, companyCode)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrCompanyNotFound
		}
		if !company.IsActive() {
			return nil, domain.ErrCompanyDisabled
		}
		role = entity.RoleUser
	}
	newCompany := company == nil
	if newCompany {
		company = &entity.Company{
			ID:        uuid.New().String(),
			Name:      companyName,
			Plan:      entity.PlanFree,
			Status:    entity.CompanyStatusActive,
			Modules:   access.DefaultModules(entity.PlanFree),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.deps.BcryptCost)
	if err != nil {
		return nil, err
	}
	name := sanitize.Text(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.deps.Tx.RunRegistration(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		if newCompany {
			if err := companyRepo.Create(ctx, company); err != nil {
				return err
			}
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	if newCompany {
		uc.record(ctx, company.ID, user.ID, entity.ActivityCompany, "Empresa registrada: "+company.Name)
	}
	uc.record(ctx, company.ID, user.ID, entity.ActivityUser, "Nuevo usuario registrado: "+user.Email)
	return uc.issue(user, company)
}

// Login verifica email/password, genera JWT y retorna token, usuario, empresa y redirección.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	user, err := uc.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrWrongPassword
	}
	if !user.IsActive() {
		return nil, domain.ErrUserDisabled
	}

	var company *entity.Company
	if user.Role != entity.RoleSuperadmin {
		company, err = uc.deps.Companies.GetByID(ctx, user.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrCompanyNotFound
		}
		if !company.IsActive() {
			return nil, domain.ErrCompanyDisabled
		}
	}

	resp, err := uc.issue(user, company)
	if err != nil {
		return nil, err
	}
	companyID := ""
	if company != nil {
		companyID = company.ID
	}
	uc.record(ctx, companyID, user.ID, entity.ActivityLogin, "Inicio de sesión: "+user.Email)
	return resp, nil
}

// Logout revoca el token (jti) hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return domain.ErrUnauthorized
	}
	return uc.deps.Revocations.Revoke(ctx, jti, expiresAt)
}

// IsRevoked consulta la lista de revocación (usado por AuthMiddleware).
func (uc *AuthUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return uc.deps.Revocations.IsRevoked(ctx, jti)
}

// CurrentPrincipal reconstruye el principal desde el usuario almacenado. El rol
// y la empresa del token se ignoran: un cambio de rol o una desactivación
// aplican desde la siguiente petición.
func (uc *AuthUseCase) CurrentPrincipal(ctx context.Context, userID string) (*access.Principal, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrUserDisabled
	}

	p := &access.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
	if user.Role == entity.RoleSuperadmin {
		return p, nil
	}
	company, err := uc.deps.Companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrUnauthorized
	}
	if !company.IsActive() {
		return nil, domain.ErrCompanyDisabled
	}
	p.CompanyID = company.ID
	return p, nil
}

// Session arma el estado de sesión del principal: usuario, empresa, módulos y navegación.
func (uc *AuthUseCase) Session(ctx context.Context, p *access.Principal) (*dto.SessionResponse, error) {
	if p == nil || p.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.deps.Users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}

	var company *entity.Company
	if p.CompanyID != "" {
		company, err = uc.deps.Companies.GetByID(ctx, p.CompanyID)
		if err != nil {
			return nil, err
		}
	}
	tenant := access.TenantFromCompany(company)

	modules := make([]string, 0, len(entity.AllModules))
	for _, m := range entity.AllModules {
		if access.CanAccessModule(p, tenant, m) {
			modules = append(modules, m)
		}
	}
	return &dto.SessionResponse{
		User:       dto.ToUserResponse(user),
		Company:    dto.ToCompanySummary(company),
		Modules:    modules,
		Navigation: access.BuildNavigation(p, tenant),
		Redirect:   access.RedirectFor(p.Role),
	}, nil
}

// RequestPasswordReset emite un token de un solo uso. Para emails desconocidos
// no hace nada y no lo informa.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := uc.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive() {
		return nil
	}

	token := newResetToken()
	now := uc.deps.Now()
	reset := &entity.PasswordReset{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := uc.deps.Resets.Create(ctx, reset); err != nil {
		return err
	}
	return uc.deps.Notifier.SendPasswordReset(ctx, user.Email, user.Name, token)
}

// ConfirmPasswordReset consume el token y reemplaza la contraseña.
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, in dto.ResetPasswordRequest) error {
	if err := checkPassword(in.Password, in.ConfirmPassword); err != nil {
		return err
	}
	hash := hashToken(strings.TrimSpace(in.Token))
	reset, err := uc.deps.Resets.GetByHash(ctx, hash)
	if err != nil {
		return err
	}
	now := uc.deps.Now()
	if reset == nil || reset.UsedAt != nil || !now.Before(reset.ExpiresAt) {
		return domain.ErrInvalidResetToken
	}
	ok, err := uc.deps.Resets.MarkUsed(ctx, hash, now)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidResetToken
	}
	pw, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.deps.BcryptCost)
	if err != nil {
		return err
	}
	if err := uc.deps.Users.UpdatePassword(ctx, reset.UserID, string(pw)); err != nil {
		return err
	}
	uc.record(ctx, "", reset.UserID, entity.ActivityUser, "Contraseña restablecida")
	return nil
}

func (uc *AuthUseCase) issue(user *entity.User, company *entity.Company) (*dto.LoginResponse, error) {
	companyID := ""
	if user.Role != entity.RoleSuperadmin {
		companyID = user.CompanyID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, companyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      dto.ToUserResponse(user),
		Company:   dto.ToCompanySummary(company),
		Redirect:  access.RedirectFor(user.Role),
	}, nil
}

func (uc *AuthUseCase) record(ctx context.Context, companyID, userID, kind, description string) {
	if uc.deps.Activity != nil {
		uc.deps.Activity.Record(ctx, companyID, userID, kind, description)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func checkPassword(password, confirm string) error {
	if len([]rune(password)) < minPasswordLength {
		return domain.ErrWeakPassword
	}
	if confirm != "" && confirm != password {
		return domain.ErrPasswordMismatch
	}
	return nil
}

func newResetToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsCredentialError informa si err corresponde a credenciales inválidas (métricas/log).
func IsCredentialError(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrWrongPassword)
}

package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/pkg/jwt"
)

// Locals keys que deja AuthMiddleware en el contexto de Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalTokenID   = "token_id"
	LocalTokenExp  = "token_exp"
	localPrincipal = "principal"
)

// revocationChecker lo implementa *auth.AuthUseCase.
type revocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT, rechaza tokens revocados (logout)
// y deja el principal en c.Locals.
func AuthMiddleware(jwtSecret string, revocations revocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return deny(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header requerido", "missing_token")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return deny(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>", "invalid_token")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return deny(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "token vacío", "missing_token")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado", "invalid_token")
		}
		if claims.Role == "" {
			return deny(c, fiber.StatusUnauthorized, "MISSING_ROLE", "el token no incluye rol", "invalid_token")
		}

		if claims.ID != "" {
			revoked, err := revocations.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dtoError("AUTH_CHECK_FAILED", "no se pudo validar la sesión, intente más tarde"))
			}
			if revoked {
				return deny(c, fiber.StatusUnauthorized, "TOKEN_REVOKED", "la sesión fue cerrada", "revoked_token")
			}
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalCompanyID, claims.CompanyID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(LocalTokenExp, claims.ExpiresAt.Time)
		}
		c.Locals(localPrincipal, &access.Principal{
			UserID:    claims.UserID,
			Role:      claims.Role,
			CompanyID: claims.CompanyID,
		})
		return c.Next()
	}
}

// principalLoader lo implementa *auth.AuthUseCase.
type principalLoader interface {
	CurrentPrincipal(ctx context.Context, userID string) (*access.Principal, error)
}

// ActiveSession va después de AuthMiddleware. Recarga usuario y empresa en cada
// petición: corta con 403 si alguno está inactivo y reemplaza rol y empresa del
// token por los almacenados.
func ActiveSession(sessions principalLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := sessions.CurrentPrincipal(c.UserContext(), GetUserID(c))
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) ||
				errors.Is(err, domain.ErrUserDisabled) ||
				errors.Is(err, domain.ErrCompanyDisabled) {
				return writeError(c, err)
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dtoError("SESSION_CHECK_FAILED", "no se pudo validar la sesión, intente más tarde"))
		}
		c.Locals(LocalCompanyID, p.CompanyID)
		c.Locals(LocalRole, p.Role)
		c.Locals(localPrincipal, p)
		return c.Next()
	}
}

// RequireRole restringe la ruta a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return deny(c, fiber.StatusUnauthorized, "MISSING_ROLE", "rol no encontrado en el token", "invalid_token")
		}
		if !allowed[role] {
			return deny(c, fiber.StatusForbidden, "FORBIDDEN", "su rol no tiene acceso a este recurso", "role")
		}
		return c.Next()
	}
}

// RequirePermission restringe la ruta según la tabla rol -> permiso.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión requerida", "missing_token")
		}
		if !access.HasPermission(p, perm) {
			return deny(c, fiber.StatusForbidden, "FORBIDDEN", "permiso requerido: "+perm, "permission")
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal autenticado o nil.
func GetPrincipal(c *fiber.Ctx) *access.Principal {
	p, _ := c.Locals(localPrincipal).(*access.Principal)
	return p
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto; vacío para superadmin.
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRole devuelve el rol vigente del usuario.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

func tokenInfo(c *fiber.Ctx) (string, time.Time) {
	jti, _ := c.Locals(LocalTokenID).(string)
	exp, _ := c.Locals(LocalTokenExp).(time.Time)
	return jti, exp
}

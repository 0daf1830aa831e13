package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/domka/erp-api/internal/domain/access"
	"github.com/domka/erp-api/pkg/logger"
)

// moduleChecker lo implementa *usecase.ModuleService.
type moduleChecker interface {
	CanAccessModule(ctx context.Context, p *access.Principal, moduleName string) (bool, error)
}

// RequireModule verifica que la empresa del principal tenga el módulo activo.
// Va después de AuthMiddleware.
//   - 401 sin sesión.
//   - 503 si no se pudo consultar la empresa.
//   - 403 MODULE_DISABLED si el módulo no está habilitado o la empresa está inactiva.
func RequireModule(moduleName string, checker moduleChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return deny(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión requerida", "missing_token")
		}

		ok, err := checker.CanAccessModule(c.UserContext(), p, moduleName)
		if err != nil {
			log.Error().Err(err).Str("module", moduleName).Str("company_id", p.CompanyID).Msg("verificación de módulo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dtoError(
				"MODULE_CHECK_FAILED", "no se pudo verificar el módulo, intente más tarde"))
		}
		if !ok {
			return deny(c, fiber.StatusForbidden, "MODULE_DISABLED",
				"el módulo '"+moduleName+"' no está activo para esta empresa", "module_disabled")
		}
		return c.Next()
	}
}

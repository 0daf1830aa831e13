package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
	"github.com/domka/erp-api/pkg/logger"
)

// localDenyReason motivo de un 401/403/429; lo lee RequestLogger para las métricas.
const localDenyReason = "deny_reason"

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: los errores específicos antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInvalidEmail, fiber.StatusBadRequest, "INVALID_EMAIL"},
	{domain.ErrWeakPassword, fiber.StatusBadRequest, "WEAK_PASSWORD"},
	{domain.ErrPasswordMismatch, fiber.StatusBadRequest, "PASSWORD_MISMATCH"},
	{domain.ErrInvalidResetToken, fiber.StatusBadRequest, "INVALID_RESET_TOKEN"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "USER_NOT_FOUND"},
	{domain.ErrWrongPassword, fiber.StatusUnauthorized, "WRONG_PASSWORD"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUserDisabled, fiber.StatusForbidden, "USER_DISABLED"},
	{domain.ErrCompanyDisabled, fiber.StatusForbidden, "COMPANY_DISABLED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrCompanyNotFound, fiber.StatusNotFound, "COMPANY_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrTooManyRequests, fiber.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
}

// writeError traduce errores de dominio a dto.ErrorResponse. Lo que no es de
// dominio se devuelve tal cual para que ErrorHandler lo registre como 500.
func writeError(c *fiber.Ctx, err error) error {
	var verr *validationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: verr.code, Message: verr.message})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.status == fiber.StatusUnauthorized || m.status == fiber.StatusForbidden {
				c.Locals(localDenyReason, "use_case_"+strings.ToLower(m.code))
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return err
}

// deny corta la cadena con un error de acceso y anota el motivo.
func deny(c *fiber.Ctx, status int, code, message, reason string) error {
	c.Locals(localDenyReason, reason)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// ErrorHandler último recurso de Fiber: oculta el detalle de los 5xx, los
// registra y, si Sentry está activo, los reporta.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "error interno del servidor"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no controlado")
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
			message = "error interno del servidor"
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: statusCode(status), Message: message})
	}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusUnprocessableEntity:
		return "UNPROCESSABLE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}

func dtoError(code, message string) dto.ErrorResponse {
	return dto.ErrorResponse{Code: code, Message: message}
}

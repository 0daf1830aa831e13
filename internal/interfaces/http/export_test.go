package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/domka/erp-api/internal/application/dto"
)

// Accesos para los tests externos del paquete.

func WriteErrorForTest(c *fiber.Ctx, err error) error { return writeError(c, err) }

func BindQuoteForTest(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

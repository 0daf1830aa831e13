package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/domka/erp-api/internal/application/dto"
	"github.com/domka/erp-api/internal/domain"
)

// pageFrom lee limit y offset del query string; el caso de uso aplica los topes.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
}

// idParam devuelve el :id de la ruta. Un id que no es UUID no puede existir,
// así que responde como recurso inexistente sin consultar la base.
func idParam(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", domain.ErrNotFound
	}
	return id.String(), nil
}

// companyFilter empresa objetivo explícita (solo la usa el superadmin).
func companyFilter(c *fiber.Ctx) (string, error) {
	raw := c.Query("company_id")
	if raw == "" {
		return "", nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", &validationError{code: "VALIDATION", message: "company_id debe ser un UUID"}
	}
	return id.String(), nil
}

func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

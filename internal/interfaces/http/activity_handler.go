package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/domka/erp-api/internal/application/usecase"
)

// ActivityHandler registro de actividad.
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// Recent godoc
// @Summary      Actividad reciente
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Empresa (solo superadmin; vacío = todo el sistema)"
// @Param        limit       query  int     false  "Máximo de entradas"  default(10)
// @Success      200  {array}  dto.ActivityResponse
// @Router       /api/activity [get]
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	companyID, err := companyFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Recent(c.UserContext(), GetPrincipal(c), companyID, c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/domka/erp-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints de tableros.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Company godoc
// @Summary      Tablero de la empresa
// @Description  Conteos, ingresos aceptados, serie de 6 meses, cotizaciones recientes, tareas pendientes y actividad.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Empresa (obligatorio para superadmin)"
// @Success      200  {object}  dto.CompanyDashboardDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Company(c *fiber.Ctx) error {
	companyID, err := companyFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Company(c.UserContext(), GetPrincipal(c), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// System godoc
// @Summary      Panel del sistema
// @Description  Solo superadmin: totales, logins por día de la semana, empresas por plan y registros por semana.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SystemDashboardDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/superadmin/dashboard [get]
func (h *DashboardHandler) System(c *fiber.Ctx) error {
	out, err := h.uc.System(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

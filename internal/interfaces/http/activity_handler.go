package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/activity"
	"github.com/jhoicas/pos-api/internal/application/dto"
)

// ActivityHandler consulta del registro de actividad.
type ActivityHandler struct {
	uc *activity.UseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *activity.UseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List godoc
// @Summary      Registro de actividad
// @Tags         activity-logs
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página"  default(1)
// @Param        limit  query  int  false  "Límite"  default(10)
// @Success      200  {object}  dto.ListResponse[dto.ActivityLogResponse]
// @Router       /api/activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Entrada del registro de actividad
// @Tags         activity-logs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.ActivityLogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/activity-logs/{id} [get]
func (h *ActivityHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "registro")
	}
	return c.JSON(out)
}

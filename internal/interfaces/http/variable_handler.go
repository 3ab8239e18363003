package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// VariableHandler variantes sueltas de producto.
type VariableHandler struct {
	uc *usecase.VariableUseCase
}

// NewVariableHandler construye el handler.
func NewVariableHandler(uc *usecase.VariableUseCase) *VariableHandler {
	return &VariableHandler{uc: uc}
}

// Create godoc
// @Summary      Crear variante
// @Tags         variables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VariableRequest  true  "attribute (1..2), costPrice, sellPrice, stock"
// @Success      201   {object}  dto.VariableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/variables [post]
func (h *VariableHandler) Create(c *fiber.Ctx) error {
	var in dto.VariableRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener variante
// @Tags         variables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  dto.VariableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variables/{id} [get]
func (h *VariableHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "variante")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar variante
// @Tags         variables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la variante"
// @Param        body  body  dto.VariableRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.VariableResponse
// @Router       /api/variables/{id} [put]
func (h *VariableHandler) Update(c *fiber.Ctx) error {
	var in dto.VariableRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Alternar baja lógica de variante
// @Tags         variables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/variables/{id} [delete]
func (h *VariableHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.ToggleDelete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "variante actualizada"})
}

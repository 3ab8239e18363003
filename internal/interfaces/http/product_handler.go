package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.BarcodeConflictResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        page       query  int     false  "Página"  default(1)
// @Param        limit      query  int     false  "Límite"  default(10)
// @Param        keyword    query  string  false  "Nombre o código"
// @Param        timeType   query  string  false  "today, this_week, this_month, ..."
// @Param        sortBy     query  string  false  "Campo de orden"
// @Param        sortOrder  query  string  false  "asc | desc"
// @Success      200  {object}  dto.ListResponse[dto.ProductResponse]
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.BarcodeConflictResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Alternar baja lógica de producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.ToggleDelete(GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "producto actualizado"})
}

// DeleteList godoc
// @Summary      Baja lógica masiva
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteListRequest  true  "ids"
// @Success      200   {object}  dto.DeleteListResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/list/delete [delete]
func (h *ProductHandler) DeleteList(c *fiber.Ctx) error {
	var in dto.DeleteListRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.DeleteList(GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Serials godoc
// @Summary      Seriales disponibles
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SerialsRequest  true  "productId, variableId"
// @Success      200   {object}  dto.SerialsResponse
// @Router       /api/products/serials [post]
func (h *ProductHandler) Serials(c *fiber.Ctx) error {
	var in dto.SerialsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Serials(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Variables godoc
// @Summary      Variantes vigentes de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.VariableResponse
// @Router       /api/products/variables/{id} [get]
func (h *ProductHandler) Variables(c *fiber.Ctx) error {
	out, err := h.uc.Variables(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NextBarcode godoc
// @Summary      Siguiente código de barras libre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextBarcodeResponse
// @Router       /api/products/barcode/next-available [get]
func (h *ProductHandler) NextBarcode(c *fiber.Ctx) error {
	out, err := h.uc.NextBarcode()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CheckBarcode godoc
// @Summary      Verificar código de barras
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckBarcodeRequest  true  "barcode"
// @Success      200   {object}  dto.CheckBarcodeResponse
// @Router       /api/products/barcode/check-availability [post]
func (h *ProductHandler) CheckBarcode(c *fiber.Ctx) error {
	var in dto.CheckBarcodeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CheckBarcode(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Import godoc
// @Summary      Ingresar stock
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.ImportStockRequest  true  "quantity, unitCost, variableId, serials"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Import(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos de stock de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        page   query  int     false  "Página"  default(1)
// @Param        limit  query  int     false  "Límite"  default(10)
// @Success      200  {array}   dto.StockMovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	page := dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", dto.DefaultLimit)}
	out, err := h.uc.Movements(c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SerialHistory godoc
// @Summary      Historial de venta de un serial
// @Tags         history-serials
// @Security     Bearer
// @Produce      json
// @Param        serial  query  string  true  "Serial"
// @Success      200  {array}   dto.HistorySerialResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history-serials [get]
func (h *ProductHandler) SerialHistory(c *fiber.Ctx) error {
	out, err := h.uc.SerialHistory(c.Query("serial"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

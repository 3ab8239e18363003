package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero (/api/dashboards).
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func dashboardQuery(c *fiber.Ctx) (dto.DashboardQuery, error) {
	var q dto.DashboardQuery
	err := c.QueryParser(&q)
	return q, err
}

// Revenue godoc
// @Summary      Ingresos de hoy
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RevenueSummaryDTO
// @Router       /api/dashboards/revenue [get]
func (h *DashboardHandler) Revenue(c *fiber.Ctx) error {
	out, err := h.uc.Revenue(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DateTime godoc
// @Summary      Gráfica de ingresos por hora, día o semana
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        timeType    query  string  false  "TODAY, YESTERDAY, THIS_WEEK, THIS_MONTH, LAST_MONTH, THIS_QUARTER, THIS_YEAR, CUSTOM"
// @Param        customFrom  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        customTo    query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200  {object}  dto.DateTimeReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboards/dateTime [get]
func (h *DashboardHandler) DateTime(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.DateTime(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Year godoc
// @Summary      Resumen mensual del año
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        year  query  int  false  "Año (por defecto el actual)"
// @Success      200  {object}  dto.YearReportDTO
// @Router       /api/dashboards/year [get]
func (h *DashboardHandler) Year(c *fiber.Ctx) error {
	out, err := h.uc.Year(c.UserContext(), c.QueryInt("year", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        timeType  query  string  false  "Periodo"
// @Success      200  {object}  dto.TopProductDTO
// @Router       /api/dashboards/topProduct [get]
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.TopProducts(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Customers godoc
// @Summary      Clientes nuevos y crecimiento
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        timeType  query  string  false  "Periodo"
// @Success      200  {object}  dto.CustomerAnalyticsDTO
// @Router       /api/dashboards/customers [get]
func (h *DashboardHandler) Customers(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Customers(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Ingresos por categoría
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        timeType  query  string  false  "Periodo"
// @Success      200  {object}  dto.CategoryDistributionDTO
// @Router       /api/dashboards/categories [get]
func (h *DashboardHandler) Categories(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Categories(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Overview godoc
// @Summary      Todos los widgets del tablero en una sola llamada
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        timeType  query  string  false  "Periodo"
// @Success      200  {object}  dto.DashboardOverviewDTO
// @Router       /api/dashboards/overview [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Overview(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesReport godoc
// @Summary      Reporte de ventas detallado
// @Tags         dashboards
// @Security     Bearer
// @Produce      json
// @Param        timeType    query  string  false  "Periodo"
// @Param        customFrom  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        customTo    query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200  {object}  dto.SalesReportDTO
// @Router       /api/dashboards/sales-report [get]
func (h *DashboardHandler) SalesReport(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.SalesReport(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesReportPDF godoc
// @Summary      Reporte de ventas en PDF
// @Tags         dashboards
// @Security     Bearer
// @Produce      application/pdf
// @Param        timeType    query  string  false  "Periodo"
// @Param        customFrom  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        customTo    query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200  {file}  binary
// @Router       /api/dashboards/sales-report/pdf [get]
func (h *DashboardHandler) SalesReportPDF(c *fiber.Ctx) error {
	q, err := dashboardQuery(c)
	if err != nil {
		return badBody(c)
	}
	doc, name, err := h.uc.SalesReportPDF(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, doc, name)
}

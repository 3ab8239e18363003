package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardQuery rango del tablero: timeType más customFrom/customTo para CUSTOM.
type DashboardQuery struct {
	TimeType   string `query:"timeType"`
	CustomFrom string `query:"customFrom"`
	CustomTo   string `query:"customTo"`
}

// RevenueSummaryDTO respuesta de GET /api/dashboards/revenue (ventas de hoy).
type RevenueSummaryDTO struct {
	Title                string          `json:"title"`
	Value                decimal.Decimal `json:"value"`
	CompareWithYesterday int64           `json:"compareWithYesterday"` // % vs ayer
	CompareWithMonth     int64           `json:"compareWithMonth"`     // % vs promedio diario del mes
	TotalBill            int             `json:"totalBill"`
	TotalOrders          int             `json:"totalOrders"` // incluye eliminadas
	TotalReturnedOrders  int             `json:"totalReturnedOrders"`
	TotalNormalOrders    int             `json:"totalNormalOrders"`
}

// ChartPointDTO punto de una serie de ingresos.
type ChartPointDTO struct {
	Date      string          `json:"date"`
	Revenue   decimal.Decimal `json:"revenue"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Profit    decimal.Decimal `json:"profit"`
}

// DateTimeReportDTO series por hora, día del mes y día de la semana.
type DateTimeReportDTO struct {
	ChartHour      []ChartPointDTO `json:"chartHour"`
	ChartDay       []ChartPointDTO `json:"chartDay"`
	ChartWeek      []ChartPointDTO `json:"chartWeek"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCostPrice decimal.Decimal `json:"totalCostPrice"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	TotalOrders    int             `json:"totalOrders"`
}

// MonthPointDTO totales de un mes del año.
type MonthPointDTO struct {
	Month     int             `json:"month"`
	Date      string          `json:"date"` // "01".."12"
	Revenue   decimal.Decimal `json:"revenue"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Profit    decimal.Decimal `json:"profit"`
}

// YearReportDTO respuesta de GET /api/dashboards/year.
type YearReportDTO struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCostPrice decimal.Decimal `json:"totalCostPrice"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	MonthGroups    []MonthPointDTO `json:"monthGroups"`
}

// TopProductEntryDTO producto del ranking (date = nombre).
type TopProductEntryDTO struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// TopProductDTO top 10 por cantidad y por monto vendido.
type TopProductDTO struct {
	Quantity []TopProductEntryDTO `json:"quantity"`
	Revenue  []TopProductEntryDTO `json:"revenue"`
}

// CustomerAnalyticsDTO clientes nuevos vs el periodo anterior.
type CustomerAnalyticsDTO struct {
	NewCustomers            int   `json:"newCustomers"`
	NewCustomersGrowth      int64 `json:"newCustomersGrowth"`
	PreviousPeriodCustomers int   `json:"previousPeriodCustomers"`
}

// CategoryShareDTO participación de una categoría en las ventas.
type CategoryShareDTO struct {
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	Percentage int64           `json:"percentage"`
}

// CategoryDistributionDTO respuesta de GET /api/dashboards/categories.
type CategoryDistributionDTO struct {
	Categories   []CategoryShareDTO `json:"categories"`
	TotalRevenue decimal.Decimal    `json:"totalRevenue"`
}

// DashboardOverviewDTO todos los widgets del tablero en una sola respuesta.
type DashboardOverviewDTO struct {
	Revenue    *RevenueSummaryDTO       `json:"revenue"`
	DateTime   *DateTimeReportDTO       `json:"dateTime"`
	TopProduct *TopProductDTO           `json:"topProduct"`
	Customers  *CustomerAnalyticsDTO    `json:"customers"`
	Categories *CategoryDistributionDTO `json:"categories"`
}

// ReportPeriodDTO rango efectivo del reporte.
type ReportPeriodDTO struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	TimeType string    `json:"timeType"`
}

// SalesSummaryDTO totales del reporte de ventas.
type SalesSummaryDTO struct {
	TotalOrders    int             `json:"totalOrders"`
	TotalProducts  int             `json:"totalProducts"`
	TotalQuantity  int             `json:"totalQuantity"`
	TotalSellPrice decimal.Decimal `json:"totalSellPrice"`
	TotalCostPrice decimal.Decimal `json:"totalCostPrice"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	TotalDebt      decimal.Decimal `json:"totalDebt"`
	ActualRevenue  decimal.Decimal `json:"actualRevenue"`
	ActualProfit   decimal.Decimal `json:"actualProfit"`
}

// SalesDetailDTO fila del reporte: una línea de orden con los montos de la orden repartidos.
type SalesDetailDTO struct {
	OrderID         string          `json:"orderId"`
	OrderCode       string          `json:"orderCode"`
	OrderDate       time.Time       `json:"orderDate"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	ProductName     string          `json:"productName"`
	Barcode         string          `json:"barcode"`
	Serial          string          `json:"serial,omitempty"`
	Quantity        int             `json:"quantity"`
	SellPrice       decimal.Decimal `json:"sellPrice"`
	RealSellPrice   decimal.Decimal `json:"realSellPrice"`
	TotalSellAmount decimal.Decimal `json:"totalSellAmount"`
	CostPrice       decimal.Decimal `json:"costPrice"`
	TotalCostAmount decimal.Decimal `json:"totalCostAmount"`
	Profit          decimal.Decimal `json:"profit"`
	Debt            decimal.Decimal `json:"debt"`
	ActualRevenue   decimal.Decimal `json:"actualRevenue"`
	ActualProfit    decimal.Decimal `json:"actualProfit"`
	IsReturnOrder   bool            `json:"isReturnOrder"`
}

// SalesReportDTO respuesta de GET /api/dashboards/sales-report.
type SalesReportDTO struct {
	Period       ReportPeriodDTO  `json:"period"`
	Summary      SalesSummaryDTO  `json:"summary"`
	SalesDetails []SalesDetailDTO `json:"salesDetails"`
}

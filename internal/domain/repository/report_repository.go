package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ProductSalesResult cantidad y monto vendido de un producto en un periodo.
type ProductSalesResult struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal // Σ cantidad × precio de venta
}

// CategorySalesResult monto vendido por categoría.
type CategorySalesResult struct {
	CategoryID string
	Name       string
	Revenue    decimal.Decimal
}

// ReportRepository define las consultas de lectura para el tablero y el reporte de ventas.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// OrderFigures devuelve las órdenes creadas en el rango. includeDeleted incluye las eliminadas.
	OrderFigures(ctx context.Context, from, to time.Time, includeDeleted bool) ([]entity.OrderFigure, error)

	// ProductSales agrupa las líneas de órdenes no eliminadas por producto.
	ProductSales(ctx context.Context, from, to time.Time) ([]ProductSalesResult, error)

	// CategorySales agrupa las líneas por la categoría del producto, descendente por monto.
	CategorySales(ctx context.Context, from, to time.Time) ([]CategorySalesResult, error)

	// CountNewCustomers cuenta clientes no eliminados creados en el rango.
	CountNewCustomers(ctx context.Context, from, to time.Time) (int, error)

	// OrdersWithItems devuelve las órdenes no eliminadas del rango con sus líneas, más recientes primero.
	OrdersWithItems(ctx context.Context, from, to time.Time) ([]*entity.Order, error)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*AnalyticsRepo)(nil)

// billedExpr monto facturado de la orden: con descuento si existe, si no el total.
const billedExpr = `CASE WHEN o.total_amount_discount > 0 THEN o.total_amount_discount ELSE o.total_amount END`

// AnalyticsRepo consultas de solo lectura para el tablero y el reporte de ventas.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// OrderFigures devuelve los montos de cada orden del rango, ordenados por fecha.
func (r *AnalyticsRepo) OrderFigures(ctx context.Context, from, to time.Time, includeDeleted bool) ([]entity.OrderFigure, error) {
	query := `
	SELECT o.id, o.created_at, ` + billedExpr + ` AS billed, o.total_cost_price, o.is_return_order, o.is_delete
	FROM orders o
	WHERE o.created_at BETWEEN $1 AND $2`
	if !includeDeleted {
		query += ` AND NOT o.is_delete`
	}
	query += ` ORDER BY o.created_at`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrderFigures: %w", err)
	}
	defer rows.Close()

	var results []entity.OrderFigure
	for rows.Next() {
		var f entity.OrderFigure
		if err := rows.Scan(&f.ID, &f.CreatedAt, &f.Billed, &f.TotalCostPrice, &f.IsReturnOrder, &f.IsDelete); err != nil {
			return nil, fmt.Errorf("analytics.OrderFigures scan: %w", err)
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

// ProductSales agrupa cantidad y monto vendido por producto.
func (r *AnalyticsRepo) ProductSales(ctx context.Context, from, to time.Time) ([]repository.ProductSalesResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.name,
	    COALESCE(SUM(oi.quantity), 0)                  AS quantity,
	    COALESCE(SUM(oi.quantity * oi.sell_price), 0)  AS revenue
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.id
	JOIN products    p  ON p.id        = oi.product_id
	WHERE o.created_at BETWEEN $1 AND $2
	  AND NOT o.is_delete
	GROUP BY p.id, p.name`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.ProductSales: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductSalesResult
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Quantity, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.ProductSales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// CategorySales agrupa el monto vendido por categoría del producto.
func (r *AnalyticsRepo) CategorySales(ctx context.Context, from, to time.Time) ([]repository.CategorySalesResult, error) {
	const query = `
	SELECT
	    c.id,
	    c.name,
	    COALESCE(SUM(oi.quantity * oi.sell_price), 0) AS revenue
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.id
	JOIN products    p  ON p.id        = oi.product_id
	JOIN categories  c  ON c.id        = p.category_id
	WHERE o.created_at BETWEEN $1 AND $2
	  AND NOT o.is_delete
	GROUP BY c.id, c.name
	ORDER BY revenue DESC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.CategorySales: %w", err)
	}
	defer rows.Close()

	var results []repository.CategorySalesResult
	for rows.Next() {
		var row repository.CategorySalesResult
		if err := rows.Scan(&row.CategoryID, &row.Name, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.CategorySales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// CountNewCustomers cuenta clientes vigentes creados en el rango.
func (r *AnalyticsRepo) CountNewCustomers(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM customers WHERE created_at BETWEEN $1 AND $2 AND NOT is_delete`, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountNewCustomers: %w", err)
	}
	return n, nil
}

// OrdersWithItems devuelve las órdenes vigentes del rango con sus líneas, más recientes primero.
func (r *AnalyticsRepo) OrdersWithItems(ctx context.Context, from, to time.Time) ([]*entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT `+orderColumns+`
	FROM orders o
	WHERE o.created_at BETWEEN $1 AND $2 AND NOT o.is_delete
	ORDER BY o.created_at DESC, o.id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrdersWithItems: %w", err)
	}
	var orders []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("analytics.OrdersWithItems scan: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	if err := loadOrderItems(ctx, r.pool, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

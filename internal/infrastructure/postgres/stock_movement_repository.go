package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, variable_id, order_id, type, quantity, serial, unit_cost, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, nullable(m.VariableID), nullable(m.OrderID), m.Type, m.Quantity, m.Serial,
		m.UnitCost, m.CreatedAt, nullable(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve el kardex del producto (incluye sus variantes), más reciente primero.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.q.Query(context.Background(), `
		SELECT id, product_id, variable_id, order_id, type, quantity, serial, unit_cost, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var variableID, orderID, createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &variableID, &orderID, &m.Type, &m.Quantity, &m.Serial,
			&m.UnitCost, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.VariableID = deref(variableID)
		m.OrderID = deref(orderID)
		m.CreatedBy = deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

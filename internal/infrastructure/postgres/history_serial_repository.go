package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.HistorySerialRepository = (*HistorySerialRepo)(nil)

// HistorySerialRepo implementación de HistorySerialRepository.
type HistorySerialRepo struct {
	q Querier
}

// NewHistorySerialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistorySerialRepository(q Querier) *HistorySerialRepo {
	return &HistorySerialRepo{q: q}
}

// Create registra la venta de un serial.
func (r *HistorySerialRepo) Create(h *entity.HistorySerial) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO history_serials (id, product_id, variable_id, order_id, serial, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.ProductID, nullable(h.VariableID), nullable(h.OrderID), h.Serial, h.SoldAt,
	)
	if err != nil {
		return fmt.Errorf("insert history serial: %w", err)
	}
	return nil
}

// ListBySerial devuelve las ventas de un serial, más recientes primero.
func (r *HistorySerialRepo) ListBySerial(serial string) ([]*entity.HistorySerial, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, product_id, variable_id, order_id, serial, sold_at
		FROM history_serials WHERE serial = $1 ORDER BY sold_at DESC`, serial)
	if err != nil {
		return nil, fmt.Errorf("list history serials: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistorySerial
	for rows.Next() {
		var h entity.HistorySerial
		var variableID, orderID *string
		if err := rows.Scan(&h.ID, &h.ProductID, &variableID, &orderID, &h.Serial, &h.SoldAt); err != nil {
			return nil, fmt.Errorf("scan history serial: %w", err)
		}
		h.VariableID = deref(variableID)
		h.OrderID = deref(orderID)
		list = append(list, &h)
	}
	return list, rows.Err()
}

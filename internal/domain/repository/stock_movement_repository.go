package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia para movimientos de stock.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
}

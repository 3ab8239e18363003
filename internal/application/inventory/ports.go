package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Stores repositorios atados a una misma transacción.
type Stores struct {
	Products       repository.ProductRepository
	Variables      repository.VariableRepository
	Orders         repository.OrderRepository
	HistorySerials repository.HistorySerialRepository
	StockMovements repository.StockMovementRepository
	ActivityLogs   repository.ActivityLogRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback de todo lo escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(s Stores) error) error
}

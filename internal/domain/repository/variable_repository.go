package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// VariableRepository define el puerto de persistencia para variantes de producto.
type VariableRepository interface {
	Create(variable *entity.Variable) error
	GetByID(id string) (*entity.Variable, error)
	GetForUpdate(id string) (*entity.Variable, error)
	Update(variable *entity.Variable) error
	UpdateStock(id string, stock int, serials []string) error
	UpdateCost(id string, cost decimal.Decimal) error
	SetDeleted(id string, deleted bool) error
	ListByProduct(productID string) ([]*entity.Variable, error)
}

package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	// GetByID devuelve el producto (incluso eliminado) sin variantes; nil si no existe.
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila dentro de la transacción.
	GetForUpdate(id string) (*entity.Product, error)
	// GetActiveByBarcode busca entre productos no eliminados; excludeID permite ignorar el propio.
	GetActiveByBarcode(barcode, excludeID string) (*entity.Product, error)
	ListBarcodes() ([]string, error)
	ExistingIDs(ids []string) ([]string, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stock int, serials []string) error
	UpdateCost(id string, cost decimal.Decimal) error
	SetDeleted(ids []string, deleted bool) error
	List(filter ListFilter) ([]*entity.Product, int, error)
}

package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// NextNumber reserva el siguiente número de secuencia de orden.
	NextNumber() (int64, error)
	// Create persiste cabecera y líneas.
	Create(order *entity.Order) error
	// GetByID devuelve la orden con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Order, error)
	GetForUpdate(id string) (*entity.Order, error)
	// UpdateSettlement actualiza montos, estado y banderas (no toca las líneas).
	UpdateSettlement(order *entity.Order) error
	List(filter ListFilter) ([]*entity.Order, int, error)
}

package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer. Los eliminados no se devuelven.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByPhone(phone string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	SoftDelete(id string) error
	List(filter ListFilter) ([]*entity.Customer, int, error)
}

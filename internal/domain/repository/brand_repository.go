package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// BrandRepository define el puerto de persistencia para Brand.
type BrandRepository interface {
	Create(brand *entity.Brand) error
	GetByID(id string) (*entity.Brand, error)
	GetByName(name string) (*entity.Brand, error)
	Update(brand *entity.Brand) error
	List() ([]*entity.Brand, error)
	SoftDelete(id string) error
}

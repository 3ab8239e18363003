package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	UpdatePassword(id, passwordHash string) error
	UpdateRefreshToken(id, refreshTokenHash string) error
	ListByRole(role string) ([]*entity.User, error)
	Delete(id string) error
}

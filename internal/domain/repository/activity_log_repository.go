package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// ActivityLogRepository define el puerto de persistencia de la bitácora.
type ActivityLogRepository interface {
	Create(log *entity.ActivityLog) error
	GetByID(id string) (*entity.ActivityLog, error)
	List(limit, offset int) ([]*entity.ActivityLog, int, error)
}

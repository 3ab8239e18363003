package activity

import (
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// UseCase consulta de la bitácora.
type UseCase struct {
	repo repository.ActivityLogRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ActivityLogRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List devuelve la bitácora paginada, más reciente primero.
func (uc *UseCase) List(page dto.PageRequest) (*dto.ListResponse[dto.ActivityLogResponse], error) {
	page.DefaultPage()
	logs, total, err := uc.repo.List(page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toResponse(l))
	}
	return &dto.ListResponse[dto.ActivityLogResponse]{Data: out, Attrs: dto.NewPageAttrs(total, page)}, nil
}

// GetByID devuelve una entrada; nil si no existe.
func (uc *UseCase) GetByID(id string) (*dto.ActivityLogResponse, error) {
	l, err := uc.repo.GetByID(id)
	if err != nil || l == nil {
		return nil, err
	}
	out := toResponse(l)
	return &out, nil
}

func toResponse(l *entity.ActivityLog) dto.ActivityLogResponse {
	return dto.ActivityLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		UserName:  l.UserName,
		Action:    l.Action,
		Message:   l.Message,
		RefID:     l.RefID,
		RefType:   l.RefType,
		Metadata:  l.Metadata,
		CreatedAt: l.CreatedAt,
	}
}

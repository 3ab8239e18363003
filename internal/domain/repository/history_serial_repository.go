package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// HistorySerialRepository historial de ventas de unidades serializadas.
type HistorySerialRepository interface {
	Create(h *entity.HistorySerial) error
	ListBySerial(serial string) ([]*entity.HistorySerial, error)
}

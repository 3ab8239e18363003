// Package activity registra y consulta la bitácora de acciones del personal.
package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// NewEntry arma una entrada de bitácora; metadata se serializa a JSON.
func NewEntry(userID, action, message, refID, refType string, metadata map[string]any) *entity.ActivityLog {
	raw, err := json.Marshal(metadata)
	if err != nil || metadata == nil {
		raw = []byte("{}")
	}
	return &entity.ActivityLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Message:   message,
		RefID:     refID,
		RefType:   refType,
		Metadata:  raw,
		CreatedAt: time.Now(),
	}
}

// Recorder escribe entradas fuera de una transacción; un fallo se registra en el log y no se propaga.
type Recorder struct {
	repo repository.ActivityLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.ActivityLogRepository, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, log: log}
}

// Record persiste la entrada.
func (r *Recorder) Record(entry *entity.ActivityLog) {
	if err := r.repo.Create(entry); err != nil {
		r.log.Warn().Err(err).
			Str("action", entry.Action).
			Str("ref_id", entry.RefID).
			Msg("no se pudo registrar la actividad")
	}
}

package dto

import (
	"encoding/json"
	"time"
)

// ActivityLogResponse entrada de la bitácora con el nombre del usuario.
type ActivityLogResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	UserName  string          `json:"userName"`
	Action    string          `json:"action"`
	Message   string          `json:"message"`
	RefID     string          `json:"refId,omitempty"`
	RefType   string          `json:"refType"`
	Metadata  json.RawMessage `json:"metadata" swaggertype:"object"`
	CreatedAt time.Time       `json:"createdAt"`
}

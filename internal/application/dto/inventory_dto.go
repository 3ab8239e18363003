package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportStockRequest entrada de mercancía a un producto o a una de sus variantes.
type ImportStockRequest struct {
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	VariableID string          `json:"variableId,omitempty"`
	Serials    []string        `json:"serials,omitempty"`
}

// StockMovementResponse salida de un movimiento del kardex.
type StockMovementResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	VariableID string          `json:"variableId,omitempty"`
	OrderID    string          `json:"orderId,omitempty"`
	Type       string          `json:"type"`
	Quantity   int             `json:"quantity"`
	Serial     string          `json:"serial,omitempty"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy,omitempty"`
}

// HistorySerialResponse venta registrada de un serial.
type HistorySerialResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	VariableID string    `json:"variableId,omitempty"`
	OrderID    string    `json:"orderId"`
	Serial     string    `json:"serial"`
	SoldAt     time.Time `json:"soldAt"`
}

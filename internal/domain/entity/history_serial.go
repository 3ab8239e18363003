package entity

import "time"

// HistorySerial registra la venta de una unidad serializada.
type HistorySerial struct {
	ID         string
	ProductID  string
	VariableID string
	OrderID    string
	Serial     string
	SoldAt     time.Time
}

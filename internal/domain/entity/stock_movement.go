package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn      = "IN"      // entrada de mercancía
	MovementTypeOut     = "OUT"     // venta
	MovementTypeReturn  = "RETURN"  // devolución de cliente
	MovementTypeRestore = "RESTORE" // reversa por eliminación de orden
)

// StockMovement representa un cambio de stock de un producto (o de una de sus variantes).
type StockMovement struct {
	ID         string
	ProductID  string
	VariableID string
	OrderID    string // vacío en entradas de mercancía
	Type       string
	Quantity   int // positivo entrada, negativo salida
	Serial     string
	UnitCost   decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

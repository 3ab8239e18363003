package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una orden.
const (
	PaymentStatusUnpaid     = "unpaid"
	PaymentStatusPartial    = "partial"
	PaymentStatusPaid       = "paid"
	PaymentStatusPaidRefund = "paid_refund" // orden devuelta y reembolsada
)

// Tipos de descuento.
const (
	DiscountTypePercent = "percent"
	DiscountTypeMoney   = "money"
)

// Order representa la cabecera de una venta (o devolución) de la tienda.
type Order struct {
	ID                  string
	Number              int64  // secuencia interna
	Code                string // código legible derivado de Number
	StaffID             string
	CustomerID          string // vacío si es cliente de mostrador
	CustomerName        string
	CustomerPhone       string
	CustomerAddress     string
	Items               []*OrderItem
	DiscountType        string
	DiscountValue       decimal.Decimal
	TotalAmount         decimal.Decimal
	TotalAmountDiscount decimal.Decimal
	TotalCostPrice      decimal.Decimal
	EstimatedRevenue    decimal.Decimal // lo efectivamente cobrado
	CustomerPaid        decimal.Decimal
	CustomerDebt        decimal.Decimal
	PaymentStatus       string
	IsReturnOrder       bool
	ReasonRefund        string
	IsDelete            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Billed es el valor facturado: el total con descuento si existe, si no el total bruto.
func (o *Order) Billed() decimal.Decimal {
	return BilledAmount(o.TotalAmount, o.TotalAmountDiscount)
}

// BilledAmount aplica la regla de valor facturado sobre totales sueltos.
func BilledAmount(total, totalDiscount decimal.Decimal) decimal.Decimal {
	if totalDiscount.GreaterThan(decimal.Zero) {
		return totalDiscount
	}
	return total
}

// OrderItem línea de una orden. Las ventas por serial generan una línea por serial con cantidad 1.
type OrderItem struct {
	ID            string
	OrderID       string
	ProductID     string
	VariableID    string // vacío si el producto no tiene variantes
	Name          string
	Barcode       string
	Serial        string // vacío si no aplica
	Quantity      int
	SellPrice     decimal.Decimal
	RealSellPrice decimal.Decimal
	TypeProduct   ProductType
	Position      int
}

// Amount devuelve cantidad × precio de venta.
func (i *OrderItem) Amount() decimal.Decimal {
	return i.SellPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFigure proyección liviana de una orden para agregados de reportes.
type OrderFigure struct {
	ID             string
	CreatedAt      time.Time
	Billed         decimal.Decimal
	TotalCostPrice decimal.Decimal
	IsReturnOrder  bool
	IsDelete       bool
}

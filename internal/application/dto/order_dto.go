package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderVariableRequest variante elegida en una línea de tipo 300/400.
type OrderVariableRequest struct {
	VariableID    string          `json:"variableId"`
	Attributes    []AttributeDTO  `json:"attribute"`
	Serials       []string        `json:"serials"`
	SellPrice     decimal.Decimal `json:"sellPrice"`
	RealSellPrice decimal.Decimal `json:"realSellPrice"`
}

// OrderItemRequest línea del carrito.
//   - 100: quantity + sellPrice
//   - 200: serials + sellPrice
//   - 300: variable + quantity
//   - 400: variable con serials
type OrderItemRequest struct {
	TypeProduct   int                   `json:"typeProduct"`
	CartProductID string                `json:"cartProductId,omitempty"`
	ProductID     string                `json:"productId"`
	Barcode       string                `json:"barcode,omitempty"`
	Name          string                `json:"name"`
	Quantity      int                   `json:"quantity"`
	SellPrice     decimal.Decimal       `json:"sellPrice"`
	RealSellPrice decimal.Decimal       `json:"realSellPrice"`
	Variable      *OrderVariableRequest `json:"variable,omitempty"`
	Serials       []string              `json:"serials,omitempty"`
}

// CreateOrderRequest entrada para registrar una venta.
type CreateOrderRequest struct {
	StaffID             string             `json:"staffId"`
	CustomerID          string             `json:"customerId,omitempty"`
	CustomerName        string             `json:"customerName,omitempty"`
	CustomerPhone       string             `json:"customerPhone,omitempty"`
	CustomerAddress     string             `json:"customerAddress,omitempty"`
	ProductList         []OrderItemRequest `json:"productList"`
	DiscountType        string             `json:"discountType"`
	DiscountValue       decimal.Decimal    `json:"discountValue"`
	TotalAmount         decimal.Decimal    `json:"totalAmount"`
	TotalAmountDiscount decimal.Decimal    `json:"totalAmountDiscount"`
	CustomerPaid        decimal.Decimal    `json:"customerPaid"`
	SaleDate            string             `json:"saleDate,omitempty"` // RFC3339 o AAAA-MM-DD
}

// ReturnItemRequest línea devuelta.
type ReturnItemRequest struct {
	ProductID   string `json:"productId"`
	TypeProduct int    `json:"typeProduct"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Serial      string `json:"serial,omitempty"`
	VariableID  string `json:"variableId,omitempty"`
}

// RefundRequest dinero devuelto al cliente y motivo.
type RefundRequest struct {
	Money  decimal.Decimal `json:"money"`
	Reason string          `json:"reason"`
}

// ReturnOrderRequest devolución de una orden. itemOrder vacío devuelve todas las líneas.
type ReturnOrderRequest struct {
	StaffID   string              `json:"staffId"`
	Refund    RefundRequest       `json:"refund"`
	ItemOrder []ReturnItemRequest `json:"itemOrder"`
}

// PayDebtRequest abono a la deuda de una orden.
type PayDebtRequest struct {
	OrderID string          `json:"orderId"`
	Money   decimal.Decimal `json:"money"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	VariableID    string          `json:"variableId,omitempty"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Serial        *string         `json:"serial"`
	Quantity      int             `json:"quantity"`
	SellPrice     decimal.Decimal `json:"sellPrice"`
	RealSellPrice decimal.Decimal `json:"realSellPrice"`
	TypeProduct   int             `json:"typeProduct"`
}

// OrderResponse salida de una orden con sus líneas.
type OrderResponse struct {
	ID                  string              `json:"id"`
	Code                string              `json:"code"`
	StaffID             string              `json:"staffId"`
	CustomerID          string              `json:"customerId,omitempty"`
	CustomerName        string              `json:"customerName"`
	CustomerPhone       string              `json:"customerPhone"`
	CustomerAddress     string              `json:"customerAddress"`
	ProductList         []OrderItemResponse `json:"productList"`
	DiscountType        string              `json:"discountType"`
	DiscountValue       decimal.Decimal     `json:"discountValue"`
	TotalAmount         decimal.Decimal     `json:"totalAmount"`
	TotalAmountDiscount decimal.Decimal     `json:"totalAmountDiscount"`
	TotalCostPrice      decimal.Decimal     `json:"totalCostPrice"`
	EstimatedRevenue    decimal.Decimal     `json:"estimatedRevenue"`
	CustomerPaid        decimal.Decimal     `json:"customerPaid"`
	CustomerDebt        decimal.Decimal     `json:"customerDebt"`
	PaymentStatus       string              `json:"paymentStatus"`
	IsReturnOrder       bool                `json:"isReturnOrder"`
	ReasonRefund        string              `json:"reasonRefund,omitempty"`
	IsDelete            bool                `json:"isDelete"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

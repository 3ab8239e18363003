// Package sales contiene las reglas de liquidación de órdenes (deuda y estado de pago).
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// Settle calcula la deuda y el estado de pago de una orden nueva.
// deuda = max(0, facturado - pagado). paid si no hay deuda, partial si hubo abono, unpaid si no.
func Settle(billed, paid decimal.Decimal) (debt decimal.Decimal, status string) {
	debt = billed.Sub(paid)
	if debt.LessThan(decimal.Zero) {
		debt = decimal.Zero
	}
	switch {
	case debt.IsZero():
		status = entity.PaymentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		status = entity.PaymentStatusPartial
	default:
		status = entity.PaymentStatusUnpaid
	}
	return debt, status
}

// ApplyPayment registra un abono sobre la deuda actual.
func ApplyPayment(o *entity.Order, money decimal.Decimal) {
	o.CustomerDebt = o.CustomerDebt.Sub(money)
	if o.CustomerDebt.LessThanOrEqual(decimal.Zero) {
		o.CustomerDebt = decimal.Zero
		o.PaymentStatus = entity.PaymentStatusPaid
	} else {
		o.PaymentStatus = entity.PaymentStatusPartial
	}
	o.EstimatedRevenue = o.EstimatedRevenue.Add(money)
	o.CustomerPaid = o.CustomerPaid.Add(money)
}

// ApplyRefund marca la orden como devuelta: ingreso = max(0, facturado - reembolso), costo 0.
func ApplyRefund(o *entity.Order, refund decimal.Decimal, reason string) {
	revenue := o.Billed().Sub(refund)
	if revenue.LessThan(decimal.Zero) {
		revenue = decimal.Zero
	}
	o.EstimatedRevenue = revenue
	o.TotalCostPrice = decimal.Zero
	o.IsReturnOrder = true
	o.PaymentStatus = entity.PaymentStatusPaidRefund
	o.ReasonRefund = reason
}

// Percent devuelve round((cur - prev) / prev * 100), o 0 si prev es 0.
func Percent(cur, prev decimal.Decimal) int64 {
	if prev.IsZero() {
		return 0
	}
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Package orders registra ventas y devoluciones, abonos a deuda y bajas de órdenes.
// Cada operación corre en una sola transacción junto con sus efectos de stock y su bitácora.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/activity"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/sales"
)

// Deps dependencias del caso de uso de órdenes.
type Deps struct {
	Orders    repository.OrderRepository
	Customers repository.CustomerRepository
	Tx        inventory.TxRunner
	Stock     *inventory.StockService
	Codes     CodeEncoder
	Invoices  InvoiceRenderer
	Location  *time.Location
}

// UseCase operaciones sobre órdenes.
type UseCase struct {
	d   Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Stock == nil {
		d.Stock = inventory.NewStockService()
	}
	return &UseCase{d: d, now: time.Now}
}

// Create registra una venta: descuenta stock por línea, calcula deuda y estado de pago y deja la bitácora.
// Si una línea falla (stock, serial, producto inexistente) no queda nada escrito.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.ProductList) == 0 {
		return nil, fmt.Errorf("%w: productList no puede estar vacío", domain.ErrInvalidInput)
	}
	if err := checkAmounts(in); err != nil {
		return nil, err
	}
	lines := make([]inventory.SaleLine, 0, len(in.ProductList))
	for i, item := range in.ProductList {
		line, err := saleLine(item)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}

	now := uc.now().In(uc.d.Location)
	createdAt := now
	if in.SaleDate != "" {
		t, err := parseSaleDate(in.SaleDate, uc.d.Location)
		if err != nil {
			return nil, err
		}
		createdAt = t
	}

	o := &entity.Order{
		ID:                  uuid.New().String(),
		StaffID:             firstNonEmpty(in.StaffID, userID),
		CustomerID:          in.CustomerID,
		CustomerName:        strings.TrimSpace(in.CustomerName),
		CustomerPhone:       strings.TrimSpace(in.CustomerPhone),
		CustomerAddress:     strings.TrimSpace(in.CustomerAddress),
		DiscountType:        in.DiscountType,
		DiscountValue:       in.DiscountValue,
		TotalAmount:         in.TotalAmount,
		TotalAmountDiscount: in.TotalAmountDiscount,
		CustomerPaid:        in.CustomerPaid,
		EstimatedRevenue:    in.CustomerPaid,
		CreatedAt:           createdAt,
		UpdatedAt:           now,
	}
	if o.CustomerID != "" {
		c, err := uc.d.Customers.GetByID(o.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, o.CustomerID)
		}
		o.CustomerName = firstNonEmpty(o.CustomerName, c.Name)
		o.CustomerPhone = firstNonEmpty(o.CustomerPhone, c.Phone)
		o.CustomerAddress = firstNonEmpty(o.CustomerAddress, c.Address)
	}
	o.CustomerDebt, o.PaymentStatus = sales.Settle(o.Billed(), o.CustomerPaid)

	err := uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		n, err := s.Orders.NextNumber()
		if err != nil {
			return err
		}
		o.Number = n
		if o.Code, err = uc.d.Codes.Encode(n); err != nil {
			return fmt.Errorf("código de orden: %w", err)
		}

		cost := decimal.Zero
		items := make([]*entity.OrderItem, 0, len(lines))
		for _, line := range lines {
			sold, c, err := uc.d.Stock.Sell(s, o.ID, userID, line)
			if err != nil {
				return err
			}
			items = append(items, sold...)
			cost = cost.Add(c)
		}
		for i, it := range items {
			it.Position = i
		}
		o.Items = items
		o.TotalCostPrice = cost

		if err := s.Orders.Create(o); err != nil {
			return err
		}
		return s.ActivityLogs.Create(activity.NewEntry(userID, entity.ActionCreateOrder,
			fmt.Sprintf("order for %s(%s)", o.CustomerName, o.CustomerPhone), o.ID, entity.RefTypeOrder,
			map[string]any{
				"total":               o.Billed(),
				"totalAmountDiscount": o.TotalAmountDiscount,
				"productCount":        len(items),
			}))
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

func checkAmounts(in dto.CreateOrderRequest) error {
	switch in.DiscountType {
	case "", entity.DiscountTypePercent, entity.DiscountTypeMoney:
	default:
		return fmt.Errorf("%w: discountType debe ser percent o money", domain.ErrInvalidInput)
	}
	for _, v := range []decimal.Decimal{in.DiscountValue, in.TotalAmount, in.TotalAmountDiscount, in.CustomerPaid} {
		if v.IsNegative() {
			return fmt.Errorf("%w: los montos no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	return nil
}

// saleLine normaliza una línea del carrito: en 300/400 precios y seriales vienen de la variante elegida.
func saleLine(item dto.OrderItemRequest) (inventory.SaleLine, error) {
	t := entity.ProductType(item.TypeProduct)
	if !t.Valid() {
		return inventory.SaleLine{}, fmt.Errorf("%w: typeProduct %d", domain.ErrInvalidInput, item.TypeProduct)
	}
	if item.ProductID == "" {
		return inventory.SaleLine{}, fmt.Errorf("%w: productId requerido", domain.ErrInvalidInput)
	}
	line := inventory.SaleLine{
		Type:          t,
		ProductID:     item.ProductID,
		Name:          strings.TrimSpace(item.Name),
		Barcode:       item.Barcode,
		Quantity:      item.Quantity,
		Serials:       item.Serials,
		SellPrice:     item.SellPrice,
		RealSellPrice: item.RealSellPrice,
	}
	if t.HasVariant() {
		if item.Variable == nil || item.Variable.VariableID == "" {
			return inventory.SaleLine{}, fmt.Errorf("%w: variable requerida para typeProduct %d", domain.ErrInvalidInput, t)
		}
		line.VariableID = item.Variable.VariableID
		line.SellPrice = item.Variable.SellPrice
		line.RealSellPrice = item.Variable.RealSellPrice
		if t.HasSerial() {
			line.Serials = item.Variable.Serials
		}
	}
	if line.SellPrice.IsNegative() || line.RealSellPrice.IsNegative() {
		return inventory.SaleLine{}, fmt.Errorf("%w: precios negativos", domain.ErrInvalidInput)
	}
	return line, nil
}

// parseSaleDate acepta RFC3339 o AAAA-MM-DD (medianoche en la zona de la tienda).
func parseSaleDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: saleDate %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// Return devuelve la orden: repone stock y seriales de las líneas devueltas y liquida el reembolso.
// itemOrder vacío devuelve todas las líneas.
func (uc *UseCase) Return(ctx context.Context, userID, orderID string, in dto.ReturnOrderRequest) (*dto.OrderResponse, error) {
	if in.Refund.Money.IsNegative() {
		return nil, fmt.Errorf("%w: refund.money no puede ser negativo", domain.ErrInvalidInput)
	}
	actor := firstNonEmpty(in.StaffID, userID)
	var o *entity.Order
	err := uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		var err error
		if o, err = activeOrder(s, orderID); err != nil {
			return err
		}
		if o.IsReturnOrder {
			return fmt.Errorf("%w: la orden %s ya fue devuelta", domain.ErrConflict, o.Code)
		}
		lines, err := returnLines(o, in.ItemOrder)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := uc.d.Stock.Restock(s, o.ID, actor, entity.MovementTypeReturn, line); err != nil {
				return err
			}
		}
		sales.ApplyRefund(o, in.Refund.Money, strings.TrimSpace(in.Refund.Reason))
		o.UpdatedAt = uc.now()
		if err := s.Orders.UpdateSettlement(o); err != nil {
			return err
		}
		return s.ActivityLogs.Create(activity.NewEntry(actor, entity.ActionReturnOrderItem,
			"returned order "+o.Code, o.ID, entity.RefTypeOrder,
			map[string]any{"total": in.Refund.Money, "productCount": len(lines)}))
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// returnLines valida lo pedido contra las líneas vendidas; no se puede devolver más de lo vendido.
func returnLines(o *entity.Order, req []dto.ReturnItemRequest) ([]inventory.RestockLine, error) {
	if len(req) == 0 {
		lines := make([]inventory.RestockLine, 0, len(o.Items))
		for _, it := range o.Items {
			lines = append(lines, restockLine(it, it.Quantity))
		}
		return lines, nil
	}

	left := make([]int, len(o.Items))
	for i, it := range o.Items {
		left[i] = it.Quantity
	}
	lines := make([]inventory.RestockLine, 0, len(req))
	for _, r := range req {
		qty := r.Quantity
		if r.Serial != "" {
			qty = 1
		}
		if qty < 1 {
			return nil, fmt.Errorf("%w: quantity debe ser mayor a 0", domain.ErrInvalidInput)
		}
		idx := -1
		for i, it := range o.Items {
			if it.ProductID != r.ProductID || left[i] < qty {
				continue
			}
			if r.VariableID != "" && it.VariableID != r.VariableID {
				continue
			}
			if it.TypeProduct.HasSerial() && it.Serial != r.Serial {
				continue
			}
			idx = i
			break
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: la línea %q no pertenece a la orden o excede lo vendido", domain.ErrInvalidInput, r.Name)
		}
		left[idx] -= qty
		lines = append(lines, restockLine(o.Items[idx], qty))
	}
	return lines, nil
}

func restockLine(it *entity.OrderItem, qty int) inventory.RestockLine {
	return inventory.RestockLine{
		Type:       it.TypeProduct,
		ProductID:  it.ProductID,
		VariableID: it.VariableID,
		Quantity:   qty,
		Serial:     it.Serial,
	}
}

// PayDebt abona a la deuda de una orden. El abono no puede superar la deuda actual.
func (uc *UseCase) PayDebt(ctx context.Context, userID string, in dto.PayDebtRequest) (*dto.OrderResponse, error) {
	if !in.Money.IsPositive() {
		return nil, fmt.Errorf("%w: money debe ser mayor a 0", domain.ErrInvalidInput)
	}
	var o *entity.Order
	err := uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		var err error
		if o, err = activeOrder(s, in.OrderID); err != nil {
			return err
		}
		if o.IsReturnOrder {
			return fmt.Errorf("%w: la orden %s fue devuelta", domain.ErrConflict, o.Code)
		}
		if in.Money.GreaterThan(o.CustomerDebt) {
			return fmt.Errorf("%w: el abono %s supera la deuda %s", domain.ErrInvalidInput, in.Money, o.CustomerDebt)
		}
		sales.ApplyPayment(o, in.Money)
		o.UpdatedAt = uc.now()
		if err := s.Orders.UpdateSettlement(o); err != nil {
			return err
		}
		return s.ActivityLogs.Create(activity.NewEntry(userID, entity.ActionPayDebt,
			"debt payment for order "+o.Code, o.ID, entity.RefTypeOrder,
			map[string]any{"paymentAmount": in.Money, "remainingDebt": o.CustomerDebt}))
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Delete da de baja la orden. Si no fue devuelta repone todo el stock y anula costo e ingreso.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		o, err := activeOrder(s, id)
		if err != nil {
			return err
		}
		meta := map[string]any{
			"originalRevenue":   o.EstimatedRevenue,
			"originalCostPrice": o.TotalCostPrice,
			"totalAmount":       o.TotalAmount,
			"productCount":      len(o.Items),
			"wasReturnedOrder":  o.IsReturnOrder,
		}
		if !o.IsReturnOrder {
			for _, it := range o.Items {
				if err := uc.d.Stock.Restock(s, o.ID, userID, entity.MovementTypeRestore, restockLine(it, it.Quantity)); err != nil {
					return err
				}
			}
			o.TotalCostPrice = decimal.Zero
			o.EstimatedRevenue = decimal.Zero
		}
		o.IsDelete = true
		o.UpdatedAt = uc.now()
		if err := s.Orders.UpdateSettlement(o); err != nil {
			return err
		}
		return s.ActivityLogs.Create(activity.NewEntry(userID, entity.ActionDeleteOrder,
			"deleted order "+o.Code, o.ID, entity.RefTypeOrder, meta))
	})
}

func activeOrder(s inventory.Stores, id string) (*entity.Order, error) {
	o, err := s.Orders.GetForUpdate(id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.IsDelete {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return o, nil
}

// List lista órdenes no eliminadas con filtros de búsqueda, rango y estado de pago.
func (uc *UseCase) List(q dto.ListQuery) (*dto.ListResponse[dto.OrderResponse], error) {
	f := q.Filter(uc.now().In(uc.d.Location))
	list, total, err := uc.d.Orders.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return &dto.ListResponse[dto.OrderResponse]{Data: out, Attrs: dto.NewPageAttrs(total, q.PageRequest)}, nil
}

// GetByID devuelve la orden con sus líneas.
func (uc *UseCase) GetByID(id string) (*dto.OrderResponse, error) {
	o, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

func (uc *UseCase) get(id string) (*entity.Order, error) {
	o, err := uc.d.Orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return o, nil
}

// Invoice genera el PDF de la factura y el nombre de archivo sugerido.
func (uc *UseCase) Invoice(ctx context.Context, id string) ([]byte, string, error) {
	o, err := uc.get(id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.d.Invoices.RenderInvoice(ctx, o)
	if err != nil {
		return nil, "", fmt.Errorf("factura: %w", err)
	}
	return pdf, fmt.Sprintf("invoice-%s.pdf", o.ID), nil
}

// ToOrderResponse convierte la entidad al DTO de salida.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		var serial *string
		if it.Serial != "" {
			s := it.Serial
			serial = &s
		}
		items = append(items, dto.OrderItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			VariableID:    it.VariableID,
			Name:          it.Name,
			Barcode:       it.Barcode,
			Serial:        serial,
			Quantity:      it.Quantity,
			SellPrice:     it.SellPrice,
			RealSellPrice: it.RealSellPrice,
			TypeProduct:   int(it.TypeProduct),
		})
	}
	return &dto.OrderResponse{
		ID:                  o.ID,
		Code:                o.Code,
		StaffID:             o.StaffID,
		CustomerID:          o.CustomerID,
		CustomerName:        o.CustomerName,
		CustomerPhone:       o.CustomerPhone,
		CustomerAddress:     o.CustomerAddress,
		ProductList:         items,
		DiscountType:        o.DiscountType,
		DiscountValue:       o.DiscountValue,
		TotalAmount:         o.TotalAmount,
		TotalAmountDiscount: o.TotalAmountDiscount,
		TotalCostPrice:      o.TotalCostPrice,
		EstimatedRevenue:    o.EstimatedRevenue,
		CustomerPaid:        o.CustomerPaid,
		CustomerDebt:        o.CustomerDebt,
		PaymentStatus:       o.PaymentStatus,
		IsReturnOrder:       o.IsReturnOrder,
		ReasonRefund:        o.ReasonRefund,
		IsDelete:            o.IsDelete,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/catalog"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/inventory"
)

// ReceiptInput entrada de mercancía. Para productos con variantes VariableID es obligatorio.
type ReceiptInput struct {
	UserID     string
	ProductID  string
	VariableID string
	Quantity   int
	UnitCost   decimal.Decimal
	Serials    []string
}

// Receive suma stock con costo promedio ponderado y registra movimientos IN.
// Debe llamarse dentro de TxRunner.Run; devuelve el producto actualizado.
func (s *StockService) Receive(st Stores, in ReceiptInput) (*entity.Product, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if in.UnitCost.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: unitCost no puede ser negativo", domain.ErrInvalidInput)
	}
	p, err := st.Products.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDelete {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	ctx := saleContext{st: st, userID: in.UserID, at: s.now()}

	if !p.IsVariable {
		if err := receiveSerials(p.IsSerial, p.Serials, in); err != nil {
			return nil, err
		}
		p.CostPrice = inventory.WeightedAverageCost(p.Stock, p.CostPrice, in.Quantity, in.UnitCost)
		p.Stock += in.Quantity
		for _, serial := range in.Serials {
			p.PutSerial(serial)
		}
		if err := st.Products.UpdateCost(p.ID, p.CostPrice); err != nil {
			return nil, err
		}
		if err := st.Products.UpdateStock(p.ID, p.Stock, p.Serials); err != nil {
			return nil, err
		}
		if err := ctx.receipts(p.ID, "", in); err != nil {
			return nil, err
		}
		p.UpdatedAt = ctx.at
		return p, nil
	}

	v, err := lockVariable(st, p.ID, in.VariableID)
	if err != nil {
		return nil, err
	}
	if err := receiveSerials(v.IsSerial, v.Serials, in); err != nil {
		return nil, err
	}
	v.CostPrice = inventory.WeightedAverageCost(v.Stock, v.CostPrice, in.Quantity, in.UnitCost)
	v.Stock += in.Quantity
	for _, serial := range in.Serials {
		v.PutSerial(serial)
	}
	if err := st.Variables.UpdateCost(v.ID, v.CostPrice); err != nil {
		return nil, err
	}
	if err := st.Variables.UpdateStock(v.ID, v.Stock, v.Serials); err != nil {
		return nil, err
	}
	if err := ctx.receipts(p.ID, v.ID, in); err != nil {
		return nil, err
	}

	// los agregados del producto se recalculan sobre las variantes vigentes
	variants, err := st.Variables.ListByProduct(p.ID)
	if err != nil {
		return nil, err
	}
	active := make([]*entity.Variable, 0, len(variants))
	for _, item := range variants {
		if !item.IsDelete {
			active = append(active, item)
		}
	}
	catalog.ApplyVariantAggregates(p, active)
	p.Variables = variants
	p.UpdatedAt = ctx.at
	if err := st.Products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// receiveSerials exige un serial nuevo por unidad en productos serializados.
func receiveSerials(isSerial bool, current []string, in ReceiptInput) error {
	if !isSerial {
		if len(in.Serials) > 0 {
			return fmt.Errorf("%w: el producto no maneja seriales", domain.ErrInvalidInput)
		}
		return nil
	}
	if err := catalog.ValidateSerials(true, in.Quantity, in.Serials); err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(current))
	for _, s := range current {
		existing[s] = struct{}{}
	}
	for _, s := range in.Serials {
		if _, ok := existing[s]; ok {
			return fmt.Errorf("%w: el serial %s ya está en inventario", domain.ErrDuplicate, s)
		}
	}
	return nil
}

// receipts un movimiento por serial o uno solo por la cantidad total.
func (c saleContext) receipts(productID, variableID string, in ReceiptInput) error {
	if len(in.Serials) == 0 {
		return c.movement(productID, variableID, entity.MovementTypeIn, in.Quantity, "", in.UnitCost)
	}
	for _, serial := range in.Serials {
		if err := c.movement(productID, variableID, entity.MovementTypeIn, 1, serial, in.UnitCost); err != nil {
			return err
		}
	}
	return nil
}


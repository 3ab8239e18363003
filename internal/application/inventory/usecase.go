package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SaleLine línea pedida en una venta, ya normalizada por el caso de uso de órdenes.
// Para 300/400 VariableID es obligatorio; para 200/400 Serials reemplaza a Quantity.
type SaleLine struct {
	Type          entity.ProductType
	ProductID     string
	VariableID    string
	Name          string
	Barcode       string
	Quantity      int
	Serials       []string
	SellPrice     decimal.Decimal
	RealSellPrice decimal.Decimal
}

// RestockLine unidad que vuelve al inventario (devolución o eliminación de orden).
type RestockLine struct {
	Type       entity.ProductType
	ProductID  string
	VariableID string
	Quantity   int
	Serial     string
}

// StockService aplica los efectos de stock de las ventas sobre repositorios atados a una tx.
// Bloquea producto y variante (SELECT FOR UPDATE) antes de modificarlos.
type StockService struct {
	now func() time.Time
}

// NewStockService construye el servicio.
func NewStockService() *StockService {
	return &StockService{now: time.Now}
}

// saleContext datos comunes de los movimientos de una orden.
type saleContext struct {
	st      Stores
	orderID string
	userID  string
	at      time.Time
}

// Sell descuenta el stock de una línea y devuelve las líneas de orden resultantes
// (una por serial en 200/400) y su costo total.
func (s *StockService) Sell(st Stores, orderID, userID string, line SaleLine) ([]*entity.OrderItem, decimal.Decimal, error) {
	ctx := saleContext{st: st, orderID: orderID, userID: userID, at: s.now()}
	if !line.Type.Valid() {
		return nil, decimal.Zero, fmt.Errorf("%w: typeProduct %d", domain.ErrInvalidInput, line.Type)
	}
	product, err := st.Products.GetForUpdate(line.ProductID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if product == nil || product.IsDelete {
		return nil, decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
	}
	if line.RealSellPrice.IsZero() {
		line.RealSellPrice = line.SellPrice
	}

	if !line.Type.HasVariant() {
		if err := checkLineType(line.Type, product, product.IsSerial); err != nil {
			return nil, decimal.Zero, err
		}
		if line.Type == entity.ProductTypeSimple {
			return ctx.sellSimple(product, line)
		}
		return ctx.sellSerial(product, line)
	}

	if !product.IsVariable {
		return nil, decimal.Zero, lineTypeErr(line.Type, product)
	}
	variable, err := lockVariable(st, product.ID, line.VariableID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := checkLineType(line.Type, product, variable.IsSerial); err != nil {
		return nil, decimal.Zero, err
	}
	if line.Type == entity.ProductTypeVariable {
		return ctx.sellVariable(product, variable, line)
	}
	return ctx.sellVariableSerial(product, variable, line)
}

// checkLineType el tipo de la línea debe coincidir con los flags del producto;
// serial es el flag de la variante cuando la línea opera sobre una.
func checkLineType(t entity.ProductType, p *entity.Product, serial bool) error {
	if t.HasVariant() != p.IsVariable || t.HasSerial() != serial {
		return lineTypeErr(t, p)
	}
	return nil
}

func lineTypeErr(t entity.ProductType, p *entity.Product) error {
	return fmt.Errorf("%w: typeProduct %d no corresponde al producto %s", domain.ErrInvalidInput, t, p.Name)
}

func lockVariable(st Stores, productID, variableID string) (*entity.Variable, error) {
	if variableID == "" {
		return nil, fmt.Errorf("%w: variableId requerido", domain.ErrInvalidInput)
	}
	v, err := st.Variables.GetForUpdate(variableID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.IsDelete || v.ProductID != productID {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, variableID)
	}
	return v, nil
}

func (c saleContext) sellSimple(p *entity.Product, line SaleLine) ([]*entity.OrderItem, decimal.Decimal, error) {
	if line.Quantity < 1 {
		return nil, decimal.Zero, fmt.Errorf("%w: quantity debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if p.Stock < line.Quantity {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Name)
	}
	p.Stock -= line.Quantity
	if err := c.st.Products.UpdateStock(p.ID, p.Stock, p.Serials); err != nil {
		return nil, decimal.Zero, err
	}
	if err := c.movement(p.ID, "", entity.MovementTypeOut, -line.Quantity, "", p.CostPrice); err != nil {
		return nil, decimal.Zero, err
	}
	item := c.item(p, line, "", line.Quantity)
	return []*entity.OrderItem{item}, p.CostPrice.Mul(decimal.NewFromInt(int64(line.Quantity))), nil
}

func (c saleContext) sellSerial(p *entity.Product, line SaleLine) ([]*entity.OrderItem, decimal.Decimal, error) {
	if len(line.Serials) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: serials requeridos", domain.ErrInvalidInput)
	}
	items := make([]*entity.OrderItem, 0, len(line.Serials))
	cost := decimal.Zero
	for _, serial := range line.Serials {
		if !p.TakeSerial(serial) {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrSerialNotAvailable, serial)
		}
		if p.Stock < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, p.Name)
		}
		p.Stock--
		if err := c.soldSerial(p.ID, "", serial, p.CostPrice); err != nil {
			return nil, decimal.Zero, err
		}
		items = append(items, c.item(p, line, serial, 1))
		cost = cost.Add(p.CostPrice)
	}
	if err := c.st.Products.UpdateStock(p.ID, p.Stock, p.Serials); err != nil {
		return nil, decimal.Zero, err
	}
	return items, cost, nil
}

func (c saleContext) sellVariable(p *entity.Product, v *entity.Variable, line SaleLine) ([]*entity.OrderItem, decimal.Decimal, error) {
	if line.Quantity < 1 {
		return nil, decimal.Zero, fmt.Errorf("%w: quantity debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if p.Stock < line.Quantity || v.Stock < line.Quantity {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, variantName(p, v))
	}
	p.Stock -= line.Quantity
	v.Stock -= line.Quantity
	if err := c.st.Variables.UpdateStock(v.ID, v.Stock, v.Serials); err != nil {
		return nil, decimal.Zero, err
	}
	if err := c.st.Products.UpdateStock(p.ID, p.Stock, p.Serials); err != nil {
		return nil, decimal.Zero, err
	}
	if err := c.movement(p.ID, v.ID, entity.MovementTypeOut, -line.Quantity, "", v.CostPrice); err != nil {
		return nil, decimal.Zero, err
	}
	item := c.item(p, line, "", line.Quantity)
	item.VariableID = v.ID
	item.Name = variantName(p, v)
	return []*entity.OrderItem{item}, v.CostPrice.Mul(decimal.NewFromInt(int64(line.Quantity))), nil
}

func (c saleContext) sellVariableSerial(p *entity.Product, v *entity.Variable, line SaleLine) ([]*entity.OrderItem, decimal.Decimal, error) {
	if len(line.Serials) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: serials de la variante requeridos", domain.ErrInvalidInput)
	}
	items := make([]*entity.OrderItem, 0, len(line.Serials))
	cost := decimal.Zero
	for _, serial := range line.Serials {
		if !v.TakeSerial(serial) {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrSerialNotAvailable, serial)
		}
		if v.Stock < 1 || p.Stock < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, variantName(p, v))
		}
		v.Stock--
		p.Stock--
		if err := c.soldSerial(p.ID, v.ID, serial, v.CostPrice); err != nil {
			return nil, decimal.Zero, err
		}
		item := c.item(p, line, serial, 1)
		item.VariableID = v.ID
		item.Name = variantName(p, v)
		items = append(items, item)
		cost = cost.Add(v.CostPrice)
	}
	if err := c.st.Variables.UpdateStock(v.ID, v.Stock, v.Serials); err != nil {
		return nil, decimal.Zero, err
	}
	if err := c.st.Products.UpdateStock(p.ID, p.Stock, p.Serials); err != nil {
		return nil, decimal.Zero, err
	}
	return items, cost, nil
}

// soldSerial registra el historial y el movimiento de una unidad serializada vendida.
func (c saleContext) soldSerial(productID, variableID, serial string, cost decimal.Decimal) error {
	h := &entity.HistorySerial{
		ID:         uuid.New().String(),
		ProductID:  productID,
		VariableID: variableID,
		OrderID:    c.orderID,
		Serial:     serial,
		SoldAt:     c.at,
	}
	if err := c.st.HistorySerials.Create(h); err != nil {
		return err
	}
	return c.movement(productID, variableID, entity.MovementTypeOut, -1, serial, cost)
}

func (c saleContext) movement(productID, variableID, typ string, qty int, serial string, unitCost decimal.Decimal) error {
	return c.st.StockMovements.Create(&entity.StockMovement{
		ID:         uuid.New().String(),
		ProductID:  productID,
		VariableID: variableID,
		OrderID:    c.orderID,
		Type:       typ,
		Quantity:   qty,
		Serial:     serial,
		UnitCost:   unitCost,
		CreatedAt:  c.at,
		CreatedBy:  c.userID,
	})
}

func (c saleContext) item(p *entity.Product, line SaleLine, serial string, qty int) *entity.OrderItem {
	name := line.Name
	if name == "" {
		name = p.Name
	}
	barcode := line.Barcode
	if barcode == "" {
		barcode = p.Barcode
	}
	return &entity.OrderItem{
		ID:            uuid.New().String(),
		OrderID:       c.orderID,
		ProductID:     p.ID,
		Name:          name,
		Barcode:       barcode,
		Serial:        serial,
		Quantity:      qty,
		SellPrice:     line.SellPrice,
		RealSellPrice: line.RealSellPrice,
		TypeProduct:   line.Type,
	}
}

// variantName "Producto (color: rojo, talla: M)".
func variantName(p *entity.Product, v *entity.Variable) string {
	if len(v.Attributes) == 0 {
		return p.Name
	}
	parts := make([]string, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		parts = append(parts, a.Key+": "+a.Value)
	}
	return p.Name + " (" + strings.Join(parts, ", ") + ")"
}

// Restock devuelve unidades al inventario. movementType es RETURN o RESTORE.
// Un serial que ya está disponible no vuelve a sumar stock.
func (s *StockService) Restock(st Stores, orderID, userID, movementType string, line RestockLine) error {
	ctx := saleContext{st: st, orderID: orderID, userID: userID, at: s.now()}
	if !line.Type.Valid() {
		return fmt.Errorf("%w: typeProduct %d", domain.ErrInvalidInput, line.Type)
	}
	p, err := st.Products.GetForUpdate(line.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
	}
	qty := line.Quantity
	if line.Type.HasSerial() {
		qty = 1
	}
	if qty < 1 {
		return fmt.Errorf("%w: quantity debe ser mayor a 0", domain.ErrInvalidInput)
	}

	var v *entity.Variable
	if !line.Type.HasVariant() {
		if err := checkLineType(line.Type, p, p.IsSerial); err != nil {
			return err
		}
	} else {
		if !p.IsVariable {
			return lineTypeErr(line.Type, p)
		}
		if line.VariableID == "" {
			return fmt.Errorf("%w: variableId requerido", domain.ErrInvalidInput)
		}
		if v, err = st.Variables.GetForUpdate(line.VariableID); err != nil {
			return err
		}
		if v == nil || v.ProductID != p.ID {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, line.VariableID)
		}
		if err := checkLineType(line.Type, p, v.IsSerial); err != nil {
			return err
		}
	}

	cost := p.CostPrice
	switch line.Type {
	case entity.ProductTypeSimple:
		p.Stock += qty
	case entity.ProductTypeSerial:
		if line.Serial == "" {
			return fmt.Errorf("%w: serial requerido", domain.ErrInvalidInput)
		}
		if p.HasSerial(line.Serial) {
			return nil
		}
		p.PutSerial(line.Serial)
		p.Stock += qty
	case entity.ProductTypeVariable:
		v.Stock += qty
		p.Stock += qty
		cost = v.CostPrice
	case entity.ProductTypeVariableSerial:
		if line.Serial == "" {
			return fmt.Errorf("%w: serial requerido", domain.ErrInvalidInput)
		}
		if v.HasSerial(line.Serial) {
			return nil
		}
		v.PutSerial(line.Serial)
		v.Stock += qty
		p.Stock += qty
		cost = v.CostPrice
	}

	if v != nil {
		if err := st.Variables.UpdateStock(v.ID, v.Stock, v.Serials); err != nil {
			return err
		}
	}
	if err := st.Products.UpdateStock(p.ID, p.Stock, p.Serials); err != nil {
		return err
	}
	variableID := ""
	if v != nil {
		variableID = v.ID
	}
	return ctx.movement(p.ID, variableID, movementType, qty, line.Serial, cost)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/activity"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/catalog"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Cantidad de códigos alternativos ofrecidos.
const (
	conflictSuggestions = 3
	checkSuggestions    = 5
)

// BarcodeConflictError código de barras en uso; lleva alternativas libres.
type BarcodeConflictError struct {
	Barcode     string
	OwnerName   string
	Suggestions []string
}

func (e *BarcodeConflictError) Error() string {
	msg := fmt.Sprintf("el código %q ya está en uso", e.Barcode)
	if e.OwnerName != "" {
		msg += fmt.Sprintf(" por el producto %q", e.OwnerName)
	}
	if len(e.Suggestions) > 0 {
		msg += ". Sugerencias: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

// Unwrap permite errors.Is(err, domain.ErrBarcodeTaken).
func (e *BarcodeConflictError) Unwrap() error { return domain.ErrBarcodeTaken }

// ProductDeps dependencias del caso de uso de productos.
type ProductDeps struct {
	Products       repository.ProductRepository
	Variables      repository.VariableRepository
	Brands         repository.BrandRepository
	Categories     repository.CategoryRepository
	StockMovements repository.StockMovementRepository
	HistorySerials repository.HistorySerialRepository
	Tx             inventory.TxRunner
	Stock          *inventory.StockService
	Recorder       *activity.Recorder
	Location       *time.Location
}

// ProductUseCase catálogo de productos: alta con variantes, actualización, bajas, códigos de barras
// y entradas de mercancía.
type ProductUseCase struct {
	d ProductDeps
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(d ProductDeps) *ProductUseCase {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Stock == nil {
		d.Stock = inventory.NewStockService()
	}
	return &ProductUseCase{d: d}
}

// Create crea un producto simple o con variantes en una sola transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	if in.Name == "" || in.BrandID == "" || in.CategoryID == "" {
		return nil, fmt.Errorf("%w: name, brandId y categoryId son requeridos", domain.ErrInvalidInput)
	}
	if err := uc.checkBarcode(in.Barcode, ""); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(in.BrandID, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Barcode:     in.Barcode,
		Description: in.Description,
		BrandID:     in.BrandID,
		CategoryID:  in.CategoryID,
		MainImage:   in.MainImage,
		ListImage:   in.ListImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var variants []*entity.Variable
	if in.IsVariable {
		if len(in.Variables) == 0 {
			return nil, fmt.Errorf("%w: un producto con variantes necesita al menos una variante", domain.ErrInvalidInput)
		}
		for _, req := range in.Variables {
			v := &entity.Variable{ID: uuid.New().String(), ProductID: p.ID, CreatedAt: now, UpdatedAt: now}
			if err := applyVariable(v, req, true); err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
		catalog.ApplyVariantAggregates(p, variants)
	} else {
		if in.CostPrice == nil || in.SellPrice == nil || in.Stock == nil {
			return nil, fmt.Errorf("%w: costPrice, sellPrice y stock son requeridos", domain.ErrInvalidInput)
		}
		if err := checkPrices(*in.CostPrice, *in.SellPrice, *in.Stock); err != nil {
			return nil, err
		}
		p.CostPrice, p.SellPrice, p.Stock = *in.CostPrice, *in.SellPrice, *in.Stock
		p.IsSerial = in.IsSerial
		p.Serials = in.Serials
		if err := catalog.ValidateSerials(p.IsSerial, p.Stock, p.Serials); err != nil {
			return nil, err
		}
		if p.Serials == nil {
			p.Serials = []string{}
		}
	}

	err := uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		if err := s.Products.Create(p); err != nil {
			return err
		}
		for _, v := range variants {
			if err := s.Variables.Create(v); err != nil {
				return err
			}
		}
		return s.ActivityLogs.Create(activity.NewEntry(userID, entity.ActionCreateProduct,
			"created product "+p.Name, p.ID, entity.RefTypeProduct,
			map[string]any{"total": 1, "productCount": 1}))
	})
	if err != nil {
		return nil, uc.barcodeErr(err, p.Barcode, "")
	}
	p.Variables = variants
	return toProductResponse(p), nil
}

// Update aplica los campos presentes; las variantes con id se actualizan y las demás se crean.
// El producto se lee bloqueado dentro de la transacción para no pisar ventas concurrentes.
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	barcode := ""
	err := uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		p, err := s.Products.GetForUpdate(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		isVariable, err := uc.applyUpdate(p, in)
		if err != nil {
			return err
		}
		barcode = p.Barcode

		now := time.Now()
		p.UpdatedAt = now
		if isVariable {
			for _, req := range in.Variables {
				if err := upsertVariable(s, p.ID, req, now); err != nil {
					return err
				}
			}
			variants, err := s.Variables.ListByProduct(p.ID)
			if err != nil {
				return err
			}
			catalog.ApplyVariantAggregates(p, activeOnly(variants))
			if in.MainImage != nil {
				p.MainImage = *in.MainImage
			}
			p.Variables = variants
		}
		if err := s.Products.Update(p); err != nil {
			return err
		}
		return s.ActivityLogs.Create(activity.NewEntry(userID, entity.ActionUpdateProduct,
			"updated product "+p.Name, p.ID, entity.RefTypeProduct,
			map[string]any{"total": 1, "productCount": 1}))
	})
	if err != nil {
		return nil, uc.barcodeErr(err, barcode, id)
	}
	return uc.GetByID(id)
}

// applyUpdate copia sobre p los campos de la petición y dice si el producto queda con variantes.
func (uc *ProductUseCase) applyUpdate(p *entity.Product, in dto.UpdateProductRequest) (bool, error) {
	if in.Barcode != nil {
		b := strings.TrimSpace(*in.Barcode)
		if b != p.Barcode {
			if err := uc.checkBarcode(b, p.ID); err != nil {
				return false, err
			}
			p.Barcode = b
		}
	}
	if in.Name != nil {
		if n := strings.TrimSpace(*in.Name); n != "" {
			p.Name = n
		}
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	brandID, categoryID := p.BrandID, p.CategoryID
	if in.BrandID != nil {
		brandID = *in.BrandID
	}
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}
	if brandID != p.BrandID || categoryID != p.CategoryID {
		if err := uc.checkRefs(brandID, categoryID); err != nil {
			return false, err
		}
		p.BrandID, p.CategoryID = brandID, categoryID
	}
	if in.ListImage != nil {
		p.ListImage = in.ListImage
	}

	wasVariable := p.IsVariable
	isVariable := p.IsVariable
	if in.IsVariable != nil {
		isVariable = *in.IsVariable
	}
	if isVariable && !wasVariable && len(in.Variables) == 0 {
		return false, fmt.Errorf("%w: se requieren variantes para convertir el producto", domain.ErrInvalidInput)
	}
	if !isVariable {
		if err := applySimpleUpdate(p, in); err != nil {
			return false, err
		}
	}
	return isVariable, nil
}

// applySimpleUpdate campos de un producto sin variantes. Al dejar de tener variantes
// costo, precio y stock pasan a ser obligatorios.
func applySimpleUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	if p.IsVariable && (in.CostPrice == nil || in.SellPrice == nil || in.Stock == nil) {
		return fmt.Errorf("%w: costPrice, sellPrice y stock son requeridos para un producto simple", domain.ErrInvalidInput)
	}
	p.IsVariable = false
	if in.MainImage != nil {
		p.MainImage = *in.MainImage
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.SellPrice != nil {
		p.SellPrice = *in.SellPrice
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if err := checkPrices(p.CostPrice, p.SellPrice, p.Stock); err != nil {
		return err
	}
	if in.IsSerial != nil {
		if *in.IsSerial && !p.IsSerial && in.Serials == nil {
			return fmt.Errorf("%w: serials requeridos al activar el manejo por serial", domain.ErrInvalidInput)
		}
		p.IsSerial = *in.IsSerial
	}
	if !p.IsSerial {
		if len(in.Serials) > 0 {
			return fmt.Errorf("%w: un producto sin serial no puede tener seriales", domain.ErrInvalidInput)
		}
		p.Serials = []string{}
		return nil
	}
	if in.Serials != nil {
		p.Serials = in.Serials
	}
	return catalog.ValidateSerials(true, p.Stock, p.Serials)
}

// upsertVariable actualiza la variante indicada (debe pertenecer al producto o estar libre) o crea una nueva.
func upsertVariable(s inventory.Stores, productID string, req dto.VariableRequest, now time.Time) error {
	if req.ID == "" {
		v := &entity.Variable{ID: uuid.New().String(), ProductID: productID, CreatedAt: now, UpdatedAt: now}
		if err := applyVariable(v, req, true); err != nil {
			return err
		}
		return s.Variables.Create(v)
	}
	v, err := s.Variables.GetForUpdate(req.ID)
	if err != nil {
		return err
	}
	if v == nil || (v.ProductID != "" && v.ProductID != productID) {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, req.ID)
	}
	v.ProductID = productID
	if err := applyVariable(v, req, false); err != nil {
		return err
	}
	v.UpdatedAt = now
	return s.Variables.Update(v)
}

// applyVariable vuelca el request sobre la variante. create exige costo y precio de venta.
func applyVariable(v *entity.Variable, req dto.VariableRequest, create bool) error {
	if create && (req.CostPrice == nil || req.SellPrice == nil) {
		return fmt.Errorf("%w: costPrice y sellPrice son requeridos para la variante %s",
			domain.ErrInvalidInput, describeAttrs(req.Attributes))
	}
	if create || req.Attributes != nil {
		attrs := make([]entity.Attribute, 0, len(req.Attributes))
		for _, a := range req.Attributes {
			attrs = append(attrs, entity.Attribute{Key: strings.TrimSpace(a.Key), Value: strings.TrimSpace(a.Value)})
		}
		if err := catalog.ValidateAttributes(attrs); err != nil {
			return err
		}
		v.Attributes = attrs
	}
	if req.CostPrice != nil {
		v.CostPrice = *req.CostPrice
	}
	if req.SellPrice != nil {
		v.SellPrice = *req.SellPrice
	}
	if req.Stock != nil {
		v.Stock = *req.Stock
	}
	if err := checkPrices(v.CostPrice, v.SellPrice, v.Stock); err != nil {
		return err
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.MainImage != nil {
		v.MainImage = *req.MainImage
	}
	if req.ListImage != nil {
		v.ListImage = req.ListImage
	}
	if req.IsSerial != nil {
		v.IsSerial = *req.IsSerial
	}
	if req.Serials != nil {
		v.Serials = req.Serials
	}
	if !v.IsSerial && len(req.Serials) == 0 {
		v.Serials = []string{}
	}
	if err := catalog.ValidateSerials(v.IsSerial, v.Stock, v.Serials); err != nil {
		return fmt.Errorf("variante %s: %w", describeAttrs(req.Attributes), err)
	}
	return nil
}

func describeAttrs(attrs []dto.AttributeDTO) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Key+": "+a.Value)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func checkPrices(cost, sell decimal.Decimal, stock int) error {
	if cost.IsNegative() || sell.IsNegative() {
		return fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	if stock < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func activeOnly(variants []*entity.Variable) []*entity.Variable {
	out := make([]*entity.Variable, 0, len(variants))
	for _, v := range variants {
		if !v.IsDelete {
			out = append(out, v)
		}
	}
	return out
}

// ToggleDelete alterna la baja lógica del producto.
func (uc *ProductUseCase) ToggleDelete(userID, id string) error {
	p, err := uc.d.Products.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if err := uc.d.Products.SetDeleted([]string{id}, !p.IsDelete); err != nil {
		return uc.barcodeErr(err, p.Barcode, p.ID)
	}
	uc.d.Recorder.Record(activity.NewEntry(userID, entity.ActionDeleteProduct,
		"deleted product "+p.Name, p.ID, entity.RefTypeProduct,
		map[string]any{"total": 1, "productCount": 1}))
	return nil
}

// DeleteList baja lógica masiva; si falta algún id no se elimina ninguno.
func (uc *ProductUseCase) DeleteList(userID string, in dto.DeleteListRequest) (*dto.DeleteListResponse, error) {
	ids := uniqueIDs(in.IDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids requeridos", domain.ErrInvalidInput)
	}
	found, err := uc.d.Products.ExistingIDs(ids)
	if err != nil {
		return nil, err
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return nil, fmt.Errorf("%w: productos no encontrados: %s", domain.ErrNotFound, strings.Join(missing, ", "))
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		p, err := uc.d.Products.GetByID(id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			names = append(names, p.Name)
		}
	}
	if err := uc.d.Products.SetDeleted(ids, true); err != nil {
		return nil, err
	}
	uc.d.Recorder.Record(activity.NewEntry(userID, entity.ActionDeleteProduct,
		"deleted products: "+strings.Join(names, ", "), "", entity.RefTypeProduct,
		map[string]any{"total": 1, "productCount": len(ids)}))
	return &dto.DeleteListResponse{Message: "productos eliminados", Deleted: len(ids)}, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(want, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []string
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// List listado paginado de productos vigentes.
func (uc *ProductUseCase) List(q dto.ListQuery) (*dto.ListResponse[dto.ProductResponse], error) {
	list, total, err := uc.d.Products.List(q.Filter(time.Now().In(uc.d.Location)))
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		data = append(data, *toProductResponse(p))
	}
	return &dto.ListResponse[dto.ProductResponse]{Data: data, Attrs: dto.NewPageAttrs(total, q.PageRequest)}, nil
}

// GetByID detalle con variantes vigentes; nil si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	p, err := uc.d.Products.GetByID(id)
	if err != nil || p == nil {
		return nil, err
	}
	if p.IsVariable {
		variants, err := uc.d.Variables.ListByProduct(p.ID)
		if err != nil {
			return nil, err
		}
		p.Variables = variants
	}
	return toProductResponse(p), nil
}

// Serials seriales disponibles del producto o, si es con variantes, de la variante indicada.
func (uc *ProductUseCase) Serials(in dto.SerialsRequest) (*dto.SerialsResponse, error) {
	p, err := uc.d.Products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if len(p.Serials) > 0 {
		return &dto.SerialsResponse{Serials: p.Serials}, nil
	}
	if p.IsVariable && in.VariableID != "" {
		v, err := uc.d.Variables.GetByID(in.VariableID)
		if err != nil {
			return nil, err
		}
		if v == nil || v.ProductID != p.ID {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, in.VariableID)
		}
		return &dto.SerialsResponse{Serials: nonNil(v.Serials)}, nil
	}
	return &dto.SerialsResponse{Serials: []string{}}, nil
}

// Variables variantes vigentes de un producto.
func (uc *ProductUseCase) Variables(productID string) ([]dto.VariableResponse, error) {
	p, err := uc.d.Products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	variants, err := uc.d.Variables.ListByProduct(p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariableResponse, 0, len(variants))
	for _, v := range activeOnly(variants) {
		out = append(out, toVariableResponse(v))
	}
	return out, nil
}

// NextBarcode siguiente código SP libre.
func (uc *ProductUseCase) NextBarcode() (*dto.NextBarcodeResponse, error) {
	existing, err := uc.d.Products.ListBarcodes()
	if err != nil {
		return nil, err
	}
	n := catalog.NextBarcodeNumber(existing)
	next := catalog.FormatBarcode(n)
	return &dto.NextBarcodeResponse{
		NextBarcode: next,
		NextNumber:  n,
		Format:      catalog.BarcodeFormat,
		Suggestion:  "Siguiente código: " + next,
	}, nil
}

// CheckBarcode disponibilidad de un código con 5 alternativas si está ocupado.
func (uc *ProductUseCase) CheckBarcode(in dto.CheckBarcodeRequest) (*dto.CheckBarcodeResponse, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode requerido", domain.ErrInvalidInput)
	}
	owner, err := uc.d.Products.GetActiveByBarcode(barcode, "")
	if err != nil {
		return nil, err
	}
	res := &dto.CheckBarcodeResponse{
		Available:   owner == nil,
		ValidFormat: catalog.ValidBarcode(barcode),
		Suggestions: []string{},
		Message:     "El código está disponible",
	}
	if owner != nil {
		if res.Suggestions, err = uc.suggest(barcode, checkSuggestions); err != nil {
			return nil, err
		}
		res.Message = fmt.Sprintf("El código %q ya está en uso", barcode)
	}
	return res, nil
}

// Import entrada de mercancía con costo promedio ponderado.
func (uc *ProductUseCase) Import(ctx context.Context, userID, productID string, in dto.ImportStockRequest) (*dto.ProductResponse, error) {
	err := uc.d.Tx.Run(ctx, func(s inventory.Stores) error {
		p, err := uc.d.Stock.Receive(s, inventory.ReceiptInput{
			UserID:     userID,
			ProductID:  productID,
			VariableID: in.VariableID,
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
			Serials:    in.Serials,
		})
		if err != nil {
			return err
		}
		return s.ActivityLogs.Create(activity.NewEntry(userID, entity.ActionImportProduct,
			fmt.Sprintf("imported %d units of %s", in.Quantity, p.Name), p.ID, entity.RefTypeProduct,
			map[string]any{
				"quantity":   in.Quantity,
				"unitCost":   in.UnitCost,
				"variableId": in.VariableID,
				"newCost":    p.CostPrice,
			}))
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(productID)
}

// Movements movimientos de stock del producto, más recientes primero.
func (uc *ProductUseCase) Movements(productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	p, err := uc.d.Products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	page.DefaultPage()
	list, err := uc.d.StockMovements.ListByProduct(productID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:         m.ID,
			ProductID:  m.ProductID,
			VariableID: m.VariableID,
			OrderID:    m.OrderID,
			Type:       m.Type,
			Quantity:   m.Quantity,
			Serial:     m.Serial,
			UnitCost:   m.UnitCost,
			CreatedAt:  m.CreatedAt,
			CreatedBy:  m.CreatedBy,
		})
	}
	return out, nil
}

// SerialHistory ventas registradas de un serial.
func (uc *ProductUseCase) SerialHistory(serial string) ([]dto.HistorySerialResponse, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil, fmt.Errorf("%w: serial requerido", domain.ErrInvalidInput)
	}
	list, err := uc.d.HistorySerials.ListBySerial(serial)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorySerialResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.HistorySerialResponse{
			ID:         h.ID,
			ProductID:  h.ProductID,
			VariableID: h.VariableID,
			OrderID:    h.OrderID,
			Serial:     h.Serial,
			SoldAt:     h.SoldAt,
		})
	}
	return out, nil
}

// checkBarcode valida el código y que no lo use otro producto vigente.
func (uc *ProductUseCase) checkBarcode(barcode, excludeID string) error {
	if !catalog.ValidBarcode(barcode) {
		return fmt.Errorf("%w: barcode requerido", domain.ErrInvalidInput)
	}
	owner, err := uc.d.Products.GetActiveByBarcode(barcode, excludeID)
	if err != nil {
		return err
	}
	if owner == nil {
		return nil
	}
	suggestions, err := uc.suggest(barcode, conflictSuggestions)
	if err != nil {
		return err
	}
	return &BarcodeConflictError{Barcode: barcode, OwnerName: owner.Name, Suggestions: suggestions}
}

// barcodeErr completa con sugerencias un ErrBarcodeTaken devuelto por la restricción única.
func (uc *ProductUseCase) barcodeErr(err error, barcode, excludeID string) error {
	var conflict *BarcodeConflictError
	if !errors.Is(err, domain.ErrBarcodeTaken) || errors.As(err, &conflict) {
		return err
	}
	suggestions, serr := uc.suggest(barcode, conflictSuggestions)
	if serr != nil {
		return err
	}
	return &BarcodeConflictError{Barcode: barcode, Suggestions: suggestions}
}

// suggest devuelve count candidatos libres entre los productos vigentes.
func (uc *ProductUseCase) suggest(barcode string, count int) ([]string, error) {
	existing, err := uc.d.Products.ListBarcodes()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		taken[b] = struct{}{}
	}
	out := make([]string, 0, count)
	for _, c := range catalog.BarcodeCandidates(barcode, count+len(existing)) {
		if _, used := taken[c]; used {
			continue
		}
		out = append(out, c)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

func (uc *ProductUseCase) checkRefs(brandID, categoryID string) error {
	b, err := uc.d.Brands.GetByID(brandID)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("%w: marca %s", domain.ErrNotFound, brandID)
	}
	c, err := uc.d.Categories.GetByID(categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	res := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Barcode:     p.Barcode,
		CostPrice:   p.CostPrice,
		SellPrice:   p.SellPrice,
		Stock:       p.Stock,
		Description: p.Description,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		IsVariable:  p.IsVariable,
		MainImage:   p.MainImage,
		ListImage:   nonNil(p.ListImage),
		IsSerial:    p.IsSerial,
		Serials:     nonNil(p.Serials),
		IsDelete:    p.IsDelete,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range activeOnly(p.Variables) {
		res.Variables = append(res.Variables, toVariableResponse(v))
	}
	return res
}

func toVariableResponse(v *entity.Variable) dto.VariableResponse {
	attrs := make([]dto.AttributeDTO, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		attrs = append(attrs, dto.AttributeDTO{Key: a.Key, Value: a.Value})
	}
	return dto.VariableResponse{
		ID:          v.ID,
		ProductID:   v.ProductID,
		Attributes:  attrs,
		CostPrice:   v.CostPrice,
		SellPrice:   v.SellPrice,
		Stock:       v.Stock,
		Description: v.Description,
		MainImage:   v.MainImage,
		ListImage:   nonNil(v.ListImage),
		IsSerial:    v.IsSerial,
		Serials:     nonNil(v.Serials),
		IsDelete:    v.IsDelete,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

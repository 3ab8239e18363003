package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/activity"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/testutil/memstore"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *memstore.DB) {
	t.Helper()
	db := memstore.New()
	now := time.Now()
	require.NoError(t, db.Brands().Create(&entity.Brand{ID: "b1", Name: "Samsung", CreatedAt: now}))
	require.NoError(t, db.Categories().Create(&entity.Category{ID: "cat1", Name: "Điện thoại", CreatedAt: now}))
	uc := usecase.NewProductUseCase(usecase.ProductDeps{
		Products:       db.Products(),
		Variables:      db.Variables(),
		Brands:         db.Brands(),
		Categories:     db.Categories(),
		StockMovements: db.StockMovements(),
		HistorySerials: db.HistorySerials(),
		Tx:             db,
		Recorder:       activity.NewRecorder(db.ActivityLogs(), nil),
		Location:       time.UTC,
	})
	return uc, db
}

func simpleProduct(barcode string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name: "Cable USB-C", Barcode: barcode, BrandID: "b1", CategoryID: "cat1",
		CostPrice: dec("10"), SellPrice: dec("15"), Stock: intPtr(5),
	}
}

func TestCreateProduct_Simple(t *testing.T) {
	uc, db := newProductUC(t)

	p, err := uc.Create(context.Background(), "u1", simpleProduct("SP00001"))
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, []string{}, p.Serials)
	assert.False(t, p.IsVariable)

	logs := db.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionCreateProduct, logs[0].Action)
}

func TestCreateProduct_Validaciones(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	noStock := simpleProduct("SP00001")
	noStock.Stock = nil

	serialMismatch := simpleProduct("SP00002")
	serialMismatch.IsSerial = true
	serialMismatch.Serials = []string{"IMEI-1"}

	serialsOnPlain := simpleProduct("SP00003")
	serialsOnPlain.Serials = []string{"IMEI-1"}

	noVariants := simpleProduct("SP00004")
	noVariants.IsVariable = true

	noBarcode := simpleProduct("")

	cases := map[string]struct {
		in   dto.CreateProductRequest
		want error
	}{
		"sin stock":               {noStock, domain.ErrInvalidInput},
		"seriales distintos":      {serialMismatch, domain.ErrInvalidInput},
		"seriales sin isSerial":   {serialsOnPlain, domain.ErrInvalidInput},
		"variantes vacías":        {noVariants, domain.ErrInvalidInput},
		"sin código de barras":    {noBarcode, domain.ErrInvalidInput},
		"marca inexistente":       {func() dto.CreateProductRequest { r := simpleProduct("SP00005"); r.BrandID = "x"; return r }(), domain.ErrNotFound},
		"categoría inexistente":   {func() dto.CreateProductRequest { r := simpleProduct("SP00006"); r.CategoryID = "x"; return r }(), domain.ErrNotFound},
		"precio negativo":         {func() dto.CreateProductRequest { r := simpleProduct("SP00007"); r.CostPrice = dec("-1"); return r }(), domain.ErrInvalidInput},
		"nombre vacío":            {func() dto.CreateProductRequest { r := simpleProduct("SP00008"); r.Name = " "; return r }(), domain.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, "u1", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateProduct_CodigoRepetido(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, "u1", simpleProduct("SP00001"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, "u1", simpleProduct("SP00002"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, "u1", simpleProduct("SP00001"))
	require.ErrorIs(t, err, domain.ErrBarcodeTaken)

	var conflict *usecase.BarcodeConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Cable USB-C", conflict.OwnerName)
	assert.Equal(t, []string{"SP00003", "SP00004", "SP00005"}, conflict.Suggestions)
}

func TestCreateProduct_Variantes(t *testing.T) {
	uc, db := newProductUC(t)
	serial := true

	p, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name: "Galaxy", Barcode: "SP00010", BrandID: "b1", CategoryID: "cat1",
		MainImage: "own.png", IsVariable: true,
		Variables: []dto.VariableRequest{
			{Attributes: []dto.AttributeDTO{{Key: "color", Value: "negro"}}, CostPrice: dec("100"), SellPrice: dec("150"), Stock: intPtr(0), MainImage: strPtr("negro.png")},
			{Attributes: []dto.AttributeDTO{{Key: "color", Value: "azul"}}, CostPrice: dec("200"), SellPrice: dec("250"), Stock: intPtr(2),
				IsSerial: &serial, Serials: []string{"IMEI-1", "IMEI-2"}, MainImage: strPtr("azul.png")},
		},
	})
	require.NoError(t, err)
	assert.True(t, p.IsVariable)
	assert.False(t, p.IsSerial)
	assert.True(t, decimal.RequireFromString("150").Equal(p.CostPrice))
	assert.True(t, decimal.RequireFromString("200").Equal(p.SellPrice))
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, "azul.png", p.MainImage, "primera variante con stock e imagen")
	require.Len(t, p.Variables, 2)

	vars, err := uc.Variables(p.ID)
	require.NoError(t, err)
	assert.Len(t, vars, 2)

	serials, err := uc.Serials(dto.SerialsRequest{ProductID: p.ID, VariableID: p.Variables[1].ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"IMEI-1", "IMEI-2"}, serials.Serials)

	assert.NotNil(t, db.Product(p.ID))
}

func TestCreateProduct_VarianteSinPrecio(t *testing.T) {
	uc, _ := newProductUC(t)
	_, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name: "Galaxy", Barcode: "SP00010", BrandID: "b1", CategoryID: "cat1", IsVariable: true,
		Variables: []dto.VariableRequest{{Attributes: []dto.AttributeDTO{{Key: "color", Value: "negro"}}, CostPrice: dec("100")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProduct(t *testing.T) {
	uc, db := newProductUC(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, "u1", simpleProduct("SP00001"))
	require.NoError(t, err)
	other, err := uc.Create(ctx, "u1", simpleProduct("SP00002"))
	require.NoError(t, err)

	upd, err := uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{Name: strPtr("Cable Lightning"), Stock: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, "Cable Lightning", upd.Name)
	assert.Equal(t, 8, upd.Stock)

	_, err = uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{Barcode: strPtr(other.Barcode)})
	assert.ErrorIs(t, err, domain.ErrBarcodeTaken)

	_, err = uc.Update(ctx, "u1", "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// pasar a variantes
	isVar := true
	upd, err = uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{
		IsVariable: &isVar,
		Variables: []dto.VariableRequest{
			{Attributes: []dto.AttributeDTO{{Key: "largo", Value: "1m"}}, CostPrice: dec("8"), SellPrice: dec("12"), Stock: intPtr(3)},
		},
	})
	require.NoError(t, err)
	assert.True(t, upd.IsVariable)
	assert.Equal(t, 3, upd.Stock)
	require.Len(t, upd.Variables, 1)

	// variante existente se actualiza, no se duplica
	upd, err = uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{
		Variables: []dto.VariableRequest{{ID: upd.Variables[0].ID, Stock: intPtr(6)}},
	})
	require.NoError(t, err)
	require.Len(t, upd.Variables, 1)
	assert.Equal(t, 6, upd.Stock)

	var actions []string
	for _, l := range db.Logs() {
		actions = append(actions, l.Action)
	}
	assert.Contains(t, actions, entity.ActionUpdateProduct)
}

// sellFirst confirma una venta justo antes de que empiece la transacción envuelta.
type sellFirst struct {
	db   *memstore.DB
	sale func(s inventory.Stores) error
}

func (r *sellFirst) Run(ctx context.Context, fn func(s inventory.Stores) error) error {
	if r.sale != nil {
		sale := r.sale
		r.sale = nil
		if err := r.db.Run(ctx, sale); err != nil {
			return err
		}
	}
	return r.db.Run(ctx, fn)
}

func TestUpdateProduct_NoPisaVentaConcurrente(t *testing.T) {
	db := memstore.New()
	now := time.Now()
	require.NoError(t, db.Brands().Create(&entity.Brand{ID: "b1", Name: "Samsung", CreatedAt: now}))
	require.NoError(t, db.Categories().Create(&entity.Category{ID: "cat1", Name: "Điện thoại", CreatedAt: now}))
	tx := &sellFirst{db: db}
	uc := usecase.NewProductUseCase(usecase.ProductDeps{
		Products:   db.Products(),
		Variables:  db.Variables(),
		Brands:     db.Brands(),
		Categories: db.Categories(),
		Tx:         tx,
		Recorder:   activity.NewRecorder(db.ActivityLogs(), nil),
		Location:   time.UTC,
	})
	ctx := context.Background()

	req := simpleProduct("SP00001")
	req.Stock = intPtr(2)
	req.IsSerial = true
	req.Serials = []string{"A", "B"}
	p, err := uc.Create(ctx, "u1", req)
	require.NoError(t, err)

	tx.sale = func(s inventory.Stores) error {
		_, _, err := inventory.NewStockService().Sell(s, "o1", "u1", inventory.SaleLine{
			Type: entity.ProductTypeSerial, ProductID: p.ID, Serials: []string{"A"}, SellPrice: decimal.NewFromInt(15),
		})
		return err
	}
	upd, err := uc.Update(ctx, "u1", p.ID, dto.UpdateProductRequest{Name: strPtr("Renombrado")})
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", upd.Name)
	assert.Equal(t, 1, upd.Stock)
	assert.Equal(t, []string{"B"}, upd.Serials)

	stored := db.Product(p.ID)
	assert.Equal(t, 1, stored.Stock)
	assert.Equal(t, []string{"B"}, stored.Serials)
}

func TestDeleteProduct(t *testing.T) {
	uc, db := newProductUC(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, "u1", simpleProduct("SP00001"))
	require.NoError(t, err)
	b, err := uc.Create(ctx, "u1", simpleProduct("SP00002"))
	require.NoError(t, err)

	require.NoError(t, uc.ToggleDelete("u1", a.ID))
	assert.True(t, db.Product(a.ID).IsDelete)
	require.NoError(t, uc.ToggleDelete("u1", a.ID))
	assert.False(t, db.Product(a.ID).IsDelete)

	_, err = uc.DeleteList("u1", dto.DeleteListRequest{IDs: []string{a.ID, "nope"}})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "nope")
	assert.False(t, db.Product(a.ID).IsDelete, "nada se elimina si falta un id")

	res, err := uc.DeleteList("u1", dto.DeleteListRequest{IDs: []string{a.ID, b.ID, a.ID}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)
	assert.True(t, db.Product(b.ID).IsDelete)

	list, err := uc.List(dto.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestBarcodeHelpers(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	for _, code := range []string{"SP00001", "SP00002", "SP00007"} {
		_, err := uc.Create(ctx, "u1", simpleProduct(code))
		require.NoError(t, err)
	}

	next, err := uc.NextBarcode()
	require.NoError(t, err)
	assert.Equal(t, "SP00008", next.NextBarcode)
	assert.Equal(t, 8, next.NextNumber)

	chk, err := uc.CheckBarcode(dto.CheckBarcodeRequest{Barcode: "SP00001"})
	require.NoError(t, err)
	assert.False(t, chk.Available)
	assert.True(t, chk.ValidFormat)
	assert.Equal(t, []string{"SP00003", "SP00004", "SP00005", "SP00006", "SP00008"}, chk.Suggestions)

	chk, err = uc.CheckBarcode(dto.CheckBarcodeRequest{Barcode: "CUSTOM-1"})
	require.NoError(t, err)
	assert.True(t, chk.Available)
	assert.Empty(t, chk.Suggestions)

	_, err = uc.CheckBarcode(dto.CheckBarcodeRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportStock(t *testing.T) {
	uc, db := newProductUC(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, "u1", simpleProduct("SP00001"))
	require.NoError(t, err)

	got, err := uc.Import(ctx, "u1", p.ID, dto.ImportStockRequest{Quantity: 5, UnitCost: decimal.RequireFromString("20")})
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	assert.True(t, decimal.RequireFromString("15").Equal(got.CostPrice), "promedio ponderado")

	moves, err := uc.Movements(p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, entity.MovementTypeIn, moves[0].Type)
	assert.Equal(t, 5, moves[0].Quantity)

	logs := db.Logs()
	assert.Equal(t, entity.ActionImportProduct, logs[len(logs)-1].Action)

	_, err = uc.Import(ctx, "u1", p.ID, dto.ImportStockRequest{Quantity: 0, UnitCost: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Movements("nope", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSerialHistory(t *testing.T) {
	uc, db := newProductUC(t)
	require.NoError(t, db.HistorySerials().Create(&entity.HistorySerial{
		ID: "h1", ProductID: "p1", Serial: "IMEI-9", OrderID: "o1", SoldAt: time.Now(),
	}))

	list, err := uc.SerialHistory(" IMEI-9 ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "o1", list[0].OrderID)

	_, err = uc.SerialHistory("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVariableUseCase(t *testing.T) {
	db := memstore.New()
	uc := usecase.NewVariableUseCase(db.Variables(), db)
	ctx := context.Background()

	_, err := uc.Create(dto.VariableRequest{CostPrice: dec("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "atributos requeridos")

	v, err := uc.Create(dto.VariableRequest{
		Attributes: []dto.AttributeDTO{{Key: "talla", Value: "M"}},
		CostPrice:  dec("5"), Stock: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "", v.ProductID)

	upd, err := uc.Update(ctx, v.ID, dto.VariableRequest{SellPrice: dec("9")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9").Equal(upd.SellPrice))
	assert.Equal(t, 2, upd.Stock, "campos ausentes no cambian")

	require.NoError(t, uc.ToggleDelete(ctx, v.ID))
	got, err := uc.GetByID(v.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDelete)

	_, err = uc.Update(ctx, "nope", dto.VariableRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

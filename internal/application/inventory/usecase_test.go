package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/testutil/memstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedSimple(t *testing.T, db *memstore.DB, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: "p-simple", Name: "Cable USB", Barcode: "100000001",
		CostPrice: dec("10"), SellPrice: dec("15"), Stock: stock,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Products().Create(p))
	return p
}

func seedSerial(t *testing.T, db *memstore.DB, serials ...string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID: "p-serial", Name: "Teléfono", Barcode: "100000002",
		CostPrice: dec("200"), SellPrice: dec("300"), Stock: len(serials),
		IsSerial: true, Serials: serials, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Products().Create(p))
	return p
}

func seedVariable(t *testing.T, db *memstore.DB, isSerial bool, serials ...string) (*entity.Product, *entity.Variable) {
	t.Helper()
	stock := 5
	if isSerial {
		stock = len(serials)
	}
	v := &entity.Variable{
		ID: "v1", ProductID: "p-var",
		Attributes: []entity.Attribute{{Key: "color", Value: "rojo"}},
		CostPrice:  dec("20"), SellPrice: dec("30"), Stock: stock,
		IsSerial: isSerial, Serials: serials, CreatedAt: time.Now(),
	}
	p := &entity.Product{
		ID: "p-var", Name: "Camiseta", Barcode: "100000003",
		CostPrice: dec("20"), SellPrice: dec("30"), Stock: stock,
		IsVariable: true, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Products().Create(p))
	require.NoError(t, db.Variables().Create(v))
	return p, v
}

func TestSell_Simple(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 5)
	svc := inventory.NewStockService()

	items, cost, err := svc.Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeSimple, ProductID: "p-simple", Quantity: 2, SellPrice: dec("15"),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Cable USB", items[0].Name)
	assert.True(t, items[0].RealSellPrice.Equal(dec("15")))
	assert.True(t, cost.Equal(dec("20")))
	assert.Equal(t, 3, db.Product("p-simple").Stock)

	movs := db.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)
	assert.Equal(t, -2, movs[0].Quantity)
	assert.Equal(t, "o1", movs[0].OrderID)
}

func TestSell_SimpleStockInsuficiente(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 1)

	_, _, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeSimple, ProductID: "p-simple", Quantity: 2,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, db.Product("p-simple").Stock)
}

func TestSell_ProductoInexistenteOEliminado(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 3)
	require.NoError(t, db.Products().SetDeleted([]string{"p-simple"}, true))
	svc := inventory.NewStockService()

	_, _, err := svc.Sell(db.Stores(), "o1", "u1", inventory.SaleLine{Type: entity.ProductTypeSimple, ProductID: "p-simple", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.Sell(db.Stores(), "o1", "u1", inventory.SaleLine{Type: entity.ProductTypeSimple, ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSell_TipoInvalido(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 3)
	_, _, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{Type: 150, ProductID: "p-simple", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSell_SerialGeneraUnaLineaPorSerial(t *testing.T) {
	db := memstore.New()
	seedSerial(t, db, "S1", "S2", "S3")

	items, cost, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeSerial, ProductID: "p-serial", Serials: []string{"S1", "S3"}, SellPrice: dec("300"),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "S1", items[0].Serial)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, cost.Equal(dec("400")))

	p := db.Product("p-serial")
	assert.Equal(t, []string{"S2"}, p.Serials)
	assert.Equal(t, 1, p.Stock)

	hist := db.Histories()
	require.Len(t, hist, 2)
	assert.Equal(t, "o1", hist[0].OrderID)
	assert.Len(t, db.Movements(), 2)
}

func TestSell_SerialNoDisponible(t *testing.T) {
	db := memstore.New()
	seedSerial(t, db, "S1")
	_, _, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeSerial, ProductID: "p-serial", Serials: []string{"X9"},
	})
	assert.ErrorIs(t, err, domain.ErrSerialNotAvailable)
}

func TestSell_Variante(t *testing.T) {
	db := memstore.New()
	seedVariable(t, db, false)

	items, cost, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeVariable, ProductID: "p-var", VariableID: "v1", Quantity: 2, SellPrice: dec("30"),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Camiseta (color: rojo)", items[0].Name)
	assert.Equal(t, "v1", items[0].VariableID)
	assert.True(t, cost.Equal(dec("40")))
	assert.Equal(t, 3, db.Variable("v1").Stock)
	assert.Equal(t, 3, db.Product("p-var").Stock)
}

func TestSell_VarianteDeOtroProducto(t *testing.T) {
	db := memstore.New()
	seedVariable(t, db, false)
	require.NoError(t, db.Products().Create(&entity.Product{
		ID: "p-var2", Name: "Pantalón", Barcode: "100000004", Stock: 0, IsVariable: true, CreatedAt: time.Now(),
	}))

	_, _, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeVariable, ProductID: "p-var2", VariableID: "v1", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSell_TipoNoCorrespondeAlProducto(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 5)
	seedSerial(t, db, "IMEI-1", "IMEI-2")
	seedVariable(t, db, false)
	svc := inventory.NewStockService()

	cases := []struct {
		name string
		line inventory.SaleLine
	}{
		{"simple sobre serial", inventory.SaleLine{Type: entity.ProductTypeSimple, ProductID: "p-serial", Quantity: 1}},
		{"simple sobre variantes", inventory.SaleLine{Type: entity.ProductTypeSimple, ProductID: "p-var", Quantity: 1}},
		{"serial sobre simple", inventory.SaleLine{Type: entity.ProductTypeSerial, ProductID: "p-simple", Serials: []string{"X"}}},
		{"variante sobre simple", inventory.SaleLine{Type: entity.ProductTypeVariable, ProductID: "p-simple", VariableID: "v1", Quantity: 1}},
		{"variante serial sobre variante sin serial", inventory.SaleLine{
			Type: entity.ProductTypeVariableSerial, ProductID: "p-var", VariableID: "v1", Serials: []string{"X"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Sell(db.Stores(), "o1", "u1", tc.line)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.Equal(t, 5, db.Product("p-simple").Stock)
	serial := db.Product("p-serial")
	assert.Equal(t, 2, serial.Stock)
	assert.Equal(t, []string{"IMEI-1", "IMEI-2"}, serial.Serials)
	assert.Equal(t, 5, db.Product("p-var").Stock)
	assert.Equal(t, 5, db.Variable("v1").Stock)
	assert.Empty(t, db.Movements())
}

func TestSell_VarianteSerial(t *testing.T) {
	db := memstore.New()
	seedVariable(t, db, true, "VS1", "VS2")

	items, _, err := inventory.NewStockService().Sell(db.Stores(), "o1", "u1", inventory.SaleLine{
		Type: entity.ProductTypeVariableSerial, ProductID: "p-var", VariableID: "v1", Serials: []string{"VS2"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "VS2", items[0].Serial)
	v := db.Variable("v1")
	assert.Equal(t, []string{"VS1"}, v.Serials)
	assert.Equal(t, 1, v.Stock)
	assert.Equal(t, 1, db.Product("p-var").Stock)
}

func TestRestock_SimpleYVariante(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 1)
	seedVariable(t, db, false)
	svc := inventory.NewStockService()

	require.NoError(t, svc.Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, inventory.RestockLine{
		Type: entity.ProductTypeSimple, ProductID: "p-simple", Quantity: 2,
	}))
	assert.Equal(t, 3, db.Product("p-simple").Stock)

	require.NoError(t, svc.Restock(db.Stores(), "o1", "u1", entity.MovementTypeRestore, inventory.RestockLine{
		Type: entity.ProductTypeVariable, ProductID: "p-var", VariableID: "v1", Quantity: 1,
	}))
	assert.Equal(t, 6, db.Variable("v1").Stock)
	assert.Equal(t, 6, db.Product("p-var").Stock)

	movs := db.Movements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeReturn, movs[0].Type)
	assert.Equal(t, entity.MovementTypeRestore, movs[1].Type)
	assert.Equal(t, 1, movs[1].Quantity)
}

func TestRestock_SerialIdempotente(t *testing.T) {
	db := memstore.New()
	seedSerial(t, db, "S1")
	svc := inventory.NewStockService()
	line := inventory.RestockLine{Type: entity.ProductTypeSerial, ProductID: "p-serial", Serial: "S2"}

	require.NoError(t, svc.Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, line))
	require.NoError(t, svc.Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, line))

	p := db.Product("p-serial")
	assert.ElementsMatch(t, []string{"S1", "S2"}, p.Serials)
	assert.Equal(t, 2, p.Stock)
	assert.Len(t, db.Movements(), 1)
}

func TestRestock_VarianteSerial(t *testing.T) {
	db := memstore.New()
	seedVariable(t, db, true, "VS1")
	err := inventory.NewStockService().Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, inventory.RestockLine{
		Type: entity.ProductTypeVariableSerial, ProductID: "p-var", VariableID: "v1", Serial: "VS9", Quantity: 4,
	})
	require.NoError(t, err)
	v := db.Variable("v1")
	assert.ElementsMatch(t, []string{"VS1", "VS9"}, v.Serials)
	assert.Equal(t, 2, v.Stock)
}

func TestRestock_TipoNoCorrespondeAlProducto(t *testing.T) {
	db := memstore.New()
	seedSerial(t, db, "S1")
	seedVariable(t, db, true, "VS1")
	svc := inventory.NewStockService()

	err := svc.Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, inventory.RestockLine{
		Type: entity.ProductTypeSimple, ProductID: "p-serial", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, db.Product("p-serial").Stock)

	err = svc.Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, inventory.RestockLine{
		Type: entity.ProductTypeVariable, ProductID: "p-var", VariableID: "v1", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, db.Variable("v1").Stock)
	assert.Empty(t, db.Movements())
}

func TestRestock_SerialRequerido(t *testing.T) {
	db := memstore.New()
	seedSerial(t, db)
	err := inventory.NewStockService().Restock(db.Stores(), "o1", "u1", entity.MovementTypeReturn, inventory.RestockLine{
		Type: entity.ProductTypeSerial, ProductID: "p-serial",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceive_CostoPromedioPonderado(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 10)

	p, err := inventory.NewStockService().Receive(db.Stores(), inventory.ReceiptInput{
		UserID: "u1", ProductID: "p-simple", Quantity: 10, UnitCost: dec("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)
	assert.True(t, p.CostPrice.Equal(dec("15")), p.CostPrice.String())

	stored := db.Product("p-simple")
	assert.Equal(t, 20, stored.Stock)
	assert.True(t, stored.CostPrice.Equal(dec("15")))

	movs := db.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, 10, movs[0].Quantity)
	assert.Empty(t, movs[0].OrderID)
}

func TestReceive_Seriales(t *testing.T) {
	db := memstore.New()
	seedSerial(t, db, "S1")
	svc := inventory.NewStockService()

	_, err := svc.Receive(db.Stores(), inventory.ReceiptInput{ProductID: "p-serial", Quantity: 2, UnitCost: dec("200"), Serials: []string{"S2"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Receive(db.Stores(), inventory.ReceiptInput{ProductID: "p-serial", Quantity: 1, UnitCost: dec("200"), Serials: []string{"S1"}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := svc.Receive(db.Stores(), inventory.ReceiptInput{ProductID: "p-serial", Quantity: 2, UnitCost: dec("200"), Serials: []string{"S2", "S3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
	assert.Len(t, db.Movements(), 2)
}

func TestReceive_VarianteRecalculaAgregados(t *testing.T) {
	db := memstore.New()
	seedVariable(t, db, false)

	p, err := inventory.NewStockService().Receive(db.Stores(), inventory.ReceiptInput{
		ProductID: "p-var", VariableID: "v1", Quantity: 5, UnitCost: dec("30"),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
	assert.True(t, p.CostPrice.Equal(dec("25")), p.CostPrice.String())
	assert.Equal(t, 10, db.Product("p-var").Stock)
	assert.Equal(t, 10, db.Variable("v1").Stock)
}

func TestReceive_EntradaInvalida(t *testing.T) {
	db := memstore.New()
	seedVariable(t, db, false)
	svc := inventory.NewStockService()

	_, err := svc.Receive(db.Stores(), inventory.ReceiptInput{ProductID: "p-var", VariableID: "v1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Receive(db.Stores(), inventory.ReceiptInput{ProductID: "p-var", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	db := memstore.New()
	seedSimple(t, db, 5)
	svc := inventory.NewStockService()
	boom := errors.New("boom")

	err := db.Run(context.Background(), func(s inventory.Stores) error {
		if _, _, err := svc.Sell(s, "o1", "u1", inventory.SaleLine{Type: entity.ProductTypeSimple, ProductID: "p-simple", Quantity: 3}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, db.Product("p-simple").Stock)
	assert.Empty(t, db.Movements())
}

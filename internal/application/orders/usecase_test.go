package orders_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/testutil/memstore"
	"github.com/jhoicas/pos-api/pkg/hashid"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeInvoices struct {
	got *entity.Order
}

func (f *fakeInvoices) RenderInvoice(_ context.Context, o *entity.Order) ([]byte, error) {
	f.got = o
	return []byte("%PDF-1.3 fake"), nil
}

type fixture struct {
	db       *memstore.DB
	uc       *orders.UseCase
	invoices *fakeInvoices
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := memstore.New()
	codes, err := hashid.New("test-salt")
	require.NoError(t, err)
	inv := &fakeInvoices{}
	uc := orders.NewUseCase(orders.Deps{
		Orders:    db.Orders(),
		Customers: db.Customers(),
		Tx:        db,
		Codes:     codes,
		Invoices:  inv,
		Location:  time.UTC,
	})

	now := time.Now()
	require.NoError(t, db.Products().Create(&entity.Product{
		ID: "p-simple", Name: "Cable USB", Barcode: "SP00001",
		CostPrice: dec("10"), SellPrice: dec("15"), Stock: 5, CreatedAt: now,
	}))
	require.NoError(t, db.Products().Create(&entity.Product{
		ID: "p-serial", Name: "Teléfono", Barcode: "SP00002",
		CostPrice: dec("200"), SellPrice: dec("300"), Stock: 2,
		IsSerial: true, Serials: []string{"IMEI-1", "IMEI-2"}, CreatedAt: now,
	}))
	require.NoError(t, db.Products().Create(&entity.Product{
		ID: "p-var", Name: "Camiseta", Barcode: "SP00003",
		CostPrice: dec("20"), SellPrice: dec("30"), Stock: 5, IsVariable: true, CreatedAt: now,
	}))
	require.NoError(t, db.Variables().Create(&entity.Variable{
		ID: "v1", ProductID: "p-var",
		Attributes: []entity.Attribute{{Key: "color", Value: "rojo"}},
		CostPrice:  dec("20"), SellPrice: dec("30"), Stock: 5, CreatedAt: now,
	}))
	require.NoError(t, db.Customers().Create(&entity.Customer{
		ID: "c1", Name: "Ana", Phone: "0900000001", Address: "Calle 1", IsActive: true, CreatedAt: now,
	}))
	return fixture{db: db, uc: uc, invoices: inv}
}

func mixedOrder() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:  "Luis",
		CustomerPhone: "0911111111",
		ProductList: []dto.OrderItemRequest{
			{TypeProduct: 100, ProductID: "p-simple", Quantity: 2, SellPrice: dec("15"), RealSellPrice: dec("15")},
			{TypeProduct: 200, ProductID: "p-serial", Serials: []string{"IMEI-1"}, SellPrice: dec("300")},
			{TypeProduct: 300, ProductID: "p-var", Quantity: 1, Variable: &dto.OrderVariableRequest{
				VariableID: "v1", SellPrice: dec("30"), RealSellPrice: dec("28"),
			}},
		},
		TotalAmount:  dec("358"),
		CustomerPaid: dec("300"),
	}
}

func TestCreate_DescuentaStockYLiquida(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Create(context.Background(), "u1", mixedOrder())
	require.NoError(t, err)

	assert.NotEmpty(t, out.Code)
	assert.Equal(t, "u1", out.StaffID)
	require.Len(t, out.ProductList, 3)
	assert.Nil(t, out.ProductList[0].Serial)
	require.NotNil(t, out.ProductList[1].Serial)
	assert.Equal(t, "IMEI-1", *out.ProductList[1].Serial)
	assert.True(t, out.ProductList[2].RealSellPrice.Equal(dec("28")))

	// 2×10 + 200 + 20
	assert.True(t, out.TotalCostPrice.Equal(dec("240")))
	assert.True(t, out.CustomerDebt.Equal(dec("58")))
	assert.True(t, out.EstimatedRevenue.Equal(dec("300")))
	assert.Equal(t, entity.PaymentStatusPartial, out.PaymentStatus)

	assert.Equal(t, 3, f.db.Product("p-simple").Stock)
	assert.Equal(t, []string{"IMEI-2"}, f.db.Product("p-serial").Serials)
	assert.Equal(t, 4, f.db.Variable("v1").Stock)
	assert.Equal(t, 4, f.db.Product("p-var").Stock)
	assert.Len(t, f.db.Histories(), 1)
	assert.Len(t, f.db.Movements(), 3)

	logs := f.db.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionCreateOrder, logs[0].Action)
	assert.Equal(t, "order for Luis(0911111111)", logs[0].Message)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(logs[0].Metadata, &meta))
	assert.EqualValues(t, 3, meta["productCount"])
}

func TestCreate_EstadosDePago(t *testing.T) {
	cases := []struct {
		name     string
		total    string
		discount string
		paid     string
		status   string
		debt     string
	}{
		{"pagada", "30", "0", "30", entity.PaymentStatusPaid, "0"},
		{"pago de más", "30", "0", "50", entity.PaymentStatusPaid, "0"},
		{"parcial", "30", "0", "10", entity.PaymentStatusPartial, "20"},
		{"sin pago", "30", "0", "0", entity.PaymentStatusUnpaid, "30"},
		{"con descuento", "30", "25", "25", entity.PaymentStatusPaid, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			out, err := f.uc.Create(context.Background(), "u1", dto.CreateOrderRequest{
				ProductList: []dto.OrderItemRequest{
					{TypeProduct: 100, ProductID: "p-simple", Quantity: 2, SellPrice: dec("15")},
				},
				TotalAmount:         dec(tc.total),
				TotalAmountDiscount: dec(tc.discount),
				CustomerPaid:        dec(tc.paid),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.status, out.PaymentStatus)
			assert.True(t, out.CustomerDebt.Equal(dec(tc.debt)), "deuda %s", out.CustomerDebt)
		})
	}
}

func TestCreate_FallaSinEscribirNada(t *testing.T) {
	f := newFixture(t)
	in := mixedOrder()
	in.ProductList[0].Quantity = 99

	_, err := f.uc.Create(context.Background(), "u1", in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 5, f.db.Product("p-simple").Stock)
	assert.Len(t, f.db.Product("p-serial").Serials, 2)
	assert.Empty(t, f.db.Movements())
	assert.Empty(t, f.db.Histories())
	assert.Empty(t, f.db.Logs())
}

func TestCreate_SerialVendido(t *testing.T) {
	f := newFixture(t)
	in := mixedOrder()
	in.ProductList[1].Serials = []string{"IMEI-9"}

	_, err := f.uc.Create(context.Background(), "u1", in)
	assert.ErrorIs(t, err, domain.ErrSerialNotAvailable)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "u1", dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in := mixedOrder()
	in.DiscountType = "gratis"
	_, err = f.uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = mixedOrder()
	in.ProductList[2].Variable = nil
	_, err = f.uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = mixedOrder()
	in.SaleDate = "ayer"
	_, err = f.uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = mixedOrder()
	in.CustomerID = "no-existe"
	_, err = f.uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ClienteYFechaDeVenta(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Create(context.Background(), "u1", dto.CreateOrderRequest{
		StaffID:    "staff-2",
		CustomerID: "c1",
		SaleDate:   "2024-03-15",
		ProductList: []dto.OrderItemRequest{
			{TypeProduct: 100, ProductID: "p-simple", Quantity: 1, SellPrice: dec("15")},
		},
		TotalAmount:  dec("15"),
		CustomerPaid: dec("15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "staff-2", out.StaffID)
	assert.Equal(t, "Ana", out.CustomerName)
	assert.Equal(t, "0900000001", out.CustomerPhone)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), out.CreatedAt)
}

func TestCreate_CodigosDistintos(t *testing.T) {
	f := newFixture(t)
	line := []dto.OrderItemRequest{{TypeProduct: 100, ProductID: "p-simple", Quantity: 1, SellPrice: dec("15")}}

	a, err := f.uc.Create(context.Background(), "u1", dto.CreateOrderRequest{ProductList: line, TotalAmount: dec("15")})
	require.NoError(t, err)
	b, err := f.uc.Create(context.Background(), "u1", dto.CreateOrderRequest{ProductList: line, TotalAmount: dec("15")})
	require.NoError(t, err)
	assert.NotEqual(t, a.Code, b.Code)
}

func TestReturn_Completa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)

	out, err := f.uc.Return(ctx, "u1", o.ID, dto.ReturnOrderRequest{
		Refund: dto.RefundRequest{Money: dec("100"), Reason: "defecto"},
	})
	require.NoError(t, err)

	assert.True(t, out.IsReturnOrder)
	assert.Equal(t, entity.PaymentStatusPaidRefund, out.PaymentStatus)
	assert.Equal(t, "defecto", out.ReasonRefund)
	assert.True(t, out.EstimatedRevenue.Equal(dec("258")))
	assert.True(t, out.TotalCostPrice.IsZero())

	assert.Equal(t, 5, f.db.Product("p-simple").Stock)
	assert.ElementsMatch(t, []string{"IMEI-1", "IMEI-2"}, f.db.Product("p-serial").Serials)
	assert.Equal(t, 5, f.db.Variable("v1").Stock)

	logs := f.db.Logs()
	assert.Equal(t, entity.ActionReturnOrderItem, logs[len(logs)-1].Action)

	_, err = f.uc.Return(ctx, "u1", o.ID, dto.ReturnOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReturn_Parcial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)

	_, err = f.uc.Return(ctx, "u1", o.ID, dto.ReturnOrderRequest{
		Refund:    dto.RefundRequest{Money: dec("15")},
		ItemOrder: []dto.ReturnItemRequest{{ProductID: "p-simple", TypeProduct: 100, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, f.db.Product("p-simple").Stock)
	assert.Equal(t, []string{"IMEI-2"}, f.db.Product("p-serial").Serials)
}

func TestReturn_LineaAjenaOExcedida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)

	_, err = f.uc.Return(ctx, "u1", o.ID, dto.ReturnOrderRequest{
		ItemOrder: []dto.ReturnItemRequest{{ProductID: "p-simple", TypeProduct: 100, Quantity: 3}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Return(ctx, "u1", o.ID, dto.ReturnOrderRequest{
		ItemOrder: []dto.ReturnItemRequest{{ProductID: "p-serial", TypeProduct: 200, Serial: "IMEI-2"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.False(t, f.db.Order(o.ID).IsReturnOrder)
	assert.Equal(t, 3, f.db.Product("p-simple").Stock)
}

func TestReturn_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Return(context.Background(), "u1", "nope", dto.ReturnOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)

	_, err = f.uc.PayDebt(ctx, "u1", dto.PayDebtRequest{OrderID: o.ID, Money: dec("100")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.PayDebt(ctx, "u1", dto.PayDebtRequest{OrderID: o.ID, Money: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := f.uc.PayDebt(ctx, "u1", dto.PayDebtRequest{OrderID: o.ID, Money: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, out.PaymentStatus)
	assert.True(t, out.CustomerDebt.Equal(dec("8")))
	assert.True(t, out.EstimatedRevenue.Equal(dec("350")))

	out, err = f.uc.PayDebt(ctx, "u1", dto.PayDebtRequest{OrderID: o.ID, Money: dec("8")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus)
	assert.True(t, out.CustomerDebt.IsZero())

	logs := f.db.Logs()
	last := logs[len(logs)-1]
	assert.Equal(t, entity.ActionPayDebt, last.Action)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(last.Metadata, &meta))
	assert.Contains(t, meta, "paymentAmount")
	assert.Contains(t, meta, "remainingDebt")
}

func TestDelete_RestauraStockSiNoFueDevuelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, "u1", o.ID))

	stored := f.db.Order(o.ID)
	assert.True(t, stored.IsDelete)
	assert.True(t, stored.TotalCostPrice.IsZero())
	assert.True(t, stored.EstimatedRevenue.IsZero())
	assert.Equal(t, 5, f.db.Product("p-simple").Stock)
	assert.Len(t, f.db.Product("p-serial").Serials, 2)
	assert.Equal(t, 5, f.db.Variable("v1").Stock)

	var restores int
	for _, m := range f.db.Movements() {
		if m.Type == entity.MovementTypeRestore {
			restores++
		}
	}
	assert.Equal(t, 3, restores)

	logs := f.db.Logs()
	last := logs[len(logs)-1]
	assert.Equal(t, entity.ActionDeleteOrder, last.Action)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(last.Metadata, &meta))
	assert.Equal(t, false, meta["wasReturnedOrder"])

	assert.ErrorIs(t, f.uc.Delete(ctx, "u1", o.ID), domain.ErrNotFound)

	list, err := f.uc.List(dto.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestDelete_DevueltaConservaMontos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)
	_, err = f.uc.Return(ctx, "u1", o.ID, dto.ReturnOrderRequest{Refund: dto.RefundRequest{Money: dec("58")}})
	require.NoError(t, err)
	movements := len(f.db.Movements())

	require.NoError(t, f.uc.Delete(ctx, "u1", o.ID))

	stored := f.db.Order(o.ID)
	assert.True(t, stored.IsDelete)
	assert.True(t, stored.EstimatedRevenue.Equal(dec("300")))
	assert.Len(t, f.db.Movements(), movements)
	assert.Equal(t, 5, f.db.Product("p-simple").Stock)
}

func TestList_FiltraPorEstadoYPalabraClave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, "u1", dto.CreateOrderRequest{
		ProductList:  []dto.OrderItemRequest{{TypeProduct: 100, ProductID: "p-simple", Quantity: 1, SellPrice: dec("15")}},
		TotalAmount:  dec("15"),
		CustomerPaid: dec("15"),
	})
	require.NoError(t, err)

	list, err := f.uc.List(dto.ListQuery{Statuses: []string{"paid"}})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.Attrs.TotalCount)

	list, err = f.uc.List(dto.ListQuery{Keyword: "imei-1"})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Luis", list.Data[0].CustomerName)
}

func TestInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.uc.Create(ctx, "u1", mixedOrder())
	require.NoError(t, err)

	pdf, name, err := f.uc.Invoice(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice-"+o.ID+".pdf", name)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")
	require.NotNil(t, f.invoices.got)
	assert.Len(t, f.invoices.got.Items, 3)

	_, _, err = f.uc.Invoice(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

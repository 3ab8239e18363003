package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/testutil/memstore"
)

var ict = time.FixedZone("ICT", 7*3600)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(day, hour, min int) time.Time {
	return time.Date(2024, 5, day, hour, min, 0, 0, ict)
}

type fakeRenderer struct{ got *dto.SalesReportDTO }

func (f *fakeRenderer) RenderSalesReport(_ context.Context, r *dto.SalesReportDTO) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

// seed: hoy es miércoles 15/05/2024 14:30 (ICT).
func seed(t *testing.T) *memstore.DB {
	t.Helper()
	db := memstore.New()
	for _, c := range []*entity.Category{{ID: "c1", Name: "Accesorios"}, {ID: "c2", Name: "Telefonos"}} {
		require.NoError(t, db.Categories().Create(c))
	}
	for _, p := range []*entity.Product{
		{ID: "p1", Name: "Cable", Barcode: "SP00001", CategoryID: "c1"},
		{ID: "p2", Name: "Telefono", Barcode: "SP00002", CategoryID: "c2"},
	} {
		require.NoError(t, db.Products().Create(p))
	}
	item := func(productID string, qty int, sell string) *entity.OrderItem {
		return &entity.OrderItem{ProductID: productID, Name: productID, Quantity: qty, SellPrice: dec(sell), TypeProduct: 100}
	}
	orders := []*entity.Order{
		{ID: "o1", Code: "A1", CustomerName: "Ana", TotalAmount: dec("100"), TotalCostPrice: dec("60"),
			EstimatedRevenue: dec("100"), CreatedAt: at(15, 10, 15), Items: []*entity.OrderItem{item("p1", 2, "50")}},
		{ID: "o2", Code: "A2", TotalAmount: dec("200"), TotalAmountDiscount: dec("150"), TotalCostPrice: dec("80"),
			EstimatedRevenue: dec("100"), CreatedAt: at(15, 10, 15), Items: []*entity.OrderItem{item("p2", 1, "200")}},
		{ID: "o3", Code: "A3", TotalAmount: dec("500"), IsDelete: true, CreatedAt: at(15, 11, 0),
			Items: []*entity.OrderItem{item("p2", 2, "250")}},
		{ID: "o4", Code: "A4", TotalAmount: dec("50"), EstimatedRevenue: dec("50"), IsReturnOrder: true,
			CreatedAt: at(15, 12, 0), Items: []*entity.OrderItem{item("p1", 1, "50")}},
		{ID: "y1", Code: "B1", TotalAmount: dec("100"), TotalCostPrice: dec("40"), EstimatedRevenue: dec("100"),
			CreatedAt: at(14, 9, 0), Items: []*entity.OrderItem{item("p1", 2, "50")}},
		{ID: "m1", Code: "B2", TotalAmount: dec("250"), EstimatedRevenue: dec("250"),
			CreatedAt: at(1, 8, 0), Items: []*entity.OrderItem{item("p2", 1, "250")}},
		{ID: "old", Code: "B3", TotalAmount: dec("999"), EstimatedRevenue: dec("999"),
			CreatedAt: time.Date(2023, 12, 31, 23, 0, 0, 0, ict), Items: []*entity.OrderItem{item("p2", 1, "999")}},
	}
	for _, o := range orders {
		db.PutOrder(o)
	}
	for _, c := range []*entity.Customer{
		{ID: "k1", Name: "Hoy", Phone: "1", CreatedAt: at(15, 9, 0)},
		{ID: "k2", Name: "Ayer 1", Phone: "2", CreatedAt: at(14, 9, 0)},
		{ID: "k3", Name: "Ayer 2", Phone: "3", CreatedAt: at(14, 10, 0)},
	} {
		require.NoError(t, db.Customers().Create(c))
	}
	return db
}

func newUseCase(reports repository.ReportRepository, r ReportRenderer) *DashboardUseCase {
	uc := NewDashboardUseCase(reports, r, ict)
	uc.now = func() time.Time { return at(15, 14, 30) }
	return uc
}

func TestRevenue(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.Revenue(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Value.Equal(dec("300")), "value %s", out.Value)
	assert.EqualValues(t, 200, out.CompareWithYesterday)
	// promedio diario del mes: 650 / 15
	assert.EqualValues(t, 592, out.CompareWithMonth)
	assert.Equal(t, 3, out.TotalBill)
	assert.Equal(t, 4, out.TotalOrders)
	assert.Equal(t, 1, out.TotalReturnedOrders)
	assert.Equal(t, 3, out.TotalNormalOrders)
}

func TestDateTime(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.DateTime(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalOrders)
	assert.True(t, out.TotalRevenue.Equal(dec("300")))
	assert.True(t, out.TotalCostPrice.Equal(dec("140")))
	assert.True(t, out.TotalProfit.Equal(dec("160")))

	require.Len(t, out.ChartHour, 2)
	assert.Equal(t, "10:15", out.ChartHour[0].Date)
	assert.True(t, out.ChartHour[0].Revenue.Equal(dec("250")))
	assert.True(t, out.ChartHour[0].Profit.Equal(dec("110")))
	assert.Equal(t, "12:00", out.ChartHour[1].Date)

	require.Len(t, out.ChartDay, 1)
	assert.Equal(t, "15", out.ChartDay[0].Date)
	require.Len(t, out.ChartWeek, 1)
	assert.Equal(t, "T4", out.ChartWeek[0].Date)
}

func TestDateTime_Custom(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.DateTime(context.Background(), dto.DashboardQuery{
		TimeType: "CUSTOM", CustomFrom: "2024-05-01", CustomTo: "2024-05-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalOrders)
	assert.True(t, out.TotalRevenue.Equal(dec("350")))
	require.Len(t, out.ChartWeek, 2)
	// 01/05 miércoles, 14/05 martes
	assert.Equal(t, "T3", out.ChartWeek[0].Date)
	assert.Equal(t, "T4", out.ChartWeek[1].Date)

	_, err = uc.DateTime(context.Background(), dto.DashboardQuery{
		TimeType: "CUSTOM", CustomFrom: "2024-05-10", CustomTo: "2024-05-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.DateTime(context.Background(), dto.DashboardQuery{TimeType: "CUSTOM", CustomFrom: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.DateTime(context.Background(), dto.DashboardQuery{TimeType: "NEXT_DECADE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestYear(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.Year(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out.MonthGroups, 12)
	assert.Equal(t, "01", out.MonthGroups[0].Date)
	assert.Equal(t, "12", out.MonthGroups[11].Date)
	assert.True(t, out.MonthGroups[4].Revenue.Equal(dec("650")))
	assert.True(t, out.MonthGroups[0].Revenue.IsZero())
	assert.True(t, out.TotalRevenue.Equal(dec("650")))
	assert.True(t, out.TotalProfit.Equal(dec("470")))

	out, err = uc.Year(context.Background(), 2023)
	require.NoError(t, err)
	assert.True(t, out.MonthGroups[11].Revenue.Equal(dec("999")))
}

func TestTopProducts(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.TopProducts(context.Background(), dto.DashboardQuery{TimeType: "TODAY"})
	require.NoError(t, err)
	require.Len(t, out.Quantity, 2)
	assert.Equal(t, "Cable", out.Quantity[0].Date)
	assert.True(t, out.Quantity[0].Value.Equal(dec("3")))
	require.Len(t, out.Revenue, 2)
	assert.Equal(t, "Telefono", out.Revenue[0].Date)
	assert.True(t, out.Revenue[0].Value.Equal(dec("200")))
}

func TestCustomers(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.Customers(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.NewCustomers)
	assert.Equal(t, 2, out.PreviousPeriodCustomers)
	assert.EqualValues(t, -50, out.NewCustomersGrowth)
}

func TestCategories(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.Categories(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Telefonos", out.Categories[0].Name)
	assert.EqualValues(t, 57, out.Categories[0].Percentage)
	assert.EqualValues(t, 43, out.Categories[1].Percentage)
	assert.True(t, out.TotalRevenue.Equal(dec("350")))
}

func TestSalesReport(t *testing.T) {
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.SalesReport(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, "TODAY", out.Period.TimeType)
	assert.Equal(t, 3, out.Summary.TotalOrders)
	assert.Equal(t, 3, out.Summary.TotalProducts)
	assert.Equal(t, 4, out.Summary.TotalQuantity)
	assert.True(t, out.Summary.TotalSellPrice.Equal(dec("300")))
	assert.True(t, out.Summary.TotalDebt.Equal(dec("50")))
	assert.True(t, out.Summary.ActualRevenue.Equal(dec("250")))

	require.Len(t, out.SalesDetails, 3)
	assert.Equal(t, "o4", out.SalesDetails[0].OrderID)
	assert.Equal(t, "o1", out.SalesDetails[1].OrderID)
	assert.Equal(t, "o2", out.SalesDetails[2].OrderID)
	assert.Equal(t, walkInCustomer, out.SalesDetails[2].CustomerName)
	assert.True(t, out.SalesDetails[2].Debt.Equal(dec("50")))
	assert.True(t, out.SalesDetails[2].ActualRevenue.Equal(dec("100")))
}

func TestSalesReport_RepartoPorLinea(t *testing.T) {
	db := memstore.New()
	db.PutOrder(&entity.Order{
		ID: "o1", TotalAmount: dec("300"), TotalCostPrice: dec("90"), EstimatedRevenue: dec("150"),
		CreatedAt: at(15, 9, 0),
		Items: []*entity.OrderItem{
			{Name: "a", Quantity: 1, SellPrice: dec("100")},
			{Name: "b", Quantity: 1, SellPrice: dec("100")},
			{Name: "c", Quantity: 1, SellPrice: dec("100")},
		},
	})
	uc := newUseCase(db.Report(), nil)

	out, err := uc.SalesReport(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	require.Len(t, out.SalesDetails, 3)
	for _, d := range out.SalesDetails {
		assert.True(t, d.TotalSellAmount.Equal(dec("100")))
		assert.True(t, d.CostPrice.Equal(dec("30")))
		assert.True(t, d.Debt.Equal(dec("50")))
		assert.True(t, d.ActualProfit.Equal(dec("20")))
	}
}

func TestSalesReportPDF(t *testing.T) {
	r := &fakeRenderer{}
	uc := newUseCase(seed(t).Report(), r)

	doc, name, err := uc.SalesReportPDF(context.Background(), dto.DashboardQuery{TimeType: "THIS_MONTH"})
	require.NoError(t, err)
	assert.Equal(t, "sales-report-20240501-20240531.pdf", name)
	assert.Equal(t, "%PDF-fake", string(doc))
	require.NotNil(t, r.got)
	assert.Equal(t, "THIS_MONTH", r.got.Period.TimeType)
}

// failingReports falla el conteo de clientes para probar la propagación del error.
type failingReports struct {
	repository.ReportRepository
}

var errBoom = errors.New("boom")

func (failingReports) CountNewCustomers(context.Context, time.Time, time.Time) (int, error) {
	return 0, errBoom
}

func TestOverview(t *testing.T) {
	defer goleak.VerifyNone(t)
	uc := newUseCase(seed(t).Report(), nil)

	out, err := uc.Overview(context.Background(), dto.DashboardQuery{})
	require.NoError(t, err)
	require.NotNil(t, out.Revenue)
	require.NotNil(t, out.DateTime)
	require.NotNil(t, out.TopProduct)
	require.NotNil(t, out.Customers)
	require.NotNil(t, out.Categories)
	assert.True(t, out.Revenue.Value.Equal(out.DateTime.TotalRevenue))
}

func TestOverview_ErrorSinGoroutinesColgadas(t *testing.T) {
	defer goleak.VerifyNone(t)
	uc := newUseCase(failingReports{seed(t).Report()}, nil)

	_, err := uc.Overview(context.Background(), dto.DashboardQuery{})
	assert.ErrorIs(t, err, errBoom)

	_, err = uc.Overview(context.Background(), dto.DashboardQuery{TimeType: "???"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

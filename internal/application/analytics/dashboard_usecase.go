// Package analytics contiene los casos de uso del tablero de ventas y el reporte de ventas.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/period"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/sales"
)

const topProducts = 10 // tamaño de cada ranking de productos

// weekdayLabels etiquetas de chartWeek indexadas por time.Weekday (domingo primero).
var weekdayLabels = [7]string{"CN", "T2", "T3", "T4", "T5", "T6", "T7"}

// ReportRenderer genera el PDF del reporte de ventas.
type ReportRenderer interface {
	RenderSalesReport(ctx context.Context, r *dto.SalesReportDTO) ([]byte, error)
}

// DashboardUseCase widgets del tablero y reporte de ventas.
//
// Fuente de datos: ReportRepository (consultas read-only). Sólo cuentan las órdenes no eliminadas,
// salvo totalOrders del widget de ingresos.
type DashboardUseCase struct {
	reports  repository.ReportRepository
	renderer ReportRenderer
	loc      *time.Location
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc es la zona horaria de la tienda.
func NewDashboardUseCase(reports repository.ReportRepository, renderer ReportRenderer, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{reports: reports, renderer: renderer, loc: loc, now: time.Now}
}

func (uc *DashboardUseCase) clock() time.Time {
	return uc.now().In(uc.loc)
}

// rangeFor resuelve el rango del query en la zona de la tienda.
func (uc *DashboardUseCase) rangeFor(q dto.DashboardQuery) (period.Range, error) {
	from, err := parseBound(q.CustomFrom, uc.loc, false)
	if err != nil {
		return period.Range{}, err
	}
	to, err := parseBound(q.CustomTo, uc.loc, true)
	if err != nil {
		return period.Range{}, err
	}
	return period.ForDashboard(q.TimeType, uc.clock(), from, to)
}

// parseBound acepta RFC3339 o AAAA-MM-DD; una fecha sin hora como límite superior cubre el día completo.
func parseBound(s string, loc *time.Location, upper bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func sumBilled(figs []entity.OrderFigure) decimal.Decimal {
	total := decimal.Zero
	for _, f := range figs {
		total = total.Add(f.Billed)
	}
	return total
}

// Revenue ingresos de hoy comparados con ayer y con el promedio diario del mes.
func (uc *DashboardUseCase) Revenue(ctx context.Context) (*dto.RevenueSummaryDTO, error) {
	now := uc.clock()
	today, _ := period.ForDashboard(period.Today, now, nil, nil)
	yesterday, _ := period.ForDashboard(period.Yesterday, now, nil, nil)
	month, _ := period.ForDashboard(period.ThisMonth, now, nil, nil)

	all, err := uc.reports.OrderFigures(ctx, today.From, today.To, true)
	if err != nil {
		return nil, fmt.Errorf("dashboard: órdenes de hoy: %w", err)
	}
	prev, err := uc.reports.OrderFigures(ctx, yesterday.From, yesterday.To, false)
	if err != nil {
		return nil, fmt.Errorf("dashboard: órdenes de ayer: %w", err)
	}
	monthFigs, err := uc.reports.OrderFigures(ctx, month.From, month.To, false)
	if err != nil {
		return nil, fmt.Errorf("dashboard: órdenes del mes: %w", err)
	}

	out := &dto.RevenueSummaryDTO{Title: "Ingresos", Value: decimal.Zero, TotalOrders: len(all)}
	for _, f := range all {
		if f.IsDelete {
			continue
		}
		out.Value = out.Value.Add(f.Billed)
		if f.Billed.IsPositive() {
			out.TotalBill++
		}
		if f.IsReturnOrder {
			out.TotalReturnedOrders++
		}
	}
	out.TotalNormalOrders = out.TotalOrders - out.TotalReturnedOrders
	out.CompareWithYesterday = sales.Percent(out.Value, sumBilled(prev))
	avgPerDay := sumBilled(monthFigs).Div(decimal.NewFromInt(int64(now.Day())))
	out.CompareWithMonth = sales.Percent(out.Value, avgPerDay)
	return out, nil
}

// chartAcc acumulador de una serie agrupada por etiqueta.
type chartAcc struct {
	keys []string
	rows map[string]*dto.ChartPointDTO
}

func newChartAcc() *chartAcc { return &chartAcc{rows: map[string]*dto.ChartPointDTO{}} }

func (a *chartAcc) add(key string, f entity.OrderFigure) {
	p, ok := a.rows[key]
	if !ok {
		p = &dto.ChartPointDTO{Date: key}
		a.rows[key] = p
		a.keys = append(a.keys, key)
	}
	p.Revenue = p.Revenue.Add(f.Billed)
	p.CostPrice = p.CostPrice.Add(f.TotalCostPrice)
	p.Profit = p.Revenue.Sub(p.CostPrice)
}

// points devuelve la serie ordenada con less sobre las etiquetas.
func (a *chartAcc) points(less func(a, b string) bool) []dto.ChartPointDTO {
	sort.Slice(a.keys, func(i, j int) bool { return less(a.keys[i], a.keys[j]) })
	out := make([]dto.ChartPointDTO, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, *a.rows[k])
	}
	return out
}

// DateTime series por hora (HH:MM), día del mes y día de la semana, con totales del periodo.
func (uc *DashboardUseCase) DateTime(ctx context.Context, q dto.DashboardQuery) (*dto.DateTimeReportDTO, error) {
	r, err := uc.rangeFor(q)
	if err != nil {
		return nil, err
	}
	figs, err := uc.reports.OrderFigures(ctx, r.From, r.To, false)
	if err != nil {
		return nil, fmt.Errorf("dashboard: órdenes del periodo: %w", err)
	}

	hours, days, weeks := newChartAcc(), newChartAcc(), newChartAcc()
	out := &dto.DateTimeReportDTO{TotalOrders: len(figs)}
	for _, f := range figs {
		local := f.CreatedAt.In(uc.loc)
		hours.add(local.Format("15:04"), f)
		days.add(local.Format("02"), f)
		weeks.add(weekdayLabels[local.Weekday()], f)
		out.TotalRevenue = out.TotalRevenue.Add(f.Billed)
		out.TotalCostPrice = out.TotalCostPrice.Add(f.TotalCostPrice)
	}
	out.TotalProfit = out.TotalRevenue.Sub(out.TotalCostPrice)

	lexical := func(a, b string) bool { return a < b }
	out.ChartHour = hours.points(lexical)
	out.ChartDay = days.points(lexical)
	out.ChartWeek = weeks.points(func(a, b string) bool { return weekdayIndex(a) < weekdayIndex(b) })
	return out, nil
}

func weekdayIndex(label string) int {
	for i, l := range weekdayLabels {
		if l == label {
			return i
		}
	}
	return len(weekdayLabels)
}

// Year totales del año y los 12 meses (los meses sin ventas van en cero). year <= 0 usa el año actual.
func (uc *DashboardUseCase) Year(ctx context.Context, year int) (*dto.YearReportDTO, error) {
	if year <= 0 {
		year = uc.clock().Year()
	}
	r := period.Year(year, uc.loc)
	figs, err := uc.reports.OrderFigures(ctx, r.From, r.To, false)
	if err != nil {
		return nil, fmt.Errorf("dashboard: órdenes del año: %w", err)
	}

	out := &dto.YearReportDTO{MonthGroups: make([]dto.MonthPointDTO, 12)}
	for i := range out.MonthGroups {
		out.MonthGroups[i] = dto.MonthPointDTO{Month: i + 1, Date: fmt.Sprintf("%02d", i+1)}
	}
	for _, f := range figs {
		m := &out.MonthGroups[f.CreatedAt.In(uc.loc).Month()-1]
		m.Revenue = m.Revenue.Add(f.Billed)
		m.CostPrice = m.CostPrice.Add(f.TotalCostPrice)
		m.Profit = m.Revenue.Sub(m.CostPrice)
		out.TotalRevenue = out.TotalRevenue.Add(f.Billed)
		out.TotalCostPrice = out.TotalCostPrice.Add(f.TotalCostPrice)
	}
	out.TotalProfit = out.TotalRevenue.Sub(out.TotalCostPrice)
	return out, nil
}

// TopProducts top 10 por cantidad vendida y top 10 por monto (cantidad × precio de venta).
func (uc *DashboardUseCase) TopProducts(ctx context.Context, q dto.DashboardQuery) (*dto.TopProductDTO, error) {
	r, err := uc.rangeFor(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reports.ProductSales(ctx, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ventas por producto: %w", err)
	}

	byQty := append([]repository.ProductSalesResult(nil), rows...)
	sort.SliceStable(byQty, func(i, j int) bool { return byQty[i].Quantity > byQty[j].Quantity })
	byRevenue := append([]repository.ProductSalesResult(nil), rows...)
	sort.SliceStable(byRevenue, func(i, j int) bool { return byRevenue[i].Revenue.GreaterThan(byRevenue[j].Revenue) })

	out := &dto.TopProductDTO{
		Quantity: make([]dto.TopProductEntryDTO, 0, topProducts),
		Revenue:  make([]dto.TopProductEntryDTO, 0, topProducts),
	}
	for i := 0; i < len(rows) && i < topProducts; i++ {
		out.Quantity = append(out.Quantity, dto.TopProductEntryDTO{
			Date: productName(byQty[i]), Value: decimal.NewFromInt(int64(byQty[i].Quantity)),
		})
		out.Revenue = append(out.Revenue, dto.TopProductEntryDTO{
			Date: productName(byRevenue[i]), Value: byRevenue[i].Revenue,
		})
	}
	return out, nil
}

func productName(r repository.ProductSalesResult) string {
	if r.Name == "" {
		return "Desconocido"
	}
	return r.Name
}

// Customers clientes nuevos del periodo contra el periodo anterior equivalente.
func (uc *DashboardUseCase) Customers(ctx context.Context, q dto.DashboardQuery) (*dto.CustomerAnalyticsDTO, error) {
	r, err := uc.rangeFor(q)
	if err != nil {
		return nil, err
	}
	prev := period.Previous(q.TimeType, uc.clock(), r)

	cur, err := uc.reports.CountNewCustomers(ctx, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("dashboard: clientes nuevos: %w", err)
	}
	before, err := uc.reports.CountNewCustomers(ctx, prev.From, prev.To)
	if err != nil {
		return nil, fmt.Errorf("dashboard: clientes del periodo anterior: %w", err)
	}
	return &dto.CustomerAnalyticsDTO{
		NewCustomers:            cur,
		NewCustomersGrowth:      sales.Percent(decimal.NewFromInt(int64(cur)), decimal.NewFromInt(int64(before))),
		PreviousPeriodCustomers: before,
	}, nil
}

// Categories participación de cada categoría en el monto vendido, descendente.
func (uc *DashboardUseCase) Categories(ctx context.Context, q dto.DashboardQuery) (*dto.CategoryDistributionDTO, error) {
	r, err := uc.rangeFor(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reports.CategorySales(ctx, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ventas por categoría: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue.GreaterThan(rows[j].Revenue) })

	out := &dto.CategoryDistributionDTO{Categories: make([]dto.CategoryShareDTO, 0, len(rows)), TotalRevenue: decimal.Zero}
	for _, row := range rows {
		out.TotalRevenue = out.TotalRevenue.Add(row.Revenue)
	}
	hundred := decimal.NewFromInt(100)
	for _, row := range rows {
		var pct int64
		if out.TotalRevenue.IsPositive() {
			pct = row.Revenue.Div(out.TotalRevenue).Mul(hundred).Round(0).IntPart()
		}
		out.Categories = append(out.Categories, dto.CategoryShareDTO{Name: row.Name, Value: row.Revenue, Percentage: pct})
	}
	return out, nil
}

// widget resultado de una goroutine del tablero.
type widget[T any] struct {
	v   T
	err error
}

// Overview calcula los cinco widgets en paralelo. Si alguno falla devuelve el primer error
// en orden de widget; todas las goroutines terminan antes de retornar.
func (uc *DashboardUseCase) Overview(ctx context.Context, q dto.DashboardQuery) (*dto.DashboardOverviewDTO, error) {
	if _, err := uc.rangeFor(q); err != nil {
		return nil, err
	}

	revenueCh := make(chan widget[*dto.RevenueSummaryDTO], 1)
	dateTimeCh := make(chan widget[*dto.DateTimeReportDTO], 1)
	topCh := make(chan widget[*dto.TopProductDTO], 1)
	customersCh := make(chan widget[*dto.CustomerAnalyticsDTO], 1)
	categoriesCh := make(chan widget[*dto.CategoryDistributionDTO], 1)

	go func() {
		v, err := uc.Revenue(ctx)
		revenueCh <- widget[*dto.RevenueSummaryDTO]{v, err}
	}()
	go func() {
		v, err := uc.DateTime(ctx, q)
		dateTimeCh <- widget[*dto.DateTimeReportDTO]{v, err}
	}()
	go func() {
		v, err := uc.TopProducts(ctx, q)
		topCh <- widget[*dto.TopProductDTO]{v, err}
	}()
	go func() {
		v, err := uc.Customers(ctx, q)
		customersCh <- widget[*dto.CustomerAnalyticsDTO]{v, err}
	}()
	go func() {
		v, err := uc.Categories(ctx, q)
		categoriesCh <- widget[*dto.CategoryDistributionDTO]{v, err}
	}()

	revenue := <-revenueCh
	dateTime := <-dateTimeCh
	top := <-topCh
	customers := <-customersCh
	categories := <-categoriesCh

	for _, err := range []error{revenue.err, dateTime.err, top.err, customers.err, categories.err} {
		if err != nil {
			return nil, err
		}
	}
	return &dto.DashboardOverviewDTO{
		Revenue:    revenue.v,
		DateTime:   dateTime.v,
		TopProduct: top.v,
		Customers:  customers.v,
		Categories: categories.v,
	}, nil
}

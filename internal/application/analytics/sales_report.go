package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/period"
)

const walkInCustomer = "Cliente de mostrador"

// SalesReport detalle de ventas del periodo: una fila por línea de orden con los montos de la orden
// (facturado, costo, deuda) repartidos en partes iguales entre sus líneas.
func (uc *DashboardUseCase) SalesReport(ctx context.Context, q dto.DashboardQuery) (*dto.SalesReportDTO, error) {
	r, err := uc.rangeFor(q)
	if err != nil {
		return nil, err
	}
	orders, err := uc.reports.OrdersWithItems(ctx, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: %w", err)
	}

	timeType := strings.ToUpper(strings.TrimSpace(q.TimeType))
	if timeType == "" {
		timeType = period.Today
	}
	out := &dto.SalesReportDTO{
		Period:       dto.ReportPeriodDTO{From: r.From, To: r.To, TimeType: timeType},
		SalesDetails: []dto.SalesDetailDTO{},
	}
	s := &out.Summary
	s.TotalOrders = len(orders)

	for _, o := range orders {
		if len(o.Items) == 0 {
			continue
		}
		billed := o.Billed()
		cost := o.TotalCostPrice
		profit := billed.Sub(cost)
		debt := billed.Sub(o.EstimatedRevenue)

		n := decimal.NewFromInt(int64(len(o.Items)))
		itemRevenue := billed.DivRound(n, 2)
		itemCost := cost.DivRound(n, 2)
		itemDebt := debt.DivRound(n, 2)
		itemProfit := itemRevenue.Sub(itemCost)

		customer := o.CustomerName
		if strings.TrimSpace(customer) == "" {
			customer = walkInCustomer
		}
		for _, it := range o.Items {
			out.SalesDetails = append(out.SalesDetails, dto.SalesDetailDTO{
				OrderID:         o.ID,
				OrderCode:       o.Code,
				OrderDate:       o.CreatedAt,
				CustomerName:    customer,
				CustomerPhone:   o.CustomerPhone,
				ProductName:     it.Name,
				Barcode:         it.Barcode,
				Serial:          it.Serial,
				Quantity:        it.Quantity,
				SellPrice:       it.SellPrice,
				RealSellPrice:   it.RealSellPrice,
				TotalSellAmount: itemRevenue,
				CostPrice:       itemCost,
				TotalCostAmount: itemCost,
				Profit:          itemProfit,
				Debt:            itemDebt,
				ActualRevenue:   itemRevenue.Sub(itemDebt),
				ActualProfit:    itemProfit.Sub(itemDebt),
				IsReturnOrder:   o.IsReturnOrder,
			})
			s.TotalQuantity += it.Quantity
		}

		s.TotalSellPrice = s.TotalSellPrice.Add(billed)
		s.TotalCostPrice = s.TotalCostPrice.Add(cost)
		s.TotalProfit = s.TotalProfit.Add(profit)
		s.TotalDebt = s.TotalDebt.Add(debt)
		s.ActualRevenue = s.ActualRevenue.Add(billed.Sub(debt))
		s.ActualProfit = s.ActualProfit.Add(profit.Sub(debt))
	}
	s.TotalProducts = len(out.SalesDetails)

	sort.SliceStable(out.SalesDetails, func(i, j int) bool {
		a, b := out.SalesDetails[i], out.SalesDetails[j]
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.After(b.OrderDate)
		}
		return a.OrderID < b.OrderID
	})
	return out, nil
}

// SalesReportPDF el mismo reporte en PDF y el nombre de archivo sugerido.
func (uc *DashboardUseCase) SalesReportPDF(ctx context.Context, q dto.DashboardQuery) ([]byte, string, error) {
	report, err := uc.SalesReport(ctx, q)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.RenderSalesReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte de ventas: %w", err)
	}
	name := fmt.Sprintf("sales-report-%s-%s.pdf",
		report.Period.From.In(uc.loc).Format("20060102"), report.Period.To.In(uc.loc).Format("20060102"))
	return doc, name, nil
}

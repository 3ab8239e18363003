package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// RenderSalesReport genera el reporte de ventas en A4 horizontal.
func (g *MarotoPDFGenerator) RenderSalesReport(_ context.Context, r *dto.SalesReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de ventas", true).
		WithAuthor(g.store, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.reportHeaderRow(r.Period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(r.Summary))
	m.AddRows(line.NewRow(2))

	m.AddRows(detailHeaderRow())
	for _, d := range r.SalesDetails {
		m.AddRows(g.detailRow(d))
	}
	if len(r.SalesDetails) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin ventas en el periodo", props.Text{
				Style: fontstyle.Italic, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de ventas: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) reportHeaderRow(p dto.ReportPeriodDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.store, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("REPORTE DE VENTAS", props.Text{Style: fontstyle.Bold, Size: 9, Top: 9}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Desde %s hasta %s",
				p.From.In(g.loc).Format("02/01/2006"), p.To.In(g.loc).Format("02/01/2006")),
				props.Text{Size: 9, Align: align.Right, Top: 3}),
			text.New("Periodo: "+p.TimeType, props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

// summaryRow: dos líneas de totales (ventas y resultado real).
func (g *MarotoPDFGenerator) summaryRow(s dto.SalesSummaryDTO) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
		)
	}
	return row.New(22).Add(
		cell("Ordenes / Productos", fmt.Sprintf("%d / %d", s.TotalOrders, s.TotalProducts)),
		cell("Cantidad vendida", fmt.Sprint(s.TotalQuantity)),
		cell("Ventas", g.fmt.money(s.TotalSellPrice)),
		cell("Costo", g.fmt.money(s.TotalCostPrice)),
		cell("Ganancia", g.fmt.money(s.TotalProfit)),
		col.New(2).Add(
			text.New("Deuda", props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(g.fmt.money(s.TotalDebt), props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
			text.New("Ingreso real: "+g.fmt.money(s.ActualRevenue), props.Text{Size: 7, Top: 11}),
			text.New("Ganancia real: "+g.fmt.money(s.ActualProfit), props.Text{Size: 7, Top: 16}),
		),
	)
}

func detailHeaderRow() core.Row {
	return headerCells(7, []headerCell{
		{"Fecha", 1, align.Left},
		{"Orden", 1, align.Left},
		{"Cliente", 2, align.Left},
		{"Producto", 3, align.Left},
		{"Cant.", 1, align.Center},
		{"Venta", 1, align.Right},
		{"Costo", 1, align.Right},
		{"Ganancia", 1, align.Right},
		{"Deuda", 1, align.Right},
	})
}

func (g *MarotoPDFGenerator) detailRow(d dto.SalesDetailDTO) core.Row {
	product := fold(d.ProductName)
	if d.Serial != "" {
		product += " (" + d.Serial + ")"
	}
	style := props.Text{Size: 7, Top: 1, Left: 1}
	if d.IsReturnOrder {
		style.Style = fontstyle.Italic
		style.Color = colorGray
	}
	right := style
	right.Align = align.Right
	right.Right = 1
	center := style
	center.Align = align.Center

	num := func(v decimal.Decimal) core.Component { return text.New(g.fmt.amount(v), right) }
	return row.New(6).Add(
		col.New(1).Add(text.New(d.OrderDate.In(g.loc).Format("02/01/06"), style)),
		col.New(1).Add(text.New(d.OrderCode, style)),
		col.New(2).Add(text.New(fold(d.CustomerName), style)),
		col.New(3).Add(text.New(product, style)),
		col.New(1).Add(text.New(fmt.Sprint(d.Quantity), center)),
		col.New(1).Add(num(d.TotalSellAmount)),
		col.New(1).Add(num(d.TotalCostAmount)),
		col.New(1).Add(num(d.Profit)),
		col.New(1).Add(num(d.Debt)),
	)
}

// Package pdf genera los documentos imprimibles de la tienda con Maroto v2:
// la factura de una orden (A4 vertical) y el reporte de ventas (A4 horizontal).
//
// Layout de la factura:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  Código de orden + Fecha      │
//	│  CLIENTE: Nombre / Tel / Dirección                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Cant. | Precio | Precio final         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Descuento / A pagar / Pagado / Deuda       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Options datos de la tienda impresos en los documentos.
type Options struct {
	StoreName string
	Currency  string   // etiqueta junto a los montos, ej. VND
	Locale    string   // BCP 47; define separadores de miles y decimales
	Location  *time.Location
}

// MarotoPDFGenerator implementa orders.InvoiceRenderer y el render del reporte de ventas.
type MarotoPDFGenerator struct {
	store string
	fmt   moneyFormatter
	loc   *time.Location
}

// NewMarotoPDFGenerator construye el generador. Un locale inválido cae en vietnamita.
func NewMarotoPDFGenerator(opts Options) *MarotoPDFGenerator {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		tag = language.Vietnamese
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &MarotoPDFGenerator{
		store: fold(opts.StoreName),
		fmt:   newMoneyFormatter(tag, opts.Currency),
		loc:   opts.Location,
	}
}

// RenderInvoice genera la factura de la orden y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderInvoice(_ context.Context, o *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+o.Code, true).
		WithAuthor(g.store, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for i, it := range o.Items {
		m.AddRows(g.itemRow(i+1, it))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(o))
	m.AddRows(line.NewRow(4))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Gracias por su compra", props.Text{
			Style: fontstyle.Italic, Size: 9, Align: align.Center, Color: colorGray,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar factura: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda (izq) y código + fecha (der).
func (g *MarotoPDFGenerator) headerRow(o *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.store, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(o.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+o.CreatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del comprador; sin nombre es cliente de mostrador.
func customerRow(o *entity.Order) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fold(nonEmpty(o.CustomerName, "Cliente de mostrador")), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Direccion: %s",
				nonEmpty(o.CustomerPhone, "-"),
				fold(nonEmpty(o.CustomerAddress, "-")),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// itemsHeaderRow: cabecera de la tabla de líneas.
func itemsHeaderRow() core.Row {
	return headerCells(8, []headerCell{
		{"#", 1, align.Center},
		{"Producto", 5, align.Left},
		{"Cant.", 1, align.Center},
		{"Precio", 2, align.Right},
		{"Precio final", 3, align.Right},
	})
}

type headerCell struct {
	label string
	size  int
	align align.Type
}

func headerCells(height float64, cells []headerCell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(height).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// itemRow: el precio de lista va atenuado cuando hay precio final distinto de cero.
func (g *MarotoPDFGenerator) itemRow(n int, it *entity.OrderItem) core.Row {
	name := fold(it.Name)
	if it.Serial != "" {
		name += " - SN: " + it.Serial
	}
	listStyle := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
	final := it.SellPrice
	if it.RealSellPrice.IsPositive() {
		listStyle.Style = fontstyle.Italic
		listStyle.Color = colorGray
		final = it.RealSellPrice
	}
	return row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprint(n), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(g.fmt.amount(it.SellPrice), listStyle)),
		col.New(3).Add(text.New(g.fmt.amount(final), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(o *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(34).Add(
		col.New(4),
		col.New(4).Add(
			label("Total:", 0),
			label("Descuento:", 6),
			label("TOTAL A PAGAR:", 12),
			label("Pagado:", 19),
			label("Deuda:", 25),
		),
		col.New(4).Add(
			value(g.fmt.money(o.TotalAmount), 0),
			value(g.discount(o), 6),
			grand(g.fmt.money(o.Billed()), 12),
			value(g.fmt.money(o.CustomerPaid), 19),
			value(g.fmt.money(o.CustomerDebt), 25),
		),
	)
}

// discount "10%" o "50.000 VND" según el tipo.
func (g *MarotoPDFGenerator) discount(o *entity.Order) string {
	if o.DiscountValue.IsZero() {
		return "-"
	}
	if o.DiscountType == entity.DiscountTypePercent {
		return g.fmt.amount(o.DiscountValue) + "%"
	}
	return g.fmt.money(o.DiscountValue)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

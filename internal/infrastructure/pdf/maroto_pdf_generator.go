// Package pdf genera el comprobante imprimible de un GRN (nota de recepción de mercancía).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + N° GRN     │  Fecha de recepción            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + NIT + factura del proveedor             │
//	│  BODEGA: destino de la mercancía                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Lote | Vence | Cant. | Strips | Costo | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Strips recibidos / VALOR TOTAL                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con N° GRN + firmas de recepción                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/pharma-stock-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ report.GRNPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.GRNPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string // nombre que encabeza el documento
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

// GenerateGRNPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateGRNPDF(_ context.Context, doc report.GRNDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("GRN "+doc.GRNNumber, true).
		WithAuthor(nonEmpty(g.company, "Pharma Stock"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(doc))
	m.AddRows(godownRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, doc report.GRNDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Pharma Stock"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NOTA DE RECEPCIÓN DE MERCANCÍA (GRN)", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.GRNNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Recibido: "+doc.ReceivedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func supplierRow(doc report.GRNDocument) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.SupplierName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT: %s   |   Factura proveedor: %s",
				nonEmpty(doc.SupplierTaxID, "-"),
				nonEmpty(doc.SupplierInvoiceNumber, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func godownRow(doc report.GRNDocument) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("BODEGA DE DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.GodownName, "-"), props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Vence", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Strips", 1, align.Right),
		h("Costo", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableDetailRows una fila por ítem del GRN.
func tableDetailRows(lines []report.GRNLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		expiry := "-"
		if !l.ExpiryDate.IsZero() {
			expiry = l.ExpiryDate.Format("01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				l.ProductCode+" · "+l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(l.BatchNumber, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(expiry, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d %s", l.QuantityEntered, l.UnitName),
				props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				formatMoney(fmt.Sprint(l.QuantityStrips)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				"$"+formatAmount(l.CostPerUnit.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatAmount(l.LineValue.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(doc report.GRNDocument) core.Row {
	var strips int64
	for _, l := range doc.Lines {
		strips += l.QuantityStrips
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Strips recibidos:"),
			text.New("VALOR TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(formatMoney(fmt.Sprint(strips)), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New("$"+formatAmount(doc.TotalValue.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// footerRows QR con el número de GRN, notas y espacio para firmas.
func footerRows(doc report.GRNDocument) []core.Row {
	rows := []core.Row{}
	if doc.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+doc.Notes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}
	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.GRNNumber, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Recibido por: ______________________", props.Text{Size: 9, Top: 10, Left: 4}),
			text.New("Revisado por: ______________________", props.Text{Size: 9, Top: 24, Left: 4}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// formatAmount aplica formatMoney a la parte entera y usa coma decimal: "1234.50" → "1.234,50".
func formatAmount(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok {
		return formatMoney(whole)
	}
	return formatMoney(whole) + "," + frac
}

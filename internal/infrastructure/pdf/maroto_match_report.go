// Package pdf implementa el acta imprimible de una conciliación a tres vías.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de conciliación + estado  │  Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DOCUMENTOS: Orden de compra / Factura / Recepción           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Ordenado | Facturado | Recibido |      │
//	│         A pagar | Importe | Observaciones                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL A PAGAR                                               │
//	└─────────────────────────────────────────────────────────────┘
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
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appmatching "github.com/jhoicas/Compras-api/internal/application/matching"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 60, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Verificar en tiempo de compilación que implementa el puerto.
var _ appmatching.MatchPDFGenerator = (*MarotoMatchReportGenerator)(nil)

// MarotoMatchReportGenerator implementa matching.MatchPDFGenerator usando Maroto v2.
type MarotoMatchReportGenerator struct{}

// NewMarotoMatchReportGenerator construye el generador.
func NewMarotoMatchReportGenerator() *MarotoMatchReportGenerator { return &MarotoMatchReportGenerator{} }

// GenerateMatchPDF genera el acta y devuelve sus bytes.
func (g *MarotoMatchReportGenerator) GenerateMatchPDF(
	_ context.Context,
	data *appmatching.MatchReportData,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Conciliación de Compra", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Match))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(documentsRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(data.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data.Match))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + estado (izq) y fecha de creación (der).
func headerRow(match *entity.ThreeWayMatch) core.Row {
	fecha := match.CreatedAt.Format("02/01/2006")

	return row.New(16).Add(
		col.New(8).Add(
			text.New("ACTA DE CONCILIACIÓN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+match.Status, props.Text{
				Size: 9, Top: 9, Color: statusColor(match.Status),
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Ref: "+match.ID, props.Text{
				Size: 6.5, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// documentsRow: los tres documentos conciliados.
func documentsRow(data *appmatching.MatchReportData) core.Row {
	docLabel := func(title, number string) []core.Component {
		return []core.Component{
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{Size: 9, Top: 7}),
		}
	}
	return row.New(14).Add(
		col.New(4).Add(docLabel("ORDEN DE COMPRA", docNumber(data.PO))...),
		col.New(4).Add(docLabel("FACTURA PROVEEDOR", invoiceNumber(data.Invoice))...),
		col.New(4).Add(docLabel("ENTRADA DE MERCANCÍA", receiptNumber(data.Receipt))...),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas conciliadas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 3, align.Left),
		h("Ordenado", 1, align.Right),
		h("Facturado", 1, align.Right),
		h("Recibido", 1, align.Right),
		h("A pagar", 1, align.Right),
		h("Importe", 2, align.Right),
		h("Observaciones", 3, align.Left),
	)
}

// tableLineRows: una fila por línea conciliada; las observaciones en rojo.
func tableLineRows(lines []*entity.MatchLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		notesColor := colorGray
		if !l.LineOk {
			notesColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				l.Description,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.OrderedQty.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.InvoicedQty.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.ReceivedQty.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.PayableQty.String(),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+l.PayableAmount.StringFixed(2),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				l.Notes,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: notesColor},
			)),
		))
	}
	return result
}

// totalRow: total a pagar alineado a la derecha.
func totalRow(match *entity.ThreeWayMatch) core.Row {
	return row.New(12).Add(
		col.New(7),
		col.New(3).Add(text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 3, Right: 2,
		})),
		col.New(2).Add(text.New("$"+match.PayableTotal.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(status string) *props.Color {
	if status == entity.MatchStatusDraft || status == entity.MatchStatusVoid {
		return colorAlert
	}
	return colorGray
}

func docNumber(po *entity.PurchaseOrder) string {
	if po == nil {
		return "—"
	}
	return po.Number
}

func invoiceNumber(inv *entity.Invoice) string {
	if inv == nil {
		return "—"
	}
	return inv.Number
}

func receiptNumber(grn *entity.GoodsReceipt) string {
	if grn == nil {
		return "—"
	}
	return grn.Number
}

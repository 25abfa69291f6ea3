package matching_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/matching"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// tripleCompleto construye un trío conciliable: una línea de orden con su
// línea de factura (vinculada por POLineID) y su línea de recepción.
func tripleCompleto(ordered, invoiced, received string, unitPrice *decimal.Decimal, posted bool) matching.Documents {
	return matching.Documents{
		PO: &entity.PurchaseOrder{ID: "po-1"},
		POLines: []*entity.PurchaseOrderLine{
			{ID: "pol-1", POID: "po-1", ProductID: "prod-1", Description: "Tornillos 5mm", OrderedQty: dec(ordered), UnitPrice: dec("2.00")},
		},
		Invoice: &entity.Invoice{ID: "inv-1", POID: "po-1"},
		InvoiceLines: []*entity.InvoiceLine{
			{ID: "il-1", InvoiceID: "inv-1", POLineID: strPtr("pol-1"), Description: "Tornillos 5mm", InvoicedQty: dec(invoiced), UnitPrice: unitPrice},
		},
		Receipt: &entity.GoodsReceipt{ID: "grn-1", POID: "po-1", InvoiceID: "inv-1", Posted: posted},
		ReceiptLines: []*entity.GoodsReceiptLine{
			{ID: "gl-1", GoodsReceiptID: "grn-1", POLineID: strPtr("pol-1"), Description: "Tornillos 5mm", ReceivedQty: dec(received), UnitPrice: dec("2.00")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos completos
// ──────────────────────────────────────────────────────────────────────────────

// Trío perfecto: 10 ordenadas, 10 facturadas a $2.00, 10 recibidas, recepción
// contabilizada → se pagan 10 por $20.00, sin observaciones.
func TestBuildMatchRows_TripleCompleto(t *testing.T) {
	rows := matching.BuildMatchRows(tripleCompleto("10", "10", "10", decPtr("2.00"), true))
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.Key.IsOrderLine())
	assert.Equal(t, "pol-1", r.Key.ID)
	assert.True(t, r.PayableQty.Equal(dec("10")), "cantidad a pagar debe ser 10")
	assert.True(t, r.PayableAmount.Equal(dec("20.00")), "importe a pagar debe ser $20.00")
	assert.True(t, r.LineOk, "la fila debe quedar conforme")
	assert.Empty(t, r.Notes, "no debe haber observaciones")
}

// Entrega incompleta: recibidas 6 de 10 → se pagan 6 por $12.00 con observación.
func TestBuildMatchRows_EntregaIncompleta(t *testing.T) {
	rows := matching.BuildMatchRows(tripleCompleto("10", "10", "6", decPtr("2.00"), true))
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.PayableQty.Equal(dec("6")))
	assert.True(t, r.PayableAmount.Equal(dec("12.00")))
	assert.Contains(t, r.Notes, "Entrega incompleta: recibidas 6 de 10")
	assert.True(t, r.LineOk, "entrega incompleta no impide conformidad")
}

// Entrega en exceso: recibidas 12 de 10 → se pagan 10 (tope en lo ordenado).
func TestBuildMatchRows_EntregaEnExceso_TopaEnOrdenado(t *testing.T) {
	rows := matching.BuildMatchRows(tripleCompleto("10", "12", "12", decPtr("2.00"), true))
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.PayableQty.Equal(dec("10")), "se paga hasta lo ordenado")
	assert.True(t, r.PayableAmount.Equal(dec("20.00")))
	require.Len(t, r.Notes, 1)
	assert.Contains(t, r.Notes[0], "Entrega en exceso")
}

// Factura sin precio unitario → importe cero y fila no conforme.
func TestBuildMatchRows_SinPrecioUnitario(t *testing.T) {
	rows := matching.BuildMatchRows(tripleCompleto("10", "10", "10", nil, true))
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.PayableAmount.IsZero(), "sin precio el importe debe ser cero")
	assert.False(t, r.LineOk)
	assert.Contains(t, r.Notes, matching.NoteMissingUnitPrice)
}

// Recepción sin contabilizar → observación y fila no conforme, aunque el
// resto del trío esté completo.
func TestBuildMatchRows_RecepcionSinContabilizar(t *testing.T) {
	rows := matching.BuildMatchRows(tripleCompleto("10", "10", "10", decPtr("2.00"), false))
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Contains(t, r.Notes, matching.NoteReceiptNotPosted)
	assert.False(t, r.LineOk)
	assert.True(t, r.PayableAmount.Equal(dec("20.00")), "el importe se calcula igual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tríos parciales
// ──────────────────────────────────────────────────────────────────────────────

// Línea de orden sin factura ni recepción: cantidades cero, observaciones de
// faltantes, importe cero. Nunca error.
func TestBuildMatchRows_SoloLineaDeOrden(t *testing.T) {
	docs := matching.Documents{
		PO: &entity.PurchaseOrder{ID: "po-1"},
		POLines: []*entity.PurchaseOrderLine{
			{ID: "pol-1", POID: "po-1", ProductID: "prod-1", Description: "Cemento", OrderedQty: dec("5"), UnitPrice: dec("30")},
		},
		Invoice: &entity.Invoice{ID: "inv-1", POID: "po-1"},
		Receipt: &entity.GoodsReceipt{ID: "grn-1", POID: "po-1", Posted: true},
	}
	rows := matching.BuildMatchRows(docs)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.PayableQty.IsZero())
	assert.True(t, r.PayableAmount.IsZero())
	assert.Contains(t, r.Notes, matching.NoteMissingInvoiceLine)
	assert.Contains(t, r.Notes, matching.NoteMissingReceiptLine)
	assert.False(t, r.LineOk)
}

// Líneas de factura y recepción sin vínculo a la orden se concilian por
// referencia de producto; sin línea de orden se paga lo recibido.
func TestBuildMatchRows_FallbackPorReferenciaDeProducto(t *testing.T) {
	docs := matching.Documents{
		PO:      &entity.PurchaseOrder{ID: "po-1"},
		Invoice: &entity.Invoice{ID: "inv-1", POID: "po-1"},
		InvoiceLines: []*entity.InvoiceLine{
			{ID: "il-1", InvoiceID: "inv-1", ProductID: strPtr("prod-9"), Description: "Arena fina", InvoicedQty: dec("4"), UnitPrice: decPtr("7.50")},
		},
		Receipt: &entity.GoodsReceipt{ID: "grn-1", POID: "po-1", Posted: true},
		ReceiptLines: []*entity.GoodsReceiptLine{
			{ID: "gl-1", GoodsReceiptID: "grn-1", ProductID: strPtr("prod-9"), Description: "Arena fina", ReceivedQty: dec("4"), UnitPrice: dec("7.50")},
		},
	}
	rows := matching.BuildMatchRows(docs)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.False(t, r.Key.IsOrderLine(), "la clave debe ser por referencia de producto")
	assert.Equal(t, "prod-9", r.Key.ID)
	assert.True(t, r.PayableQty.Equal(dec("4")), "sin línea de orden se paga lo recibido")
	assert.True(t, r.PayableAmount.Equal(dec("30.00")))
	assert.Contains(t, r.Notes, matching.NoteMissingPOLink)
	assert.True(t, r.LineOk, "el vínculo faltante a la orden no marca la fila como no conforme")
}

// Línea de factura sin vínculo pero con borrador de producto: el fallback usa
// el ID del borrador y no colisiona con claves por línea de orden.
func TestBuildMatchRows_FallbackPorBorrador_NoColisiona(t *testing.T) {
	docs := matching.Documents{
		PO: &entity.PurchaseOrder{ID: "po-1"},
		POLines: []*entity.PurchaseOrderLine{
			// ID de línea igual al ID de borrador: con claves por string
			// prefijado esto podría colisionar; la unión etiquetada lo evita.
			{ID: "ref-x", POID: "po-1", ProductID: "prod-1", Description: "Varilla", OrderedQty: dec("2"), UnitPrice: dec("10")},
		},
		Invoice: &entity.Invoice{ID: "inv-1", POID: "po-1"},
		InvoiceLines: []*entity.InvoiceLine{
			{ID: "il-1", InvoiceID: "inv-1", DraftProductID: strPtr("ref-x"), Description: "Malla electrosoldada", InvoicedQty: dec("1"), UnitPrice: decPtr("99")},
		},
		Receipt: &entity.GoodsReceipt{ID: "grn-1", POID: "po-1", Posted: true},
	}
	rows := matching.BuildMatchRows(docs)
	require.Len(t, rows, 2, "línea de orden y fallback por borrador son filas distintas")

	var orderRows, refRows int
	for _, r := range rows {
		if r.Key.IsOrderLine() {
			orderRows++
		} else {
			refRows++
		}
	}
	assert.Equal(t, 1, orderRows)
	assert.Equal(t, 1, refRows)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

// La cantidad a pagar nunca supera lo ordenado (si hay orden) ni lo recibido.
func TestBuildMatchRows_PropiedadTopesDePago(t *testing.T) {
	casos := [][3]string{
		{"10", "10", "10"},
		{"10", "10", "6"},
		{"10", "12", "15"},
		{"3", "3", "0"},
		{"0", "5", "5"},
	}
	for _, c := range casos {
		rows := matching.BuildMatchRows(tripleCompleto(c[0], c[1], c[2], decPtr("1.00"), true))
		for _, r := range rows {
			if r.OrderedQty.GreaterThan(decimal.Zero) {
				assert.True(t, r.PayableQty.LessThanOrEqual(r.OrderedQty),
					"payable %s no debe superar ordenado %s", r.PayableQty, r.OrderedQty)
			}
			assert.True(t, r.PayableQty.LessThanOrEqual(r.ReceivedQty),
				"payable %s no debe superar recibido %s", r.PayableQty, r.ReceivedQty)
		}
	}
}

// La salida se ordena por descripción, independiente del orden de entrada.
func TestBuildMatchRows_SalidaOrdenadaPorDescripcion(t *testing.T) {
	docs := matching.Documents{
		PO: &entity.PurchaseOrder{ID: "po-1"},
		POLines: []*entity.PurchaseOrderLine{
			{ID: "pol-c", POID: "po-1", ProductID: "p3", Description: "Zinc", OrderedQty: dec("1"), UnitPrice: dec("1")},
			{ID: "pol-a", POID: "po-1", ProductID: "p1", Description: "Alambre", OrderedQty: dec("1"), UnitPrice: dec("1")},
			{ID: "pol-b", POID: "po-1", ProductID: "p2", Description: "Malla", OrderedQty: dec("1"), UnitPrice: dec("1")},
		},
		Invoice: &entity.Invoice{ID: "inv-1", POID: "po-1"},
		Receipt: &entity.GoodsReceipt{ID: "grn-1", POID: "po-1", Posted: true},
	}
	rows := matching.BuildMatchRows(docs)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alambre", rows[0].Description)
	assert.Equal(t, "Malla", rows[1].Description)
	assert.Equal(t, "Zinc", rows[2].Description)
}

// SumPayable es la suma exacta de los importes por fila.
func TestSumPayable(t *testing.T) {
	rows := []matching.MatchRow{
		{PayableAmount: dec("20.00")},
		{PayableAmount: dec("12.50")},
		{PayableAmount: dec("0")},
	}
	assert.True(t, matching.SumPayable(rows).Equal(dec("32.50")))
}

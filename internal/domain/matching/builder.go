// Package matching implementa la conciliación a tres vías entre orden de
// compra, factura de proveedor y entrada de mercancía. El builder es una
// función pura: los problemas de calidad de datos se reportan como
// observaciones en la fila, nunca como errores.
package matching

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// Observaciones emitidas por el builder.
const (
	NoteReceiptNotPosted   = "Recepción sin contabilizar"
	NoteMissingInvoiceLine = "Falta línea de factura"
	NoteMissingReceiptLine = "Falta línea de recepción"
	NoteMissingPOLink      = "Línea sin vínculo a la orden de compra"
	NoteMissingUnitPrice   = "Falta precio unitario en la factura"
)

// MatchRow es una fila conciliada derivada de los tres documentos.
// Se calcula bajo demanda y solo se persiste (como MatchLine) al crear
// la conciliación.
type MatchRow struct {
	Key           MatchKey
	POLineID      *string
	ProductRef    string
	Description   string
	OrderedQty    decimal.Decimal
	InvoicedQty   decimal.Decimal
	ReceivedQty   decimal.Decimal
	PayableQty    decimal.Decimal
	PayableAmount decimal.Decimal
	Notes         []string
	LineOk        bool
}

// Documents agrupa los tres documentos fuente con sus líneas ya cargadas.
type Documents struct {
	PO           *entity.PurchaseOrder
	POLines      []*entity.PurchaseOrderLine
	Invoice      *entity.Invoice
	InvoiceLines []*entity.InvoiceLine
	Receipt      *entity.GoodsReceipt
	ReceiptLines []*entity.GoodsReceiptLine
}

// BuildMatchRows une los tres documentos en filas conciliadas.
//
// Indexa las líneas de factura y recepción con doble clave: por ID de línea de
// orden (preferida) y por referencia de producto/borrador (fallback). El
// universo de claves es la unión de todas las líneas de orden referenciadas en
// cualquiera de los tres documentos, más las referencias de producto de líneas
// de factura/recepción sin vínculo a la orden. Miembros ausentes del trío se
// registran como observaciones; las cantidades faltantes valen cero.
//
// Cantidad a pagar: min(recibida, ordenada) si hay orden; si la fila no
// resuelve línea de orden se paga lo recibido. Importe: cantidad × precio de
// factura, redondeado a 2 decimales; sin precio el importe es cero y la fila
// queda marcada como no conforme.
//
// La salida se ordena por descripción para comparaciones deterministas.
func BuildMatchRows(docs Documents) []MatchRow {
	poByLine := make(map[string]*entity.PurchaseOrderLine, len(docs.POLines))
	for _, l := range docs.POLines {
		poByLine[l.ID] = l
	}

	invByPOLine := make(map[string]*entity.InvoiceLine)
	invByRef := make(map[string]*entity.InvoiceLine)
	for _, l := range docs.InvoiceLines {
		if l.POLineID != nil && *l.POLineID != "" {
			invByPOLine[*l.POLineID] = l
		} else if ref := l.ProductRef(); ref != "" {
			invByRef[ref] = l
		}
	}

	grnPosted := docs.Receipt != nil && docs.Receipt.Posted
	grnByPOLine := make(map[string]*entity.GoodsReceiptLine)
	grnByRef := make(map[string]*entity.GoodsReceiptLine)
	for _, l := range docs.ReceiptLines {
		if l.POLineID != nil && *l.POLineID != "" {
			grnByPOLine[*l.POLineID] = l
		} else if ref := l.ProductRef(); ref != "" {
			grnByRef[ref] = l
		}
	}

	// Unión de claves: toda línea de orden vista en cualquier documento,
	// más las referencias de producto de líneas sin vínculo a la orden.
	var keys []MatchKey
	seen := make(map[MatchKey]bool)
	add := func(k MatchKey) {
		if k.ID != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, l := range docs.POLines {
		add(ByOrderLine(l.ID))
	}
	for id := range invByPOLine {
		add(ByOrderLine(id))
	}
	for id := range grnByPOLine {
		add(ByOrderLine(id))
	}
	for ref := range invByRef {
		add(ByProductRef(ref))
	}
	for ref := range grnByRef {
		add(ByProductRef(ref))
	}

	rows := make([]MatchRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, buildRow(key, poByLine, invByPOLine, invByRef, grnByPOLine, grnByRef, grnPosted))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Description != rows[j].Description {
			return rows[i].Description < rows[j].Description
		}
		return rows[i].Key.ID < rows[j].Key.ID
	})
	return rows
}

// buildRow resuelve los miembros del trío para una clave y calcula la fila.
func buildRow(
	key MatchKey,
	poByLine map[string]*entity.PurchaseOrderLine,
	invByPOLine, invByRef map[string]*entity.InvoiceLine,
	grnByPOLine, grnByRef map[string]*entity.GoodsReceiptLine,
	grnPosted bool,
) MatchRow {
	var poLine *entity.PurchaseOrderLine
	var invLine *entity.InvoiceLine
	var grnLine *entity.GoodsReceiptLine

	if key.IsOrderLine() {
		poLine = poByLine[key.ID]
		invLine = invByPOLine[key.ID]
		grnLine = grnByPOLine[key.ID]
	} else {
		invLine = invByRef[key.ID]
		grnLine = grnByRef[key.ID]
	}

	row := MatchRow{Key: key}
	var notes []string

	if poLine != nil {
		row.POLineID = &poLine.ID
		row.ProductRef = poLine.ProductID
		row.Description = poLine.Description
		row.OrderedQty = poLine.OrderedQty
	}
	if invLine != nil {
		row.InvoicedQty = invLine.InvoicedQty
		if row.Description == "" {
			row.Description = invLine.Description
		}
		if row.ProductRef == "" {
			row.ProductRef = invLine.ProductRef()
		}
	}
	if grnLine != nil {
		row.ReceivedQty = grnLine.ReceivedQty
		if row.Description == "" {
			row.Description = grnLine.Description
		}
		if row.ProductRef == "" {
			row.ProductRef = grnLine.ProductRef()
		}
	}

	if !grnPosted {
		notes = append(notes, NoteReceiptNotPosted)
	}
	if invLine == nil {
		notes = append(notes, NoteMissingInvoiceLine)
	}
	if grnLine == nil {
		notes = append(notes, NoteMissingReceiptLine)
	}
	if !key.IsOrderLine() {
		notes = append(notes, NoteMissingPOLink)
	}

	// Cantidad a pagar: tope en lo ordenado cuando hay línea de orden;
	// sin orden resuelta se paga lo recibido.
	if row.OrderedQty.GreaterThan(decimal.Zero) {
		row.PayableQty = decimal.Min(row.ReceivedQty, row.OrderedQty)
		if row.ReceivedQty.LessThan(row.OrderedQty) {
			notes = append(notes, fmt.Sprintf("Entrega incompleta: recibidas %s de %s",
				row.ReceivedQty.String(), row.OrderedQty.String()))
		}
		if row.ReceivedQty.GreaterThan(row.OrderedQty) {
			notes = append(notes, fmt.Sprintf("Entrega en exceso: recibidas %s de %s, se paga hasta lo ordenado",
				row.ReceivedQty.String(), row.OrderedQty.String()))
		}
	} else {
		row.PayableQty = row.ReceivedQty
	}

	priceKnown := invLine != nil && invLine.UnitPrice != nil
	if priceKnown {
		row.PayableAmount = row.PayableQty.Mul(*invLine.UnitPrice).Round(2)
	} else {
		row.PayableAmount = decimal.Zero
		if invLine != nil {
			notes = append(notes, NoteMissingUnitPrice)
		}
	}

	row.LineOk = grnPosted && invLine != nil && grnLine != nil && priceKnown
	row.Notes = notes
	return row
}

// SumPayable suma los importes a pagar de todas las filas.
func SumPayable(rows []MatchRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.PayableAmount)
	}
	return total
}

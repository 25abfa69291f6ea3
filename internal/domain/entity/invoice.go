package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura de proveedor asociada a una orden de compra.
type Invoice struct {
	ID         string
	POID       string
	SupplierID string
	Number     string
	Date       time.Time
	CreatedAt  time.Time
}

// InvoiceLine es una línea de factura de proveedor.
// POLineID es opcional: facturas capturadas sin vínculo a la línea de orden
// se concilian por referencia de producto (ProductID o DraftProductID).
// UnitPrice es opcional: una factura mal capturada puede llegar sin precio.
type InvoiceLine struct {
	ID             string
	InvoiceID      string
	POLineID       *string
	ProductID      *string
	DraftProductID *string
	Description    string
	InvoicedQty    decimal.Decimal
	UnitPrice      *decimal.Decimal
}

// ProductRef devuelve la referencia de producto de la línea: catálogo si existe,
// si no el borrador. Vacío si la línea no referencia nada.
func (l *InvoiceLine) ProductRef() string {
	if l.ProductID != nil && *l.ProductID != "" {
		return *l.ProductID
	}
	if l.DraftProductID != nil && *l.DraftProductID != "" {
		return *l.DraftProductID
	}
	return ""
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsReceipt representa la cabecera de una entrada de mercancía (GRN)
// contra una orden de compra y su factura.
type GoodsReceipt struct {
	ID         string
	POID       string
	InvoiceID  string
	Number     string
	Posted     bool // contabilizada: las cantidades recibidas son definitivas
	ReceivedAt time.Time
	CreatedAt  time.Time
}

// GoodsReceiptLine es una línea de recepción física.
// UnitPrice es el snapshot del precio al momento de recibir.
type GoodsReceiptLine struct {
	ID             string
	GoodsReceiptID string
	POLineID       *string
	InvoiceLineID  *string
	ProductID      *string
	DraftProductID *string
	Description    string
	ReceivedQty    decimal.Decimal
	UnitPrice      decimal.Decimal
}

// ProductRef devuelve la referencia de producto de la línea (catálogo o borrador).
func (l *GoodsReceiptLine) ProductRef() string {
	if l.ProductID != nil && *l.ProductID != "" {
		return *l.ProductID
	}
	if l.DraftProductID != nil && *l.DraftProductID != "" {
		return *l.DraftProductID
	}
	return ""
}

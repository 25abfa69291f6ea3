package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una conciliación a tres vías (orden de compra / factura / recepción).
const (
	MatchStatusDraft      = "DRAFT"
	MatchStatusReadyToPay = "READY_TO_PAY"
	MatchStatusPaid       = "PAID"
	MatchStatusVoid       = "VOID"
)

// ValidMatchStatus indica si s es un estado de conciliación conocido.
func ValidMatchStatus(s string) bool {
	switch s {
	case MatchStatusDraft, MatchStatusReadyToPay, MatchStatusPaid, MatchStatusVoid:
		return true
	}
	return false
}

// ThreeWayMatch es la cabecera de una conciliación: referencia los tres
// documentos y acumula el total a pagar para lecturas rápidas.
// A lo sumo una conciliación no-VOID puede referenciar una factura o una recepción.
type ThreeWayMatch struct {
	ID             string
	POID           string
	InvoiceID      string
	GoodsReceiptID string
	Status         string
	PayableTotal   decimal.Decimal
	CreatedAt      time.Time
	CreatedBy      string
	UpdatedAt      time.Time
}

// MatchLine es el snapshot persistido de una fila conciliada.
// Pertenece exclusivamente a su ThreeWayMatch; no se edita después de creada.
type MatchLine struct {
	ID            string
	MatchID       string
	POLineID      *string
	ProductRef    string
	Description   string
	OrderedQty    decimal.Decimal
	InvoicedQty   decimal.Decimal
	ReceivedQty   decimal.Decimal
	PayableQty    decimal.Decimal
	PayableAmount decimal.Decimal
	Notes         string // observaciones separadas por "; "
	LineOk        bool
}

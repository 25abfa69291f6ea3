package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de stock.
const (
	RequestStatusPending   = "PENDING"
	RequestStatusReviewed  = "REVIEWED"
	RequestStatusFulfilled = "FULFILLED"
	RequestStatusCancelled = "CANCELLED"
)

// Resultados por línea de una solicitud de stock.
const (
	OutcomePending     = "PENDING"
	OutcomeGranted     = "GRANTED"
	OutcomeAdjusted    = "ADJUSTED"
	OutcomeUnavailable = "UNAVAILABLE"
)

// TerminalRequestStatus indica si s es un estado final de solicitud: una vez
// FULFILLED o CANCELLED la solicitud no admite más escrituras.
func TerminalRequestStatus(s string) bool {
	return s == RequestStatusFulfilled || s == RequestStatusCancelled
}

// ClassifyOutcome deriva el resultado final de una línea a partir de las
// cantidades solicitada y otorgada. granted debe estar en [0, requested].
func ClassifyOutcome(requestedQty, grantedQty decimal.Decimal) string {
	switch {
	case grantedQty.LessThanOrEqual(decimal.Zero):
		return OutcomeUnavailable
	case grantedQty.GreaterThanOrEqual(requestedQty):
		return OutcomeGranted
	default:
		return OutcomeAdjusted
	}
}

// StockRequest es una solicitud de mercancía desde una ubicación (sede, bodega
// satélite). Tras la atención queda FULFILLED si se otorgó algo, CANCELLED si no.
type StockRequest struct {
	ID                 string
	RequesterID        string
	LocationName       string // ubicación solicitante, va en el memo del libro de stock
	Status             string
	ExpectedDeliveryAt *time.Time
	MessageToRequester string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// StockRequestLine es una línea de solicitud.
// ProvisionalQty la fija la revisión previa; GrantedQty y Outcome quedan
// definitivos durante la atención y la línea se vuelve terminal.
type StockRequestLine struct {
	ID             string
	RequestID      string
	ProductID      string
	Description    string
	RequestedQty   decimal.Decimal
	ProvisionalQty *decimal.Decimal
	GrantedQty     *decimal.Decimal
	Outcome        string
	Notes          string
}

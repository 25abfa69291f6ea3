package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReviewLineRequest revisión provisional de una línea de solicitud.
type ReviewLineRequest struct {
	LineID     string          `json:"line_id"`
	GrantedQty decimal.Decimal `json:"granted_qty"`
	Notes      string          `json:"notes,omitempty"`
}

// ReviewStockRequestRequest entrada de la revisión previa: fija cantidades
// provisionales sin tocar inventario.
type ReviewStockRequestRequest struct {
	Lines              []ReviewLineRequest `json:"lines"`
	ExpectedDeliveryAt *time.Time          `json:"expected_delivery_at,omitempty"`
	MessageToRequester string              `json:"message_to_requester,omitempty"`
}

// FulfillmentLineResponse resultado definitivo de una línea tras la atención.
type FulfillmentLineResponse struct {
	LineID       string          `json:"line_id"`
	ProductID    string          `json:"product_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	GrantedQty   decimal.Decimal `json:"granted_qty"`
	Outcome      string          `json:"outcome"`
}

// FulfillmentResponse estado final de la solicitud y resultados por línea.
type FulfillmentResponse struct {
	RequestID string                    `json:"request_id"`
	Status    string                    `json:"status"`
	Lines     []FulfillmentLineResponse `json:"lines"`
}

// StockRequestResponse lectura de una solicitud con sus líneas.
type StockRequestResponse struct {
	ID                 string                     `json:"id"`
	RequesterID        string                     `json:"requester_id"`
	LocationName       string                     `json:"location_name"`
	Status             string                     `json:"status"`
	ExpectedDeliveryAt *time.Time                 `json:"expected_delivery_at,omitempty"`
	MessageToRequester string                     `json:"message_to_requester,omitempty"`
	Lines              []StockRequestLineResponse `json:"lines"`
}

// StockRequestLineResponse una línea de solicitud en lecturas.
type StockRequestLineResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	Description    string           `json:"description"`
	RequestedQty   decimal.Decimal  `json:"requested_qty"`
	ProvisionalQty *decimal.Decimal `json:"provisional_qty,omitempty"`
	GrantedQty     *decimal.Decimal `json:"granted_qty,omitempty"`
	Outcome        string           `json:"outcome"`
	Notes          string           `json:"notes,omitempty"`
}

// FulfillmentNotification mensaje saliente de mejor esfuerzo tras una
// atención exitosa: resumen solicitado vs. otorgado por línea.
type FulfillmentNotification struct {
	RequestID    string                    `json:"request_id"`
	RequesterID  string                    `json:"requester_id"`
	LocationName string                    `json:"location_name"`
	Status       string                    `json:"status"`
	Lines        []FulfillmentLineResponse `json:"lines"`
}

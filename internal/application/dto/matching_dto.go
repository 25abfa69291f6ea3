package dto

import "github.com/shopspring/decimal"

// CreateMatchRequest entrada para crear una conciliación a tres vías.
type CreateMatchRequest struct {
	POID           string `json:"po_id"`
	InvoiceID      string `json:"invoice_id"`
	GoodsReceiptID string `json:"grn_id"`
}

// UpdateMatchStatusRequest entrada para cambiar el estado de una conciliación.
type UpdateMatchStatusRequest struct {
	Status string `json:"status"`
}

// MatchLineResponse una fila conciliada en la respuesta.
type MatchLineResponse struct {
	ID            string          `json:"id"`
	POLineID      *string         `json:"po_line_id,omitempty"`
	ProductRef    string          `json:"product_ref,omitempty"`
	Description   string          `json:"description"`
	OrderedQty    decimal.Decimal `json:"ordered_qty"`
	InvoicedQty   decimal.Decimal `json:"invoiced_qty"`
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	PayableQty    decimal.Decimal `json:"payable_qty"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	Notes         string          `json:"notes,omitempty"`
	LineOk        bool            `json:"line_ok"`
}

// MatchResponse cabecera de conciliación con sus líneas.
type MatchResponse struct {
	ID             string              `json:"id"`
	POID           string              `json:"po_id"`
	InvoiceID      string              `json:"invoice_id"`
	GoodsReceiptID string              `json:"grn_id"`
	Status         string              `json:"status"`
	PayableTotal   decimal.Decimal     `json:"payable_total"`
	Lines          []MatchLineResponse `json:"lines,omitempty"`
}

// PaymentSummaryResponse resumen de pagos (por orden de compra o global).
// Outstanding no se acota: puede ser negativo si se pagó de más.
type PaymentSummaryResponse struct {
	TotalPayable decimal.Decimal `json:"total_payable"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

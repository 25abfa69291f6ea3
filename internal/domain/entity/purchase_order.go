package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusOpen   = "OPEN"
	POStatusClosed = "CLOSED"
)

// PurchaseOrder representa la cabecera de una orden de compra a proveedor.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	Number     string
	Status     string
	Date       time.Time
	CreatedAt  time.Time
}

// PurchaseOrderLine es una línea de la orden: compromiso de compra de un producto.
type PurchaseOrderLine struct {
	ID          string
	POID        string
	ProductID   string
	Description string
	OrderedQty  decimal.Decimal
	UnitPrice   decimal.Decimal
}

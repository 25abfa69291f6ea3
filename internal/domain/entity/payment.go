package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es un pago a proveedor asociado a una orden de compra.
// Solo los pagos contabilizados (Posted) cuentan en el resumen de pagos.
type Payment struct {
	ID        string
	POID      string
	MatchID   *string
	Amount    decimal.Decimal
	Posted    bool
	Date      time.Time
	CreatedAt time.Time
}

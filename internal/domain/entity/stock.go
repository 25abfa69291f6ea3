package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es el registro de inventario por producto: el único contador mutable
// y disputado del núcleo. Quantity nunca puede quedar negativa; toda resta
// pasa por el decremento condicionado del repositorio.
type Stock struct {
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

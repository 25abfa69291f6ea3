package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto de catálogo. StockQuantity es la cifra denormalizada
// que se espeja con inventory_records en cada salida.
type Product struct {
	ID            string
	SKU           string
	Name          string
	StockQuantity decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de los asientos del libro de stock.
const (
	LedgerSourceStockRequest = "stock-request"
	LedgerSourceAdjustment   = "adjustment"
	LedgerSourceGoodsReceipt = "goods-receipt"
)

// StockLedgerEntry es un asiento inmutable del libro de stock: exactamente uno
// por mutación de inventario, con cantidad firmada (negativa = salida).
// Los asientos nunca se editan ni se borran.
type StockLedgerEntry struct {
	ID        string
	ProductID string
	QtyChange decimal.Decimal
	Source    string
	Memo      string
	CreatedAt time.Time
	CreatedBy string
}

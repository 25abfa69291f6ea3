package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// ProductRepository acceso a productos de catálogo.
// DecrementStockMirror espeja en products.stock_quantity la resta ya aplicada
// sobre inventory_records (misma transacción).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	DecrementStockMirror(ctx context.Context, productID string, qty decimal.Decimal) error
}

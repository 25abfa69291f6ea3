package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// StockLedgerRepository libro de stock de solo inserción: un asiento por
// mutación de inventario. No existen operaciones de edición ni borrado.
type StockLedgerRepository interface {
	Append(ctx context.Context, e *entity.StockLedgerEntry) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLedgerEntry, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el registro de inventario de un producto. (nil, nil) si no existe.
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, stock_quantity, updated_at
		FROM inventory_records WHERE product_id = $1`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// DecrementIfAvailable resta qty solo si la cantidad actual alcanza, en una
// sola sentencia. El guard en el WHERE decide bajo el bloqueo de fila de la
// UPDATE; el conteo de filas afectadas reporta si la resta ocurrió. Es la
// única vía para restar inventario: la cantidad nunca queda negativa.
func (r *StockRepo) DecrementIfAvailable(ctx context.Context, productID string, qty decimal.Decimal) (bool, error) {
	query := `
		UPDATE inventory_records
		SET stock_quantity = stock_quantity - $1, updated_at = now()
		WHERE product_id = $2 AND stock_quantity >= $1`
	tag, err := r.q.Exec(ctx, query, qty, productID)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

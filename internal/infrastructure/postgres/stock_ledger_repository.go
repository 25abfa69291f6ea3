package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lista: el libro de stock no tiene UPDATE ni DELETE.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Append inserta un asiento inmutable.
func (r *StockLedgerRepo) Append(ctx context.Context, e *entity.StockLedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (id, product_id, qty_change, source, memo, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.QtyChange, e.Source, e.Memo, e.CreatedAt, e.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("append stock_ledger: %w", err)
	}
	return nil
}

// ListByProduct lista los asientos de un producto, más reciente primero.
func (r *StockLedgerRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT id, product_id, qty_change, source, COALESCE(memo, ''), created_at, created_by
		FROM stock_ledger WHERE product_id = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock_ledger: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.QtyChange, &e.Source, &e.Memo, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock_ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

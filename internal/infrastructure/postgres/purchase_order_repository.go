package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// GetByID obtiene una orden de compra. (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, number, status, date, created_at
		FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.SupplierID, &po.Number, &po.Status, &po.Date, &po.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase_order by id: %w", err)
	}
	return &po, nil
}

// GetLines lista las líneas de una orden de compra.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, poID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, po_id, product_id, description, ordered_qty, unit_price
		FROM purchase_order_lines WHERE po_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase_order_lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.POID, &l.ProductID, &l.Description, &l.OrderedQty, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase_order_line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

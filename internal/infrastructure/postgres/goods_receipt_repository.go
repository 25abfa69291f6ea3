package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación sobre PostgreSQL (usable con pool o tx).
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

// GetByID obtiene una entrada de mercancía. (nil, nil) si no existe.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	query := `
		SELECT id, po_id, invoice_id, number, posted, received_at, created_at
		FROM goods_receipts WHERE id = $1`
	var grn entity.GoodsReceipt
	err := r.q.QueryRow(ctx, query, id).Scan(
		&grn.ID, &grn.POID, &grn.InvoiceID, &grn.Number, &grn.Posted, &grn.ReceivedAt, &grn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods_receipt by id: %w", err)
	}
	return &grn, nil
}

// GetLines lista las líneas de una recepción.
func (r *GoodsReceiptRepo) GetLines(ctx context.Context, receiptID string) ([]*entity.GoodsReceiptLine, error) {
	query := `
		SELECT id, goods_receipt_id, po_line_id, invoice_line_id, product_id,
		       draft_product_id, description, received_qty, unit_price
		FROM goods_receipt_lines WHERE goods_receipt_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list goods_receipt_lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.GoodsReceiptLine
	for rows.Next() {
		var l entity.GoodsReceiptLine
		if err := rows.Scan(
			&l.ID, &l.GoodsReceiptID, &l.POLineID, &l.InvoiceLineID, &l.ProductID,
			&l.DraftProductID, &l.Description, &l.ReceivedQty, &l.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan goods_receipt_line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

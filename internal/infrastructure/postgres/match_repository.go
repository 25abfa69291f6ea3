package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.MatchRepository = (*MatchRepo)(nil)

// MatchRepo implementación sobre PostgreSQL (usable con pool o tx).
//
// La unicidad "a lo sumo una conciliación no-VOID por factura y por recepción"
// la respaldan dos índices únicos parciales:
//
//	CREATE UNIQUE INDEX ux_twm_invoice ON three_way_matches (invoice_id) WHERE status <> 'VOID';
//	CREATE UNIQUE INDEX ux_twm_receipt ON three_way_matches (goods_receipt_id) WHERE status <> 'VOID';
type MatchRepo struct {
	q Querier
}

// NewMatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMatchRepository(q Querier) *MatchRepo {
	return &MatchRepo{q: q}
}

// Create inserta la cabecera. Una violación 23505 de los índices parciales
// (dos creaciones concurrentes sobre la misma factura o recepción) se
// traduce a ErrConflict.
func (r *MatchRepo) Create(ctx context.Context, m *entity.ThreeWayMatch) error {
	query := `
		INSERT INTO three_way_matches
			(id, po_id, invoice_id, goods_receipt_id, status, payable_total, created_at, created_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.POID, m.InvoiceID, m.GoodsReceiptID, m.Status, m.PayableTotal,
		m.CreatedAt, m.CreatedBy, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("conciliación activa duplicada: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert three_way_match: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de conciliación.
func (r *MatchRepo) CreateLine(ctx context.Context, line *entity.MatchLine) error {
	query := `
		INSERT INTO three_way_match_lines
			(id, match_id, po_line_id, product_ref, description,
			 ordered_qty, invoiced_qty, received_qty, payable_qty, payable_amount,
			 notes, line_ok)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.MatchID, line.POLineID, line.ProductRef, line.Description,
		line.OrderedQty, line.InvoicedQty, line.ReceivedQty, line.PayableQty, line.PayableAmount,
		line.Notes, line.LineOk,
	)
	if err != nil {
		return fmt.Errorf("insert three_way_match_line: %w", err)
	}
	return nil
}

// GetByID obtiene una conciliación. (nil, nil) si no existe.
func (r *MatchRepo) GetByID(ctx context.Context, id string) (*entity.ThreeWayMatch, error) {
	query := `
		SELECT id, po_id, invoice_id, goods_receipt_id, status, payable_total,
		       created_at, created_by, updated_at
		FROM three_way_matches WHERE id = $1`
	var m entity.ThreeWayMatch
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.POID, &m.InvoiceID, &m.GoodsReceiptID, &m.Status, &m.PayableTotal,
		&m.CreatedAt, &m.CreatedBy, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get three_way_match by id: %w", err)
	}
	return &m, nil
}

// GetLines lista las líneas de una conciliación.
func (r *MatchRepo) GetLines(ctx context.Context, matchID string) ([]*entity.MatchLine, error) {
	query := `
		SELECT id, match_id, po_line_id, product_ref, description,
		       ordered_qty, invoiced_qty, received_qty, payable_qty, payable_amount,
		       notes, line_ok
		FROM three_way_match_lines WHERE match_id = $1
		ORDER BY description, product_ref`
	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("list three_way_match_lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.MatchLine
	for rows.Next() {
		var l entity.MatchLine
		if err := rows.Scan(
			&l.ID, &l.MatchID, &l.POLineID, &l.ProductRef, &l.Description,
			&l.OrderedQty, &l.InvoicedQty, &l.ReceivedQty, &l.PayableQty, &l.PayableAmount,
			&l.Notes, &l.LineOk,
		); err != nil {
			return nil, fmt.Errorf("scan three_way_match_line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateStatus cambia el estado de la cabecera.
func (r *MatchRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE three_way_matches SET status = $1, updated_at = now() WHERE id = $2`
	_, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update three_way_match status: %w", err)
	}
	return nil
}

// ExistsActiveForInvoice indica si una conciliación no-VOID referencia la factura.
func (r *MatchRepo) ExistsActiveForInvoice(ctx context.Context, invoiceID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM three_way_matches
			WHERE invoice_id = $1 AND status <> 'VOID'
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, invoiceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists active match for invoice: %w", err)
	}
	return exists, nil
}

// ExistsActiveForReceipt indica si una conciliación no-VOID referencia la recepción.
func (r *MatchRepo) ExistsActiveForReceipt(ctx context.Context, receiptID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM three_way_matches
			WHERE goods_receipt_id = $1 AND status <> 'VOID'
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, receiptID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists active match for receipt: %w", err)
	}
	return exists, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

// GetByID obtiene una solicitud de stock. (nil, nil) si no existe.
func (r *StockRequestRepo) GetByID(ctx context.Context, id string) (*entity.StockRequest, error) {
	query := `
		SELECT id, requester_id, location_name, status, expected_delivery_at,
		       COALESCE(message_to_requester, ''), created_at, updated_at
		FROM stock_requests WHERE id = $1`
	var sr entity.StockRequest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&sr.ID, &sr.RequesterID, &sr.LocationName, &sr.Status, &sr.ExpectedDeliveryAt,
		&sr.MessageToRequester, &sr.CreatedAt, &sr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock_request by id: %w", err)
	}
	return &sr, nil
}

// GetLines lista las líneas de una solicitud.
func (r *StockRequestRepo) GetLines(ctx context.Context, requestID string) ([]*entity.StockRequestLine, error) {
	query := `
		SELECT id, request_id, product_id, description, requested_qty,
		       provisional_qty, granted_qty, outcome, COALESCE(notes, '')
		FROM stock_request_lines WHERE request_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list stock_request_lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.StockRequestLine
	for rows.Next() {
		var l entity.StockRequestLine
		if err := rows.Scan(
			&l.ID, &l.RequestID, &l.ProductID, &l.Description, &l.RequestedQty,
			&l.ProvisionalQty, &l.GrantedQty, &l.Outcome, &l.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan stock_request_line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateStatus cambia el estado de la solicitud.
func (r *StockRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE stock_requests SET status = $1, updated_at = now() WHERE id = $2`
	_, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update stock_request status: %w", err)
	}
	return nil
}

// UpdateStatusIfOpen fija el estado solo si la solicitud sigue abierta. Cero
// filas afectadas significa que otra atención concurrente la finalizó primero:
// el caso de uso debe abortar su transacción para revertir los decrementos.
func (r *StockRequestRepo) UpdateStatusIfOpen(ctx context.Context, id, status string) (bool, error) {
	query := `
		UPDATE stock_requests SET status = $1, updated_at = now()
		WHERE id = $2 AND status NOT IN ('FULFILLED', 'CANCELLED')`
	tag, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("update stock_request status if open: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateReview fija los campos de revisión de la cabecera.
func (r *StockRequestRepo) UpdateReview(ctx context.Context, id string, expectedDeliveryAt *time.Time, message string) error {
	query := `
		UPDATE stock_requests
		SET expected_delivery_at = $1, message_to_requester = $2, updated_at = now()
		WHERE id = $3`
	_, err := r.q.Exec(ctx, query, expectedDeliveryAt, message, id)
	if err != nil {
		return fmt.Errorf("update stock_request review: %w", err)
	}
	return nil
}

// UpdateLineProvisional fija la cantidad provisional de la revisión; no toca inventario.
func (r *StockRequestRepo) UpdateLineProvisional(ctx context.Context, lineID string, provisionalQty decimal.Decimal, notes string) error {
	query := `
		UPDATE stock_request_lines
		SET provisional_qty = $1, notes = $2
		WHERE id = $3`
	_, err := r.q.Exec(ctx, query, provisionalQty, notes, lineID)
	if err != nil {
		return fmt.Errorf("update stock_request_line provisional: %w", err)
	}
	return nil
}

// UpdateLineOutcome fija cantidad otorgada y resultado definitivos de la línea.
func (r *StockRequestRepo) UpdateLineOutcome(ctx context.Context, lineID string, grantedQty decimal.Decimal, outcome string) error {
	query := `
		UPDATE stock_request_lines
		SET granted_qty = $1, outcome = $2
		WHERE id = $3`
	_, err := r.q.Exec(ctx, query, grantedQty, outcome, lineID)
	if err != nil {
		return fmt.Errorf("update stock_request_line outcome: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.PaymentSummaryRepository = (*PaymentSummaryRepo)(nil)

// PaymentSummaryRepo consultas de solo lectura para el resumen de pagos.
// El lado "a pagar" suma importes de líneas de conciliaciones READY_TO_PAY o
// PAID; el lado "pagado" suma pagos contabilizados.
type PaymentSummaryRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentSummaryRepository construye el adaptador del resumen de pagos.
func NewPaymentSummaryRepository(pool *pgxpool.Pool) *PaymentSummaryRepo {
	return &PaymentSummaryRepo{pool: pool}
}

// PayableByPO total a pagar de una orden de compra.
func (r *PaymentSummaryRepo) PayableByPO(ctx context.Context, poID string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(l.payable_amount), 0)
	FROM three_way_matches m
	JOIN three_way_match_lines l ON l.match_id = m.id
	WHERE m.po_id = $1
	  AND m.status IN ('READY_TO_PAY', 'PAID')`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, poID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("payment_summary.PayableByPO: %w", err)
	}
	return total, nil
}

// PaidByPO total pagado (pagos contabilizados) de una orden de compra.
func (r *PaymentSummaryRepo) PaidByPO(ctx context.Context, poID string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(p.amount), 0)
	FROM payments p
	WHERE p.po_id = $1 AND p.posted`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, poID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("payment_summary.PaidByPO: %w", err)
	}
	return total, nil
}

// PayableTotal total a pagar sobre todas las órdenes.
func (r *PaymentSummaryRepo) PayableTotal(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(l.payable_amount), 0)
	FROM three_way_matches m
	JOIN three_way_match_lines l ON l.match_id = m.id
	WHERE m.status IN ('READY_TO_PAY', 'PAID')`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("payment_summary.PayableTotal: %w", err)
	}
	return total, nil
}

// PaidTotal total pagado sobre todas las órdenes.
func (r *PaymentSummaryRepo) PaidTotal(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(p.amount), 0)
	FROM payments p
	WHERE p.posted`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("payment_summary.PaidTotal: %w", err)
	}
	return total, nil
}

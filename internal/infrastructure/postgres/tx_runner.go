package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Compras-api/internal/application/matching"
	"github.com/jhoicas/Compras-api/internal/application/stockrequest"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ matching.MatchTxRunner = (*TxRunner)(nil)
var _ stockrequest.ReviewTxRunner = (*TxRunner)(nil)
var _ stockrequest.FulfillmentTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunMatch inicia una transacción, ejecuta fn con el repo de conciliaciones
// atado a la tx y hace Commit o Rollback: cabecera y líneas confirman juntas.
func (r *TxRunner) RunMatch(ctx context.Context, fn func(matchRepo repository.MatchRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMatchRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReview inicia una transacción con el repo de solicitudes atado a la tx:
// las provisionales de todas las líneas y la cabecera confirman juntas.
func (r *TxRunner) RunReview(ctx context.Context, fn func(requestRepo repository.StockRequestRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockRequestRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunFulfillment inicia una transacción con los repos de la atención de
// solicitudes: líneas, inventario, espejo de producto y libro de stock
// confirman en un solo commit.
func (r *TxRunner) RunFulfillment(ctx context.Context, fn func(
	requestRepo repository.StockRequestRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.StockLedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	requestRepo := NewStockRequestRepository(tx)
	stockRepo := NewStockRepository(tx)
	productRepo := NewProductRepository(tx)
	ledgerRepo := NewStockLedgerRepository(tx)

	if err := fn(requestRepo, stockRepo, productRepo, ledgerRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package stockrequest

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// ReviewTxRunner ejecuta fn con el repositorio de solicitudes atado a una
// transacción: provisionales de línea, campos de revisión y estado REVIEWED
// confirman juntos o ninguno.
type ReviewTxRunner interface {
	RunReview(ctx context.Context, fn func(requestRepo repository.StockRequestRepository) error) error
}

// FulfillmentTxRunner ejecuta fn dentro de una transacción con los
// repositorios de la atención atados a la tx. El efecto de inventario de
// todas las líneas y la escritura del estado final confirman juntos: no se
// permite commit parcial de unas líneas sin las otras.
type FulfillmentTxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		requestRepo repository.StockRequestRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		ledgerRepo repository.StockLedgerRepository,
	) error) error
}

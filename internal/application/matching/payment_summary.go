package matching

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// PaymentSummaryUseCase agrega el resumen de pagos sobre conciliaciones y
// pagos persistidos. Solo lecturas: basta la garantía read-committed del
// almacén, sin bloqueos adicionales.
type PaymentSummaryUseCase struct {
	summaryRepo repository.PaymentSummaryRepository
	poRepo      repository.PurchaseOrderRepository
}

// NewPaymentSummaryUseCase construye el caso de uso.
func NewPaymentSummaryUseCase(
	summaryRepo repository.PaymentSummaryRepository,
	poRepo repository.PurchaseOrderRepository,
) *PaymentSummaryUseCase {
	return &PaymentSummaryUseCase{summaryRepo: summaryRepo, poRepo: poRepo}
}

// GetPoPaymentSummary resumen de una orden de compra:
// a pagar (conciliaciones READY_TO_PAY/PAID), pagado (pagos contabilizados)
// y saldo = a pagar − pagado, sin acotar (negativo si se pagó de más).
func (uc *PaymentSummaryUseCase) GetPoPaymentSummary(ctx context.Context, poID string) (*dto.PaymentSummaryResponse, error) {
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}

	payable, err := uc.summaryRepo.PayableByPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	paid, err := uc.summaryRepo.PaidByPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentSummaryResponse{
		TotalPayable: payable,
		TotalPaid:    paid,
		Outstanding:  payable.Sub(paid),
	}, nil
}

// GetAllPoPaymentSummary aplica la misma fórmula sin filtro por orden.
func (uc *PaymentSummaryUseCase) GetAllPoPaymentSummary(ctx context.Context) (*dto.PaymentSummaryResponse, error) {
	payable, err := uc.summaryRepo.PayableTotal(ctx)
	if err != nil {
		return nil, err
	}
	paid, err := uc.summaryRepo.PaidTotal(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentSummaryResponse{
		TotalPayable: payable,
		TotalPaid:    paid,
		Outstanding:  payable.Sub(paid),
	}, nil
}

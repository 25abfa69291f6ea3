package matching

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

type fakeSummaryRepo struct {
	payableByPO map[string]decimal.Decimal
	paidByPO    map[string]decimal.Decimal
	payable     decimal.Decimal
	paid        decimal.Decimal
}

func (r *fakeSummaryRepo) PayableByPO(_ context.Context, poID string) (decimal.Decimal, error) {
	return r.payableByPO[poID], nil
}

func (r *fakeSummaryRepo) PaidByPO(_ context.Context, poID string) (decimal.Decimal, error) {
	return r.paidByPO[poID], nil
}

func (r *fakeSummaryRepo) PayableTotal(_ context.Context) (decimal.Decimal, error) {
	return r.payable, nil
}

func (r *fakeSummaryRepo) PaidTotal(_ context.Context) (decimal.Decimal, error) {
	return r.paid, nil
}

func TestPaymentSummary_PorOrden(t *testing.T) {
	uc := NewPaymentSummaryUseCase(
		&fakeSummaryRepo{
			payableByPO: map[string]decimal.Decimal{"po-1": dec("150")},
			paidByPO:    map[string]decimal.Decimal{"po-1": dec("90")},
		},
		&fakePORepo{po: &entity.PurchaseOrder{ID: "po-1"}},
	)

	resp, err := uc.GetPoPaymentSummary(context.Background(), "po-1")
	require.NoError(t, err)
	assert.True(t, resp.TotalPayable.Equal(dec("150")))
	assert.True(t, resp.TotalPaid.Equal(dec("90")))
	assert.True(t, resp.Outstanding.Equal(dec("60")))
}

func TestPaymentSummary_SaldoNegativoPorSobrepago(t *testing.T) {
	// El saldo no se acota: un sobrepago queda visible como negativo.
	uc := NewPaymentSummaryUseCase(
		&fakeSummaryRepo{
			payableByPO: map[string]decimal.Decimal{"po-1": dec("100")},
			paidByPO:    map[string]decimal.Decimal{"po-1": dec("120")},
		},
		&fakePORepo{po: &entity.PurchaseOrder{ID: "po-1"}},
	)

	resp, err := uc.GetPoPaymentSummary(context.Background(), "po-1")
	require.NoError(t, err)
	assert.True(t, resp.Outstanding.Equal(dec("-20")))
}

func TestPaymentSummary_OrdenInexistente(t *testing.T) {
	uc := NewPaymentSummaryUseCase(&fakeSummaryRepo{}, &fakePORepo{})

	_, err := uc.GetPoPaymentSummary(context.Background(), "po-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentSummary_Global(t *testing.T) {
	uc := NewPaymentSummaryUseCase(
		&fakeSummaryRepo{payable: dec("500"), paid: dec("200")},
		&fakePORepo{},
	)

	resp, err := uc.GetAllPoPaymentSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Outstanding.Equal(dec("300")))
}

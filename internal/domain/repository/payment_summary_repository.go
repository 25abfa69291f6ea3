package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentSummaryRepository consultas de solo lectura para el resumen de pagos.
// Payable suma los importes de líneas cuyas conciliaciones están en
// READY_TO_PAY o PAID; Paid suma los pagos contabilizados.
type PaymentSummaryRepository interface {
	PayableByPO(ctx context.Context, poID string) (decimal.Decimal, error)
	PaidByPO(ctx context.Context, poID string) (decimal.Decimal, error)
	PayableTotal(ctx context.Context) (decimal.Decimal, error)
	PaidTotal(ctx context.Context) (decimal.Decimal, error)
}

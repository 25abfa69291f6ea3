package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// MatchRepository persistencia de conciliaciones a tres vías.
//
// Create debe respaldarse en índices únicos parciales sobre invoice_id y
// goods_receipt_id (WHERE status <> 'VOID') para cerrar la carrera entre dos
// creaciones concurrentes del mismo par: la verificación de aplicación
// (ExistsActive*) es solo el pre-chequeo.
type MatchRepository interface {
	Create(ctx context.Context, m *entity.ThreeWayMatch) error
	CreateLine(ctx context.Context, line *entity.MatchLine) error
	GetByID(ctx context.Context, id string) (*entity.ThreeWayMatch, error)
	GetLines(ctx context.Context, matchID string) ([]*entity.MatchLine, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExistsActiveForInvoice(ctx context.Context, invoiceID string) (bool, error)
	ExistsActiveForReceipt(ctx context.Context, receiptID string) (bool, error)
}

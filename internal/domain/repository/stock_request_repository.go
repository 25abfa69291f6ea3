package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// StockRequestRepository persistencia de solicitudes de stock y sus líneas.
// GetByID devuelve (nil, nil) si la solicitud no existe.
type StockRequestRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRequest, error)
	GetLines(ctx context.Context, requestID string) ([]*entity.StockRequestLine, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// UpdateStatusIfOpen fija el estado solo si la solicitud no está en un
	// estado terminal. Devuelve false cuando otra atención la finalizó antes.
	UpdateStatusIfOpen(ctx context.Context, id, status string) (bool, error)
	// UpdateReview fija los campos de revisión de la cabecera.
	UpdateReview(ctx context.Context, id string, expectedDeliveryAt *time.Time, message string) error
	// UpdateLineProvisional fija la cantidad provisional de la revisión; no toca inventario.
	UpdateLineProvisional(ctx context.Context, lineID string, provisionalQty decimal.Decimal, notes string) error
	// UpdateLineOutcome fija cantidad otorgada y resultado definitivos de la línea.
	UpdateLineOutcome(ctx context.Context, lineID string, grantedQty decimal.Decimal, outcome string) error
}

package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// PurchaseOrderRepository acceso de lectura a órdenes de compra.
// GetByID devuelve (nil, nil) si la orden no existe.
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetLines(ctx context.Context, poID string) ([]*entity.PurchaseOrderLine, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// GoodsReceiptRepository acceso de lectura a entradas de mercancía.
// GetByID devuelve (nil, nil) si la recepción no existe.
type GoodsReceiptRepository interface {
	GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error)
	GetLines(ctx context.Context, receiptID string) ([]*entity.GoodsReceiptLine, error)
}

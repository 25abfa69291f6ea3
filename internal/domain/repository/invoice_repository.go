package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// InvoiceRepository acceso de lectura a facturas de proveedor.
// GetByID devuelve (nil, nil) si la factura no existe.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
}

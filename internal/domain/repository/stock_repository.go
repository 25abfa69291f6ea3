package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// StockRepository acceso al contador de inventario por producto.
//
// DecrementIfAvailable es el primitivo condicionado del almacén:
// "resta qty solo si la cantidad actual alcanza" en una sola sentencia,
// reportando con el conteo de filas afectadas si la resta ocurrió. Es la
// única vía para restar stock; garantiza que la cantidad nunca quede negativa
// sin tomar bloqueos pesimistas.
type StockRepository interface {
	Get(ctx context.Context, productID string) (*entity.Stock, error)
	DecrementIfAvailable(ctx context.Context, productID string, qty decimal.Decimal) (bool, error)
}

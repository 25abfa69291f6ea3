package matching

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// MatchTxRunner ejecuta fn dentro de una transacción con el repositorio de
// conciliaciones atado a la tx. Si fn retorna error se hace Rollback; la
// cabecera y todas las líneas se confirman juntas o ninguna.
type MatchTxRunner interface {
	RunMatch(ctx context.Context, fn func(matchRepo repository.MatchRepository) error) error
}

// MatchPDFGenerator genera la representación imprimible de una conciliación.
type MatchPDFGenerator interface {
	GenerateMatchPDF(ctx context.Context, data *MatchReportData) ([]byte, error)
}

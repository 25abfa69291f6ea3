package matching

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// MatchReportData reúne todo lo que necesita el generador de PDF: cabecera de
// la conciliación, sus líneas y los tres documentos referenciados.
type MatchReportData struct {
	Match   *entity.ThreeWayMatch
	Lines   []*entity.MatchLine
	PO      *entity.PurchaseOrder
	Invoice *entity.Invoice
	Receipt *entity.GoodsReceipt
}

// MatchReportUseCase produce el acta de conciliación en PDF.
type MatchReportUseCase struct {
	matchRepo   repository.MatchRepository
	poRepo      repository.PurchaseOrderRepository
	invoiceRepo repository.InvoiceRepository
	grnRepo     repository.GoodsReceiptRepository
	generator   MatchPDFGenerator
}

// NewMatchReportUseCase construye el caso de uso.
func NewMatchReportUseCase(
	matchRepo repository.MatchRepository,
	poRepo repository.PurchaseOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	grnRepo repository.GoodsReceiptRepository,
	generator MatchPDFGenerator,
) *MatchReportUseCase {
	return &MatchReportUseCase{
		matchRepo:   matchRepo,
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		grnRepo:     grnRepo,
		generator:   generator,
	}
}

// GenerateMatchPDF arma los datos del acta y delega en el generador.
func (uc *MatchReportUseCase) GenerateMatchPDF(ctx context.Context, matchID string) ([]byte, error) {
	m, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.matchRepo.GetLines(ctx, matchID)
	if err != nil {
		return nil, err
	}
	po, err := uc.poRepo.GetByID(ctx, m.POID)
	if err != nil {
		return nil, err
	}
	invoice, err := uc.invoiceRepo.GetByID(ctx, m.InvoiceID)
	if err != nil {
		return nil, err
	}
	grn, err := uc.grnRepo.GetByID(ctx, m.GoodsReceiptID)
	if err != nil {
		return nil, err
	}

	return uc.generator.GenerateMatchPDF(ctx, &MatchReportData{
		Match:   m,
		Lines:   lines,
		PO:      po,
		Invoice: invoice,
		Receipt: grn,
	})
}

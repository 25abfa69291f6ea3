package matching

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	dommatching "github.com/jhoicas/Compras-api/internal/domain/matching"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// CreateMatchUseCase crea conciliaciones a tres vías: carga los documentos,
// valida los vínculos cruzados, ejecuta el builder y persiste cabecera y
// líneas en una sola transacción.
//
// strictLinks activa la variante estricta: toda línea de recepción debe
// traer vínculo explícito a su línea de factura para permitir conciliar.
type CreateMatchUseCase struct {
	txRunner    MatchTxRunner
	poRepo      repository.PurchaseOrderRepository
	invoiceRepo repository.InvoiceRepository
	grnRepo     repository.GoodsReceiptRepository
	matchRepo   repository.MatchRepository
	strictLinks bool
}

// NewCreateMatchUseCase construye el caso de uso.
func NewCreateMatchUseCase(
	txRunner MatchTxRunner,
	poRepo repository.PurchaseOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	grnRepo repository.GoodsReceiptRepository,
	matchRepo repository.MatchRepository,
	strictLinks bool,
) *CreateMatchUseCase {
	return &CreateMatchUseCase{
		txRunner:    txRunner,
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		grnRepo:     grnRepo,
		matchRepo:   matchRepo,
		strictLinks: strictLinks,
	}
}

// CreateMatch concilia (orden, factura, recepción) y persiste el resultado.
//
// Precondiciones duras (error tipado, sin escritura parcial):
//   - los tres documentos existen (ErrNotFound)
//   - invoice.POID == poID, grn.POID == poID, grn.InvoiceID == invoiceID
//     (ErrCrossReference)
//   - ninguna conciliación no-VOID referencia ya la factura o la recepción
//     (ErrConflict; el índice único parcial del almacén cierra la carrera
//     entre dos creaciones concurrentes)
//
// Estado inicial: READY_TO_PAY si la recepción está contabilizada y todas las
// filas quedaron conformes; si no, DRAFT. El total a pagar se acumula en la
// cabecera para lecturas rápidas del resumen.
func (uc *CreateMatchUseCase) CreateMatch(ctx context.Context, userID, poID, invoiceID, grnID string) (*dto.MatchResponse, error) {
	if poID == "" || invoiceID == "" || grnID == "" {
		return nil, domain.ErrInvalidInput
	}

	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	invoice, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	grn, err := uc.grnRepo.GetByID(ctx, grnID)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, domain.ErrNotFound
	}

	if invoice.POID != poID || grn.POID != poID || grn.InvoiceID != invoiceID {
		return nil, domain.ErrCrossReference
	}

	poLines, err := uc.poRepo.GetLines(ctx, poID)
	if err != nil {
		return nil, err
	}
	invoiceLines, err := uc.invoiceRepo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	grnLines, err := uc.grnRepo.GetLines(ctx, grnID)
	if err != nil {
		return nil, err
	}

	if uc.strictLinks {
		for _, l := range grnLines {
			if l.InvoiceLineID == nil || *l.InvoiceLineID == "" {
				return nil, domain.ErrCrossReference
			}
		}
	}

	// Pre-chequeo de unicidad; el backstop real es el índice único parcial.
	if exists, err := uc.matchRepo.ExistsActiveForInvoice(ctx, invoiceID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrConflict
	}
	if exists, err := uc.matchRepo.ExistsActiveForReceipt(ctx, grnID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrConflict
	}

	rows := dommatching.BuildMatchRows(dommatching.Documents{
		PO:           po,
		POLines:      poLines,
		Invoice:      invoice,
		InvoiceLines: invoiceLines,
		Receipt:      grn,
		ReceiptLines: grnLines,
	})

	status := entity.MatchStatusReadyToPay
	if !grn.Posted {
		status = entity.MatchStatusDraft
	}
	for _, r := range rows {
		if !r.LineOk {
			status = entity.MatchStatusDraft
			break
		}
	}

	now := time.Now()
	header := &entity.ThreeWayMatch{
		ID:             uuid.New().String(),
		POID:           poID,
		InvoiceID:      invoiceID,
		GoodsReceiptID: grnID,
		Status:         status,
		PayableTotal:   dommatching.SumPayable(rows),
		CreatedAt:      now,
		CreatedBy:      userID,
		UpdatedAt:      now,
	}
	lines := make([]*entity.MatchLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, &entity.MatchLine{
			ID:            uuid.New().String(),
			MatchID:       header.ID,
			POLineID:      r.POLineID,
			ProductRef:    r.ProductRef,
			Description:   r.Description,
			OrderedQty:    r.OrderedQty,
			InvoicedQty:   r.InvoicedQty,
			ReceivedQty:   r.ReceivedQty,
			PayableQty:    r.PayableQty,
			PayableAmount: r.PayableAmount,
			Notes:         strings.Join(r.Notes, "; "),
			LineOk:        r.LineOk,
		})
	}

	err = uc.txRunner.RunMatch(ctx, func(matchRepo repository.MatchRepository) error {
		if err := matchRepo.Create(ctx, header); err != nil {
			return err
		}
		for _, line := range lines {
			if err := matchRepo.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toMatchResponse(header, lines), nil
}

// UpdateMatchStatus cambia el estado de la conciliación. La transición es
// permisiva a propósito: cualquier estado conocido es aceptado, incluido VOID
// desde cualquier punto del ciclo.
func (uc *CreateMatchUseCase) UpdateMatchStatus(ctx context.Context, matchID, newStatus string) (*dto.MatchResponse, error) {
	if !entity.ValidMatchStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.matchRepo.UpdateStatus(ctx, matchID, newStatus); err != nil {
		return nil, err
	}
	m.Status = newStatus
	return toMatchResponse(m, nil), nil
}

// GetMatch lee una conciliación con sus líneas.
func (uc *CreateMatchUseCase) GetMatch(ctx context.Context, matchID string) (*dto.MatchResponse, error) {
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
	return toMatchResponse(m, lines), nil
}

func toMatchResponse(m *entity.ThreeWayMatch, lines []*entity.MatchLine) *dto.MatchResponse {
	resp := &dto.MatchResponse{
		ID:             m.ID,
		POID:           m.POID,
		InvoiceID:      m.InvoiceID,
		GoodsReceiptID: m.GoodsReceiptID,
		Status:         m.Status,
		PayableTotal:   m.PayableTotal,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.MatchLineResponse{
			ID:            l.ID,
			POLineID:      l.POLineID,
			ProductRef:    l.ProductRef,
			Description:   l.Description,
			OrderedQty:    l.OrderedQty,
			InvoicedQty:   l.InvoicedQty,
			ReceivedQty:   l.ReceivedQty,
			PayableQty:    l.PayableQty,
			PayableAmount: l.PayableAmount,
			Notes:         l.Notes,
			LineOk:        l.LineOk,
		})
	}
	return resp
}

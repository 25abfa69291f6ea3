package stockrequest

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// ReviewStockRequestUseCase revisión previa de una solicitud: fija cantidades
// provisionales por línea y mensajes al solicitante. Nunca toca inventario;
// las cifras definitivas las decide la atención.
type ReviewStockRequestUseCase struct {
	txRunner    ReviewTxRunner
	requestRepo repository.StockRequestRepository
}

// NewReviewStockRequestUseCase construye el caso de uso.
func NewReviewStockRequestUseCase(txRunner ReviewTxRunner, requestRepo repository.StockRequestRepository) *ReviewStockRequestUseCase {
	return &ReviewStockRequestUseCase{txRunner: txRunner, requestRepo: requestRepo}
}

// Review aplica la revisión. La solicitud debe seguir abierta (PENDING o
// REVIEWED); cada cantidad provisional debe estar en [0, solicitado] de su
// línea. Validación y escrituras corren dentro de una transacción: nunca
// quedan provisionales a medias. Al terminar la solicitud queda REVIEWED.
func (uc *ReviewStockRequestUseCase) Review(ctx context.Context, requestID string, req *dto.ReviewStockRequestRequest) (*dto.StockRequestResponse, error) {
	err := uc.txRunner.RunReview(ctx, func(requestRepo repository.StockRequestRepository) error {
		request, err := requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if request.Status != entity.RequestStatusPending && request.Status != entity.RequestStatusReviewed {
			return domain.ErrConflict
		}

		lines, err := requestRepo.GetLines(ctx, requestID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.StockRequestLine, len(lines))
		for _, l := range lines {
			byID[l.ID] = l
		}

		for _, rl := range req.Lines {
			line, ok := byID[rl.LineID]
			if !ok {
				return domain.ErrNotFound
			}
			if rl.GrantedQty.LessThan(decimal.Zero) || rl.GrantedQty.GreaterThan(line.RequestedQty) {
				return domain.ErrInvalidInput
			}
			if err := requestRepo.UpdateLineProvisional(ctx, rl.LineID, rl.GrantedQty, rl.Notes); err != nil {
				return err
			}
		}

		if err := requestRepo.UpdateReview(ctx, requestID, req.ExpectedDeliveryAt, req.MessageToRequester); err != nil {
			return err
		}
		return requestRepo.UpdateStatus(ctx, requestID, entity.RequestStatusReviewed)
	})
	if err != nil {
		return nil, err
	}

	return uc.Get(ctx, requestID)
}

// Get lee una solicitud con sus líneas.
func (uc *ReviewStockRequestUseCase) Get(ctx context.Context, requestID string) (*dto.StockRequestResponse, error) {
	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.requestRepo.GetLines(ctx, requestID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockRequestResponse{
		ID:                 request.ID,
		RequesterID:        request.RequesterID,
		LocationName:       request.LocationName,
		Status:             request.Status,
		ExpectedDeliveryAt: request.ExpectedDeliveryAt,
		MessageToRequester: request.MessageToRequester,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.StockRequestLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Description:    l.Description,
			RequestedQty:   l.RequestedQty,
			ProvisionalQty: l.ProvisionalQty,
			GrantedQty:     l.GrantedQty,
			Outcome:        l.Outcome,
			Notes:          l.Notes,
		})
	}
	return resp, nil
}

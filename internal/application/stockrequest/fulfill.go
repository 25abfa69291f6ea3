package stockrequest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/ports"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// FulfillStockRequestUseCase atiende solicitudes de stock: asignación parcial
// y a prueba de carreras de inventario finito contra lo solicitado.
//
// La exclusión mutua por producto descansa en el decremento condicionado del
// almacén ("resta N solo si la cantidad actual ≥ N", con conteo de filas
// afectadas) más un reintento acotado por línea; la exclusión por solicitud,
// en el cierre condicionado a que siga abierta. No se toman bloqueos
// pesimistas. maxRetries es configurable para resistir mayor contención.
type FulfillStockRequestUseCase struct {
	txRunner    FulfillmentTxRunner
	requestRepo repository.StockRequestRepository
	notifier    ports.FulfillmentNotifier
	log         *logger.Logger
	maxRetries  int
}

// NewFulfillStockRequestUseCase construye el caso de uso.
// maxRetries < 0 se normaliza a 1 (un reintento por carrera perdida).
func NewFulfillStockRequestUseCase(
	txRunner FulfillmentTxRunner,
	requestRepo repository.StockRequestRepository,
	notifier ports.FulfillmentNotifier,
	log *logger.Logger,
	maxRetries int,
) *FulfillStockRequestUseCase {
	if maxRetries < 0 {
		maxRetries = 1
	}
	return &FulfillStockRequestUseCase{
		txRunner:    txRunner,
		requestRepo: requestRepo,
		notifier:    notifier,
		log:         log,
		maxRetries:  maxRetries,
	}
}

// Fulfill procesa todas las líneas de la solicitud en una sola transacción y
// finaliza su estado. userID es el actor que atiende; se pasa explícito para
// la atribución en el libro de stock.
//
// Por línea: la meta es min(solicitado, provisional de la revisión); el
// otorgado final es min(meta, stock disponible). Si queda en cero la línea
// sale UNAVAILABLE sin escribir inventario ni libro. Si el decremento
// condicionado pierde la carrera (cero filas afectadas) se relee el stock y
// se reintenta hasta maxRetries veces. Un otorgado exitoso espeja la cifra
// denormalizada del producto y asienta exactamente un registro inmutable en
// el libro (cantidad negativa, origen "stock-request", memo con la ubicación
// solicitante).
//
// Estado final: FULFILLED si alguna línea otorgó > 0, si no CANCELLED. El
// chequeo de estado previo a la transacción es solo un atajo: dentro de ella
// la solicitud se relee y el cierre usa una escritura condicionada a que siga
// abierta. Si otra atención confirmó primero, cero filas afectadas abortan la
// transacción completa (decrementos incluidos) con ErrConflict: una solicitud
// jamás drena inventario dos veces. Tras el commit se emite una notificación
// de mejor esfuerzo; su falla solo se registra en el log.
func (uc *FulfillStockRequestUseCase) Fulfill(ctx context.Context, userID, requestID string) (*dto.FulfillmentResponse, error) {
	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if entity.TerminalRequestStatus(request.Status) {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	var results []dto.FulfillmentLineResponse
	finalStatus := entity.RequestStatusCancelled

	err = uc.txRunner.RunFulfillment(ctx, func(
		requestRepo repository.StockRequestRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		ledgerRepo repository.StockLedgerRepository,
	) error {
		// Relectura dentro de la transacción: otra atención pudo finalizar
		// la solicitud entre el chequeo de arriba y el inicio de la tx.
		current, err := requestRepo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if entity.TerminalRequestStatus(current.Status) {
			return domain.ErrConflict
		}
		request = current

		lines, err := requestRepo.GetLines(ctx, requestID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrInvalidInput
		}

		anyGranted := false
		// Las líneas se procesan en secuencia: la escritura de la línea N
		// precede a la lectura de la N+1 dentro de la misma transacción.
		for _, line := range lines {
			granted, err := uc.allocateLine(ctx, stockRepo, line)
			if err != nil {
				return err
			}
			outcome := entity.ClassifyOutcome(line.RequestedQty, granted)

			if granted.GreaterThan(decimal.Zero) {
				anyGranted = true
				if err := productRepo.DecrementStockMirror(ctx, line.ProductID, granted); err != nil {
					return err
				}
				entry := &entity.StockLedgerEntry{
					ID:        uuid.New().String(),
					ProductID: line.ProductID,
					QtyChange: granted.Neg(),
					Source:    entity.LedgerSourceStockRequest,
					Memo:      fmt.Sprintf("Salida por solicitud %s, ubicación %s", requestID, request.LocationName),
					CreatedAt: now,
					CreatedBy: userID,
				}
				if err := ledgerRepo.Append(ctx, entry); err != nil {
					return err
				}
			}

			if err := requestRepo.UpdateLineOutcome(ctx, line.ID, granted, outcome); err != nil {
				return err
			}
			results = append(results, dto.FulfillmentLineResponse{
				LineID:       line.ID,
				ProductID:    line.ProductID,
				RequestedQty: line.RequestedQty,
				GrantedQty:   granted,
				Outcome:      outcome,
			})
		}

		if anyGranted {
			finalStatus = entity.RequestStatusFulfilled
		}
		// Cierre condicionado: si otra atención ganó la carrera y la
		// solicitud ya es terminal, se aborta para revertir todo lo anterior.
		ok, err := requestRepo.UpdateStatusIfOpen(ctx, requestID, finalStatus)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyBestEffort(ctx, request, finalStatus, results)

	return &dto.FulfillmentResponse{
		RequestID: requestID,
		Status:    finalStatus,
		Lines:     results,
	}, nil
}

// allocateLine resuelve cuánto otorgar a una línea contra el stock disponible.
// Devuelve cero si no hay disponibilidad o si se agotaron los reintentos tras
// perder la carrera contra otra asignación concurrente. Un faltante es dato
// (resultado UNAVAILABLE), no error.
func (uc *FulfillStockRequestUseCase) allocateLine(
	ctx context.Context,
	stockRepo repository.StockRepository,
	line *entity.StockRequestLine,
) (decimal.Decimal, error) {
	desired := line.RequestedQty
	if line.ProvisionalQty != nil {
		desired = decimal.Min(line.RequestedQty, *line.ProvisionalQty)
	}
	if desired.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	for attempt := 0; attempt <= uc.maxRetries; attempt++ {
		stock, err := stockRepo.Get(ctx, line.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		if stock == nil {
			return decimal.Zero, nil
		}
		granted := decimal.Min(desired, stock.Quantity)
		if granted.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, nil
		}
		ok, err := stockRepo.DecrementIfAvailable(ctx, line.ProductID, granted)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			return granted, nil
		}
		// Carrera perdida contra otra asignación: el siguiente intento
		// relee el stock y recalcula.
		uc.log.Warn().
			Str("product_id", line.ProductID).
			Str("line_id", line.ID).
			Int("attempt", attempt+1).
			Msg("decremento condicionado sin efecto, reintentando")
	}
	return decimal.Zero, nil
}

// notifyBestEffort emite la notificación post-commit. Cualquier falla se
// registra y se descarta: la asignación ya confirmada nunca se revierte por
// un problema de mensajería.
func (uc *FulfillStockRequestUseCase) notifyBestEffort(
	ctx context.Context,
	request *entity.StockRequest,
	status string,
	lines []dto.FulfillmentLineResponse,
) {
	if uc.notifier == nil {
		return
	}
	n := dto.FulfillmentNotification{
		RequestID:    request.ID,
		RequesterID:  request.RequesterID,
		LocationName: request.LocationName,
		Status:       status,
		Lines:        lines,
	}
	if err := uc.notifier.NotifyFulfillment(ctx, n); err != nil {
		uc.log.Warn().
			Err(err).
			Str("request_id", request.ID).
			Msg("notificación de atención fallida (se descarta)")
	}
}

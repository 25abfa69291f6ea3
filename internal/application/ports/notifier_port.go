package ports

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/application/dto"
)

// FulfillmentNotifier colaborador externo de notificaciones. El envío es de
// mejor esfuerzo: un error aquí se registra en el log y jamás revierte ni
// falla la atención de la solicitud.
type FulfillmentNotifier interface {
	NotifyFulfillment(ctx context.Context, n dto.FulfillmentNotification) error
}

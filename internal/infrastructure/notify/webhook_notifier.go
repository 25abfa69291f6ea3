package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/ports"
)

// Verificar en tiempo de compilación que WebhookNotifier implementa FulfillmentNotifier.
var _ ports.FulfillmentNotifier = (*WebhookNotifier)(nil)

// WebhookNotifier adaptador que publica las notificaciones de atención como
// POST JSON a un webhook externo. Usa net/http de la librería estándar.
//
// El caso de uso trata la notificación como mejor esfuerzo: este adaptador
// solo reporta el error y nunca reintenta por su cuenta.
type WebhookNotifier struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewWebhookNotifier construye el adaptador.
// url vacía produce un notificador que falla con error descriptivo; el
// armado de la app debe omitir el notificador en ese caso.
func NewWebhookNotifier(url, token string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NotifyFulfillment publica el resumen de una atención al webhook configurado.
func (n *WebhookNotifier) NotifyFulfillment(ctx context.Context, msg dto.FulfillmentNotification) error {
	if n.url == "" {
		return fmt.Errorf("notify: NOTIFY_WEBHOOK_URL no configurado")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: serializar notificación: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: enviar webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: webhook respondió %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}

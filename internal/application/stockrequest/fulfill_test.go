package stockrequest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// ─────────────────────────────────────────────
// Dobles de prueba
// ─────────────────────────────────────────────

// fakeStockStore simula el contador de inventario con la misma semántica del
// almacén real: el decremento condicionado es atómico bajo mutex, pero la
// lectura previa y el decremento son operaciones separadas, así que la carrera
// leer-luego-restar existe igual que contra Postgres.
type fakeStockStore struct {
	mu  sync.Mutex
	qty map[string]decimal.Decimal
}

func newFakeStockStore(initial map[string]string) *fakeStockStore {
	qty := make(map[string]decimal.Decimal, len(initial))
	for id, q := range initial {
		qty[id] = decimal.RequireFromString(q)
	}
	return &fakeStockStore{qty: qty}
}

func (s *fakeStockStore) Get(_ context.Context, productID string) (*entity.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.qty[productID]
	if !ok {
		return nil, nil
	}
	return &entity.Stock{ProductID: productID, Quantity: q}, nil
}

func (s *fakeStockStore) DecrementIfAvailable(_ context.Context, productID string, qty decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.qty[productID]
	if !ok || current.LessThan(qty) {
		return false, nil
	}
	s.qty[productID] = current.Sub(qty)
	return true, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	request  *entity.StockRequest
	lines    []*entity.StockRequestLine
	statuses []string
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*entity.StockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.request == nil || r.request.ID != id {
		return nil, nil
	}
	cp := *r.request
	return &cp, nil
}

func (r *fakeRequestRepo) GetLines(_ context.Context, _ string) ([]*entity.StockRequestLine, error) {
	return r.lines, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, _, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.request.Status = status
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeRequestRepo) UpdateStatusIfOpen(_ context.Context, _, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.TerminalRequestStatus(r.request.Status) {
		return false, nil
	}
	r.request.Status = status
	r.statuses = append(r.statuses, status)
	return true, nil
}

func (r *fakeRequestRepo) UpdateReview(_ context.Context, _ string, expectedDeliveryAt *time.Time, message string) error {
	r.request.ExpectedDeliveryAt = expectedDeliveryAt
	r.request.MessageToRequester = message
	return nil
}

func (r *fakeRequestRepo) UpdateLineProvisional(_ context.Context, lineID string, provisionalQty decimal.Decimal, notes string) error {
	for _, l := range r.lines {
		if l.ID == lineID {
			q := provisionalQty
			l.ProvisionalQty = &q
			l.Notes = notes
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRequestRepo) UpdateLineOutcome(_ context.Context, lineID string, grantedQty decimal.Decimal, outcome string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if l.ID == lineID {
			q := grantedQty
			l.GrantedQty = &q
			l.Outcome = outcome
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeProductRepo struct {
	mu         sync.Mutex
	decrements map[string]decimal.Decimal
}

func (r *fakeProductRepo) GetByID(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) DecrementStockMirror(_ context.Context, productID string, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.decrements == nil {
		r.decrements = make(map[string]decimal.Decimal)
	}
	r.decrements[productID] = r.decrements[productID].Add(qty)
	return nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*entity.StockLedgerEntry
}

func (r *fakeLedgerRepo) Append(_ context.Context, e *entity.StockLedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeLedgerRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockLedgerEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeFulfillTxRunner ejecuta fn directo contra los fakes; la atomicidad real
// la cubren las pruebas de integración del almacén.
type fakeFulfillTxRunner struct {
	requestRepo repository.StockRequestRepository
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
	ledgerRepo  repository.StockLedgerRepository
}

func (t *fakeFulfillTxRunner) RunFulfillment(_ context.Context, fn func(
	repository.StockRequestRepository,
	repository.StockRepository,
	repository.ProductRepository,
	repository.StockLedgerRepository,
) error) error {
	return fn(t.requestRepo, t.stockRepo, t.productRepo, t.ledgerRepo)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []dto.FulfillmentNotification
	err   error
}

func (n *fakeNotifier) NotifyFulfillment(_ context.Context, msg dto.FulfillmentNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, msg)
	return n.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fulfillFixture struct {
	uc       *FulfillStockRequestUseCase
	request  *fakeRequestRepo
	stock    *fakeStockStore
	products *fakeProductRepo
	ledger   *fakeLedgerRepo
	notifier *fakeNotifier
}

func newFulfillFixture(request *entity.StockRequest, lines []*entity.StockRequestLine, stock *fakeStockStore, maxRetries int) *fulfillFixture {
	requestRepo := &fakeRequestRepo{request: request, lines: lines}
	products := &fakeProductRepo{}
	ledger := &fakeLedgerRepo{}
	notifier := &fakeNotifier{}
	tx := &fakeFulfillTxRunner{
		requestRepo: requestRepo,
		stockRepo:   stock,
		productRepo: products,
		ledgerRepo:  ledger,
	}
	return &fulfillFixture{
		uc:       NewFulfillStockRequestUseCase(tx, requestRepo, notifier, testLogger(), maxRetries),
		request:  requestRepo,
		stock:    stock,
		products: products,
		ledger:   ledger,
		notifier: notifier,
	}
}

func pendingRequest(id string) *entity.StockRequest {
	return &entity.StockRequest{
		ID:           id,
		RequesterID:  "user-sede",
		LocationName: "Sede Norte",
		Status:       entity.RequestStatusPending,
	}
}

// ─────────────────────────────────────────────
// Atención de solicitudes
// ─────────────────────────────────────────────

func TestFulfill_OtorgadoCompleto(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("4")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusFulfilled, resp.Status)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, entity.OutcomeGranted, resp.Lines[0].Outcome)
	assert.True(t, resp.Lines[0].GrantedQty.Equal(dec("4")))

	// El stock bajó y el espejo del producto registró lo mismo.
	remaining, _ := stock.Get(context.Background(), "prod-1")
	assert.True(t, remaining.Quantity.Equal(dec("6")))
	assert.True(t, fx.products.decrements["prod-1"].Equal(dec("4")))
}

func TestFulfill_AjustadoPorStockInsuficiente(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "3"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("10")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusFulfilled, resp.Status)
	assert.Equal(t, entity.OutcomeAdjusted, resp.Lines[0].Outcome)
	assert.True(t, resp.Lines[0].GrantedQty.Equal(dec("3")))

	remaining, _ := stock.Get(context.Background(), "prod-1")
	assert.True(t, remaining.Quantity.IsZero())
}

func TestFulfill_SinStock_TodoNoDisponible(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "0"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("5")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)

	// Ninguna línea otorgó: la solicitud termina CANCELLED y no hay
	// escrituras de inventario ni de libro.
	assert.Equal(t, entity.RequestStatusCancelled, resp.Status)
	assert.Equal(t, entity.OutcomeUnavailable, resp.Lines[0].Outcome)
	assert.True(t, resp.Lines[0].GrantedQty.IsZero())
	assert.Empty(t, fx.ledger.entries)
	assert.Empty(t, fx.products.decrements)
}

func TestFulfill_ProductoInexistente_NoDisponible(t *testing.T) {
	stock := newFakeStockStore(nil)
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-x", RequestedQty: dec("5")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeUnavailable, resp.Lines[0].Outcome)
}

func TestFulfill_RespetaProvisionalDeRevision(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		// La revisión rebajó 8 a 5: la meta es min(solicitado, provisional).
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("8"), ProvisionalQty: decPtr("5")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)

	// Otorgó 5 de 8 solicitadas: ADJUSTED aunque hubiera stock para más.
	assert.Equal(t, entity.OutcomeAdjusted, resp.Lines[0].Outcome)
	assert.True(t, resp.Lines[0].GrantedQty.Equal(dec("5")))
	remaining, _ := stock.Get(context.Background(), "prod-1")
	assert.True(t, remaining.Quantity.Equal(dec("5")))
}

func TestFulfill_ProvisionalCero_NoEscribeNada(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("8"), ProvisionalQty: decPtr("0")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeUnavailable, resp.Lines[0].Outcome)
	assert.Empty(t, fx.ledger.entries)
	remaining, _ := stock.Get(context.Background(), "prod-1")
	assert.True(t, remaining.Quantity.Equal(dec("10")))
}

func TestFulfill_LineasMixtas(t *testing.T) {
	stock := newFakeStockStore(map[string]string{
		"prod-1": "10",
		"prod-2": "2",
		"prod-3": "0",
	})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("4")},
		{ID: "line-2", RequestID: "req-1", ProductID: "prod-2", RequestedQty: dec("5")},
		{ID: "line-3", RequestID: "req-1", ProductID: "prod-3", RequestedQty: dec("1")},
	}, stock, 1)

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusFulfilled, resp.Status)
	assert.Equal(t, entity.OutcomeGranted, resp.Lines[0].Outcome)
	assert.Equal(t, entity.OutcomeAdjusted, resp.Lines[1].Outcome)
	assert.Equal(t, entity.OutcomeUnavailable, resp.Lines[2].Outcome)

	// Solo las líneas que otorgaron asientan en el libro, con cantidad
	// negativa, origen y actor.
	require.Len(t, fx.ledger.entries, 2)
	for _, e := range fx.ledger.entries {
		assert.True(t, e.QtyChange.IsNegative())
		assert.Equal(t, entity.LedgerSourceStockRequest, e.Source)
		assert.Equal(t, "user-admin", e.CreatedBy)
		assert.Contains(t, e.Memo, "Sede Norte")
	}
}

func TestFulfill_SolicitudInexistente(t *testing.T) {
	fx := newFulfillFixture(pendingRequest("req-1"), nil, newFakeStockStore(nil), 1)

	_, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFulfill_SolicitudTerminal_Conflicto(t *testing.T) {
	req := pendingRequest("req-1")
	req.Status = entity.RequestStatusFulfilled
	fx := newFulfillFixture(req, nil, newFakeStockStore(nil), 1)

	_, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFulfill_SinLineas_EntradaInvalida(t *testing.T) {
	fx := newFulfillFixture(pendingRequest("req-1"), nil, newFakeStockStore(nil), 1)

	_, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFulfill_NotificacionFallida_NoRompeLaAtencion(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("4")},
	}, stock, 1)
	fx.notifier.err = errors.New("webhook caído")

	resp, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusFulfilled, resp.Status)
	assert.Len(t, fx.notifier.calls, 1)
}

func TestFulfill_NotificaResumenCompleto(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	fx := newFulfillFixture(pendingRequest("req-1"), []*entity.StockRequestLine{
		{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("4")},
	}, stock, 1)

	_, err := fx.uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)

	require.Len(t, fx.notifier.calls, 1)
	n := fx.notifier.calls[0]
	assert.Equal(t, "req-1", n.RequestID)
	assert.Equal(t, "user-sede", n.RequesterID)
	assert.Equal(t, "Sede Norte", n.LocationName)
	assert.Equal(t, entity.RequestStatusFulfilled, n.Status)
	require.Len(t, n.Lines, 1)
}

// ─────────────────────────────────────────────
// Concurrencia
// ─────────────────────────────────────────────

func TestFulfill_DosAtencionesConcurrentes_SoloUnaGana(t *testing.T) {
	// Stock 5, dos solicitudes de 5 atendidas a la vez: bajo cualquier
	// intercalado exactamente una termina GRANTED(5) y la otra UNAVAILABLE(0),
	// porque el decremento condicionado solo deja pasar a quien alcanza y la
	// perdedora relee cero en su reintento. El stock nunca baja de cero.
	stock := newFakeStockStore(map[string]string{"prod-1": "5"})

	mkFixture := func(reqID string) *fulfillFixture {
		requestRepo := &fakeRequestRepo{
			request: pendingRequest(reqID),
			lines: []*entity.StockRequestLine{
				{ID: reqID + "-line", RequestID: reqID, ProductID: "prod-1", RequestedQty: dec("5")},
			},
		}
		products := &fakeProductRepo{}
		ledger := &fakeLedgerRepo{}
		tx := &fakeFulfillTxRunner{
			requestRepo: requestRepo,
			stockRepo:   stock,
			productRepo: products,
			ledgerRepo:  ledger,
		}
		return &fulfillFixture{
			uc:      NewFulfillStockRequestUseCase(tx, requestRepo, &fakeNotifier{}, testLogger(), 1),
			request: requestRepo,
			ledger:  ledger,
		}
	}

	fxA := mkFixture("req-a")
	fxB := mkFixture("req-b")

	var wg sync.WaitGroup
	results := make([]*dto.FulfillmentResponse, 2)
	errs := make([]error, 2)
	run := func(i int, fx *fulfillFixture, reqID string) {
		defer wg.Done()
		results[i], errs[i] = fx.uc.Fulfill(context.Background(), "user-admin", reqID)
	}
	wg.Add(2)
	go run(0, fxA, "req-a")
	go run(1, fxB, "req-b")
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	granted, unavailable := 0, 0
	for _, r := range results {
		switch r.Lines[0].Outcome {
		case entity.OutcomeGranted:
			granted++
			assert.True(t, r.Lines[0].GrantedQty.Equal(dec("5")))
			assert.Equal(t, entity.RequestStatusFulfilled, r.Status)
		case entity.OutcomeUnavailable:
			unavailable++
			assert.True(t, r.Lines[0].GrantedQty.IsZero())
			assert.Equal(t, entity.RequestStatusCancelled, r.Status)
		}
	}
	assert.Equal(t, 1, granted, "exactamente una atención debe otorgar")
	assert.Equal(t, 1, unavailable, "la otra debe quedar sin disponibilidad")

	remaining, _ := stock.Get(context.Background(), "prod-1")
	assert.False(t, remaining.Quantity.IsNegative(), "el stock nunca queda negativo")
	assert.True(t, remaining.Quantity.IsZero())
}

// serialFulfillTxRunner ejecuta las transacciones una a la vez, como lo hace
// el bloqueo de fila del almacén real: la segunda atención de la misma
// solicitud solo arranca cuando la primera ya confirmó su estado.
type serialFulfillTxRunner struct {
	mu    sync.Mutex
	inner *fakeFulfillTxRunner
}

func (t *serialFulfillTxRunner) RunFulfillment(ctx context.Context, fn func(
	repository.StockRequestRepository,
	repository.StockRepository,
	repository.ProductRepository,
	repository.StockLedgerRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.RunFulfillment(ctx, fn)
}

func TestFulfill_MismaSolicitudDosVeces_SoloUnaAtiende(t *testing.T) {
	// Dos atenciones simultáneas de la MISMA solicitud: ambas pasan el chequeo
	// previo porque ninguna confirmó todavía, pero dentro de la transacción la
	// relectura y el cierre condicionado dejan pasar exactamente a una. La
	// perdedora recibe ErrConflict y el inventario se drena una sola vez.
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	requestRepo := &fakeRequestRepo{
		request: pendingRequest("req-1"),
		lines: []*entity.StockRequestLine{
			{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("5")},
		},
	}
	ledger := &fakeLedgerRepo{}
	tx := &serialFulfillTxRunner{inner: &fakeFulfillTxRunner{
		requestRepo: requestRepo,
		stockRepo:   stock,
		productRepo: &fakeProductRepo{},
		ledgerRepo:  ledger,
	}}
	ucA := NewFulfillStockRequestUseCase(tx, requestRepo, &fakeNotifier{}, testLogger(), 1)
	ucB := NewFulfillStockRequestUseCase(tx, requestRepo, &fakeNotifier{}, testLogger(), 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = ucA.Fulfill(context.Background(), "user-a", "req-1") }()
	go func() { defer wg.Done(); _, errs[1] = ucB.Fulfill(context.Background(), "user-b", "req-1") }()
	wg.Wait()

	okCount, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una atención debe completarse")
	assert.Equal(t, 1, conflicts, "la otra debe encontrar la solicitud ya finalizada")

	// El stock bajó una sola vez, hay un único asiento y el estado terminal
	// se escribió una única vez.
	remaining, _ := stock.Get(context.Background(), "prod-1")
	assert.True(t, remaining.Quantity.Equal(dec("5")))
	assert.Len(t, ledger.entries, 1)
	assert.Equal(t, []string{entity.RequestStatusFulfilled}, requestRepo.statuses)
}

// closingRequestRepo finaliza la solicitud por fuera al leer las líneas,
// simulando una atención rival que confirma después de la relectura pero
// antes del cierre.
type closingRequestRepo struct {
	*fakeRequestRepo
	once sync.Once
}

func (r *closingRequestRepo) GetLines(ctx context.Context, requestID string) ([]*entity.StockRequestLine, error) {
	r.once.Do(func() {
		_ = r.fakeRequestRepo.UpdateStatus(ctx, requestID, entity.RequestStatusFulfilled)
	})
	return r.fakeRequestRepo.GetLines(ctx, requestID)
}

func TestFulfill_CierreCondicionado_DetectaFinalizacionAjena(t *testing.T) {
	stock := newFakeStockStore(map[string]string{"prod-1": "10"})
	base := &fakeRequestRepo{
		request: pendingRequest("req-1"),
		lines: []*entity.StockRequestLine{
			{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("5")},
		},
	}
	repo := &closingRequestRepo{fakeRequestRepo: base}
	tx := &fakeFulfillTxRunner{
		requestRepo: repo,
		stockRepo:   stock,
		productRepo: &fakeProductRepo{},
		ledgerRepo:  &fakeLedgerRepo{},
	}
	uc := NewFulfillStockRequestUseCase(tx, repo, &fakeNotifier{}, testLogger(), 1)

	_, err := uc.Fulfill(context.Background(), "user-admin", "req-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El cierre condicionado no sobreescribió el estado terminal ajeno.
	assert.Equal(t, []string{entity.RequestStatusFulfilled}, base.statuses)
}

// loserStockStore hace fallar el decremento las primeras n veces para
// verificar el reintento acotado.
type loserStockStore struct {
	*fakeStockStore
	mu        sync.Mutex
	failFirst int
	attempts  int
}

func (s *loserStockStore) DecrementIfAvailable(ctx context.Context, productID string, qty decimal.Decimal) (bool, error) {
	s.mu.Lock()
	s.attempts++
	deny := s.attempts <= s.failFirst
	s.mu.Unlock()
	if deny {
		return false, nil
	}
	return s.fakeStockStore.DecrementIfAvailable(ctx, productID, qty)
}

func TestFulfill_ReintentoAcotado_GanaEnElSegundoIntento(t *testing.T) {
	base := newFakeStockStore(map[string]string{"prod-1": "5"})
	stock := &loserStockStore{fakeStockStore: base, failFirst: 1}

	requestRepo := &fakeRequestRepo{
		request: pendingRequest("req-1"),
		lines: []*entity.StockRequestLine{
			{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("5")},
		},
	}
	tx := &fakeFulfillTxRunner{
		requestRepo: requestRepo,
		stockRepo:   stock,
		productRepo: &fakeProductRepo{},
		ledgerRepo:  &fakeLedgerRepo{},
	}
	uc := NewFulfillStockRequestUseCase(tx, requestRepo, &fakeNotifier{}, testLogger(), 1)

	resp, err := uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeGranted, resp.Lines[0].Outcome)
	assert.Equal(t, 2, stock.attempts)
}

func TestFulfill_ReintentosAgotados_NoDisponible(t *testing.T) {
	base := newFakeStockStore(map[string]string{"prod-1": "5"})
	stock := &loserStockStore{fakeStockStore: base, failFirst: 10}

	requestRepo := &fakeRequestRepo{
		request: pendingRequest("req-1"),
		lines: []*entity.StockRequestLine{
			{ID: "line-1", RequestID: "req-1", ProductID: "prod-1", RequestedQty: dec("5")},
		},
	}
	tx := &fakeFulfillTxRunner{
		requestRepo: requestRepo,
		stockRepo:   stock,
		productRepo: &fakeProductRepo{},
		ledgerRepo:  &fakeLedgerRepo{},
	}
	uc := NewFulfillStockRequestUseCase(tx, requestRepo, &fakeNotifier{}, testLogger(), 2)

	resp, err := uc.Fulfill(context.Background(), "user-admin", "req-1")
	require.NoError(t, err)
	// maxRetries=2 son tres intentos en total; agotados, la línea cede.
	assert.Equal(t, entity.OutcomeUnavailable, resp.Lines[0].Outcome)
	assert.Equal(t, 3, stock.attempts)

	remaining, _ := base.Get(context.Background(), "prod-1")
	assert.True(t, remaining.Quantity.Equal(dec("5")))
}

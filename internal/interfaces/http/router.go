package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Compras-api/internal/application/matching"
	"github.com/jhoicas/Compras-api/internal/application/stockrequest"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateMatch    *matching.CreateMatchUseCase
	PaymentSummary *matching.PaymentSummaryUseCase
	MatchReport    *matching.MatchReportUseCase
	ReviewRequest  *stockrequest.ReviewStockRequestUseCase
	FulfillRequest *stockrequest.FulfillStockRequestUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Conciliaciones a tres vías (protegido)
	matches := protected.Group("/matches")
	matchHandler := NewMatchHandler(deps.CreateMatch, deps.PaymentSummary, deps.MatchReport)
	matches.Post("/", RequireRole("admin", "comprador"), matchHandler.Create)
	matches.Get("/:id", matchHandler.GetByID)
	matches.Put("/:id/status", RequireRole("admin", "comprador"), matchHandler.UpdateStatus)
	matches.Get("/:id/pdf", matchHandler.GetPDF)

	// Resumen de pagos (protegido)
	protected.Get("/purchase-orders/:id/payment-summary", matchHandler.GetPaymentSummary)
	protected.Get("/payment-summary", matchHandler.GetGlobalPaymentSummary)

	// Solicitudes de stock (protegido)
	requests := protected.Group("/stock-requests")
	requestHandler := NewStockRequestHandler(deps.ReviewRequest, deps.FulfillRequest)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Put("/:id/review", RequireRole("admin", "almacenista"), requestHandler.Review)
	requests.Post("/:id/fulfill", RequireRole("admin", "almacenista"), requestHandler.Fulfill)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Compras-api/internal/application/matching"
	"github.com/jhoicas/Compras-api/internal/application/ports"
	"github.com/jhoicas/Compras-api/internal/application/stockrequest"
	"github.com/jhoicas/Compras-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Compras-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Compras-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Compras-api/internal/interfaces/http"
	"github.com/jhoicas/Compras-api/pkg/config"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	poRepo := postgres.NewPurchaseOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	grnRepo := postgres.NewGoodsReceiptRepository(pool)
	matchRepo := postgres.NewMatchRepository(pool)
	summaryRepo := postgres.NewPaymentSummaryRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	createMatchUC := matching.NewCreateMatchUseCase(
		txRunner, poRepo, invoiceRepo, grnRepo, matchRepo, cfg.Match.StrictLinks,
	)
	paymentSummaryUC := matching.NewPaymentSummaryUseCase(summaryRepo, poRepo)

	// PDF: acta imprimible de la conciliación
	pdfGenerator := infrapdf.NewMarotoMatchReportGenerator()
	matchReportUC := matching.NewMatchReportUseCase(
		matchRepo, poRepo, invoiceRepo, grnRepo, pdfGenerator,
	)

	// Webhook saliente; URL vacía desactiva las notificaciones.
	var notifier ports.FulfillmentNotifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(
			cfg.Notify.WebhookURL,
			cfg.Notify.Token,
			time.Duration(cfg.Notify.TimeoutSeconds)*time.Second,
		)
	}

	reviewUC := stockrequest.NewReviewStockRequestUseCase(txRunner, requestRepo)
	fulfillUC := stockrequest.NewFulfillStockRequestUseCase(
		txRunner, requestRepo, notifier, log, cfg.Fulfill.MaxRetries,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateMatch:    createMatchUC,
		PaymentSummary: paymentSummaryUC,
		MatchReport:    matchReportUC,
		ReviewRequest:  reviewUC,
		FulfillRequest: fulfillUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

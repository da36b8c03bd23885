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

	"github.com/lojaflex/lojaflex-api/internal/application/fulfillment"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/application/reporting"
	"github.com/lojaflex/lojaflex-api/internal/application/usecase"
	"github.com/lojaflex/lojaflex-api/internal/infrastructure/payment"
	infrapdf "github.com/lojaflex/lojaflex-api/internal/infrastructure/pdf"
	"github.com/lojaflex/lojaflex-api/internal/infrastructure/postgres"
	httpRouter "github.com/lojaflex/lojaflex-api/internal/interfaces/http"
	"github.com/lojaflex/lojaflex-api/pkg/config"
	"github.com/lojaflex/lojaflex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	expiryRepo := postgres.NewExpiryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	batchUC := inventory.NewBatchUseCase(txRunner, productRepo, batchRepo)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner)
	historyUC := inventory.NewHistoryUseCase(productRepo, movementRepo)
	productUC := usecase.NewProductUseCase(productRepo, batchUC, txRunner)
	expiryUC := reporting.NewExpiryUseCase(expiryRepo)

	// Gateway de pagamento: BaseURL vazio deixa a cobrança desativada e os
	// pedidos ficam PENDING.
	var gateway fulfillment.PaymentGateway
	if cfg.Payment.BaseURL != "" {
		gateway = payment.NewClient(payment.Config{
			BaseURL: cfg.Payment.BaseURL,
			APIKey:  cfg.Payment.APIKey,
			Timeout: time.Duration(cfg.Payment.TimeoutSeconds) * time.Second,
		})
	} else {
		log.Warn().Msg("PAYMENT_BASE_URL vazio: cobrança online desativada")
	}

	createOrderUC := fulfillment.NewCreateOrderUseCase(
		txRunner, batchUC, productRepo, customerRepo, orderRepo, gateway,
	)

	receiptGen := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	receiptUC := fulfillment.NewReceiptUseCase(orderRepo, customerRepo, receiptGen)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Lojaflex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		BatchUC:     batchUC,
		AdjustUC:    adjustUC,
		HistoryUC:   historyUC,
		CreateOrder: createOrderUC,
		ReceiptUC:   receiptUC,
		ExpiryUC:    expiryUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}

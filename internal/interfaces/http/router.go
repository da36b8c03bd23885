package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lojaflex/lojaflex-api/internal/application/fulfillment"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/application/reporting"
	"github.com/lojaflex/lojaflex-api/internal/application/usecase"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	BatchUC     *inventory.BatchUseCase
	AdjustUC    *inventory.AdjustStockUseCase
	HistoryUC   *inventory.HistoryUseCase
	CreateOrder *fulfillment.CreateOrderUseCase
	ReceiptUC   *fulfillment.ReceiptUseCase
	ExpiryUC    *reporting.ExpiryUseCase
	JWTSecret   string
}

// Router registra as rotas da API. Todas as rotas exigem Bearer Token; as
// operações de escrita de inventário exigem role admin ou operador.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole("admin", "operador")

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.BatchUC, deps.AdjustUC, deps.HistoryUC)
	expiryHandler := NewExpiryHandler(deps.ExpiryUC)
	products.Post("/", staff, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)
	products.Get("/:id/batches", inventoryHandler.ListBatches)
	products.Get("/:id/movements", inventoryHandler.ListMovements)
	products.Get("/:id/next-expiry", expiryHandler.NextExpiry)

	// Inventory (lotes, baixas e ajustes)
	invGroup := protected.Group("/inventory", staff)
	invGroup.Post("/batches", inventoryHandler.CreateBatch)
	invGroup.Delete("/batches/:id", inventoryHandler.DeleteBatch)
	invGroup.Post("/consume", inventoryHandler.Consume)
	invGroup.Post("/adjust", inventoryHandler.AdjustStock)

	// Orders (checkout da vitrine)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.ReceiptUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Expiry (relatório de validade)
	expiry := protected.Group("/expiry")
	expiry.Get("/products", expiryHandler.ListExpiring)
	expiry.Get("/stats", expiryHandler.Stats)
}

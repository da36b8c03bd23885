// seed popula o banco com uma loja de demonstração: produtos perecíveis e não
// perecíveis, lotes com validades escalonadas e um ajuste de exemplo.
//
// Uso: go run ./cmd/seed
// SEED_STORE_ID e SEED_USER_ID podem sobrescrever os IDs padrão.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/application/usecase"
	"github.com/lojaflex/lojaflex-api/internal/infrastructure/postgres"
	"github.com/lojaflex/lojaflex-api/pkg/config"
)

const (
	defaultStoreID = "00000000-0000-0000-0000-0000000000aa"
	defaultUserID  = "00000000-0000-0000-0000-0000000000ab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("carregar configuração: %v", err)
	}

	storeID := envOr("SEED_STORE_ID", defaultStoreID)
	userID := envOr("SEED_USER_ID", defaultUserID)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexão ao PostgreSQL: %v", err)
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	batchUC := inventory.NewBatchUseCase(txRunner, productRepo, batchRepo)
	productUC := usecase.NewProductUseCase(productRepo, batchUC, txRunner)

	now := time.Now()
	in7 := now.AddDate(0, 0, 7)
	in30 := now.AddDate(0, 0, 30)
	in90 := now.AddDate(0, 0, 90)

	type seedProduct struct {
		req     dto.CreateProductRequest
		batches []dto.CreateBatchRequest
	}

	cost := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}

	seeds := []seedProduct{
		{
			req: dto.CreateProductRequest{
				SKU: "IOG-NAT-170", Name: "Iogurte natural 170g",
				Price: decimal.RequireFromString("4.50"), IsPerishable: true,
			},
			batches: []dto.CreateBatchRequest{
				{Quantity: decimal.NewFromInt(40), ExpiresAt: in7, UnitCost: cost("2.10")},
				{Quantity: decimal.NewFromInt(60), ExpiresAt: in30, UnitCost: cost("2.00")},
			},
		},
		{
			req: dto.CreateProductRequest{
				SKU: "QJO-MIN-500", Name: "Queijo minas 500g",
				Price: decimal.RequireFromString("24.90"), IsPerishable: true,
			},
			batches: []dto.CreateBatchRequest{
				{Quantity: decimal.NewFromInt(15), ExpiresAt: in7, UnitCost: cost("14.00")},
				{Quantity: decimal.NewFromInt(20), ExpiresAt: in90, UnitCost: cost("13.50")},
			},
		},
		{
			req: dto.CreateProductRequest{
				SKU: "ARZ-INT-1KG", Name: "Arroz integral 1kg",
				Price:        decimal.RequireFromString("8.90"),
				InitialStock: decimal.NewFromInt(120), UnitCost: cost("5.20"),
			},
		},
		{
			req: dto.CreateProductRequest{
				SKU: "CAF-TOR-250", Name: "Café torrado 250g",
				Price:        decimal.RequireFromString("15.90"),
				InitialStock: decimal.NewFromInt(80), UnitCost: cost("9.80"),
			},
		},
	}

	for _, s := range seeds {
		product, err := productUC.Create(ctx, storeID, userID, s.req)
		if err != nil {
			fail("criar produto %s: %v", s.req.SKU, err)
		}
		fmt.Printf("produto %s criado (%s)\n", product.SKU, product.ID)

		for _, b := range s.batches {
			b.ProductID = product.ID
			batch, err := batchUC.CreateBatch(ctx, storeID, userID, b)
			if err != nil {
				fail("criar lote de %s: %v", s.req.SKU, err)
			}
			fmt.Printf("  lote %s: %s un. validade %s\n",
				batch.ID, batch.Quantity.String(), batch.ExpiresAt.Format("02/01/2006"))
		}
	}

	fmt.Printf("seed concluído para a loja %s\n", storeID)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Package usecase contém os casos de uso CRUD do catálogo.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// ProductUseCase CRUD de produtos. Saldo e custo nunca são editados por aqui:
// toda variação passa pelo motor de estoque (lotes, ajuste, pedidos).
type ProductUseCase struct {
	productRepo repository.ProductRepository
	batches     *inventory.BatchUseCase
	txRunner    inventory.TxRunner
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, batches *inventory.BatchUseCase, txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, batches: batches, txRunner: txRunner}
}

// Create cria o produto com saldo zero. Estoque inicial, quando informado,
// entra pelo motor de estoque: perecível com validade vira lote; caso
// contrário entra como movimento IN plano.
func (uc *ProductUseCase) Create(ctx context.Context, storeID, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.InitialStock.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		StoreID:      storeID,
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Cost:         decimal.Zero,
		Stock:        decimal.Zero,
		IsPerishable: in.IsPerishable,
		ExpiresAt:    in.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialStock.GreaterThan(decimal.Zero) {
		if in.IsPerishable && in.ExpiresAt != nil {
			_, err := uc.batches.CreateBatch(ctx, storeID, actorID, dto.CreateBatchRequest{
				ProductID: product.ID,
				Quantity:  in.InitialStock,
				ExpiresAt: *in.ExpiresAt,
				UnitCost:  in.UnitCost,
			})
			if err != nil {
				return nil, err
			}
		} else if err := uc.enterInitialStock(ctx, storeID, actorID, product.ID, in.InitialStock, in.UnitCost); err != nil {
			return nil, err
		}
	}

	created, err := uc.productRepo.GetByID(product.ID)
	if err != nil {
		return nil, err
	}
	return productToDTO(created), nil
}

// enterInitialStock grava a entrada plana do estoque inicial (movimento IN).
func (uc *ProductUseCase) enterInitialStock(ctx context.Context, storeID, actorID, productID string, qty decimal.Decimal, unitCost *decimal.Decimal) error {
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := productRepo.UpdateStock(productID, product.Stock.Add(qty)); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ProductID: productID,
			Type:      entity.MovementTypeIN,
			Quantity:  qty,
			UnitPrice: unitCost,
			Reason:    "Estoque inicial",
			CreatedAt: time.Now(),
			CreatedBy: actorID,
		}
		if unitCost != nil {
			mov.TotalValue = unitCost.Mul(qty)
		}
		return movRepo.Create(mov)
	})
}

// GetByID devolve o produto ou nil se não existe.
func (uc *ProductUseCase) GetByID(storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return productToDTO(product), nil
}

// List lista produtos da loja com paginação.
func (uc *ProductUseCase) List(storeID string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *productToDTO(p))
	}
	return out, nil
}

// Update atualiza os campos editáveis do produto.
func (uc *ProductUseCase) Update(storeID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.IsPerishable = in.IsPerishable
	product.ExpiresAt = in.ExpiresAt
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return productToDTO(product), nil
}

func productToDTO(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		Stock:        p.Stock,
		IsPerishable: p.IsPerishable,
		ExpiresAt:    p.ExpiresAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

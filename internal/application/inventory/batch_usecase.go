package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	dominv "github.com/lojaflex/lojaflex-api/internal/domain/inventory"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// BatchUseCase implementa o registro de lotes de validade: entrada, listagem
// FEFO, consumo FEFO e remoção manual. Toda mutação roda em transação com
// bloqueio de linha (SELECT FOR UPDATE) e Commit/Rollback.
type BatchUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
}

// NewBatchUseCase constrói o caso de uso.
func NewBatchUseCase(txRunner TxRunner, productRepo repository.ProductRepository, batchRepo repository.BatchRepository) *BatchUseCase {
	return &BatchUseCase{txRunner: txRunner, productRepo: productRepo, batchRepo: batchRepo}
}

// CreateBatch registra a entrada de um lote: cria o lote com
// initial_qty = quantity, soma na projeção de saldo do produto, atualiza o
// custo médio quando há custo informado e grava o movimento IN, tudo em uma
// transação.
func (uc *BatchUseCase) CreateBatch(ctx context.Context, storeID, actorID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.ProductID == "" || in.ExpiresAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var out *dto.BatchResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.StoreID != storeID {
			return domain.ErrForbidden
		}

		now := time.Now()
		batch := &entity.Batch{
			ID:         uuid.New().String(),
			StoreID:    storeID,
			ProductID:  product.ID,
			Quantity:   in.Quantity,
			InitialQty: in.Quantity,
			ExpiresAt:  in.ExpiresAt,
			UnitCost:   in.UnitCost,
			CreatedAt:  now,
		}
		if err := batchRepo.Create(batch); err != nil {
			return err
		}

		if in.UnitCost != nil {
			newCost := dominv.CostCalculator(product.Stock, product.Cost, in.Quantity, *in.UnitCost)
			if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
				return err
			}
		}

		newStock := product.Stock.Add(in.Quantity)
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ProductID: product.ID,
			Type:      entity.MovementTypeIN,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitCost,
			Reason:    fmt.Sprintf("Entrada de lote (validade %s)", in.ExpiresAt.Format("02/01/2006")),
			CreatedAt: now,
			CreatedBy: actorID,
		}
		if in.UnitCost != nil {
			mov.TotalValue = in.UnitCost.Mul(in.Quantity)
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		out = batchToDTO(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveBatches devolve os lotes com saldo do produto em ordem FEFO
// (validade mais próxima primeiro; empates pelo momento de criação).
func (uc *BatchUseCase) ListActiveBatches(storeID, productID string) ([]dto.BatchResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	batches, err := uc.batchRepo.ListActive(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, *batchToDTO(b))
	}
	return out, nil
}

// ConsumeFEFO baixa quantity do produto consumindo lotes em ordem FEFO, em
// uma transação: bloqueia o produto e os lotes, planeja o consumo, decrementa
// cada lote tocado, aplica um único decremento na projeção e grava um
// movimento OUT de -quantity com o detalhamento por lote. Saldo agregado
// menor que o pedido aborta tudo com InsufficientStockError.
func (uc *BatchUseCase) ConsumeFEFO(ctx context.Context, storeID, actorID string, in dto.ConsumeRequest) error {
	if in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.StoreID != storeID {
			return domain.ErrForbidden
		}
		reason := in.Reason
		if reason == "" {
			reason = "Baixa FEFO"
		}
		return uc.DrawDownInTx(productRepo, batchRepo, movRepo, product, actorID, in.Quantity, nil, reason, nil, time.Now())
	})
}

// DrawDownInTx baixa o estoque de um produto usando os repositórios do caller
// (mesma transação): consumo FEFO quando o produto é perecível e tem lotes
// ativos, decremento plano caso contrário. O produto já deve estar bloqueado
// (GetForUpdate). Usado pelo consumo manual e pelo coordenador de pedidos.
func (uc *BatchUseCase) DrawDownInTx(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
	product *entity.Product,
	actorID string,
	quantity decimal.Decimal,
	unitPrice *decimal.Decimal,
	reason string,
	orderID *string,
	now time.Time,
) error {
	if product.Stock.LessThan(quantity) {
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}
	}

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		StoreID:   product.StoreID,
		ProductID: product.ID,
		OrderID:   orderID,
		Type:      entity.MovementTypeOUT,
		Quantity:  quantity.Neg(),
		UnitPrice: unitPrice,
		Reason:    reason,
		CreatedAt: now,
		CreatedBy: actorID,
	}
	if unitPrice != nil {
		mov.TotalValue = unitPrice.Mul(quantity)
	}

	batches, err := batchRepo.ListActiveForUpdate(product.ID)
	if err != nil {
		return err
	}
	if product.IsPerishable && len(batches) > 0 {
		plan, err := dominv.PlanConsumption(batches, quantity)
		if err != nil {
			if err == domain.ErrInsufficientStock {
				// Projeção dizia que havia saldo, mas os lotes não cobrem:
				// aborta do mesmo jeito, apontando o produto.
				return &domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   quantity,
					Available:   sumBatches(batches),
				}
			}
			return err
		}
		byID := make(map[string]*entity.Batch, len(batches))
		for _, b := range batches {
			byID[b.ID] = b
		}
		var parts []string
		for _, draw := range plan {
			b := byID[draw.BatchID]
			if err := batchRepo.UpdateQuantity(b.ID, b.Quantity.Sub(draw.Quantity)); err != nil {
				return err
			}
			mov.Batches = append(mov.Batches, entity.MovementBatch{
				ID:         uuid.New().String(),
				MovementID: mov.ID,
				BatchID:    draw.BatchID,
				Quantity:   draw.Quantity,
				ExpiresAt:  draw.ExpiresAt,
			})
			parts = append(parts, fmt.Sprintf("%s un. val. %s", draw.Quantity.String(), draw.ExpiresAt.Format("02/01/2006")))
		}
		mov.Reason = fmt.Sprintf("%s (lotes: %s)", reason, strings.Join(parts, "; "))
	}

	// Um único decremento na projeção, pela quantidade original.
	if err := productRepo.UpdateStock(product.ID, product.Stock.Sub(quantity)); err != nil {
		return err
	}
	return movRepo.Create(mov)
}

// DeleteBatch remove fisicamente um lote ainda com saldo: desfaz a projeção
// do produto pela quantidade restante, grava o movimento OUT e apaga a linha.
// Lote zerado significa "já consumido", não "disponível para remover";
// nesse caso falha com ErrEmptyBatch e nada muda. Caminho distinto do consumo
// FEFO (remoção manual, não venda).
func (uc *BatchUseCase) DeleteBatch(ctx context.Context, storeID, actorID, batchID, reason string) error {
	if batchID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.StoreID != storeID {
			return domain.ErrForbidden
		}
		if !batch.Active() {
			return domain.ErrEmptyBatch
		}

		product, err := productRepo.GetForUpdate(batch.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if err := productRepo.UpdateStock(product.ID, product.Stock.Sub(batch.Quantity)); err != nil {
			return err
		}

		now := time.Now()
		fullReason := fmt.Sprintf("Remoção de lote (validade %s)", batch.ExpiresAt.Format("02/01/2006"))
		if reason != "" {
			fullReason = fullReason + ": " + reason
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ProductID: product.ID,
			Type:      entity.MovementTypeOUT,
			Quantity:  batch.Quantity.Neg(),
			UnitPrice: batch.UnitCost,
			Reason:    fullReason,
			CreatedAt: now,
			CreatedBy: actorID,
		}
		if batch.UnitCost != nil {
			mov.TotalValue = batch.UnitCost.Mul(batch.Quantity)
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		return batchRepo.Delete(batch.ID)
	})
}

func sumBatches(batches []*entity.Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Quantity)
	}
	return total
}

func batchToDTO(b *entity.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:         b.ID,
		ProductID:  b.ProductID,
		Quantity:   b.Quantity,
		InitialQty: b.InitialQty,
		ExpiresAt:  b.ExpiresAt,
		UnitCost:   b.UnitCost,
		CreatedAt:  b.CreatedAt,
	}
}

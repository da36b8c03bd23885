package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// AdjustStockUseCase reconcilia uma contagem física contra a projeção de
// saldo: é o único caminho que fixa o estoque em um valor absoluto em vez de
// aplicar um delta relativo.
type AdjustStockUseCase struct {
	txRunner TxRunner
}

// NewAdjustStockUseCase constrói o caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner}
}

// AdjustStock calcula delta = newQuantity - saldo atual. Delta zero é no-op
// (sucesso sem escrever nada); caso contrário fixa o saldo e grava um único
// movimento ADJUSTMENT com quantity = delta, atomicamente.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, storeID, actorID string, in dto.AdjustStockRequest) error {
	if in.ProductID == "" || in.Reason == "" {
		return domain.ErrInvalidInput
	}
	if in.NewQuantity.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.BatchRepository,
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

		delta := in.NewQuantity.Sub(product.Stock)
		if delta.IsZero() {
			return nil
		}

		if err := productRepo.UpdateStock(product.ID, in.NewQuantity); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ProductID: product.ID,
			Type:      entity.MovementTypeADJUSTMENT,
			Quantity:  delta,
			Reason:    in.Reason,
			CreatedAt: time.Now(),
			CreatedBy: actorID,
		}
		return movRepo.Create(mov)
	})
}

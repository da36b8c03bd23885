package inventory

import (
	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// HistoryUseCase consulta o razão de movimentos de um produto (read-only,
// mais recentes primeiro).
type HistoryUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewHistoryUseCase constrói o caso de uso.
func NewHistoryUseCase(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *HistoryUseCase {
	return &HistoryUseCase{productRepo: productRepo, movRepo: movRepo}
}

// ListByProduct devolve o histórico de movimentos do produto.
func (uc *HistoryUseCase) ListByProduct(storeID, productID string, page dto.PageRequest) ([]dto.MovementResponse, error) {
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
	page.DefaultPage()
	movements, err := uc.movRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementToDTO(m))
	}
	return out, nil
}

func movementToDTO(m *entity.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		OrderID:    m.OrderID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalValue: m.TotalValue,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
	for _, b := range m.Batches {
		resp.Batches = append(resp.Batches, dto.MovementBatchDTO{
			BatchID:   b.BatchID,
			Quantity:  b.Quantity,
			ExpiresAt: b.ExpiresAt,
		})
	}
	return resp
}

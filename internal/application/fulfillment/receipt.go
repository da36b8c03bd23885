package fulfillment

import (
	"context"

	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// ReceiptGenerator renderiza o comprovante do pedido em PDF.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.Order, customer *entity.Customer) ([]byte, error)
}

// ReceiptUseCase monta os dados e delega a renderização do comprovante.
type ReceiptUseCase struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	generator    ReceiptGenerator
}

// NewReceiptUseCase constrói o caso de uso.
func NewReceiptUseCase(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, customerRepo: customerRepo, generator: generator}
}

// GenerateByOrderID devolve os bytes do PDF do comprovante.
func (uc *ReceiptUseCase) GenerateByOrderID(ctx context.Context, storeID, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.customerRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateReceipt(ctx, order, customer)
}

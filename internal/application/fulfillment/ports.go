package fulfillment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// OrderTxRunner executa a fase atômica do pedido (baixa de estoque + razão +
// linhas do pedido) dentro de uma única transação de BD.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// StockDrawer baixa o estoque de um produto já bloqueado, na mesma transação
// do caller (FEFO para perecíveis com lote, decremento plano caso contrário).
// Implementado por inventory.BatchUseCase.
type StockDrawer interface {
	DrawDownInTx(
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
	) error
}

// PaymentRequest resumo do pedido enviado ao gateway de pagamento.
type PaymentRequest struct {
	OrderID       string
	OrderCode     int64
	Total         decimal.Decimal
	Method        string
	CustomerName  string
	CustomerEmail string
	Card          *dto.CardInfoDTO
}

// PaymentResult resposta opaca do gateway; este núcleo só ramifica no Status.
type PaymentResult struct {
	Status        string // PAID | PENDING | FAILED
	TransactionID string
	Message       string
}

// PaymentGateway é o colaborador de pagamento. A chamada fica fora do bloco
// atômico: pagamento falho não desfaz pedido nem estoque.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, in PaymentRequest) (*PaymentResult, error)
}

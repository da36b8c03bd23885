package repository

import "github.com/lojaflex/lojaflex-api/internal/domain/entity"

// OrderRepository define o porto de persistência para pedidos.
type OrderRepository interface {
	// NextCode avança o contador atômico de códigos da loja e devolve o
	// próximo número legível. Deve rodar dentro da transação do pedido.
	NextCode(storeID string) (int64, error)
	Create(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	GetByID(id string) (*entity.Order, error)
	// UpdatePaymentStatus grava o resultado do gateway (payment_status + status).
	UpdatePaymentStatus(orderID, paymentStatus, status string) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Order, error)
}

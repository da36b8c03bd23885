package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de pagamento retornados pelo gateway.
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPending = "PENDING"
	PaymentStatusFailed  = "FAILED"
)

// Status do pedido derivado do resultado do pagamento.
const (
	OrderStatusPaid    = "PAID"
	OrderStatusPending = "PENDING"
)

// Order é um pedido da vitrine. O estoque é comprometido na criação do
// pedido, não na confirmação do pagamento: pagamento falho deixa o pedido
// PENDING com o estoque já baixado.
type Order struct {
	ID            string
	StoreID       string
	Code          int64 // número legível, sequencial por loja
	CustomerID    string
	Address       string
	City          string
	ZipCode       string
	ShippingFee   decimal.Decimal
	PaymentMethod string
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentStatus string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem
}

// OrderItem é uma linha do pedido com preço e nome congelados no momento da
// venda (snapshot).
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

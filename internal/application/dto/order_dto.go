package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCustomerDTO dados do cliente no checkout (resolvido por e-mail).
type OrderCustomerDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OrderItemRequest linha do pedido enviada pela vitrine.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CardInfoDTO dados de cartão repassados opacos ao gateway.
type CardInfoDTO struct {
	Number       string `json:"number"`
	Holder       string `json:"holder"`
	Expiry       string `json:"expiry"`
	CVV          string `json:"cvv"`
	Installments int    `json:"installments,omitempty"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Customer      OrderCustomerDTO   `json:"customer"`
	Address       string             `json:"address"`
	City          string             `json:"city,omitempty"`
	ZipCode       string             `json:"zip_code,omitempty"`
	ShippingFee   decimal.Decimal    `json:"shipping_fee,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Card          *CardInfoDTO       `json:"card,omitempty"`
	Items         []OrderItemRequest `json:"items"`
	Discount      decimal.Decimal    `json:"discount,omitempty"`
	Total         decimal.Decimal    `json:"total"`
}

// PaymentResultDTO resultado do gateway repassado ao caller.
type PaymentResultDTO struct {
	Status        string `json:"status"` // PAID | PENDING | FAILED
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message,omitempty"`
}

// OrderItemResponse linha do pedido na resposta.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse resposta de POST/GET /api/orders.
type OrderResponse struct {
	ID            string              `json:"id"`
	Code          int64               `json:"code"`
	CustomerID    string              `json:"customer_id"`
	Total         decimal.Decimal     `json:"total"`
	PaymentStatus string              `json:"payment_status"`
	Status        string              `json:"status"`
	Payment       *PaymentResultDTO   `json:"payment,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/inventory/batches.
type CreateBatchRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	ExpiresAt time.Time        `json:"expires_at"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ConsumeRequest body para POST /api/inventory/consume (baixa FEFO manual).
type ConsumeRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjust: reconcilia a
// contagem física informando o saldo absoluto, não um delta.
type AdjustStockRequest struct {
	ProductID   string          `json:"product_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// DeleteBatchRequest body opcional para DELETE /api/inventory/batches/:id.
type DeleteBatchRequest struct {
	Reason string `json:"reason,omitempty"`
}

// BatchResponse resposta de lote.
type BatchResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	Quantity   decimal.Decimal  `json:"quantity"`
	InitialQty decimal.Decimal  `json:"initial_qty"`
	ExpiresAt  time.Time        `json:"expires_at"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// MovementBatchDTO detalhamento por lote dentro de um movimento.
type MovementBatchDTO struct {
	BatchID   string          `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// MovementResponse linha do razão na listagem de histórico.
type MovementResponse struct {
	ID         string             `json:"id"`
	ProductID  string             `json:"product_id"`
	OrderID    *string            `json:"order_id,omitempty"`
	Type       string             `json:"type"`
	Quantity   decimal.Decimal    `json:"quantity"`
	UnitPrice  *decimal.Decimal   `json:"unit_price,omitempty"`
	TotalValue decimal.Decimal    `json:"total_value"`
	Reason     string             `json:"reason"`
	CreatedAt  time.Time          `json:"created_at"`
	CreatedBy  string             `json:"created_by"`
	Batches    []MovementBatchDTO `json:"batches,omitempty"`
}

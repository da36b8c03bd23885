package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento de estoque.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // saída
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste de contagem física
)

// StockMovement é uma linha do razão de estoque: registro imutável de uma
// variação de quantidade, com sinal (positivo = entrada, negativo = saída).
// A soma de Quantity por produto é sempre igual ao saldo projetado do produto.
// Não existe update nem delete sobre movimentos; correções entram como novas
// linhas ADJUSTMENT.
type StockMovement struct {
	ID         string
	StoreID    string
	ProductID  string
	OrderID    *string // preenchido quando a saída veio de um pedido
	Type       string
	Quantity   decimal.Decimal // com sinal
	UnitPrice  *decimal.Decimal
	TotalValue decimal.Decimal // UnitPrice * |Quantity|, zero se sem preço
	Reason     string
	CreatedAt  time.Time
	CreatedBy  string // ator que originou o movimento

	// Batches detalha quais lotes foram tocados por este movimento
	// (registro filho consultável, em vez de texto livre no Reason).
	Batches []MovementBatch
}

// MovementBatch é o detalhamento por lote de um movimento de saída:
// quanto foi consumido de qual lote e com qual validade.
type MovementBatch struct {
	ID         string
	MovementID string
	BatchID    string
	Quantity   decimal.Decimal
	ExpiresAt  time.Time
}

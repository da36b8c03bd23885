package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto da loja.
// Stock é a projeção do saldo atual: quando o produto é perecível e há lotes
// ativos, equivale à soma das quantidades dos lotes; caso contrário é mantido
// apenas pelos deltas do razão de movimentos. Nunca fica negativo.
// ExpiresAt só é usado quando o produto NÃO controla validade por lote.
type Product struct {
	ID          string
	StoreID     string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal // preço de venda
	Cost        decimal.Decimal // custo médio ponderado (inicia em 0)
	Stock       decimal.Decimal
	IsPerishable bool
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

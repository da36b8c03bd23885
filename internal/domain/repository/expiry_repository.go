package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExpiringProductResult é o resultado cru da consulta de validades: um
// produto com a data de validade mais próxima encontrada, vinda de um lote
// ativo ("batch") ou do campo de validade plano do produto ("product").
// A anotação (dias restantes, vencido) fica no use case.
type ExpiringProductResult struct {
	ProductID   string
	ProductName string
	Stock       decimal.Decimal
	ExpiresAt   time.Time
	Source      string // "batch" | "product"
	BatchQty    decimal.Decimal // saldo do lote mais próximo; zero quando Source = "product"
}

// ExpiryRepository define as consultas read-only do painel de validades.
// As implementações não modificam dados.
type ExpiryRepository interface {
	// NextExpiry devolve a validade mais próxima entre lotes ativos do
	// produto, ou nil se não há lote ativo.
	NextExpiry(ctx context.Context, productID string) (*time.Time, error)

	// ListExpiring devolve, por produto (deduplicado, validade mais próxima),
	// tudo que vence até o instante dado, união das duas populações:
	// lotes ativos de perecíveis e produtos com validade plana.
	ListExpiring(ctx context.Context, storeID string, until time.Time) ([]ExpiringProductResult, error)

	// CountExpiringBetween conta produtos (das duas populações) com validade
	// no intervalo [from, to).
	CountExpiringBetween(ctx context.Context, storeID string, from, to time.Time) (int, error)
}

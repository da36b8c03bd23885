package repository

import (
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
)

// ProductRepository define o porto de persistência para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloqueia a linha do produto (SELECT FOR UPDATE) antes da
	// sequência check-then-act de saldo. Usar somente dentro de transação.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock grava apenas a projeção de saldo (usado pelo motor de estoque).
	UpdateStock(productID string, stock decimal.Decimal) error
	// UpdateCost grava apenas o custo médio ponderado.
	UpdateCost(productID string, cost decimal.Decimal) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
}

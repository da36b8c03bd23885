package repository

import (
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
)

// BatchRepository define o porto de persistência para lotes de validade.
// A ordem FEFO (expires_at ASC, created_at ASC, id ASC) é contrato das
// listagens de lotes ativos: estável e total.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetForUpdate bloqueia a linha do lote para a remoção manual.
	GetForUpdate(id string) (*entity.Batch, error)
	// ListActive retorna lotes com quantity > 0 em ordem FEFO.
	ListActive(productID string) ([]*entity.Batch, error)
	// ListActiveForUpdate é a variante com SELECT FOR UPDATE para o consumo.
	ListActiveForUpdate(productID string) ([]*entity.Batch, error)
	// UpdateQuantity grava o novo saldo do lote (nunca apaga a linha).
	UpdateQuantity(batchID string, quantity decimal.Decimal) error
	// Delete remove fisicamente o lote (só a remoção manual usa).
	Delete(id string) error
}

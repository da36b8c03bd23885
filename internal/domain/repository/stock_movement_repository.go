package repository

import "github.com/lojaflex/lojaflex-api/internal/domain/entity"

// StockMovementRepository é o porto do razão de estoque: append e consulta,
// nada mais. Não existem métodos de update ou delete; correções viram novas
// linhas ADJUSTMENT, nunca mutação de histórico.
type StockMovementRepository interface {
	// Create persiste o movimento e seus registros filhos por lote.
	Create(movement *entity.StockMovement) error
	// ListByProduct retorna os movimentos do produto, mais recentes primeiro,
	// com os valores NUMERIC exatos (codec decimal, sem perda de precisão).
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
}

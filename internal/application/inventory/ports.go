package inventory

import (
	"context"

	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante atomicidade para o motor de estoque:
// ou tudo (lote + projeção + razão) é persistido, ou nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

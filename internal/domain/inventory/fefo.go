// Package inventory contém os serviços de domínio puros do motor de estoque:
// o planejador de consumo FEFO e o cálculo de custo médio ponderado.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
)

// BatchDraw é o resultado do planejamento para um lote: quanto consumir dele.
type BatchDraw struct {
	BatchID   string
	Quantity  decimal.Decimal
	ExpiresAt time.Time
}

// PlanConsumption percorre os lotes na ordem recebida (FEFO: validade mais
// próxima primeiro) e decide quanto tirar de cada um até cobrir quantity.
// Não muta os lotes; o caller aplica os decrementos dentro da transação.
// Retorna ErrInsufficientStock se o agregado dos lotes não cobre o pedido;
// nesse caso nenhum plano parcial é devolvido.
func PlanConsumption(batches []*entity.Batch, quantity decimal.Decimal) ([]BatchDraw, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	remaining := quantity
	var plan []BatchDraw
	for _, b := range batches {
		if !b.Active() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		plan = append(plan, BatchDraw{BatchID: b.ID, Quantity: take, ExpiresAt: b.ExpiresAt})
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			return plan, nil
		}
	}
	return nil, domain.ErrInsufficientStock
}

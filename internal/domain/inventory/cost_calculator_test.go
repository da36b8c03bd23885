package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lojaflex/lojaflex-api/internal/domain/inventory"
)

func TestCostCalculator_MediaPonderada(t *testing.T) {
	// 10 unidades a 2.00 + 10 unidades a 4.00 => custo médio 3.00
	got := inventory.CostCalculator(
		decimal.NewFromInt(10), decimal.NewFromInt(2),
		decimal.NewFromInt(10), decimal.NewFromInt(4),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(3)), "esperado 3, obtido %s", got)
}

func TestCostCalculator_EstoqueZerado(t *testing.T) {
	// Sem estoque anterior, o custo vira o custo da entrada.
	got := inventory.CostCalculator(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(5), decimal.RequireFromString("7.50"),
	)
	assert.True(t, got.Equal(decimal.RequireFromString("7.50")))
}

func TestCostCalculator_SomaZero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.NewFromInt(9), decimal.Zero, decimal.NewFromInt(9))
	assert.True(t, got.Equal(decimal.Zero))
}

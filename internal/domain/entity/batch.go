package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch é um lote de estoque de um produto perecível: uma entrada recebida em
// uma data, com validade própria. Quantity é decrementada pelo consumo FEFO e
// chega a zero sem que a linha seja apagada (fica como histórico); só a
// remoção manual de lote apaga a linha fisicamente.
type Batch struct {
	ID         string
	StoreID    string
	ProductID  string
	Quantity   decimal.Decimal // saldo restante, >= 0
	InitialQty decimal.Decimal // imutável, definido na criação
	ExpiresAt  time.Time       // imutável
	UnitCost   *decimal.Decimal
	CreatedAt  time.Time
}

// Active informa se o lote ainda tem saldo consumível.
func (b *Batch) Active() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

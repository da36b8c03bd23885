package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrForbidden         = errors.New("acesso negado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrEmptyBatch        = errors.New("lote sem quantidade disponível")
)

// InsufficientStockError identifica qual produto ficou sem saldo, para que a
// UI consiga apontar o item problemático do pedido.
// errors.Is(err, ErrInsufficientStock) continua funcionando via Is.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %q: solicitado %s, disponível %s",
		e.ProductName, e.Requested.String(), e.Available.String())
}

// Is permite comparar com o sentinela ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

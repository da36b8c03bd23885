package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa o custo médio ponderado (serviço de domínio).
// NovoCusto = ((EstoqueAtual * CustoAtual) + (QtdEntrada * CustoEntrada)) / (EstoqueAtual + QtdEntrada)
func CostCalculator(estoqueAtual, custoAtual, qtdEntrada, custoEntrada decimal.Decimal) decimal.Decimal {
	sum := estoqueAtual.Add(qtdEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := estoqueAtual.Mul(custoAtual).Add(qtdEntrada.Mul(custoEntrada))
	return num.Div(sum)
}

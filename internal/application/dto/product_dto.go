package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// InitialStock opcional: perecível com expires_at vira lote; caso contrário
// entra como movimento IN plano.
type CreateProductRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	IsPerishable bool             `json:"is_perishable"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	InitialStock decimal.Decimal  `json:"initial_stock,omitempty"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// Saldo e custo não são editáveis por aqui (só via movimentos).
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	IsPerishable bool            `json:"is_perishable"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

// ProductResponse resposta de produto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        decimal.Decimal `json:"stock"`
	IsPerishable bool            `json:"is_perishable"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

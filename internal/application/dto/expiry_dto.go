package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiringProductDTO linha do painel de validades: um produto, com a validade
// mais próxima (de lote ativo ou do campo plano do produto).
type ExpiringProductDTO struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Stock           decimal.Decimal `json:"stock"`
	ExpiresAt       time.Time       `json:"expires_at"`
	Source          string          `json:"source"` // batch | product
	IsExpired       bool            `json:"is_expired"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
}

// ExpiryStatsDTO contadores para os badges do dashboard.
type ExpiryStatsDTO struct {
	Expired       int `json:"expired"`
	ExpiringIn7d  int `json:"expiring_in_7d"`
	ExpiringIn30d int `json:"expiring_in_30d"`
}

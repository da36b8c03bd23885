// Package reporting contém os casos de uso read-only do painel de validades.
package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// ExpiryUseCase projeta as visões "vence em breve" / "vencido" para o
// dashboard, unificando no momento da consulta as duas formas de armazenar
// validade: lotes ativos de perecíveis e o campo plano do produto.
//
// Fonte de dados: ExpiryRepository (consultas read-only).
type ExpiryUseCase struct {
	expiryRepo repository.ExpiryRepository
	// now é injetável para os testes fixarem o relógio.
	now func() time.Time
}

// NewExpiryUseCase constrói o caso de uso.
func NewExpiryUseCase(expiryRepo repository.ExpiryRepository) *ExpiryUseCase {
	return &ExpiryUseCase{expiryRepo: expiryRepo, now: time.Now}
}

// GetNextExpiry devolve a validade mais próxima entre lotes ativos do
// produto, ou nil se não há lote ativo.
func (uc *ExpiryUseCase) GetNextExpiry(ctx context.Context, productID string) (*time.Time, error) {
	return uc.expiryRepo.NextExpiry(ctx, productID)
}

// GetExpiringProducts devolve um produto por linha (validade mais próxima),
// anotado com is_expired e days_until_expiry (teto da diferença em dias),
// ordenado por dias restantes ascendente. Inclui o que já venceu.
func (uc *ExpiryUseCase) GetExpiringProducts(ctx context.Context, storeID string, daysAhead int) ([]dto.ExpiringProductDTO, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	now := uc.now()
	until := now.AddDate(0, 0, daysAhead)

	rows, err := uc.expiryRepo.ListExpiring(ctx, storeID, until)
	if err != nil {
		return nil, fmt.Errorf("listar validades: %w", err)
	}

	out := make([]dto.ExpiringProductDTO, 0, len(rows))
	for _, r := range rows {
		days := daysUntil(now, r.ExpiresAt)
		out = append(out, dto.ExpiringProductDTO{
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			Stock:           r.Stock,
			ExpiresAt:       r.ExpiresAt,
			Source:          r.Source,
			IsExpired:       days < 0 || r.ExpiresAt.Before(now),
			DaysUntilExpiry: days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntilExpiry < out[j].DaysUntilExpiry
	})
	return out, nil
}

// GetExpiryStats devolve os três contadores dos badges do dashboard
// (vencidos, vence em 7 dias, vence em 30 dias), cada um somando as duas
// populações. As três consultas rodam em paralelo.
func (uc *ExpiryUseCase) GetExpiryStats(ctx context.Context, storeID string) (*dto.ExpiryStatsDTO, error) {
	now := uc.now()
	distantPast := time.Time{}

	type countResult struct {
		n   int
		err error
	}
	expiredCh := make(chan countResult, 1)
	week7Ch := make(chan countResult, 1)
	day30Ch := make(chan countResult, 1)

	go func() {
		n, err := uc.expiryRepo.CountExpiringBetween(ctx, storeID, distantPast, now)
		expiredCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.expiryRepo.CountExpiringBetween(ctx, storeID, now, now.AddDate(0, 0, 7))
		week7Ch <- countResult{n, err}
	}()
	go func() {
		n, err := uc.expiryRepo.CountExpiringBetween(ctx, storeID, now, now.AddDate(0, 0, 30))
		day30Ch <- countResult{n, err}
	}()

	expired := <-expiredCh
	week7 := <-week7Ch
	day30 := <-day30Ch

	if expired.err != nil {
		return nil, fmt.Errorf("contar vencidos: %w", expired.err)
	}
	if week7.err != nil {
		return nil, fmt.Errorf("contar 7 dias: %w", week7.err)
	}
	if day30.err != nil {
		return nil, fmt.Errorf("contar 30 dias: %w", day30.err)
	}

	return &dto.ExpiryStatsDTO{
		Expired:       expired.n,
		ExpiringIn7d:  week7.n,
		ExpiringIn30d: day30.n,
	}, nil
}

// daysUntil é o teto da diferença em dias entre now e a validade
// (negativo quando já venceu).
func daysUntil(now, expiresAt time.Time) int {
	hours := expiresAt.Sub(now).Hours()
	return int(math.Ceil(hours / 24))
}

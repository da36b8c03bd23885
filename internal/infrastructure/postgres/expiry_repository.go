package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

var _ repository.ExpiryRepository = (*ExpiryRepo)(nil)

// ExpiryRepo consultas read-only do painel de validades sobre PostgreSQL.
// Une, no momento da consulta, as duas formas de armazenar validade:
// lotes ativos de perecíveis e o campo plano dos não perecíveis.
type ExpiryRepo struct {
	q Querier
}

// NewExpiryRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewExpiryRepository(q Querier) *ExpiryRepo {
	return &ExpiryRepo{q: q}
}

// NextExpiry devolve a validade mais próxima entre lotes ativos do produto,
// ou nil se não há lote ativo.
func (r *ExpiryRepo) NextExpiry(ctx context.Context, productID string) (*time.Time, error) {
	var next *time.Time
	err := r.q.QueryRow(ctx,
		`SELECT MIN(expires_at) FROM batches WHERE product_id = $1 AND quantity > 0`,
		productID,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next expiry: %w", err)
	}
	return next, nil
}

// ListExpiring devolve um produto por linha (validade mais próxima) com tudo
// que vence até o instante dado. Perecíveis saem do lote ativo mais próximo;
// não perecíveis, do campo plano; as populações não se sobrepõem.
func (r *ExpiryRepo) ListExpiring(ctx context.Context, storeID string, until time.Time) ([]repository.ExpiringProductResult, error) {
	query := `
		SELECT product_id, product_name, stock, expires_at, source, batch_qty FROM (
			SELECT DISTINCT ON (p.id)
				p.id AS product_id, p.name AS product_name, p.stock,
				b.expires_at, 'batch' AS source, b.quantity AS batch_qty
			FROM products p
			JOIN batches b ON b.product_id = p.id AND b.quantity > 0
			WHERE p.store_id = $1 AND p.is_perishable AND b.expires_at <= $2
			ORDER BY p.id, b.expires_at ASC, b.created_at ASC, b.id ASC
		) batch_side
		UNION ALL
		SELECT p.id, p.name, p.stock, p.expires_at, 'product', 0
		FROM products p
		WHERE p.store_id = $1 AND NOT p.is_perishable
		  AND p.expires_at IS NOT NULL AND p.expires_at <= $2
		ORDER BY expires_at ASC`
	rows, err := r.q.Query(ctx, query, storeID, until)
	if err != nil {
		return nil, fmt.Errorf("list expiring: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpiringProductResult
	for rows.Next() {
		var row repository.ExpiringProductResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Stock,
			&row.ExpiresAt, &row.Source, &row.BatchQty); err != nil {
			return nil, fmt.Errorf("scan expiring: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// CountExpiringBetween conta produtos cuja validade mais próxima cai em
// [from, to), somando as duas populações.
func (r *ExpiryRepo) CountExpiringBetween(ctx context.Context, storeID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT p.id, MIN(b.expires_at) AS exp
			FROM products p
			JOIN batches b ON b.product_id = p.id AND b.quantity > 0
			WHERE p.store_id = $1 AND p.is_perishable
			GROUP BY p.id
			UNION ALL
			SELECT p.id, p.expires_at
			FROM products p
			WHERE p.store_id = $1 AND NOT p.is_perishable AND p.expires_at IS NOT NULL
		) t WHERE t.exp >= $2 AND t.exp < $3`
	var n int
	if err := r.q.QueryRow(ctx, query, storeID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expiring: %w", err)
	}
	return n, nil
}

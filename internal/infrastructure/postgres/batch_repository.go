package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, store_id, product_id, quantity, initial_qty, expires_at, unit_cost, created_at`

// Ordem FEFO: validade mais próxima primeiro, empates pela criação e id
// (estável e total).
const fefoOrder = ` ORDER BY expires_at ASC, created_at ASC, id ASC`

// BatchRepo implementação de BatchRepository sobre PostgreSQL (usável com
// pool ou tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste um novo lote.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.StoreID, batch.ProductID, batch.Quantity, batch.InitialQty,
		batch.ExpiresAt, batch.UnitCost, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtém um lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	return r.get(`SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetForUpdate obtém o lote bloqueando a linha (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	return r.get(`SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) get(query, id string) (*entity.Batch, error) {
	var b entity.Batch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.StoreID, &b.ProductID, &b.Quantity, &b.InitialQty, &b.ExpiresAt, &b.UnitCost, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// ListActive lista lotes com saldo em ordem FEFO.
func (r *BatchRepo) ListActive(productID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE product_id = $1 AND quantity > 0` + fefoOrder
	return r.list(query, productID)
}

// ListActiveForUpdate é a variante com bloqueio de linha para o consumo FEFO.
func (r *BatchRepo) ListActiveForUpdate(productID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE product_id = $1 AND quantity > 0` + fefoOrder + ` FOR UPDATE`
	return r.list(query, productID)
}

func (r *BatchRepo) list(query, productID string) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.StoreID, &b.ProductID, &b.Quantity, &b.InitialQty,
			&b.ExpiresAt, &b.UnitCost, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// UpdateQuantity grava o novo saldo do lote. O consumo nunca apaga a linha:
// lote zerado permanece como histórico.
func (r *BatchRepo) UpdateQuantity(batchID string, quantity decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE batches SET quantity = $2 WHERE id = $1`,
		batchID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	return nil
}

// Delete remove fisicamente o lote (só a remoção manual de lote usa).
func (r *BatchRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

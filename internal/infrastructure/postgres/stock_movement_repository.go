package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementação do razão de estoque sobre PostgreSQL
// (usável com pool ou tx). Só INSERT e SELECT: o razão é append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste o movimento e seus registros filhos por lote.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, store_id, product_id, order_id, type, quantity, unit_price, total_value, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.StoreID, movement.ProductID, movement.OrderID,
		movement.Type, movement.Quantity, movement.UnitPrice, movement.TotalValue,
		movement.Reason, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	for i := range movement.Batches {
		mb := &movement.Batches[i]
		if mb.ID == "" {
			mb.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO movement_batches (id, movement_id, batch_id, quantity, expires_at) VALUES ($1, $2, $3, $4, $5)`,
			mb.ID, movement.ID, mb.BatchID, mb.Quantity, mb.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("insert movement batch: %w", err)
		}
	}
	return nil
}

// ListByProduct lista movimentos do produto, mais recentes primeiro, com os
// filhos por lote carregados.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, store_id, product_id, order_id, type, quantity, unit_price, total_value, reason, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	byID := make(map[string]*entity.StockMovement)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.StoreID, &m.ProductID, &m.OrderID, &m.Type,
			&m.Quantity, &m.UnitPrice, &m.TotalValue, &m.Reason, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	childQuery := `
		SELECT id, movement_id, batch_id, quantity, expires_at
		FROM movement_batches WHERE movement_id = ANY($1)
		ORDER BY expires_at ASC`
	childRows, err := r.q.Query(context.Background(), childQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list movement batches: %w", err)
	}
	defer childRows.Close()
	for childRows.Next() {
		var mb entity.MovementBatch
		if err := childRows.Scan(&mb.ID, &mb.MovementID, &mb.BatchID, &mb.Quantity, &mb.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan movement batch: %w", err)
		}
		if parent, ok := byID[mb.MovementID]; ok {
			parent.Batches = append(parent.Batches, mb)
		}
	}
	return list, childRows.Err()
}

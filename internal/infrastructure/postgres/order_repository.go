package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, store_id, code, customer_id, address, city, zip_code, shipping_fee, payment_method, discount, total, payment_status, status, created_at, updated_at`

// OrderRepo implementação de OrderRepository sobre PostgreSQL (usável com
// pool ou tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// NextCode avança o contador de códigos da loja e devolve o próximo número.
// Upsert atômico em uma linha por loja: substitui o "max + 1" lido, que corre
// entre pedidos concorrentes.
func (r *OrderRepo) NextCode(storeID string) (int64, error) {
	query := `
		INSERT INTO order_counters (store_id, next_code)
		VALUES ($1, 1)
		ON CONFLICT (store_id)
		DO UPDATE SET next_code = order_counters.next_code + 1
		RETURNING next_code`
	var code int64
	if err := r.q.QueryRow(context.Background(), query, storeID).Scan(&code); err != nil {
		return 0, fmt.Errorf("next order code: %w", err)
	}
	return code, nil
}

// Create persiste a cabeça do pedido.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.StoreID, order.Code, order.CustomerID, order.Address, order.City,
		order.ZipCode, order.ShippingFee, order.PaymentMethod, order.Discount, order.Total,
		order.PaymentStatus, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste uma linha do pedido.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtém um pedido com seus itens.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.StoreID, &o.Code, &o.CustomerID, &o.Address, &o.City, &o.ZipCode,
		&o.ShippingFee, &o.PaymentMethod, &o.Discount, &o.Total,
		&o.PaymentStatus, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(context.Background(),
		`SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal
		 FROM order_items WHERE order_id = $1 ORDER BY product_name`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdatePaymentStatus grava o resultado do gateway.
func (r *OrderRepo) UpdatePaymentStatus(orderID, paymentStatus, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET payment_status = $2, status = $3, updated_at = now() WHERE id = $1`,
		orderID, paymentStatus, status,
	)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

// ListByStore lista pedidos da loja, mais recentes primeiro.
func (r *OrderRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.StoreID, &o.Code, &o.CustomerID, &o.Address, &o.City, &o.ZipCode,
			&o.ShippingFee, &o.PaymentMethod, &o.Discount, &o.Total,
			&o.PaymentStatus, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

package entity

import "time"

// Customer é o cliente da loja, resolvido por e-mail no checkout
// (lookup-or-create idempotente).
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

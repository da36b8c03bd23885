package repository

import "github.com/lojaflex/lojaflex-api/internal/domain/entity"

// CustomerRepository define o porto de persistência para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetByStoreAndEmail resolve o cliente do checkout (lookup por e-mail).
	GetByStoreAndEmail(storeID, email string) (*entity.Customer, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}

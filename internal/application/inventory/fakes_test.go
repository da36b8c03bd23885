package inventory_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// memStore é o estado em memória compartilhado pelos repositórios fake.
// O fakeTxRunner tira um snapshot antes do callback e restaura em caso de
// erro, reproduzindo o Commit/Rollback do TxRunner real.
type memStore struct {
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	movements []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		batches:  make(map[string]*entity.Batch),
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.products {
		c := *p
		cp.products[id] = &c
	}
	for id, b := range s.batches {
		c := *b
		cp.batches[id] = &c
	}
	cp.movements = append([]*entity.StockMovement(nil), s.movements...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.batches = from.batches
	s.movements = from.movements
}

// fefoSort ordena lotes por validade, depois criação, depois id.
func fefoSort(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].ExpiresAt.Equal(batches[j].ExpiresAt) {
			return batches[i].ExpiresAt.Before(batches[j].ExpiresAt)
		}
		if !batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].CreatedAt.Before(batches[j].CreatedAt)
		}
		return batches[i].ID < batches[j].ID
	})
}

// ── Repositórios fake ────────────────────────────────────────────────────────

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	c := *p
	r.store.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.store.products[p.ID] = &c
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *fakeProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	return nil
}

func (r *fakeProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.StoreID == storeID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeBatchRepo struct{ store *memStore }

func (r *fakeBatchRepo) Create(b *entity.Batch) error {
	c := *b
	r.store.batches[b.ID] = &c
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.store.batches[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *fakeBatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	return r.GetByID(id)
}

func (r *fakeBatchRepo) ListActive(productID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.store.batches {
		if b.ProductID == productID && b.Quantity.GreaterThan(decimal.Zero) {
			c := *b
			out = append(out, &c)
		}
	}
	fefoSort(out)
	return out, nil
}

func (r *fakeBatchRepo) ListActiveForUpdate(productID string) ([]*entity.Batch, error) {
	return r.ListActive(productID)
}

func (r *fakeBatchRepo) UpdateQuantity(batchID string, quantity decimal.Decimal) error {
	b, ok := r.store.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = quantity
	return nil
}

func (r *fakeBatchRepo) Delete(id string) error {
	if _, ok := r.store.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.batches, id)
	return nil
}

type fakeMovementRepo struct{ store *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	c := *m
	c.Batches = append([]entity.MovementBatch(nil), m.Batches...)
	r.store.movements = append(r.store.movements, &c)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		if r.store.movements[i].ProductID == productID {
			out = append(out, r.store.movements[i])
		}
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// fakeTxRunner implementa inventory.TxRunner com snapshot/restore.
type fakeTxRunner struct{ store *memStore }

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	snap := t.store.snapshot()
	err := fn(
		&fakeProductRepo{store: t.store},
		&fakeBatchRepo{store: t.store},
		&fakeMovementRepo{store: t.store},
	)
	if err != nil {
		t.store.restore(snap)
	}
	return err
}

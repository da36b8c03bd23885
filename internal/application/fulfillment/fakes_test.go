package fulfillment_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/fulfillment"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// memStore é o estado em memória dos repositórios fake do checkout. O
// fakeOrderTxRunner tira um snapshot antes do callback e restaura no erro,
// reproduzindo a atomicidade da transação real.
type memStore struct {
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
	items     []*entity.OrderItem
	customers map[string]*entity.Customer
	counters  map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		batches:   make(map[string]*entity.Batch),
		orders:    make(map[string]*entity.Order),
		customers: make(map[string]*entity.Customer),
		counters:  make(map[string]int64),
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
	for id, o := range s.orders {
		c := *o
		cp.orders[id] = &c
	}
	cp.items = append([]*entity.OrderItem(nil), s.items...)
	for id, cst := range s.customers {
		c := *cst
		cp.customers[id] = &c
	}
	for k, v := range s.counters {
		cp.counters[k] = v
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.batches = from.batches
	s.movements = from.movements
	s.orders = from.orders
	s.items = from.items
	s.customers = from.customers
	s.counters = from.counters
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
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
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
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeOrderRepo struct{ store *memStore }

func (r *fakeOrderRepo) NextCode(storeID string) (int64, error) {
	r.store.counters[storeID]++
	return r.store.counters[storeID], nil
}

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	r.store.orders[o.ID] = &c
	return nil
}

func (r *fakeOrderRepo) CreateItem(item *entity.OrderItem) error {
	c := *item
	r.store.items = append(r.store.items, &c)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(orderID, paymentStatus, status string) error {
	o, ok := r.store.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.store.orders {
		if o.StoreID == storeID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct{ store *memStore }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	for _, existing := range r.store.customers {
		if existing.StoreID == c.StoreID && existing.Email == c.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.store.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByStoreAndEmail(storeID, email string) (*entity.Customer, error) {
	for _, c := range r.store.customers {
		if c.StoreID == storeID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.store.customers {
		if c.StoreID == storeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(c *entity.Customer) error {
	if _, ok := r.store.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.store.customers[c.ID] = &cp
	return nil
}

// ── TxRunners fake ───────────────────────────────────────────────────────────

// fakeTxRunner cobre a interface transacional do BatchUseCase; os testes de
// checkout só exercitam DrawDownInTx, que roda na transação do pedido.
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

type fakeOrderTxRunner struct{ store *memStore }

var _ fulfillment.OrderTxRunner = (*fakeOrderTxRunner)(nil)

func (t *fakeOrderTxRunner) RunOrder(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
) error) error {
	snap := t.store.snapshot()
	err := fn(
		&fakeProductRepo{store: t.store},
		&fakeBatchRepo{store: t.store},
		&fakeMovementRepo{store: t.store},
		&fakeOrderRepo{store: t.store},
	)
	if err != nil {
		t.store.restore(snap)
	}
	return err
}

// fakeGateway devolve um resultado fixo ou um erro de transporte.
type fakeGateway struct {
	result *fulfillment.PaymentResult
	err    error
	calls  int
}

func (g *fakeGateway) ProcessPayment(_ context.Context, _ fulfillment.PaymentRequest) (*fulfillment.PaymentResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

package fulfillment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/application/fulfillment"
	"github.com/lojaflex/lojaflex-api/internal/application/inventory"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
)

const (
	testStoreID = "store-1"
	testActorID = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type orderFixture struct {
	store *memStore
	uc    *fulfillment.CreateOrderUseCase
}

func newOrderFixture(gateway fulfillment.PaymentGateway) *orderFixture {
	store := newMemStore()
	productRepo := &fakeProductRepo{store: store}
	batchRepo := &fakeBatchRepo{store: store}
	drawer := inventory.NewBatchUseCase(&fakeTxRunner{store: store}, productRepo, batchRepo)
	uc := fulfillment.NewCreateOrderUseCase(
		&fakeOrderTxRunner{store: store},
		drawer,
		productRepo,
		&fakeCustomerRepo{store: store},
		&fakeOrderRepo{store: store},
		gateway,
	)
	return &orderFixture{store: store, uc: uc}
}

func (f *orderFixture) seedProduct(id, stock, price string, perishable bool) *entity.Product {
	p := &entity.Product{
		ID:           id,
		StoreID:      testStoreID,
		SKU:          "SKU-" + id,
		Name:         "Produto " + id,
		Price:        dec(price),
		Stock:        dec(stock),
		IsPerishable: perishable,
	}
	f.store.products[id] = p
	return p
}

func (f *orderFixture) seedBatch(id, productID, qty string, expiresAt time.Time) {
	f.store.batches[id] = &entity.Batch{
		ID:         id,
		StoreID:    testStoreID,
		ProductID:  productID,
		Quantity:   dec(qty),
		InitialQty: dec(qty),
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
}

func orderRequest(items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: dto.OrderCustomerDTO{
			Name:  "Ana Souza",
			Email: "Ana.Souza@Example.com",
		},
		Address:       "Rua das Flores, 100",
		City:          "São Paulo",
		PaymentMethod: "card",
		Items:         items,
	}
}

// ── Fluxo feliz ──────────────────────────────────────────────────────────────

func TestCreateOrder_FluxoCompleto(t *testing.T) {
	gateway := &fakeGateway{result: &fulfillment.PaymentResult{
		Status: entity.PaymentStatusPaid, TransactionID: "tx-1",
	}}
	f := newOrderFixture(gateway)
	f.seedProduct("p1", "10", "4.50", true)
	f.seedBatch("b1", "p1", "10", time.Now().AddDate(0, 0, 7))
	f.seedProduct("p2", "20", "8.90", false)

	out, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("3")},
		dto.OrderItemRequest{ProductID: "p2", Quantity: dec("2")},
	))
	require.NoError(t, err)
	require.NotNil(t, out)

	// Código legível sequencial por loja, começando em 1.
	assert.Equal(t, int64(1), out.Code)

	// Preço zero no carrinho cai para o preço atual do produto.
	// Total = 3*4.50 + 2*8.90 = 31.30
	assert.True(t, out.Total.Equal(dec("31.30")), "total veio %s", out.Total)

	// Pagamento confirmado: pedido PAID.
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus)
	assert.Equal(t, entity.OrderStatusPaid, out.Status)
	require.NotNil(t, out.Payment)
	assert.Equal(t, "tx-1", out.Payment.TransactionID)
	assert.Equal(t, 1, gateway.calls)

	// Estoque baixado nas duas projeções e no lote FEFO.
	assert.True(t, f.store.products["p1"].Stock.Equal(dec("7")))
	assert.True(t, f.store.products["p2"].Stock.Equal(dec("18")))
	assert.True(t, f.store.batches["b1"].Quantity.Equal(dec("7")))

	// Um movimento OUT por item, com a referência ao pedido e o motivo padrão.
	require.Len(t, f.store.movements, 2)
	for _, mov := range f.store.movements {
		assert.Equal(t, entity.MovementTypeOUT, mov.Type)
		assert.Contains(t, mov.Reason, "Venda - Pedido #1")
		require.NotNil(t, mov.OrderID)
		assert.Equal(t, out.ID, *mov.OrderID)
	}

	// Itens persistidos com snapshot de nome e preço.
	require.Len(t, f.store.items, 2)
	assert.Equal(t, "Produto p1", f.store.items[0].ProductName)
	assert.True(t, f.store.items[0].UnitPrice.Equal(dec("4.50")))

	// Cliente resolvido por e-mail minúsculo.
	customer, err := (&fakeCustomerRepo{store: f.store}).GetByStoreAndEmail(testStoreID, "ana.souza@example.com")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, customer.ID, out.CustomerID)
}

func TestCreateOrder_CodigosSequenciais(t *testing.T) {
	f := newOrderFixture(nil)
	f.seedProduct("p1", "100", "1.00", false)

	first, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")},
	))
	require.NoError(t, err)
	second, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")},
	))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Code)
	assert.Equal(t, int64(2), second.Code)
}

// Dois checkouts com o mesmo e-mail devem reutilizar o mesmo cliente.
func TestCreateOrder_ClienteIdempotentePorEmail(t *testing.T) {
	f := newOrderFixture(nil)
	f.seedProduct("p1", "100", "1.00", false)

	first, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")},
	))
	require.NoError(t, err)
	second, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")},
	))
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Len(t, f.store.customers, 1)
}

// ── Atomicidade ──────────────────────────────────────────────────────────────

// Pedido de dois itens em que o segundo não tem saldo: nada persiste, nem
// pedido, nem baixa do primeiro item, nem linhas no razão.
func TestCreateOrder_SegundoItemSemSaldoDesfazTudo(t *testing.T) {
	f := newOrderFixture(nil)
	f.seedProduct("p1", "10", "4.50", false)
	f.seedProduct("p2", "1", "8.90", false)

	_, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("3")},
		dto.OrderItemRequest{ProductID: "p2", Quantity: dec("5")},
	))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "p2", insufficient.ProductID)
	assert.Equal(t, "Produto p2", insufficient.ProductName)
	assert.True(t, insufficient.Available.Equal(dec("1")))

	// Rollback total.
	assert.True(t, f.store.products["p1"].Stock.Equal(dec("10")), "baixa do primeiro item desfeita")
	assert.True(t, f.store.products["p2"].Stock.Equal(dec("1")))
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.items)
	assert.Empty(t, f.store.movements)
}

func TestCreateOrder_ProdutoInexistente(t *testing.T) {
	f := newOrderFixture(nil)

	_, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "nao-existe", Quantity: dec("1")},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.orders)
}

func TestCreateOrder_Validacao(t *testing.T) {
	f := newOrderFixture(nil)
	f.seedProduct("p1", "10", "1.00", false)

	in := orderRequest(dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")})
	in.Address = ""
	_, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "endereço é obrigatório")

	in = orderRequest()
	_, err = f.uc.CreateOrder(context.Background(), testStoreID, testActorID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pedido sem itens é inválido")

	in = orderRequest(dto.OrderItemRequest{ProductID: "p1", Quantity: dec("0")})
	_, err = f.uc.CreateOrder(context.Background(), testStoreID, testActorID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantidade zero é inválida")
}

// ── Pagamento ────────────────────────────────────────────────────────────────

// Gateway recusou: o pedido e a baixa de estoque permanecem, payment_status
// FAILED e status do pedido continua PENDING.
func TestCreateOrder_PagamentoRecusadoMantemPedido(t *testing.T) {
	gateway := &fakeGateway{result: &fulfillment.PaymentResult{
		Status: entity.PaymentStatusFailed, Message: "cartão recusado",
	}}
	f := newOrderFixture(gateway)
	f.seedProduct("p1", "10", "4.50", false)

	out, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("3")},
	))
	require.NoError(t, err, "pagamento falho não é erro do checkout")

	assert.Equal(t, entity.PaymentStatusFailed, out.PaymentStatus)
	assert.Equal(t, entity.OrderStatusPending, out.Status)

	// Pedido e estoque comprometidos permanecem.
	assert.Len(t, f.store.orders, 1)
	assert.True(t, f.store.products["p1"].Stock.Equal(dec("7")))
	persisted := f.store.orders[out.ID]
	assert.Equal(t, entity.PaymentStatusFailed, persisted.PaymentStatus)
}

// Gateway fora do ar (erro de transporte): pedido fica PENDING.
func TestCreateOrder_GatewayIndisponivelFicaPendente(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("connection refused")}
	f := newOrderFixture(gateway)
	f.seedProduct("p1", "10", "4.50", false)

	out, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("2")},
	))
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.True(t, f.store.products["p1"].Stock.Equal(dec("8")), "estoque permanece comprometido")
}

// Sem gateway configurado o checkout opera offline: tudo PENDING.
func TestCreateOrder_SemGatewayFicaPendente(t *testing.T) {
	f := newOrderFixture(nil)
	f.seedProduct("p1", "10", "4.50", false)

	out, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")},
	))
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	require.NotNil(t, out.Payment)
	assert.Contains(t, out.Payment.Message, "gateway não configurado")
}

// ── GetOrder ─────────────────────────────────────────────────────────────────

func TestGetOrder_OutraLoja(t *testing.T) {
	f := newOrderFixture(nil)
	f.seedProduct("p1", "10", "1.00", false)

	out, err := f.uc.CreateOrder(context.Background(), testStoreID, testActorID, orderRequest(
		dto.OrderItemRequest{ProductID: "p1", Quantity: dec("1")},
	))
	require.NoError(t, err)

	_, err = f.uc.GetOrder("outra-loja", out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.GetOrder(testStoreID, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package fulfillment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/dto"
	"github.com/lojaflex/lojaflex-api/internal/domain"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
	"github.com/lojaflex/lojaflex-api/internal/domain/repository"
)

// CreateOrderUseCase é o coordenador de fulfillment: transforma um checkout
// em estoque, razão e pedido consistentes em uma única transação, e só depois
// aciona o gateway de pagamento. O comprometimento físico do estoque acontece
// na criação do pedido, não na confirmação do pagamento (assimetria
// deliberada: pagamento falho deixa o pedido PENDING com estoque baixado).
type CreateOrderUseCase struct {
	txRunner     OrderTxRunner
	drawer       StockDrawer
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	gateway      PaymentGateway
}

// NewCreateOrderUseCase constrói o caso de uso. gateway pode ser nil (modo
// offline: todo pedido fica PENDING).
func NewCreateOrderUseCase(
	txRunner OrderTxRunner,
	drawer StockDrawer,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		txRunner:     txRunner,
		drawer:       drawer,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		gateway:      gateway,
	}
}

// CreateOrder executa o fluxo completo do checkout:
//
//  1. resolve-ou-cria o cliente por e-mail (idempotente);
//  2. transação única: por item, bloqueia o produto, valida saldo
//     (InsufficientStockError nomeia o produto em falta), baixa via FEFO ou
//     decremento plano, grava o movimento OUT "Venda - Pedido #<code>" com
//     referência ao pedido; gera o código pelo contador atômico; persiste
//     pedido e itens com snapshot de endereço e preço;
//  3. fora da transação: chama o gateway e grava payment_status; status do
//     pedido vira PAID somente se o pagamento confirmou.
//
// Qualquer falha dentro da transação desfaz tudo: nenhum pedido, nenhuma
// mutação de estoque e nenhuma linha no razão sobrevivem a uma tentativa
// falha.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, storeID, actorID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 || in.Address == "" || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Customer.Email))
	if email == "" || in.Customer.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Valida produtos e congela preços (fora da tx, só leitura). O preço do
	// item vem do carrinho; zero cai para o preço atual do produto.
	productsByID := make(map[string]*entity.Product, len(in.Items))
	for i := range in.Items {
		item := &in.Items[i]
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.StoreID != storeID {
			return nil, domain.ErrForbidden
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
		productsByID[item.ProductID] = product
	}

	customer, err := uc.resolveCustomer(storeID, in.Customer)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	orderID := uuid.New().String()
	var order *entity.Order

	err = uc.txRunner.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.OrderRepository,
	) error {
		code, err := orderRepo.NextCode(storeID)
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("Venda - Pedido #%d", code)

		itemsTotal := decimal.Zero
		var items []entity.OrderItem
		for _, item := range in.Items {
			// Relê o produto sob lock: a validação de saldo vale sobre o
			// estado bloqueado, não sobre a leitura de fora da transação.
			product, err := productRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if err := uc.drawer.DrawDownInTx(
				productRepo, batchRepo, movRepo,
				product, actorID,
				item.Quantity, &item.UnitPrice,
				reason, &orderID, now,
			); err != nil {
				return err
			}
			subtotal := item.Quantity.Mul(item.UnitPrice)
			itemsTotal = itemsTotal.Add(subtotal)
			items = append(items, entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     orderID,
				ProductID:   item.ProductID,
				ProductName: productsByID[item.ProductID].Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Subtotal:    subtotal,
			})
		}

		total := itemsTotal.Add(in.ShippingFee).Sub(in.Discount)
		order = &entity.Order{
			ID:            orderID,
			StoreID:       storeID,
			Code:          code,
			CustomerID:    customer.ID,
			Address:       in.Address,
			City:          in.City,
			ZipCode:       in.ZipCode,
			ShippingFee:   in.ShippingFee,
			PaymentMethod: in.PaymentMethod,
			Discount:      in.Discount,
			Total:         total,
			PaymentStatus: entity.PaymentStatusPending,
			Status:        entity.OrderStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
			Items:         items,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for i := range items {
			if err := orderRepo.CreateItem(&items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment := uc.collectPayment(ctx, order, customer, in.Card)

	// Pagamento falho não desfaz pedido nem estoque: o pedido persiste
	// PENDING e o resultado do gateway vai na resposta.
	order.PaymentStatus = payment.Status
	if payment.Status == entity.PaymentStatusPaid {
		order.Status = entity.OrderStatusPaid
	}
	if err := uc.orderRepo.UpdatePaymentStatus(order.ID, order.PaymentStatus, order.Status); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("gravar status de pagamento")
	}

	resp := orderToDTO(order)
	resp.Payment = &dto.PaymentResultDTO{
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		Message:       payment.Message,
	}
	return resp, nil
}

// GetOrder devolve um pedido da loja com seus itens.
func (uc *CreateOrderUseCase) GetOrder(storeID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	return orderToDTO(order), nil
}

// resolveCustomer busca o cliente por (loja, e-mail) e cria se não existe.
// Corrida entre dois checkouts do mesmo e-mail é fechada pela unique
// constraint: ErrDuplicate vira uma releitura.
func (uc *CreateOrderUseCase) resolveCustomer(storeID string, in dto.OrderCustomerDTO) (*entity.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	customer, err := uc.customerRepo.GetByStoreAndEmail(storeID, email)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}
	now := time.Now()
	customer = &entity.Customer{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.customerRepo.Create(customer)
	if err == domain.ErrDuplicate {
		return uc.customerRepo.GetByStoreAndEmail(storeID, email)
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// collectPayment aciona o gateway fora da transação. Erro de transporte não é
// falha do sistema: loga e devolve PENDING.
func (uc *CreateOrderUseCase) collectPayment(ctx context.Context, order *entity.Order, customer *entity.Customer, card *dto.CardInfoDTO) *PaymentResult {
	if uc.gateway == nil {
		return &PaymentResult{Status: entity.PaymentStatusPending, Message: "gateway não configurado"}
	}
	result, err := uc.gateway.ProcessPayment(ctx, PaymentRequest{
		OrderID:       order.ID,
		OrderCode:     order.Code,
		Total:         order.Total,
		Method:        order.PaymentMethod,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Card:          card,
	})
	if err != nil {
		log.Warn().Err(err).Int64("order_code", order.Code).Msg("gateway de pagamento indisponível")
		return &PaymentResult{Status: entity.PaymentStatusPending, Message: "pagamento não processado"}
	}
	return result
}

func orderToDTO(o *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            o.ID,
		Code:          o.Code,
		CustomerID:    o.CustomerID,
		Total:         o.Total,
		PaymentStatus: o.PaymentStatus,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return resp
}

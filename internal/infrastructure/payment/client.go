// Package payment implementa o cliente HTTP do gateway de pagamento.
// O núcleo só ramifica no status retornado; falha de transporte não é erro
// de sistema para o fluxo do pedido (quem decide é o coordenador).
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/lojaflex/lojaflex-api/internal/application/fulfillment"
	"github.com/lojaflex/lojaflex-api/internal/domain/entity"
)

var _ fulfillment.PaymentGateway = (*Client)(nil)

// Config do gateway.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implementa fulfillment.PaymentGateway sobre HTTP (resty).
type Client struct {
	http *resty.Client
}

// NewClient constrói o cliente. Timeout zero usa 15s.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	if cfg.APIKey != "" {
		http.SetAuthToken(cfg.APIKey)
	}
	return &Client{http: http}
}

type chargeRequest struct {
	OrderID       string          `json:"order_id"`
	OrderCode     int64           `json:"order_code"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CardNumber    string          `json:"card_number,omitempty"`
	CardHolder    string          `json:"card_holder,omitempty"`
	CardExpiry    string          `json:"card_expiry,omitempty"`
	CardCVV       string          `json:"card_cvv,omitempty"`
	Installments  int             `json:"installments,omitempty"`
}

type chargeResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// ProcessPayment envia a cobrança ao gateway e normaliza o status para
// PAID | PENDING | FAILED.
func (c *Client) ProcessPayment(ctx context.Context, in fulfillment.PaymentRequest) (*fulfillment.PaymentResult, error) {
	body := chargeRequest{
		OrderID:       in.OrderID,
		OrderCode:     in.OrderCode,
		Amount:        in.Total,
		Method:        in.Method,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
	}
	if in.Card != nil {
		body.CardNumber = in.Card.Number
		body.CardHolder = in.Card.Holder
		body.CardExpiry = in.Card.Expiry
		body.CardCVV = in.Card.CVV
		body.Installments = in.Card.Installments
	}

	var out chargeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/charges")
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment gateway: HTTP %d", resp.StatusCode())
	}

	result := &fulfillment.PaymentResult{
		Status:        out.Status,
		TransactionID: out.TransactionID,
		Message:       out.Message,
	}
	switch result.Status {
	case entity.PaymentStatusPaid, entity.PaymentStatusPending, entity.PaymentStatusFailed:
	default:
		// Status desconhecido do gateway fica como PENDING.
		result.Status = entity.PaymentStatusPending
	}
	return result, nil
}

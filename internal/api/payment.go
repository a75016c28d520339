package api

import (
	"context"
	"net/http"

	"taxiweb/internal/domain"
)

// PaymentAPI wraps the payment-intent endpoint.
type PaymentAPI struct {
	client          *Client
	defaultCurrency string
}

// NewPaymentAPI creates a new PaymentAPI. defaultCurrency fills requests that
// leave the currency empty.
func NewPaymentAPI(client *Client, defaultCurrency string) *PaymentAPI {
	return &PaymentAPI{client: client, defaultCurrency: defaultCurrency}
}

// CreateIntent handles POST /payments/create-intent.
func (p *PaymentAPI) CreateIntent(ctx context.Context, token string, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	if req.Amount <= 0 {
		return nil, &Error{Kind: KindValidation, Message: msgInvalidAmount}
	}
	if req.Currency == "" {
		req.Currency = p.defaultCurrency
	}

	var out domain.PaymentIntent
	if err := p.client.do(ctx, call{
		op:       "create payment intent",
		method:   http.MethodPost,
		path:     "/payments/create-intent",
		token:    token,
		auth:     true,
		body:     req,
		result:   &out,
		fallback: "Failed to create payment",
	}); err != nil {
		return nil, err
	}
	if out.ClientSecret == "" {
		return nil, &Error{Kind: KindNetwork, Status: http.StatusOK, Message: msgNetwork}
	}
	return &out, nil
}

package api

import (
	"context"
	"net/http"

	"taxiweb/internal/domain"
)

// PricingAPI wraps the /api/pricing endpoints.
type PricingAPI struct {
	client *Client
}

// NewPricingAPI creates a new PricingAPI.
func NewPricingAPI(client *Client) *PricingAPI {
	return &PricingAPI{client: client}
}

type placePair struct {
	FromPlaceID string `json:"fromPlaceId"`
	ToPlaceID   string `json:"toPlaceId"`
}

// quoteResponse keeps the nested objects optional so a partial reply is caught.
type quoteResponse struct {
	Distance *domain.Distance `json:"distance"`
	Pricing  *domain.Fare     `json:"pricing"`
}

func (r quoteResponse) quote() (*domain.Quote, error) {
	if r.Distance == nil || r.Pricing == nil {
		return nil, &Error{Kind: KindNetwork, Status: http.StatusOK, Message: msgNetwork}
	}
	return &domain.Quote{Distance: *r.Distance, Pricing: *r.Pricing}, nil
}

// Calculate handles POST /api/pricing/calculate. Requires a token.
func (p *PricingAPI) Calculate(ctx context.Context, token, fromPlaceID, toPlaceID string) (*domain.Quote, error) {
	var out quoteResponse
	if err := p.client.do(ctx, call{
		op:       "pricing calculate",
		method:   http.MethodPost,
		path:     "/api/pricing/calculate",
		token:    token,
		auth:     true,
		body:     placePair{FromPlaceID: fromPlaceID, ToPlaceID: toPlaceID},
		result:   &out,
		fallback: "Failed to calculate price",
	}); err != nil {
		return nil, err
	}
	return out.quote()
}

// Quote handles POST /api/pricing/quote. Public.
func (p *PricingAPI) Quote(ctx context.Context, fromPlaceID, toPlaceID string) (*domain.Quote, error) {
	var out quoteResponse
	if err := p.client.do(ctx, call{
		op:       "pricing quote",
		method:   http.MethodPost,
		path:     "/api/pricing/quote",
		body:     placePair{FromPlaceID: fromPlaceID, ToPlaceID: toPlaceID},
		result:   &out,
		fallback: "Failed to calculate quote",
	}); err != nil {
		return nil, err
	}
	return out.quote()
}

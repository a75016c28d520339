package service

import (
	"context"
	"strings"

	"taxiweb/internal/domain"
)

// QuoteService serves the public fare-quote dialog.
type QuoteService struct {
	pricing PricingClient
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(pricing PricingClient) *QuoteService {
	return &QuoteService{pricing: pricing}
}

// Quote prices the route between two place identifiers. No sign-in needed.
func (s *QuoteService) Quote(ctx context.Context, fromPlaceID, toPlaceID string) (*domain.Quote, error) {
	fromPlaceID = strings.TrimSpace(fromPlaceID)
	toPlaceID = strings.TrimSpace(toPlaceID)
	if fromPlaceID == "" || toPlaceID == "" {
		return nil, ErrPlacesRequired
	}

	return s.pricing.Quote(ctx, fromPlaceID, toPlaceID)
}

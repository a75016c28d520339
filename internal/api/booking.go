package api

import (
	"context"
	"net/http"

	"taxiweb/internal/domain"
)

const (
	msgRequestFailed   = "Request failed"
	msgBookingNotFound = "Booking not found"
)

// BookingAPI wraps the /api/bookings endpoints. Every call requires a token.
type BookingAPI struct {
	client *Client
}

// NewBookingAPI creates a new BookingAPI.
func NewBookingAPI(client *Client) *BookingAPI {
	return &BookingAPI{client: client}
}

type bookingResponse struct {
	Booking *domain.Booking `json:"booking"`
}

type bookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

// CreateWebsiteBooking handles POST /api/bookings/website.
func (b *BookingAPI) CreateWebsiteBooking(ctx context.Context, token string, req domain.CreateBookingRequest) (*domain.Booking, error) {
	return b.single(ctx, call{
		op:     "create website booking",
		method: http.MethodPost,
		path:   "/api/bookings/website",
		token:  token,
		body:   req,
	})
}

// ListMine handles GET /api/bookings/me.
func (b *BookingAPI) ListMine(ctx context.Context, token string) ([]domain.Booking, error) {
	var out bookingsResponse
	if err := b.client.do(ctx, call{
		op:       "list my bookings",
		method:   http.MethodGet,
		path:     "/api/bookings/me",
		token:    token,
		auth:     true,
		result:   &out,
		fallback: msgRequestFailed,
	}); err != nil {
		return nil, err
	}
	if out.Bookings == nil {
		return []domain.Booking{}, nil
	}
	return out.Bookings, nil
}

// GetMine handles GET /api/bookings/me/:id.
func (b *BookingAPI) GetMine(ctx context.Context, token, id string) (*domain.Booking, error) {
	return b.single(ctx, call{
		op:       "get my booking",
		method:   http.MethodGet,
		path:     "/api/bookings/me/{id}",
		token:    token,
		params:   map[string]string{"id": id},
		fallback: msgBookingNotFound,
	})
}

// CancelMine handles PATCH /api/bookings/me/:id/cancel.
func (b *BookingAPI) CancelMine(ctx context.Context, token, id string) (*domain.Booking, error) {
	return b.single(ctx, call{
		op:     "cancel my booking",
		method: http.MethodPatch,
		path:   "/api/bookings/me/{id}/cancel",
		token:  token,
		params: map[string]string{"id": id},
	})
}

func (b *BookingAPI) single(ctx context.Context, req call) (*domain.Booking, error) {
	var out bookingResponse
	req.auth = true
	req.result = &out
	if req.fallback == "" {
		req.fallback = msgRequestFailed
	}
	if err := b.client.do(ctx, req); err != nil {
		return nil, err
	}
	if out.Booking == nil {
		return nil, &Error{Kind: KindNotFound, Status: http.StatusOK, Message: msgBookingNotFound}
	}
	return out.Booking, nil
}

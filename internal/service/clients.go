package service

import (
	"context"

	"taxiweb/internal/domain"
)

// AuthClient is the backend surface used by AuthService.
type AuthClient interface {
	Register(ctx context.Context, req domain.Registration) (*domain.AuthResult, error)
	Login(ctx context.Context, req domain.Credentials) (*domain.AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// PricingClient is the backend surface used by the booking form and the quote dialog.
type PricingClient interface {
	Calculate(ctx context.Context, token, fromPlaceID, toPlaceID string) (*domain.Quote, error)
	Quote(ctx context.Context, fromPlaceID, toPlaceID string) (*domain.Quote, error)
}

// BookingClient is the backend surface used by BookingsService.
type BookingClient interface {
	CreateWebsiteBooking(ctx context.Context, token string, req domain.CreateBookingRequest) (*domain.Booking, error)
	ListMine(ctx context.Context, token string) ([]domain.Booking, error)
	GetMine(ctx context.Context, token, id string) (*domain.Booking, error)
	CancelMine(ctx context.Context, token, id string) (*domain.Booking, error)
}

// PaymentClient is the backend surface used by PaymentService.
type PaymentClient interface {
	CreateIntent(ctx context.Context, token string, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error)
}

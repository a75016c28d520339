package service

import (
	"context"
	"log"

	"taxiweb/internal/domain"
	"taxiweb/internal/session"
)

// BookingsService manages the cached bookings list and the draft of a session.
type BookingsService struct {
	client BookingClient
	tokens session.TokenStore
}

// NewBookingsService creates a new BookingsService.
func NewBookingsService(client BookingClient, tokens session.TokenStore) *BookingsService {
	return &BookingsService{
		client: client,
		tokens: tokens,
	}
}

// OnAuthenticated loads the bookings of the newly signed-in user.
func (s *BookingsService) OnAuthenticated(ctx context.Context, sess *session.Session) {
	s.Reload(ctx, sess)
}

// OnUnauthenticated drops the bookings list and the draft so nothing leaks
// into the next sign-in on the same browser.
func (s *BookingsService) OnUnauthenticated(_ context.Context, sess *session.Session) {
	sess.ClearBookings()
	sess.ClearDraft()
}

// Reload fetches the bookings list. A failed load leaves an empty list.
func (s *BookingsService) Reload(ctx context.Context, sess *session.Session) []domain.Booking {
	if !sess.IsAuthenticated() {
		return sess.Bookings()
	}

	gen := sess.Generation()
	sess.BeginLoading(gen)

	list, err := s.client.ListMine(ctx, tokenFor(ctx, s.tokens, sess))
	if err != nil {
		log.Printf("bookings: load for session %s failed: %v", sess.ID, err)
		list = []domain.Booking{}
	}

	sess.FinishLoading(gen, list)
	return sess.Bookings()
}

// Bookings returns the cached list, most recent first.
func (s *BookingsService) Bookings(sess *session.Session) []domain.Booking {
	return sess.Bookings()
}

// Draft returns the draft booking of sess or nil.
func (s *BookingsService) Draft(sess *session.Session) *domain.DraftBooking {
	return sess.Draft()
}

// SetDraft replaces the draft booking of sess.
func (s *BookingsService) SetDraft(sess *session.Session, d domain.DraftBooking) {
	sess.SetDraft(d)
}

// ClearDraft drops the draft booking of sess.
func (s *BookingsService) ClearDraft(sess *session.Session) {
	sess.ClearDraft()
}

// GetByID fetches one booking of the signed-in user. The result is not cached.
func (s *BookingsService) GetByID(ctx context.Context, sess *session.Session, id string) (*domain.Booking, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.client.GetMine(ctx, tokenFor(ctx, s.tokens, sess), id)
}

// Create persists a booking after payment. On success the booking is
// prepended to the list and the draft is cleared; on failure nothing changes.
func (s *BookingsService) Create(ctx context.Context, sess *session.Session, req domain.CreateBookingRequest) (*domain.Booking, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	gen := sess.Generation()
	booking, err := s.client.CreateWebsiteBooking(ctx, tokenFor(ctx, s.tokens, sess), req)
	if err != nil {
		return nil, err
	}

	if sess.PrependBooking(gen, *booking) {
		sess.ClearDraft()
	}
	return booking, nil
}

// Cancel cancels a booking and swaps the cached entry for the backend's
// updated representation. The entry stays in the list.
func (s *BookingsService) Cancel(ctx context.Context, sess *session.Session, id string) (*domain.Booking, error) {
	gen := sess.Generation()
	booking, err := s.client.CancelMine(ctx, tokenFor(ctx, s.tokens, sess), id)
	if err != nil {
		return nil, err
	}

	sess.ReplaceBooking(gen, *booking)
	return booking, nil
}

var _ AuthListener = (*BookingsService)(nil)

package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"taxiweb/internal/api"
	"taxiweb/internal/domain"
	"taxiweb/internal/service"
	"taxiweb/internal/session"
)

// ──────────────────────────────────────────────
// BOOKINGS LIST
// ──────────────────────────────────────────────

func TestCreate_SuccessPrependsOnceAndClearsDraft(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b-old"})
	sess := h.signedIn(t)
	draft := h.withDraft(t, sess)

	booking, err := h.bookings.Create(context.Background(), sess, draft.BookingRequest("pi_1", "pm_1"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	list := sess.Bookings()
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(list))
	}
	if list[0].ID != booking.ID {
		t.Errorf("expected new booking first, got %s", list[0].ID)
	}
	if sess.Draft() != nil {
		t.Error("expected draft to be cleared")
	}
	if h.bookingAPI.LastCreate.StripePaymentIntentID != "pi_1" || h.bookingAPI.LastCreate.Amount != 31.00 {
		t.Errorf("unexpected create payload: %+v", h.bookingAPI.LastCreate)
	}
}

func TestCreate_FailureChangesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b-old"})
	sess := h.signedIn(t)
	draft := h.withDraft(t, sess)
	h.bookingAPI.CreateError = &api.Error{Kind: api.KindBackend, Status: http.StatusInternalServerError, Message: "Booking failed"}

	_, err := h.bookings.Create(context.Background(), sess, draft.BookingRequest("pi_1", ""))

	if err == nil {
		t.Fatal("expected an error")
	}
	if list := sess.Bookings(); len(list) != 1 || list[0].ID != "b-old" {
		t.Errorf("expected list unchanged, got %+v", list)
	}
	if sess.Draft() == nil || sess.Draft().TempID != draft.TempID {
		t.Error("expected draft to be kept")
	}
}

func TestCreate_SignedOutSendsNoRequest(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())

	_, err := h.bookings.Create(context.Background(), sess, domain.CreateBookingRequest{})

	if !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if got := atomic.LoadInt32(&h.bookingAPI.CreateCallCount); got != 0 {
		t.Errorf("expected 0 create calls, got %d", got)
	}
}

func TestCancel_ReplacesEntryInPlace(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b1", Status: domain.BookingStatusConfirmed})
	h.bookingAPI.AddBooking(domain.Booking{ID: "b2", Status: domain.BookingStatusConfirmed})
	sess := h.signedIn(t)

	if _, err := h.bookings.Cancel(context.Background(), sess, "b1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	list := sess.Bookings()
	if len(list) != 2 {
		t.Fatalf("cancelled booking must stay listed, got %d entries", len(list))
	}
	if list[1].ID != "b1" || list[1].Status != domain.BookingStatusCancelled {
		t.Errorf("expected b1 cancelled in place, got %+v", list[1])
	}
}

func TestReload_FailureLeavesEmptyList(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b1"})
	sess := h.signedIn(t)
	h.bookingAPI.ListError = api.ErrAuthRequired

	list := h.bookings.Reload(context.Background(), sess)

	if len(list) != 0 {
		t.Errorf("expected empty list, got %+v", list)
	}
	if sess.Loading() {
		t.Error("expected loading to end")
	}
}

func TestReload_ResultAfterLogoutIsDiscarded(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b1"})
	sess := h.signedIn(t)

	gen := sess.Generation()
	h.auth.Logout(context.Background(), sess)

	if sess.FinishLoading(gen, []domain.Booking{{ID: "b1"}}) {
		t.Error("a load started before logout must not be applied")
	}
	if len(sess.Bookings()) != 0 {
		t.Error("expected empty list after logout")
	}
}

// ──────────────────────────────────────────────
// SINGLE BOOKING AGAINST A REAL HTTP BACKEND
// ──────────────────────────────────────────────

func TestGetByID_UnknownBookingReportsNotFound(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	tokens := session.NewMemoryTokenStore()
	client := api.NewClient(api.Options{BaseURL: backend.URL, Timeout: 2 * time.Second})
	bookings := service.NewBookingsService(api.NewBookingAPI(client), tokens)

	sess := session.New(session.NewID())
	sess.SetUser(&domain.User{ID: "u1"})
	_ = tokens.Set(context.Background(), sess.ID, "tok-1")

	_, err := bookings.GetByID(context.Background(), sess, "missing")

	if !api.IsKind(err, api.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if msg := api.Message(err, ""); msg != "Booking not found" {
		t.Errorf("expected %q, got %q", "Booking not found", msg)
	}
}

func TestGetByID_SignedOutIsRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.bookings.GetByID(context.Background(), session.New(session.NewID()), "b1")

	if !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if got := atomic.LoadInt32(&h.bookingAPI.GetCallCount); got != 0 {
		t.Errorf("expected 0 get calls, got %d", got)
	}
}

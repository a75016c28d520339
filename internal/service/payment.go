package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxiweb/internal/config"
	"taxiweb/internal/domain"
	"taxiweb/internal/redis"
	"taxiweb/internal/repository"
	"taxiweb/internal/session"
)

// ConfirmedRedirect is where the confirmation view sends the customer.
const ConfirmedRedirect = "/dashboard"

// ErrPaymentReferenceMissing is returned when the widget result carries no payment intent.
var ErrPaymentReferenceMissing = &ValidationError{Message: "Missing payment reference."}

// PaymentPage is everything the payment step renders.
type PaymentPage struct {
	Draft          domain.DraftBooking `json:"draft"`
	ClientSecret   string              `json:"clientSecret"`
	PublishableKey string              `json:"publishableKey"`
	Wallet         WalletRequest       `json:"wallet"`
}

// WidgetResult is reported by a payment widget once the processor has answered.
type WidgetResult struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId"`
	Status          string `json:"status"`
}

// Confirmation is the confirmation view shown after the booking is stored.
type Confirmation struct {
	Booking         domain.Booking `json:"booking"`
	FromAddress     string         `json:"fromAddress"`
	ToAddress       string         `json:"toAddress"`
	Amount          float64        `json:"amount"`
	Currency        string         `json:"currency"`
	Redirect        string         `json:"redirect"`
	RedirectAfterMs int64          `json:"redirectAfterMs"`
}

// PaymentService drives a draft through payment to a stored booking.
type PaymentService struct {
	payments        PaymentClient
	bookings        *BookingsService
	tokens          session.TokenStore
	locker          redis.ConfirmLocker
	reconciliations repository.ReconciliationRepository
	notifications   *NotificationService
	cfg             config.PaymentConfig
}

// NewPaymentService creates a new PaymentService. reconciliations may be nil.
func NewPaymentService(
	payments PaymentClient,
	bookings *BookingsService,
	tokens session.TokenStore,
	locker redis.ConfirmLocker,
	reconciliations repository.ReconciliationRepository,
	notifications *NotificationService,
	cfg config.PaymentConfig,
) *PaymentService {
	return &PaymentService{
		payments:        payments,
		bookings:        bookings,
		tokens:          tokens,
		locker:          locker,
		reconciliations: reconciliations,
		notifications:   notifications,
		cfg:             cfg,
	}
}

// Start requests a payment intent for the draft of sess.
func (s *PaymentService) Start(ctx context.Context, sess *session.Session) (*PaymentPage, error) {
	draft := s.bookings.Draft(sess)
	if draft == nil {
		return nil, ErrNoDraft
	}

	bookingID := draft.TempID
	if bookingID == "" {
		bookingID = "draft"
	}

	intent, err := s.payments.CreateIntent(ctx, tokenFor(ctx, s.tokens, sess), domain.PaymentIntentRequest{
		Amount:    draft.Pricing.TotalAmount,
		BookingID: bookingID,
		Currency:  draft.Pricing.Currency,
	})
	if err != nil {
		return nil, err
	}

	return &PaymentPage{
		Draft:          *draft,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.cfg.PublishableKey,
		Wallet:         NewWalletRequest(s.cfg, draft.Pricing.TotalAmount, draft.Pricing.Currency),
	}, nil
}

// Complete turns a successful widget result into a booking. Only one
// completion per session and per payment intent runs at a time; a duplicate
// gets ErrPaymentProcessing without reaching the backend.
func (s *PaymentService) Complete(ctx context.Context, sess *session.Session, res WidgetResult) (*Confirmation, error) {
	if res.Status != domain.PaymentIntentStatusSucceeded {
		return nil, &PaymentNotCompletedError{Status: res.Status}
	}
	res.PaymentIntentID = strings.TrimSpace(res.PaymentIntentID)
	if res.PaymentIntentID == "" {
		return nil, ErrPaymentReferenceMissing
	}

	if !sess.TryBeginProcessing() {
		return nil, ErrPaymentProcessing
	}
	defer sess.EndProcessing()

	locked, err := s.locker.AcquireConfirmLock(ctx, res.PaymentIntentID)
	if err != nil {
		log.Printf("payment: confirm lock for %s unavailable: %v", res.PaymentIntentID, err)
		locked = true
	}
	if !locked {
		return nil, ErrPaymentProcessing
	}

	draft := s.bookings.Draft(sess)
	if draft == nil {
		// Paid without a draft to book from, e.g. signed out in another tab.
		// The amount is unknown and stays zero on the record.
		log.Printf("payment: intent %s succeeded with no draft", res.PaymentIntentID)
		s.reconcile(ctx, sess, domain.DraftBooking{}, res, ErrNoDraft)
		s.releaseLock(ctx, res.PaymentIntentID)
		return nil, &PartialFailureError{PaymentIntentID: res.PaymentIntentID, Cause: ErrNoDraft}
	}

	booking, err := s.bookings.Create(ctx, sess, draft.BookingRequest(res.PaymentIntentID, res.PaymentMethodID))
	if err != nil {
		log.Printf("payment: booking creation failed for intent %s: %v", res.PaymentIntentID, err)
		s.reconcile(ctx, sess, *draft, res, err)
		s.releaseLock(ctx, res.PaymentIntentID)
		return nil, &PartialFailureError{PaymentIntentID: res.PaymentIntentID, Cause: err}
	}

	s.notifications.NotifyBookingConfirmed(ctx, sess.User(), booking)

	return &Confirmation{
		Booking:         *booking,
		FromAddress:     draft.FromAddress,
		ToAddress:       draft.ToAddress,
		Amount:          draft.Pricing.TotalAmount,
		Currency:        draft.Pricing.Currency,
		Redirect:        ConfirmedRedirect,
		RedirectAfterMs: s.cfg.RedirectDelay.Milliseconds(),
	}, nil
}

func (s *PaymentService) releaseLock(ctx context.Context, paymentIntentID string) {
	if err := s.locker.ReleaseConfirmLock(ctx, paymentIntentID); err != nil {
		log.Printf("payment: release confirm lock for %s: %v", paymentIntentID, err)
	}
}

// reconcile records a paid draft that has no booking. An intent already on
// the ledger is not recorded or announced again. Failures here are logged only.
func (s *PaymentService) reconcile(ctx context.Context, sess *session.Session, draft domain.DraftBooking, res WidgetResult, cause error) {
	if s.reconciliations != nil {
		existing, err := s.reconciliations.GetByPaymentIntentID(ctx, res.PaymentIntentID)
		switch {
		case err == nil && existing != nil:
			log.Printf("payment: intent %s already awaiting reconciliation as %s", res.PaymentIntentID, existing.ID)
			return
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			log.Printf("payment: look up reconciliation for %s: %v", res.PaymentIntentID, err)
		}
	}

	rec := &domain.Reconciliation{
		ID:              uuid.New().String(),
		SessionID:       sess.ID,
		PaymentIntentID: res.PaymentIntentID,
		PaymentMethodID: res.PaymentMethodID,
		Amount:          draft.Pricing.TotalAmount,
		Currency:        draft.Pricing.Currency,
		FromAddress:     draft.FromAddress,
		ToAddress:       draft.ToAddress,
		BookingDate:     draft.BookingDate,
		BookingTime:     draft.BookingTime,
		FailureMessage:  cause.Error(),
		CreatedAt:       time.Now().UTC(),
	}
	if u := sess.User(); u != nil {
		rec.UserID = u.ID
		rec.UserEmail = u.Email
	}

	if s.reconciliations != nil {
		if err := s.reconciliations.Create(ctx, rec); err != nil {
			log.Printf("payment: store reconciliation for %s: %v", rec.PaymentIntentID, err)
		}
	}
	s.notifications.NotifyPaymentUnreconciled(ctx, rec)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxiweb/internal/domain"
	"taxiweb/internal/session"
)

// PaymentRedirect is where a submitted booking form continues.
const PaymentRedirect = "/booking/payment"

const (
	dateLayout = "2006-01-02"

	minPassengers = 1
	maxPassengers = 10
	maxLuggage    = 10
)

var timeLayouts = []string{"15:04", "15:04:05"}

// FormState is a step of the booking form submission.
type FormState string

const (
	FormIdle  FormState = "idle"
	FormReady FormState = "ready"
)

// BookingForm is the submitted booking form.
type BookingForm struct {
	FromPlace       domain.Place   `json:"fromPlace"`
	ToPlace         domain.Place   `json:"toPlace"`
	CarType         domain.CarType `json:"carType"`
	NumberOfPersons int            `json:"numberOfPersons"`
	Luggage         int            `json:"luggage"`
	IsRoundTrip     bool           `json:"isRoundTrip"`
	PickupDate      string         `json:"pickupDate"`
	PickupTime      string         `json:"pickupTime"`
	ReturnDate      string         `json:"returnDate"`
	ReturnTime      string         `json:"returnTime"`
}

// FormResult is the outcome of a submission.
type FormResult struct {
	State    FormState            `json:"state"`
	Draft    *domain.DraftBooking `json:"draft,omitempty"`
	Redirect string               `json:"redirect,omitempty"`
}

// BookingFormService validates the booking form, prices it and turns it into
// the session's draft booking.
type BookingFormService struct {
	pricing  PricingClient
	bookings *BookingsService
	tokens   session.TokenStore
	currency string
	loc      *time.Location
	now      func() time.Time
	newID    func() string
}

// NewBookingFormService creates a new BookingFormService. Dates and times
// are read in loc.
func NewBookingFormService(pricing PricingClient, bookings *BookingsService, tokens session.TokenStore, currency string, loc *time.Location) *BookingFormService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingFormService{
		pricing:  pricing,
		bookings: bookings,
		tokens:   tokens,
		currency: currency,
		loc:      loc,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Submit runs validating, quoting and draft creation in order. Any failure
// returns the form to idle with no draft written.
func (s *BookingFormService) Submit(ctx context.Context, sess *session.Session, form BookingForm) (*FormResult, error) {
	idle := &FormResult{State: FormIdle}

	if err := s.Validate(form); err != nil {
		return idle, err
	}

	gen := sess.Generation()
	quote, err := s.pricing.Calculate(ctx,
		tokenFor(ctx, s.tokens, sess),
		strings.TrimSpace(form.FromPlace.PlaceID),
		strings.TrimSpace(form.ToPlace.PlaceID),
	)
	if err != nil {
		return idle, err
	}
	if sess.Generation() != gen || !sess.IsAuthenticated() {
		return idle, ErrNotAuthenticated
	}

	draft := s.buildDraft(form, *quote)
	s.bookings.SetDraft(sess, draft)

	return &FormResult{State: FormReady, Draft: &draft, Redirect: PaymentRedirect}, nil
}

// Validate checks the form against the submission time. It never calls the backend.
func (s *BookingFormService) Validate(form BookingForm) error {
	if strings.TrimSpace(form.FromPlace.PlaceID) == "" || strings.TrimSpace(form.ToPlace.PlaceID) == "" {
		return ErrPlacesRequired
	}
	if !form.CarType.Valid() {
		return ErrInvalidCarType
	}
	if form.NumberOfPersons < minPassengers || form.NumberOfPersons > maxPassengers {
		return ErrInvalidPassengers
	}
	if form.Luggage < 0 || form.Luggage > maxLuggage {
		return ErrInvalidLuggage
	}

	if strings.TrimSpace(form.PickupDate) == "" || strings.TrimSpace(form.PickupTime) == "" {
		return ErrPickupRequired
	}
	pickup, ok := s.parseDateTime(form.PickupDate, form.PickupTime)
	if !ok {
		return ErrPickupInvalid
	}
	if pickup.Before(s.now()) {
		return ErrPickupInPast
	}

	if !form.IsRoundTrip {
		return nil
	}

	if strings.TrimSpace(form.ReturnDate) == "" || strings.TrimSpace(form.ReturnTime) == "" {
		return ErrReturnRequired
	}
	ret, ok := s.parseDateTime(form.ReturnDate, form.ReturnTime)
	if !ok {
		return ErrReturnInvalid
	}
	if ret.Before(pickup) {
		return ErrReturnBeforePickup
	}
	return nil
}

func (s *BookingFormService) parseDateTime(date, clock string) (time.Time, bool) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), s.loc)
	if err != nil {
		return time.Time{}, false
	}

	clock = strings.TrimSpace(clock)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, s.loc), true
	}
	return time.Time{}, false
}

func (s *BookingFormService) buildDraft(form BookingForm, quote domain.Quote) domain.DraftBooking {
	draft := domain.DraftBooking{
		TempID:          s.newID(),
		Source:          domain.DraftSourceWeb,
		PaymentMethod:   domain.DraftPaymentMethod,
		FromAddress:     form.FromPlace.Label,
		ToAddress:       form.ToPlace.Label,
		FromPlaceID:     strings.TrimSpace(form.FromPlace.PlaceID),
		ToPlaceID:       strings.TrimSpace(form.ToPlace.PlaceID),
		CarType:         form.CarType,
		NumberOfPersons: form.NumberOfPersons,
		Luggage:         form.Luggage,
		IsRoundTrip:     form.IsRoundTrip,
		BookingDate:     form.PickupDate,
		BookingTime:     form.PickupTime,
		Pricing:         domain.NewPricingSnapshot(quote, s.currency),
	}
	if form.IsRoundTrip {
		draft.ReturnDate = form.ReturnDate
		draft.ReturnTime = form.ReturnTime
	}
	return draft
}

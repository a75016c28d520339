package domain

import "time"

// PaymentIntentStatusSucceeded is the only widget status treated as paid.
const PaymentIntentStatusSucceeded = "succeeded"

// PaymentIntentRequest asks the backend for a processor payment intent.
type PaymentIntentRequest struct {
	Amount    float64 `json:"amount"`
	BookingID string  `json:"bookingId"`
	Currency  string  `json:"currency"`
}

// PaymentIntent carries the client secret the payment widget binds to.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

// Reconciliation records a payment that succeeded without a booking being
// persisted. Support resolves these manually.
type Reconciliation struct {
	ID              string
	SessionID       string
	UserID          string
	UserEmail       string
	PaymentIntentID string
	PaymentMethodID string
	Amount          float64
	Currency        string
	FromAddress     string
	ToAddress       string
	BookingDate     string
	BookingTime     string
	FailureMessage  string
	CreatedAt       time.Time
}

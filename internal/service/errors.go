package service

import (
	"errors"
	"fmt"

	"taxiweb/internal/api"
)

// ValidationError is a user-facing input error detected before any request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrCredentialsRequired is returned when login is attempted without email or password.
	ErrCredentialsRequired = &ValidationError{Message: "Email and password are required"}

	// ErrRegistrationIncomplete is returned when a register field is empty.
	ErrRegistrationIncomplete = &ValidationError{Message: "Full name, email, phone and password are required"}

	// ErrPasswordMismatch is returned when the two register passwords differ.
	ErrPasswordMismatch = &ValidationError{Message: "Passwords do not match"}

	// ErrPlacesRequired is returned when either place selection is missing.
	ErrPlacesRequired = &ValidationError{Message: "Please select both pickup and drop-off locations."}

	// ErrInvalidCarType is returned for an unknown vehicle class.
	ErrInvalidCarType = &ValidationError{Message: "Please select a valid car type."}

	// ErrInvalidPassengers is returned when the passenger count is out of range.
	ErrInvalidPassengers = &ValidationError{Message: "Passengers must be between 1 and 10."}

	// ErrInvalidLuggage is returned when the luggage count is out of range.
	ErrInvalidLuggage = &ValidationError{Message: "Luggage must be between 0 and 10."}

	// ErrPickupRequired is returned when the pickup date or time is empty.
	ErrPickupRequired = &ValidationError{Message: "Please select a pickup date and time."}

	// ErrPickupInvalid is returned when the pickup date and time cannot be parsed.
	ErrPickupInvalid = &ValidationError{Message: "Pickup date or time is invalid."}

	// ErrPickupInPast is returned when the pickup is before the submission time.
	ErrPickupInPast = &ValidationError{Message: "Pickup date and time cannot be in the past."}

	// ErrReturnRequired is returned when a round trip has no return date or time.
	ErrReturnRequired = &ValidationError{Message: "Please select a return date and time."}

	// ErrReturnInvalid is returned when the return date and time cannot be parsed.
	ErrReturnInvalid = &ValidationError{Message: "Return date or time is invalid."}

	// ErrReturnBeforePickup is returned when the return precedes the pickup.
	ErrReturnBeforePickup = &ValidationError{Message: "Return date and time cannot be before pickup."}
)

var (
	// ErrNotAuthenticated is returned by operations that need a signed-in user.
	ErrNotAuthenticated = api.ErrAuthRequired

	// ErrNoDraft is returned when the payment step is entered without a draft booking.
	ErrNoDraft = errors.New("no draft booking")

	// ErrPaymentProcessing is returned when a payment completion is already in flight.
	ErrPaymentProcessing = errors.New("payment is already being processed")

	// ErrBootstrapPending is returned when the session check did not finish in time.
	ErrBootstrapPending = errors.New("session check still in progress")
)

const msgPartialFailure = "Payment was successful, but booking failed. Please contact support."

// PartialFailureError reports a payment that succeeded while the booking
// could not be persisted. It is never retried.
type PartialFailureError struct {
	PaymentIntentID string
	Cause           error
}

func (e *PartialFailureError) Error() string {
	return msgPartialFailure
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}

// Detail returns the backend's reason for the failed booking.
func (e *PartialFailureError) Detail() string {
	return api.Message(e.Cause, "Payment succeeded, but booking could not be confirmed.")
}

// PaymentNotCompletedError is returned when the widget reports a status other than succeeded.
type PaymentNotCompletedError struct {
	Status string
}

func (e *PaymentNotCompletedError) Error() string {
	return fmt.Sprintf("Payment not completed (status: %s). Please try again.", e.Status)
}

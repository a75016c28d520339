package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"taxiweb/internal/api"
)

func TestPartialFailureError(t *testing.T) {
	cause := &api.Error{Kind: api.KindBackend, Status: http.StatusConflict, Message: "Slot no longer available"}
	err := error(&PartialFailureError{PaymentIntentID: "pi_1", Cause: cause})

	assert.Equal(t, "Payment was successful, but booking failed. Please contact support.", err.Error())
	assert.True(t, api.IsKind(err, api.KindBackend))

	var partial *PartialFailureError
	assert.True(t, errors.As(err, &partial))
	assert.Equal(t, "Slot no longer available", partial.Detail())
}

func TestPartialFailureError_DetailFallback(t *testing.T) {
	partial := &PartialFailureError{PaymentIntentID: "pi_1", Cause: errors.New("context deadline exceeded")}

	assert.Equal(t, "Payment succeeded, but booking could not be confirmed.", partial.Detail())
}

func TestValidationSentinelsAreValidationErrors(t *testing.T) {
	for _, err := range []error{ErrPlacesRequired, ErrPickupInPast, ErrReturnBeforePickup, ErrPasswordMismatch} {
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), err.Error())
	}
}

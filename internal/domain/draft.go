package domain

const (
	// DraftSourceWeb marks bookings created through the website.
	DraftSourceWeb = "web"
	// DraftPaymentMethod is the processor used for website bookings.
	DraftPaymentMethod = "stripe"
)

// Place is a selection from the place-autocomplete widget.
type Place struct {
	PlaceID string `json:"placeId"`
	Label   string `json:"label"`
}

// DraftBooking is the single pre-payment booking held by a session.
// Date and time stay as the strings the customer entered.
type DraftBooking struct {
	TempID          string          `json:"tempId"`
	Source          string          `json:"source"`
	PaymentMethod   string          `json:"paymentMethod"`
	FromAddress     string          `json:"fromAddress"`
	ToAddress       string          `json:"toAddress"`
	FromPlaceID     string          `json:"fromPlaceId"`
	ToPlaceID       string          `json:"toPlaceId"`
	CarType         CarType         `json:"carType"`
	NumberOfPersons int             `json:"numberOfPersons"`
	Luggage         int             `json:"luggage"`
	IsRoundTrip     bool            `json:"isRoundTrip"`
	BookingDate     string          `json:"bookingDate"`
	BookingTime     string          `json:"bookingTime"`
	ReturnDate      string          `json:"returnDate,omitempty"`
	ReturnTime      string          `json:"returnTime,omitempty"`
	Pricing         PricingSnapshot `json:"pricing"`
}

// BookingRequest builds the create-booking payload from the draft and the
// processor-assigned payment identifiers.
func (d DraftBooking) BookingRequest(paymentIntentID, paymentMethodID string) CreateBookingRequest {
	return CreateBookingRequest{
		FromAddress:           d.FromAddress,
		ToAddress:             d.ToAddress,
		FromPlaceID:           d.FromPlaceID,
		ToPlaceID:             d.ToPlaceID,
		BookingDate:           d.BookingDate,
		BookingTime:           d.BookingTime,
		ReturnDate:            d.ReturnDate,
		ReturnTime:            d.ReturnTime,
		IsRoundTrip:           d.IsRoundTrip,
		NumberOfPersons:       d.NumberOfPersons,
		Luggage:               d.Luggage,
		CarType:               d.CarType,
		Amount:                d.Pricing.TotalAmount,
		Currency:              d.Pricing.Currency,
		Source:                d.Source,
		PaymentMethod:         d.PaymentMethod,
		StripePaymentIntentID: paymentIntentID,
		StripePaymentMethodID: paymentMethodID,
	}
}

package domain

// BookingStatus represents the lifecycle status of a confirmed booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents whether a booking has been paid.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// CarType is the vehicle class offered on the booking form.
type CarType string

const (
	CarTypeSedan     CarType = "sedan"
	CarTypeExecutive CarType = "executive"
	CarTypeMPV       CarType = "mpv"
	CarTypeSUV       CarType = "suv"
	CarTypeVan       CarType = "van"
)

// CarTypes lists the vehicle classes in display order.
var CarTypes = []CarType{CarTypeSedan, CarTypeExecutive, CarTypeMPV, CarTypeSUV, CarTypeVan}

// Valid reports whether c is one of the offered vehicle classes.
func (c CarType) Valid() bool {
	for _, t := range CarTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Booking is a confirmed booking owned by the backend.
type Booking struct {
	ID                    string        `json:"_id"`
	FromAddress           string        `json:"fromAddress"`
	ToAddress             string        `json:"toAddress"`
	BookingDate           string        `json:"bookingDate,omitempty"`
	BookingTime           string        `json:"bookingTime,omitempty"`
	ReturnDate            string        `json:"returnDate,omitempty"`
	ReturnTime            string        `json:"returnTime,omitempty"`
	PickupDateTime        string        `json:"pickupDateTime,omitempty"`
	CarType               CarType       `json:"carType"`
	NumberOfPersons       int           `json:"numberOfPersons"`
	Luggage               int           `json:"luggage"`
	Amount                float64       `json:"amount"`
	Currency              string        `json:"currency"`
	PaymentStatus         PaymentStatus `json:"paymentStatus"`
	Status                BookingStatus `json:"status"`
	StripePaymentIntentID string        `json:"stripePaymentIntentId,omitempty"`
}

// CreateBookingRequest is the payload sent after a successful payment.
type CreateBookingRequest struct {
	FromAddress           string  `json:"fromAddress"`
	ToAddress             string  `json:"toAddress"`
	FromPlaceID           string  `json:"fromPlaceId"`
	ToPlaceID             string  `json:"toPlaceId"`
	BookingDate           string  `json:"bookingDate"`
	BookingTime           string  `json:"bookingTime"`
	ReturnDate            string  `json:"returnDate,omitempty"`
	ReturnTime            string  `json:"returnTime,omitempty"`
	IsRoundTrip           bool    `json:"isRoundTrip"`
	NumberOfPersons       int     `json:"numberOfPersons"`
	Luggage               int     `json:"luggage"`
	CarType               CarType `json:"carType"`
	Amount                float64 `json:"amount"`
	Currency              string  `json:"currency"`
	Source                string  `json:"source"`
	PaymentMethod         string  `json:"paymentMethod"`
	StripePaymentIntentID string  `json:"stripePaymentIntentId"`
	StripePaymentMethodID string  `json:"stripePaymentMethodId,omitempty"`
}

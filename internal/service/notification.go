package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"taxiweb/internal/domain"
	"taxiweb/internal/queue"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed    NotificationType = "BOOKING_CONFIRMED"
	NotificationPaymentUnreconciled NotificationType = "PAYMENT_UNRECONCILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipientId"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// NotificationService publishes booking events for downstream consumers.
type NotificationService struct {
	publisher queue.Publisher
}

// NewNotificationService creates a new NotificationService. A nil publisher
// writes events to the log.
func NewNotificationService(publisher queue.Publisher) *NotificationService {
	if publisher == nil {
		publisher = queue.LogPublisher{}
	}
	return &NotificationService{publisher: publisher}
}

// NotifyBookingConfirmed announces a booking created after a successful payment.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, user *domain.User, booking *domain.Booking) {
	notification := Notification{
		Type:        NotificationBookingConfirmed,
		RecipientID: userID(user),
		Title:       "Booking Confirmed",
		Message: fmt.Sprintf("Your ride from %s to %s on %s %s is confirmed",
			booking.FromAddress, booking.ToAddress, booking.BookingDate, booking.BookingTime),
		Data: map[string]any{
			"booking_id":        booking.ID,
			"amount":            booking.Amount,
			"currency":          booking.Currency,
			"payment_intent_id": booking.StripePaymentIntentID,
		},
	}
	s.send(ctx, queue.RoutingBookingConfirmed, notification)
}

// NotifyPaymentUnreconciled alerts support to a payment with no booking.
func (s *NotificationService) NotifyPaymentUnreconciled(ctx context.Context, rec *domain.Reconciliation) {
	notification := Notification{
		Type:        NotificationPaymentUnreconciled,
		RecipientID: rec.UserID,
		Title:       "Payment Needs Reconciliation",
		Message: fmt.Sprintf("Payment %s of %.2f %s succeeded but no booking was created: %s",
			rec.PaymentIntentID, rec.Amount, rec.Currency, rec.FailureMessage),
		Data: map[string]any{
			"reconciliation_id": rec.ID,
			"session_id":        rec.SessionID,
			"user_email":        rec.UserEmail,
			"payment_intent_id": rec.PaymentIntentID,
			"payment_method_id": rec.PaymentMethodID,
			"amount":            rec.Amount,
			"currency":          rec.Currency,
			"from_address":      rec.FromAddress,
			"to_address":        rec.ToAddress,
			"booking_date":      rec.BookingDate,
			"booking_time":      rec.BookingTime,
		},
	}
	s.send(ctx, queue.RoutingPaymentUnreconciled, notification)
}

// send publishes a notification. A failure is logged and never reaches the caller.
func (s *NotificationService) send(ctx context.Context, routingKey string, notification Notification) {
	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now().UTC()

	if err := s.publisher.Publish(ctx, routingKey, notification); err != nil {
		log.Printf("[NOTIFICATION] publish %s failed: %v", notification.Type, err)
		return
	}

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s",
		notification.Type, notification.RecipientID, notification.Title)
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

package repository

import (
	"context"

	"taxiweb/internal/domain"
)

// ReconciliationRepository defines the persistence operations for payments
// that succeeded without a booking being created.
type ReconciliationRepository interface {
	// Create persists a new reconciliation record.
	Create(ctx context.Context, rec *domain.Reconciliation) error

	// GetByPaymentIntentID retrieves the record for a payment intent.
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Reconciliation, error)
}

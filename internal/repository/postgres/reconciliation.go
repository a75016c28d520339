package postgres

import (
	"context"
	"database/sql"
	"errors"

	"taxiweb/internal/domain"
	"taxiweb/internal/repository"
)

// ReconciliationRepository is a PostgreSQL implementation of repository.ReconciliationRepository.
type ReconciliationRepository struct {
	q Querier
}

// NewReconciliationRepository creates a new PostgreSQL reconciliation repository.
func NewReconciliationRepository(db *sql.DB) *ReconciliationRepository {
	return &ReconciliationRepository{q: db}
}

// Create persists a new reconciliation record.
func (r *ReconciliationRepository) Create(ctx context.Context, rec *domain.Reconciliation) error {
	query := `
		INSERT INTO payment_reconciliations (
			id, session_id, user_id, user_email, payment_intent_id, payment_method_id,
			amount, currency, from_address, to_address, booking_date, booking_time,
			failure_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.ExecContext(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.UserID,
		rec.UserEmail,
		rec.PaymentIntentID,
		rec.PaymentMethodID,
		rec.Amount,
		rec.Currency,
		rec.FromAddress,
		rec.ToAddress,
		rec.BookingDate,
		rec.BookingTime,
		rec.FailureMessage,
		rec.CreatedAt,
	)

	return err
}

// GetByPaymentIntentID retrieves the most recent record for a payment intent.
func (r *ReconciliationRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Reconciliation, error) {
	query := `
		SELECT id, session_id, user_id, user_email, payment_intent_id, payment_method_id,
			amount, currency, from_address, to_address, booking_date, booking_time,
			failure_message, created_at
		FROM payment_reconciliations
		WHERE payment_intent_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec domain.Reconciliation
	err := r.q.QueryRowContext(ctx, query, paymentIntentID).Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.UserID,
		&rec.UserEmail,
		&rec.PaymentIntentID,
		&rec.PaymentMethodID,
		&rec.Amount,
		&rec.Currency,
		&rec.FromAddress,
		&rec.ToAddress,
		&rec.BookingDate,
		&rec.BookingTime,
		&rec.FailureMessage,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rec, nil
}

var _ repository.ReconciliationRepository = (*ReconciliationRepository)(nil)

package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiweb/internal/domain"
	"taxiweb/internal/repository"
)

var reconciliationColumns = []string{
	"id", "session_id", "user_id", "user_email", "payment_intent_id", "payment_method_id",
	"amount", "currency", "from_address", "to_address", "booking_date", "booking_time",
	"failure_message", "created_at",
}

func TestReconciliationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rec := &domain.Reconciliation{
		ID:              "r1",
		SessionID:       "s1",
		UserID:          "u1",
		UserEmail:       "jane@example.com",
		PaymentIntentID: "pi_1",
		PaymentMethodID: "pm_1",
		Amount:          31,
		Currency:        "GBP",
		FromAddress:     "Heathrow T5",
		ToAddress:       "Oxford",
		BookingDate:     "2026-03-02",
		BookingTime:     "10:00",
		FailureMessage:  "Request failed",
		CreatedAt:       created,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_reconciliations")).
		WithArgs("r1", "s1", "u1", "jane@example.com", "pi_1", "pm_1", 31.0, "GBP",
			"Heathrow T5", "Oxford", "2026-03-02", "10:00", "Request failed", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewReconciliationRepository(db).Create(context.Background(), rec)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconciliationRepository_GetByPaymentIntentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows(reconciliationColumns).
		AddRow("r1", "s1", "u1", "jane@example.com", "pi_1", "pm_1", 31.0, "GBP",
			"Heathrow T5", "Oxford", "2026-03-02", "10:00", "Request failed", created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_reconciliations")).
		WithArgs("pi_1").
		WillReturnRows(rows)

	rec, err := NewReconciliationRepository(db).GetByPaymentIntentID(context.Background(), "pi_1")

	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, 31.0, rec.Amount)
	assert.Equal(t, created, rec.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconciliationRepository_GetByPaymentIntentID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_reconciliations")).
		WithArgs("pi_missing").
		WillReturnRows(sqlmock.NewRows(reconciliationColumns))

	rec, err := NewReconciliationRepository(db).GetByPaymentIntentID(context.Background(), "pi_missing")

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

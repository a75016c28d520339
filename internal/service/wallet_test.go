package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiweb/internal/config"
)

func TestNewWalletRequest(t *testing.T) {
	cfg := config.PaymentConfig{
		PublishableKey:    "pk_test_123",
		Currency:          "GBP",
		CountryCode:       "GB",
		MerchantName:      "Ezza Taxi Service",
		WalletEnvironment: "TEST",
	}

	req := NewWalletRequest(cfg, 31, "")

	assert.Equal(t, "TEST", req.Environment)
	assert.Equal(t, 2, req.APIVersion)
	assert.Equal(t, 0, req.APIVersionMinor)
	require.Len(t, req.AllowedPaymentMethods, 1)

	card := req.AllowedPaymentMethods[0]
	assert.Equal(t, "CARD", card.Type)
	assert.ElementsMatch(t, []string{"PAN_ONLY", "CRYPTOGRAM_3DS"}, card.Parameters.AllowedAuthMethods)
	assert.ElementsMatch(t, []string{"VISA", "MASTERCARD"}, card.Parameters.AllowedCardNetworks)
	assert.Equal(t, "PAYMENT_GATEWAY", card.TokenizationSpecification.Type)
	assert.Equal(t, "stripe", card.TokenizationSpecification.Parameters["gateway"])
	assert.Equal(t, "pk_test_123", card.TokenizationSpecification.Parameters["stripe:publishableKey"])

	assert.Equal(t, "Ezza Taxi Service", req.MerchantInfo.MerchantName)
	assert.Equal(t, "FINAL", req.TransactionInfo.TotalPriceStatus)
	assert.Equal(t, "31.00", req.TransactionInfo.TotalPrice)
	assert.Equal(t, "GBP", req.TransactionInfo.CurrencyCode)
	assert.Equal(t, "GB", req.TransactionInfo.CountryCode)
}

func TestNewWalletRequest_TwoDecimalsAndExplicitCurrency(t *testing.T) {
	req := NewWalletRequest(config.PaymentConfig{Currency: "GBP"}, 12.5, "EUR")

	assert.Equal(t, "12.50", req.TransactionInfo.TotalPrice)
	assert.Equal(t, "EUR", req.TransactionInfo.CurrencyCode)
}

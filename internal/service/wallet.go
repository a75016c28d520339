package service

import (
	"fmt"

	"taxiweb/internal/config"
)

const (
	walletGateway        = "stripe"
	walletGatewayVersion = "2022-11-15"
)

// WalletRequest is the Google Pay PaymentDataRequest rendered by the wallet button.
type WalletRequest struct {
	Environment           string                `json:"environment"`
	APIVersion            int                   `json:"apiVersion"`
	APIVersionMinor       int                   `json:"apiVersionMinor"`
	AllowedPaymentMethods []WalletPaymentMethod `json:"allowedPaymentMethods"`
	MerchantInfo          WalletMerchantInfo    `json:"merchantInfo"`
	TransactionInfo       WalletTransactionInfo `json:"transactionInfo"`
}

// WalletPaymentMethod describes an accepted card method.
type WalletPaymentMethod struct {
	Type                      string                 `json:"type"`
	Parameters                WalletCardParameters   `json:"parameters"`
	TokenizationSpecification WalletTokenizationSpec `json:"tokenizationSpecification"`
}

// WalletCardParameters lists the accepted authentication methods and networks.
type WalletCardParameters struct {
	AllowedAuthMethods  []string `json:"allowedAuthMethods"`
	AllowedCardNetworks []string `json:"allowedCardNetworks"`
}

// WalletTokenizationSpec routes the wallet token to the payment gateway.
type WalletTokenizationSpec struct {
	Type       string            `json:"type"`
	Parameters map[string]string `json:"parameters"`
}

// WalletMerchantInfo names the merchant on the wallet sheet.
type WalletMerchantInfo struct {
	MerchantName string `json:"merchantName"`
}

// WalletTransactionInfo is the final amount shown on the wallet sheet.
type WalletTransactionInfo struct {
	TotalPriceStatus string `json:"totalPriceStatus"`
	TotalPrice       string `json:"totalPrice"`
	CurrencyCode     string `json:"currencyCode"`
	CountryCode      string `json:"countryCode"`
}

// NewWalletRequest builds the wallet request for a final amount.
func NewWalletRequest(cfg config.PaymentConfig, amount float64, currency string) WalletRequest {
	if currency == "" {
		currency = cfg.Currency
	}

	return WalletRequest{
		Environment:     cfg.WalletEnvironment,
		APIVersion:      2,
		APIVersionMinor: 0,
		AllowedPaymentMethods: []WalletPaymentMethod{
			{
				Type: "CARD",
				Parameters: WalletCardParameters{
					AllowedAuthMethods:  []string{"PAN_ONLY", "CRYPTOGRAM_3DS"},
					AllowedCardNetworks: []string{"VISA", "MASTERCARD"},
				},
				TokenizationSpecification: WalletTokenizationSpec{
					Type: "PAYMENT_GATEWAY",
					Parameters: map[string]string{
						"gateway":               walletGateway,
						"stripe:version":        walletGatewayVersion,
						"stripe:publishableKey": cfg.PublishableKey,
					},
				},
			},
		},
		MerchantInfo: WalletMerchantInfo{MerchantName: cfg.MerchantName},
		TransactionInfo: WalletTransactionInfo{
			TotalPriceStatus: "FINAL",
			TotalPrice:       fmt.Sprintf("%.2f", amount),
			CurrencyCode:     currency,
			CountryCode:      cfg.CountryCode,
		},
	}
}

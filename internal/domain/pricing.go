package domain

// Distance is the server-computed route length.
type Distance struct {
	Meters float64 `json:"meters"`
	Miles  float64 `json:"miles"`
}

// Fare is the server-computed price for a route.
type Fare struct {
	RatePerMile float64 `json:"ratePerMile"`
	Total       float64 `json:"total"`
}

// Quote is the pricing response for a pair of place identifiers.
type Quote struct {
	Distance Distance `json:"distance"`
	Pricing  Fare     `json:"pricing"`
}

// PricingSnapshot is attached to a draft once and never recomputed by the client.
type PricingSnapshot struct {
	DistanceMeters float64 `json:"distanceMeters"`
	DistanceMiles  float64 `json:"distanceMiles"`
	RatePerMile    float64 `json:"ratePerMile"`
	TotalAmount    float64 `json:"totalAmount"`
	Currency       string  `json:"currency"`
}

// NewPricingSnapshot copies the quote values as-is.
func NewPricingSnapshot(q Quote, currency string) PricingSnapshot {
	return PricingSnapshot{
		DistanceMeters: q.Distance.Meters,
		DistanceMiles:  q.Distance.Miles,
		RatePerMile:    q.Pricing.RatePerMile,
		TotalAmount:    q.Pricing.Total,
		Currency:       currency,
	}
}

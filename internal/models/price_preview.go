package models

// PricePreview is the read-only quote returned before a seller commits to
// a submission. Breakdown mirrors the calculator output so the UI can show
// how the total was assembled.
type PricePreview struct {
	BoostType    BoostType `json:"boost_type"`
	City         *string   `json:"city,omitempty"`
	Duration     int       `json:"duration"`
	ProductCount int       `json:"product_count"`

	BasePrice          float64   `json:"base_price"`
	PriceType          PriceType `json:"price_type"`
	PricingMultiplier  float64   `json:"pricing_multiplier"`
	SeasonalMultiplier float64   `json:"seasonal_multiplier"`
	SeasonalCampaignID *string   `json:"seasonal_campaign_id,omitempty"`

	BillingUnits   int     `json:"billing_units"`
	QuantityFactor int     `json:"quantity_factor"`
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal"`
	TotalPrice     float64 `json:"total_price"`
}

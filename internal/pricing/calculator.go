package pricing

import (
	"math"

	"boostapi/internal/models"
)

// Quote is the output of one price calculation. All money fields are
// rounded to 2 decimals.
type Quote struct {
	BillingUnits       int     `json:"billing_units"`
	QuantityFactor     int     `json:"quantity_factor"`
	UnitPrice          float64 `json:"unit_price"`
	Subtotal           float64 `json:"subtotal"`
	TotalPrice         float64 `json:"total_price"`
	SeasonalMultiplier float64 `json:"seasonal_multiplier"`
}

// Calculate prices a boost of the given type for the requested duration and
// product count against a resolved pricing rule. It is a pure function: the
// caller resolves the rule and the seasonal multiplier beforehand.
//
// A nil rule or unknown boost type yields a zero Quote; callers must treat
// that as a validation failure, never persist it.
func Calculate(rule *models.PricingRule, boostType models.BoostType, duration, productCount int, seasonalMultiplier float64) Quote {
	if rule == nil || !boostType.Valid() {
		return Quote{}
	}

	seasonal := sanitizeMultiplier(seasonalMultiplier)
	unitPrice := round2(rule.BasePrice * sanitizeMultiplier(rule.Multiplier))

	units := billingUnits(rule.PriceType, duration)
	factor := quantityFactor(boostType, units, productCount)

	subtotal := round2(unitPrice * float64(factor))
	total := round2(subtotal * seasonal)

	return Quote{
		BillingUnits:       units,
		QuantityFactor:     factor,
		UnitPrice:          unitPrice,
		Subtotal:           subtotal,
		TotalPrice:         total,
		SeasonalMultiplier: seasonal,
	}
}

// billingUnits converts a requested duration in days into chargeable units:
// days for per_day, whole weeks rounded up for per_week, a single unit for
// fixed pricing. Never less than 1.
func billingUnits(priceType models.PriceType, duration int) int {
	if duration < 1 {
		duration = 1
	}
	switch priceType {
	case models.PriceTypePerWeek:
		units := (duration + 6) / 7
		if units < 1 {
			units = 1
		}
		return units
	case models.PriceTypeFixed:
		return 1
	default:
		return duration
	}
}

func quantityFactor(boostType models.BoostType, units, productCount int) int {
	switch boostType {
	case models.BoostTypeProduct, models.BoostTypeLocalProduct:
		if productCount < 1 {
			productCount = 1
		}
		return units * productCount
	case models.BoostTypeHomepage:
		return 1
	default: // SHOP_BOOST scales by duration only
		return units
	}
}

// sanitizeMultiplier normalizes non-finite or non-positive multipliers to 1
// so a bad catalog row degrades to base pricing instead of poisoning totals.
func sanitizeMultiplier(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return 1
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package models

import "time"

type PriceType string

const (
	PriceTypePerDay  PriceType = "per_day"
	PriceTypePerWeek PriceType = "per_week"
	PriceTypeFixed   PriceType = "fixed"
)

func (p PriceType) Valid() bool {
	switch p {
	case PriceTypePerDay, PriceTypePerWeek, PriceTypeFixed:
		return true
	}
	return false
}

// MaxPricingRuleHistory bounds the revision log kept on each rule.
const MaxPricingRuleHistory = 30

// PricingRuleRevision is a superseded set of rule values. Rules are never
// deleted; edits push the previous values onto the history log.
type PricingRuleRevision struct {
	BasePrice  float64   `json:"base_price"`
	PriceType  PriceType `json:"price_type"`
	Multiplier float64   `json:"multiplier"`
	IsActive   bool      `json:"is_active"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  string    `json:"changed_by,omitempty"`
}

// PricingRule is a base price entry for one boost type, optionally scoped
// to a city. City = nil is the global default used when no city-specific
// rule matches.
type PricingRule struct {
	ID         string                `json:"id"`
	BoostType  BoostType             `json:"boost_type"`
	City       *string               `json:"city,omitempty"`
	BasePrice  float64               `json:"base_price"`
	PriceType  PriceType             `json:"price_type"`
	Multiplier float64               `json:"multiplier"`
	IsActive   bool                  `json:"is_active"`
	History    []PricingRuleRevision `json:"history,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

type CreatePricingRuleRequest struct {
	BoostType  string  `json:"boost_type" validate:"required,oneof=PRODUCT_BOOST LOCAL_PRODUCT_BOOST SHOP_BOOST HOMEPAGE_FEATURED"`
	City       *string `json:"city,omitempty"`
	BasePrice  float64 `json:"base_price" validate:"required,gt=0"`
	PriceType  string  `json:"price_type" validate:"required,oneof=per_day per_week fixed"`
	Multiplier float64 `json:"multiplier" validate:"omitempty,gt=0"`
}

type UpdatePricingRuleRequest struct {
	BasePrice  *float64 `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	PriceType  *string  `json:"price_type,omitempty" validate:"omitempty,oneof=per_day per_week fixed"`
	Multiplier *float64 `json:"multiplier,omitempty" validate:"omitempty,gt=0"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

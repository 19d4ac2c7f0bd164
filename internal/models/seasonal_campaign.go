package models

import "time"

// SeasonalCampaign is a time-bounded price multiplier, e.g. a holiday
// surge. AppliesTo empty means the multiplier covers every boost type.
type SeasonalCampaign struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Multiplier float64   `json:"multiplier"`
	AppliesTo  []string  `json:"applies_to"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateSeasonalCampaignRequest struct {
	Name       string    `json:"name" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Multiplier float64   `json:"multiplier" validate:"required,gt=0"`
	AppliesTo  []string  `json:"applies_to,omitempty" validate:"omitempty,dive,oneof=PRODUCT_BOOST LOCAL_PRODUCT_BOOST SHOP_BOOST HOMEPAGE_FEATURED"`
}

type UpdateSeasonalCampaignRequest struct {
	Name       *string    `json:"name,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Multiplier *float64   `json:"multiplier,omitempty" validate:"omitempty,gt=0"`
	AppliesTo  *[]string  `json:"applies_to,omitempty" validate:"omitempty,dive,oneof=PRODUCT_BOOST LOCAL_PRODUCT_BOOST SHOP_BOOST HOMEPAGE_FEATURED"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

package models

import "time"

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

// Product belongs to the catalog side of the app. The boost fields are a
// derived cache of the boost_requests table, maintained only by the
// reconciliation sweep and the activation path. Nothing else writes them.
type Product struct {
	ID       string        `json:"id"`
	SellerID string        `json:"seller_id"`
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	Status   ProductStatus `json:"status"`

	Boosted       bool       `json:"boosted"`
	BoostType     *string    `json:"boost_type,omitempty"`
	BoostStartsAt *time.Time `json:"boost_starts_at,omitempty"`
	BoostEndsAt   *time.Time `json:"boost_ends_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

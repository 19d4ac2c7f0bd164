package models

import "time"

type BoostType string

const (
	BoostTypeProduct      BoostType = "PRODUCT_BOOST"
	BoostTypeLocalProduct BoostType = "LOCAL_PRODUCT_BOOST"
	BoostTypeShop         BoostType = "SHOP_BOOST"
	BoostTypeHomepage     BoostType = "HOMEPAGE_FEATURED"
)

func (t BoostType) Valid() bool {
	switch t {
	case BoostTypeProduct, BoostTypeLocalProduct, BoostTypeShop, BoostTypeHomepage:
		return true
	}
	return false
}

// RequiresProducts reports whether the type promotes individual products
// and therefore needs at least one product id. SHOP_BOOST is the only
// type that must carry none.
func (t BoostType) RequiresProducts() bool {
	return t != BoostTypeShop
}

type BoostStatus string

const (
	BoostStatusPending  BoostStatus = "PENDING"
	BoostStatusApproved BoostStatus = "APPROVED"
	BoostStatusRejected BoostStatus = "REJECTED"
	BoostStatusActive   BoostStatus = "ACTIVE"
	BoostStatusExpired  BoostStatus = "EXPIRED"
)

// BoostRequest is the aggregate the whole engine revolves around: a paid,
// time-windowed promotional placement submitted by a seller and moderated
// by an administrator. The pricing snapshot is frozen at submission time so
// later catalog edits never change what a seller was quoted.
type BoostRequest struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"seller_id"`
	BoostType  BoostType `json:"boost_type"`
	ProductIDs []string  `json:"product_ids"`
	City       *string   `json:"city,omitempty"`
	Duration   int       `json:"duration"`

	UnitPrice          float64   `json:"unit_price"`
	BasePrice          float64   `json:"base_price"`
	PriceType          PriceType `json:"price_type"`
	PricingMultiplier  float64   `json:"pricing_multiplier"`
	SeasonalMultiplier float64   `json:"seasonal_multiplier"`
	SeasonalCampaignID *string   `json:"seasonal_campaign_id,omitempty"`
	TotalPrice         float64   `json:"total_price"`

	PaymentOperator      string `json:"payment_operator"`
	PaymentSenderName    string `json:"payment_sender_name"`
	PaymentTransactionID string `json:"payment_transaction_id"`
	PaymentProofURL      string `json:"payment_proof_url,omitempty"`

	Status    BoostStatus `json:"status"`
	StartDate *time.Time  `json:"start_date,omitempty"`
	EndDate   *time.Time  `json:"end_date,omitempty"`

	Impressions int `json:"impressions"`
	Clicks      int `json:"clicks"`

	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *string    `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContestedResources returns the claim keys this request occupies while it
// is PENDING, APPROVED or ACTIVE: one per product id for product-scoped
// types, a single seller-scoped key for SHOP_BOOST. At most one unexpired
// request may hold each key.
func (b *BoostRequest) ContestedResources() []string {
	if b.BoostType == BoostTypeShop {
		return []string{ShopClaimKey(b.SellerID)}
	}
	keys := make([]string, 0, len(b.ProductIDs))
	for _, pid := range b.ProductIDs {
		keys = append(keys, pid)
	}
	return keys
}

func ShopClaimKey(sellerID string) string {
	return sellerID + ":shop"
}

type SubmitBoostRequest struct {
	BoostType            string   `json:"boost_type" validate:"required,oneof=PRODUCT_BOOST LOCAL_PRODUCT_BOOST SHOP_BOOST HOMEPAGE_FEATURED"`
	City                 string   `json:"city,omitempty"`
	Duration             int      `json:"duration" validate:"required,min=1"`
	ProductIDs           []string `json:"product_ids,omitempty" validate:"omitempty,max=50,dive,uuid4"`
	PaymentOperator      string   `json:"payment_operator" validate:"required"`
	PaymentSenderName    string   `json:"payment_sender_name" validate:"required"`
	PaymentTransactionID string   `json:"payment_transaction_id" validate:"required,len=10,numeric"`
}

type TransitionBoostRequest struct {
	Status          string     `json:"status" validate:"required,oneof=ACTIVE REJECTED EXPIRED"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

type BoostSummary struct {
	PendingCount      int     `json:"pending_count"`
	ActiveCount       int     `json:"active_count"`
	ExpiredCount      int     `json:"expired_count"`
	RejectedCount     int     `json:"rejected_count"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalImpressions  int64   `json:"total_impressions"`
	TotalClicks       int64   `json:"total_clicks"`
}

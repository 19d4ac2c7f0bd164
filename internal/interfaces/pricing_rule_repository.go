package interfaces

import (
	"context"

	"boostapi/internal/models"
)

// PricingRuleFilter narrows rule listings for the admin catalog view.
type PricingRuleFilter struct {
	BoostType       string
	City            string
	IncludeInactive bool
}

// PricingRuleRepository is the pricing catalog: one active rule per
// (boost_type, city), city NULL being the global default.
type PricingRuleRepository interface {
	Create(ctx context.Context, rule *models.PricingRule) error
	GetByID(ctx context.Context, id string) (*models.PricingRule, error)
	List(ctx context.Context, filter PricingRuleFilter) ([]*models.PricingRule, error)
	// Update supersedes the stored values, pushing the old ones onto the
	// bounded history log. Rules are never deleted.
	Update(ctx context.Context, id string, req *models.UpdatePricingRuleRequest, changedBy string) (*models.PricingRule, error)
	// Resolve finds the rule for a boost type: city-specific first, global
	// fallback. Inactive rules are skipped unless includeInactive is set
	// (administrative preview only). Returns (nil, nil) when nothing matches.
	Resolve(ctx context.Context, boostType models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error)
}

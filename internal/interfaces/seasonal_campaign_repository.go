package interfaces

import (
	"context"
	"time"

	"boostapi/internal/models"
)

type SeasonalCampaignRepository interface {
	Create(ctx context.Context, campaign *models.SeasonalCampaign) error
	GetByID(ctx context.Context, id string) (*models.SeasonalCampaign, error)
	List(ctx context.Context, includeInactive bool) ([]*models.SeasonalCampaign, error)
	Update(ctx context.Context, id string, req *models.UpdateSeasonalCampaignRequest) (*models.SeasonalCampaign, error)
	// Current picks the single campaign applying to boostType at now:
	// active, in-window, type-matching, highest multiplier winning with
	// most-recently-updated as tie-break. (nil, nil) when none match.
	Current(ctx context.Context, boostType models.BoostType, now time.Time) (*models.SeasonalCampaign, error)
}

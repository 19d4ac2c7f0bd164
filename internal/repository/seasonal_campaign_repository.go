package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

const seasonalCampaignColumns = `
        id, name, start_date, end_date, multiplier, applies_to,
        is_active, created_at, updated_at`

type seasonalCampaignRepository struct {
	db *sql.DB
}

func NewSeasonalCampaignRepository(db *sql.DB) interfaces.SeasonalCampaignRepository {
	return &seasonalCampaignRepository{db: db}
}

func scanSeasonalCampaign(row rowScanner) (*models.SeasonalCampaign, error) {
	var c models.SeasonalCampaign
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.StartDate,
		&c.EndDate,
		&c.Multiplier,
		pq.Array(&c.AppliesTo),
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *seasonalCampaignRepository) Create(ctx context.Context, campaign *models.SeasonalCampaign) error {
	appliesTo := campaign.AppliesTo
	if appliesTo == nil {
		appliesTo = []string{}
	}

	query := `
        INSERT INTO seasonal_campaigns (name, start_date, end_date, multiplier, applies_to, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `

	return r.db.QueryRowContext(
		ctx,
		query,
		campaign.Name,
		campaign.StartDate,
		campaign.EndDate,
		campaign.Multiplier,
		pq.Array(appliesTo),
		campaign.IsActive,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *seasonalCampaignRepository) GetByID(ctx context.Context, id string) (*models.SeasonalCampaign, error) {
	query := `SELECT ` + seasonalCampaignColumns + ` FROM seasonal_campaigns WHERE id = $1`
	return scanSeasonalCampaign(r.db.QueryRowContext(ctx, query, id))
}

func (r *seasonalCampaignRepository) List(ctx context.Context, includeInactive bool) ([]*models.SeasonalCampaign, error) {
	query := `SELECT ` + seasonalCampaignColumns + ` FROM seasonal_campaigns`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.SeasonalCampaign
	for rows.Next() {
		c, err := scanSeasonalCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *seasonalCampaignRepository) Update(ctx context.Context, id string, req *models.UpdateSeasonalCampaignRequest) (*models.SeasonalCampaign, error) {
	campaign, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.StartDate != nil {
		campaign.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		campaign.EndDate = *req.EndDate
	}
	if req.Multiplier != nil {
		campaign.Multiplier = *req.Multiplier
	}
	if req.AppliesTo != nil {
		campaign.AppliesTo = *req.AppliesTo
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if !campaign.EndDate.After(campaign.StartDate) {
		return nil, models.NewValidationError("end_date", "end date must be after start date")
	}

	appliesTo := campaign.AppliesTo
	if appliesTo == nil {
		appliesTo = []string{}
	}

	query := `
        UPDATE seasonal_campaigns
        SET name = $1,
            start_date = $2,
            end_date = $3,
            multiplier = $4,
            applies_to = $5,
            is_active = $6,
            updated_at = NOW() AT TIME ZONE 'UTC'
        WHERE id = $7
        RETURNING updated_at
    `

	err = r.db.QueryRowContext(
		ctx,
		query,
		campaign.Name,
		campaign.StartDate,
		campaign.EndDate,
		campaign.Multiplier,
		pq.Array(appliesTo),
		campaign.IsActive,
		id,
	).Scan(&campaign.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

// Current resolves "which seasonal multiplier applies right now" in one
// query: highest multiplier wins, most recently updated breaks ties.
func (r *seasonalCampaignRepository) Current(ctx context.Context, boostType models.BoostType, now time.Time) (*models.SeasonalCampaign, error) {
	query := `SELECT ` + seasonalCampaignColumns + `
        FROM seasonal_campaigns
        WHERE is_active = TRUE
          AND start_date <= $2
          AND end_date >= $2
          AND (applies_to = '{}' OR $1 = ANY(applies_to))
        ORDER BY multiplier DESC, updated_at DESC
        LIMIT 1`

	campaign, err := scanSeasonalCampaign(r.db.QueryRowContext(ctx, query, boostType, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return campaign, nil
}

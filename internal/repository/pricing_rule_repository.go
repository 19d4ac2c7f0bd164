package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

const pricingRuleColumns = `
        id, boost_type, city, base_price, price_type, multiplier,
        is_active, history, created_at, updated_at`

type pricingRuleRepository struct {
	db *sql.DB
}

func NewPricingRuleRepository(db *sql.DB) interfaces.PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

func scanPricingRule(row rowScanner) (*models.PricingRule, error) {
	var rule models.PricingRule
	var history []byte
	err := row.Scan(
		&rule.ID,
		&rule.BoostType,
		&rule.City,
		&rule.BasePrice,
		&rule.PriceType,
		&rule.Multiplier,
		&rule.IsActive,
		&history,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &rule.History); err != nil {
			return nil, fmt.Errorf("failed to decode pricing rule history: %w", err)
		}
	}
	return &rule, nil
}

func (r *pricingRuleRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	if rule.Multiplier <= 0 {
		rule.Multiplier = 1
	}

	query := `
        INSERT INTO pricing_rules (boost_type, city, base_price, price_type, multiplier, is_active, history)
        VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb)
        RETURNING id, created_at, updated_at
    `

	return r.db.QueryRowContext(
		ctx,
		query,
		rule.BoostType,
		rule.City,
		rule.BasePrice,
		rule.PriceType,
		rule.Multiplier,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *pricingRuleRepository) GetByID(ctx context.Context, id string) (*models.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE id = $1`
	return scanPricingRule(r.db.QueryRowContext(ctx, query, id))
}

func (r *pricingRuleRepository) List(ctx context.Context, filter interfaces.PricingRuleFilter) ([]*models.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE 1=1`

	var args []interface{}
	var whereClauses []string
	argPos := 1

	if !filter.IncludeInactive {
		whereClauses = append(whereClauses, "is_active = TRUE")
	}

	if filter.BoostType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("boost_type = $%d", argPos))
		args = append(args, filter.BoostType)
		argPos++
	}

	if filter.City != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", argPos))
		args = append(args, filter.City)
	}

	if len(whereClauses) > 0 {
		query += " AND " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY boost_type, city NULLS FIRST"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*models.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Update supersedes the stored values: the previous ones are pushed onto
// the history log, trimmed to the most recent MaxPricingRuleHistory entries.
func (r *pricingRuleRepository) Update(ctx context.Context, id string, req *models.UpdatePricingRuleRequest, changedBy string) (*models.PricingRule, error) {
	rule, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revision := models.PricingRuleRevision{
		BasePrice:  rule.BasePrice,
		PriceType:  rule.PriceType,
		Multiplier: rule.Multiplier,
		IsActive:   rule.IsActive,
		ChangedAt:  time.Now().UTC(),
		ChangedBy:  changedBy,
	}

	history := append([]models.PricingRuleRevision{revision}, rule.History...)
	if len(history) > models.MaxPricingRuleHistory {
		history = history[:models.MaxPricingRuleHistory]
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	if req.BasePrice != nil {
		rule.BasePrice = *req.BasePrice
	}
	if req.PriceType != nil {
		rule.PriceType = models.PriceType(*req.PriceType)
	}
	if req.Multiplier != nil {
		rule.Multiplier = *req.Multiplier
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	query := `
        UPDATE pricing_rules
        SET base_price = $1,
            price_type = $2,
            multiplier = $3,
            is_active = $4,
            history = $5,
            updated_at = NOW() AT TIME ZONE 'UTC'
        WHERE id = $6
        RETURNING updated_at
    `

	err = r.db.QueryRowContext(
		ctx,
		query,
		rule.BasePrice,
		rule.PriceType,
		rule.Multiplier,
		rule.IsActive,
		historyJSON,
		id,
	).Scan(&rule.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rule.History = history
	return rule, nil
}

// Resolve looks up the city-specific rule first and falls back to the
// global (city IS NULL) rule for the boost type. (nil, nil) when neither
// exists — the caller turns that into a validation failure.
func (r *pricingRuleRepository) Resolve(ctx context.Context, boostType models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
	activeClause := " AND is_active = TRUE"
	if includeInactive {
		activeClause = ""
	}

	if city != nil && *city != "" {
		query := `SELECT ` + pricingRuleColumns + `
            FROM pricing_rules
            WHERE boost_type = $1 AND LOWER(city) = LOWER($2)` + activeClause + `
            LIMIT 1`
		rule, err := scanPricingRule(r.db.QueryRowContext(ctx, query, boostType, *city))
		if err == nil {
			return rule, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	query := `SELECT ` + pricingRuleColumns + `
        FROM pricing_rules
        WHERE boost_type = $1 AND city IS NULL` + activeClause + `
        LIMIT 1`
	rule, err := scanPricingRule(r.db.QueryRowContext(ctx, query, boostType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rule, nil
}

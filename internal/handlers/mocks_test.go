package handlers

import (
	"context"
	"database/sql"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

type fakeBoostRepo struct {
	createFn               func(ctx context.Context, request *models.BoostRequest) error
	getByIDFn              func(ctx context.Context, id string) (*models.BoostRequest, error)
	listFn                 func(ctx context.Context, filter interfaces.BoostRequestFilter) ([]*models.BoostRequest, error)
	countFn                func(ctx context.Context, filter interfaces.BoostRequestFilter) (int, error)
	incrementImpressionsFn func(ctx context.Context, ids []string, now time.Time) (int64, error)
	incrementClicksFn      func(ctx context.Context, id string, now time.Time) (int, int, error)
	activeIntersectingFn   func(ctx context.Context, productIDs, sellerIDs []string, now time.Time) ([]*models.BoostRequest, error)
}

func (f *fakeBoostRepo) Create(ctx context.Context, request *models.BoostRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, request)
	}
	request.ID = "created-id"
	return nil
}

func (f *fakeBoostRepo) GetByID(ctx context.Context, id string) (*models.BoostRequest, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBoostRepo) List(ctx context.Context, filter interfaces.BoostRequestFilter) ([]*models.BoostRequest, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeBoostRepo) Count(ctx context.Context, filter interfaces.BoostRequestFilter) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx, filter)
	}
	return 0, nil
}

func (f *fakeBoostRepo) Summary(ctx context.Context) (*models.BoostSummary, error) {
	return &models.BoostSummary{}, nil
}

func (f *fakeBoostRepo) HasUnexpiredConflict(ctx context.Context, resources []string) (bool, string, error) {
	return false, "", nil
}

func (f *fakeBoostRepo) Activate(ctx context.Context, request *models.BoostRequest, approvedBy string, start, end, now time.Time) error {
	return nil
}

func (f *fakeBoostRepo) Reject(ctx context.Context, request *models.BoostRequest, rejectedBy, reason string, now time.Time) error {
	return nil
}

func (f *fakeBoostRepo) ForceExpire(ctx context.Context, request *models.BoostRequest, now time.Time) error {
	return nil
}

func (f *fakeBoostRepo) ExpireDue(ctx context.Context, now time.Time) ([]*models.BoostRequest, error) {
	return nil, nil
}

func (f *fakeBoostRepo) ActiveCoveringProduct(ctx context.Context, productID string, now time.Time) ([]*models.BoostRequest, error) {
	return nil, nil
}

func (f *fakeBoostRepo) ActiveCoveringSeller(ctx context.Context, sellerID string, now time.Time) ([]*models.BoostRequest, error) {
	return nil, nil
}

func (f *fakeBoostRepo) ActiveIntersecting(ctx context.Context, productIDs, sellerIDs []string, now time.Time) ([]*models.BoostRequest, error) {
	if f.activeIntersectingFn != nil {
		return f.activeIntersectingFn(ctx, productIDs, sellerIDs, now)
	}
	return nil, nil
}

func (f *fakeBoostRepo) IncrementImpressions(ctx context.Context, ids []string, now time.Time) (int64, error) {
	if f.incrementImpressionsFn != nil {
		return f.incrementImpressionsFn(ctx, ids, now)
	}
	return 0, nil
}

func (f *fakeBoostRepo) IncrementClicks(ctx context.Context, id string, now time.Time) (int, int, error) {
	if f.incrementClicksFn != nil {
		return f.incrementClicksFn(ctx, id, now)
	}
	return 0, 0, sql.ErrNoRows
}

func (f *fakeBoostRepo) SetPaymentProofURL(ctx context.Context, id, sellerID, url string) error {
	return nil
}

type fakeRuleRepo struct {
	resolveFn func(ctx context.Context, boostType models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error)
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *models.PricingRule) error { return nil }

func (f *fakeRuleRepo) GetByID(ctx context.Context, id string) (*models.PricingRule, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeRuleRepo) List(ctx context.Context, filter interfaces.PricingRuleFilter) ([]*models.PricingRule, error) {
	return nil, nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, id string, req *models.UpdatePricingRuleRequest, changedBy string) (*models.PricingRule, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeRuleRepo) Resolve(ctx context.Context, boostType models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, boostType, city, includeInactive)
	}
	return nil, nil
}

type fakeSeasonalRepo struct{}

func (fakeSeasonalRepo) Create(ctx context.Context, campaign *models.SeasonalCampaign) error {
	return nil
}

func (fakeSeasonalRepo) GetByID(ctx context.Context, id string) (*models.SeasonalCampaign, error) {
	return nil, sql.ErrNoRows
}

func (fakeSeasonalRepo) List(ctx context.Context, includeInactive bool) ([]*models.SeasonalCampaign, error) {
	return nil, nil
}

func (fakeSeasonalRepo) Update(ctx context.Context, id string, req *models.UpdateSeasonalCampaignRequest) (*models.SeasonalCampaign, error) {
	return nil, sql.ErrNoRows
}

func (fakeSeasonalRepo) Current(ctx context.Context, boostType models.BoostType, now time.Time) (*models.SeasonalCampaign, error) {
	return nil, nil
}

type fakeProductRepo struct {
	getByIDsFn func(ctx context.Context, ids []string) ([]*models.Product, error)
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeProductRepo) SetBoostFlags(ctx context.Context, productID string, boosted bool, boostType *string, start, end *time.Time) error {
	return nil
}

type fakeUserRepo struct {
	getByIDFn func(ctx context.Context, id string) (*models.User, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return &models.User{ID: id, Email: "seller@example.com", Role: models.RoleSeller}, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) SetShopBoostFlags(ctx context.Context, sellerID string, boosted bool, start, end *time.Time) error {
	return nil
}

package services

import (
	"context"
	"database/sql"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

// Function-field fakes for the repository interfaces. Unset fields return
// empty results so each test only wires the calls it cares about.

type fakeBoostRepo struct {
	createFn             func(ctx context.Context, request *models.BoostRequest) error
	getByIDFn            func(ctx context.Context, id string) (*models.BoostRequest, error)
	hasConflictFn        func(ctx context.Context, resources []string) (bool, string, error)
	activateFn           func(ctx context.Context, request *models.BoostRequest, approvedBy string, start, end, now time.Time) error
	rejectFn             func(ctx context.Context, request *models.BoostRequest, rejectedBy, reason string, now time.Time) error
	forceExpireFn        func(ctx context.Context, request *models.BoostRequest, now time.Time) error
	expireDueFn          func(ctx context.Context, now time.Time) ([]*models.BoostRequest, error)
	activeForProductFn   func(ctx context.Context, productID string, now time.Time) ([]*models.BoostRequest, error)
	activeForSellerFn    func(ctx context.Context, sellerID string, now time.Time) ([]*models.BoostRequest, error)
	activeIntersectingFn func(ctx context.Context, productIDs, sellerIDs []string, now time.Time) ([]*models.BoostRequest, error)
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
	return nil, nil
}

func (f *fakeBoostRepo) Count(ctx context.Context, filter interfaces.BoostRequestFilter) (int, error) {
	return 0, nil
}

func (f *fakeBoostRepo) Summary(ctx context.Context) (*models.BoostSummary, error) {
	return &models.BoostSummary{}, nil
}

func (f *fakeBoostRepo) HasUnexpiredConflict(ctx context.Context, resources []string) (bool, string, error) {
	if f.hasConflictFn != nil {
		return f.hasConflictFn(ctx, resources)
	}
	return false, "", nil
}

func (f *fakeBoostRepo) Activate(ctx context.Context, request *models.BoostRequest, approvedBy string, start, end, now time.Time) error {
	if f.activateFn != nil {
		return f.activateFn(ctx, request, approvedBy, start, end, now)
	}
	request.Status = models.BoostStatusActive
	request.StartDate = &start
	request.EndDate = &end
	request.ApprovedBy = &approvedBy
	request.ApprovedAt = &now
	return nil
}

func (f *fakeBoostRepo) Reject(ctx context.Context, request *models.BoostRequest, rejectedBy, reason string, now time.Time) error {
	if f.rejectFn != nil {
		return f.rejectFn(ctx, request, rejectedBy, reason, now)
	}
	request.Status = models.BoostStatusRejected
	request.RejectedBy = &rejectedBy
	request.RejectedAt = &now
	request.RejectionReason = &reason
	return nil
}

func (f *fakeBoostRepo) ForceExpire(ctx context.Context, request *models.BoostRequest, now time.Time) error {
	if f.forceExpireFn != nil {
		return f.forceExpireFn(ctx, request, now)
	}
	request.Status = models.BoostStatusExpired
	return nil
}

func (f *fakeBoostRepo) ExpireDue(ctx context.Context, now time.Time) ([]*models.BoostRequest, error) {
	if f.expireDueFn != nil {
		return f.expireDueFn(ctx, now)
	}
	return nil, nil
}

func (f *fakeBoostRepo) ActiveCoveringProduct(ctx context.Context, productID string, now time.Time) ([]*models.BoostRequest, error) {
	if f.activeForProductFn != nil {
		return f.activeForProductFn(ctx, productID, now)
	}
	return nil, nil
}

func (f *fakeBoostRepo) ActiveCoveringSeller(ctx context.Context, sellerID string, now time.Time) ([]*models.BoostRequest, error) {
	if f.activeForSellerFn != nil {
		return f.activeForSellerFn(ctx, sellerID, now)
	}
	return nil, nil
}

func (f *fakeBoostRepo) ActiveIntersecting(ctx context.Context, productIDs, sellerIDs []string, now time.Time) ([]*models.BoostRequest, error) {
	if f.activeIntersectingFn != nil {
		return f.activeIntersectingFn(ctx, productIDs, sellerIDs, now)
	}
	return nil, nil
}

func (f *fakeBoostRepo) IncrementImpressions(ctx context.Context, ids []string, now time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeBoostRepo) IncrementClicks(ctx context.Context, id string, now time.Time) (int, int, error) {
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

type fakeSeasonalRepo struct {
	currentFn func(ctx context.Context, boostType models.BoostType, now time.Time) (*models.SeasonalCampaign, error)
}

func (f *fakeSeasonalRepo) Create(ctx context.Context, campaign *models.SeasonalCampaign) error {
	return nil
}

func (f *fakeSeasonalRepo) GetByID(ctx context.Context, id string) (*models.SeasonalCampaign, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeSeasonalRepo) List(ctx context.Context, includeInactive bool) ([]*models.SeasonalCampaign, error) {
	return nil, nil
}

func (f *fakeSeasonalRepo) Update(ctx context.Context, id string, req *models.UpdateSeasonalCampaignRequest) (*models.SeasonalCampaign, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeSeasonalRepo) Current(ctx context.Context, boostType models.BoostType, now time.Time) (*models.SeasonalCampaign, error) {
	if f.currentFn != nil {
		return f.currentFn(ctx, boostType, now)
	}
	return nil, nil
}

type productFlagCall struct {
	productID string
	boosted   bool
	boostType *string
	start     *time.Time
	end       *time.Time
}

type fakeProductRepo struct {
	getByIDsFn func(ctx context.Context, ids []string) ([]*models.Product, error)
	flagCalls  []productFlagCall
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeProductRepo) SetBoostFlags(ctx context.Context, productID string, boosted bool, boostType *string, start, end *time.Time) error {
	f.flagCalls = append(f.flagCalls, productFlagCall{
		productID: productID,
		boosted:   boosted,
		boostType: boostType,
		start:     start,
		end:       end,
	})
	return nil
}

type shopFlagCall struct {
	sellerID string
	boosted  bool
	start    *time.Time
	end      *time.Time
}

type fakeUserRepo struct {
	getByIDFn func(ctx context.Context, id string) (*models.User, error)
	flagCalls []shopFlagCall
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return &models.User{ID: id, Email: id + "@example.com", Role: models.RoleSeller}, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) SetShopBoostFlags(ctx context.Context, sellerID string, boosted bool, start, end *time.Time) error {
	f.flagCalls = append(f.flagCalls, shopFlagCall{
		sellerID: sellerID,
		boosted:  boosted,
		start:    start,
		end:      end,
	})
	return nil
}

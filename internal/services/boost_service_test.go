package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"boostapi/internal/models"
)

var testCities = []string{"Brazzaville", "Pointe-Noire", "Oyo"}

func defaultRule() *models.PricingRule {
	return &models.PricingRule{
		ID:         "rule-1",
		BoostType:  models.BoostTypeProduct,
		BasePrice:  2000,
		PriceType:  models.PriceTypePerDay,
		Multiplier: 1,
		IsActive:   true,
	}
}

func ownedProducts(sellerID string, ids ...string) []*models.Product {
	out := make([]*models.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Product{
			ID:       id,
			SellerID: sellerID,
			Status:   models.ProductStatusApproved,
		})
	}
	return out
}

func newTestService(boosts *fakeBoostRepo, rules *fakeRuleRepo, seasonal *fakeSeasonalRepo, products *fakeProductRepo, users *fakeUserRepo) *BoostService {
	reconciler := NewReconciler(boosts, products, users)
	return NewBoostService(boosts, rules, seasonal, products, users, reconciler, NoopNotifier{}, testCities)
}

func TestSubmitHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var created *models.BoostRequest
	boosts := &fakeBoostRepo{
		createFn: func(ctx context.Context, request *models.BoostRequest) error {
			request.ID = "req-1"
			created = request
			return nil
		},
	}
	rules := &fakeRuleRepo{
		resolveFn: func(ctx context.Context, bt models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
			return defaultRule(), nil
		},
	}
	seasonal := &fakeSeasonalRepo{
		currentFn: func(ctx context.Context, bt models.BoostType, _ time.Time) (*models.SeasonalCampaign, error) {
			return &models.SeasonalCampaign{ID: "camp-1", Multiplier: 1.2}, nil
		},
	}
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return ownedProducts("seller-1", ids...), nil
		},
	}

	svc := newTestService(boosts, rules, seasonal, products, &fakeUserRepo{})

	req := &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeProduct),
		Duration:             7,
		ProductIDs:           []string{"p1", "p2", "p3"},
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}

	result, err := svc.Submit(context.Background(), "seller-1", req, now)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.Status != models.BoostStatusPending {
		t.Fatalf("expected PENDING, got %s", result.Status)
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	// 2000 * 7 days * 3 products * 1.2 seasonal
	if result.TotalPrice != 50400 {
		t.Fatalf("expected total 50400, got %v", result.TotalPrice)
	}
	if result.SeasonalCampaignID == nil || *result.SeasonalCampaignID != "camp-1" {
		t.Fatalf("expected seasonal campaign snapshot, got %v", result.SeasonalCampaignID)
	}
	if result.BasePrice != 2000 || result.PriceType != models.PriceTypePerDay {
		t.Fatalf("expected frozen pricing snapshot, got %+v", result)
	}
}

func TestSubmitDeduplicatesProductIDs(t *testing.T) {
	boosts := &fakeBoostRepo{}
	rules := &fakeRuleRepo{
		resolveFn: func(ctx context.Context, bt models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
			return defaultRule(), nil
		},
	}
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return ownedProducts("seller-1", ids...), nil
		},
	}
	svc := newTestService(boosts, rules, &fakeSeasonalRepo{}, products, &fakeUserRepo{})

	req := &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeProduct),
		Duration:             1,
		ProductIDs:           []string{"p1", "p1", "p2"},
		PaymentOperator:      "Airtel Money",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}

	result, err := svc.Submit(context.Background(), "seller-1", req, time.Now().UTC())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.ProductIDs) != 2 {
		t.Fatalf("expected duplicates collapsed, got %v", result.ProductIDs)
	}
}

func TestSubmitRejectsNonSellingRoles(t *testing.T) {
	users := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleBuyer}, nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, users)

	_, err := svc.Submit(context.Background(), "buyer-1", &models.SubmitBoostRequest{
		BoostType:  string(models.BoostTypeProduct),
		Duration:   1,
		ProductIDs: []string{"p1"},
	}, time.Now().UTC())

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsBlockedAccounts(t *testing.T) {
	users := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleSeller, IsBlocked: true}, nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, users)

	_, err := svc.Submit(context.Background(), "seller-1", &models.SubmitBoostRequest{
		BoostType:  string(models.BoostTypeProduct),
		Duration:   1,
		ProductIDs: []string{"p1"},
	}, time.Now().UTC())

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitShopBoostRules(t *testing.T) {
	sellerUsers := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleSeller}, nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, sellerUsers)

	// A plain seller account cannot request a shop boost.
	_, err := svc.Submit(context.Background(), "seller-1", &models.SubmitBoostRequest{
		BoostType: string(models.BoostTypeShop),
		Duration:  7,
	}, time.Now().UTC())
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for seller shop boost, got %v", err)
	}

	shopUsers := &fakeUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleShop}, nil
		},
	}

	// A shop boost must not list products.
	svc = newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, shopUsers)
	_, err = svc.Submit(context.Background(), "shop-1", &models.SubmitBoostRequest{
		BoostType:  string(models.BoostTypeShop),
		Duration:   7,
		ProductIDs: []string{"p1"},
	}, time.Now().UTC())
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for shop boost with products, got %v", err)
	}

	// Valid shop boost goes through with the seller-scoped claim.
	rules := &fakeRuleRepo{
		resolveFn: func(ctx context.Context, bt models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
			return &models.PricingRule{BasePrice: 10000, PriceType: models.PriceTypePerWeek, Multiplier: 1, IsActive: true}, nil
		},
	}
	var claimed []string
	boosts := &fakeBoostRepo{
		hasConflictFn: func(ctx context.Context, resources []string) (bool, string, error) {
			claimed = resources
			return false, "", nil
		},
	}
	svc = newTestService(boosts, rules, &fakeSeasonalRepo{}, &fakeProductRepo{}, shopUsers)
	result, err := svc.Submit(context.Background(), "shop-1", &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeShop),
		Duration:             8,
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Shop",
		PaymentTransactionID: "1234567890",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(claimed) != 1 || claimed[0] != models.ShopClaimKey("shop-1") {
		t.Fatalf("expected the seller-scoped claim key, got %v", claimed)
	}
	// 8 days = 2 weekly units at 10000
	if result.TotalPrice != 20000 {
		t.Fatalf("expected total 20000, got %v", result.TotalPrice)
	}
}

func TestSubmitLocalBoostCityRules(t *testing.T) {
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return ownedProducts("seller-1", ids...), nil
		},
	}
	rules := &fakeRuleRepo{
		resolveFn: func(ctx context.Context, bt models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
			return defaultRule(), nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, rules, &fakeSeasonalRepo{}, products, &fakeUserRepo{})

	base := models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeLocalProduct),
		Duration:             3,
		ProductIDs:           []string{"p1"},
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}

	var verr *models.ValidationError

	missing := base
	_, err := svc.Submit(context.Background(), "seller-1", &missing, time.Now().UTC())
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing city, got %v", err)
	}

	unsupported := base
	unsupported.City = "Kinshasa"
	_, err = svc.Submit(context.Background(), "seller-1", &unsupported, time.Now().UTC())
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unsupported city, got %v", err)
	}

	// Case-insensitive match stores the canonical spelling.
	ok := base
	ok.City = "oyo"
	result, err := svc.Submit(context.Background(), "seller-1", &ok, time.Now().UTC())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.City == nil || *result.City != "Oyo" {
		t.Fatalf("expected canonical city Oyo, got %v", result.City)
	}
}

func TestSubmitConflictPreCheck(t *testing.T) {
	boosts := &fakeBoostRepo{
		hasConflictFn: func(ctx context.Context, resources []string) (bool, string, error) {
			return true, resources[0], nil
		},
	}
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return ownedProducts("seller-1", ids...), nil
		},
	}
	svc := newTestService(boosts, &fakeRuleRepo{}, &fakeSeasonalRepo{}, products, &fakeUserRepo{})

	_, err := svc.Submit(context.Background(), "seller-1", &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeProduct),
		Duration:             1,
		ProductIDs:           []string{"p1"},
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}, time.Now().UTC())

	var cerr *models.ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cerr.Resource != "p1" {
		t.Fatalf("expected contested resource p1, got %s", cerr.Resource)
	}
}

func TestSubmitRejectsForeignAndUnapprovedProducts(t *testing.T) {
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return []*models.Product{
				{ID: "p1", SellerID: "someone-else", Status: models.ProductStatusApproved},
			}, nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, products, &fakeUserRepo{})

	_, err := svc.Submit(context.Background(), "seller-1", &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeProduct),
		Duration:             1,
		ProductIDs:           []string{"p1"},
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}, time.Now().UTC())

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for foreign product, got %v", err)
	}
}

func TestSubmitRejectsNonPositiveTotal(t *testing.T) {
	rules := &fakeRuleRepo{
		resolveFn: func(ctx context.Context, bt models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
			return &models.PricingRule{BasePrice: 0, PriceType: models.PriceTypePerDay, Multiplier: 1, IsActive: true}, nil
		},
	}
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return ownedProducts("seller-1", ids...), nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, rules, &fakeSeasonalRepo{}, products, &fakeUserRepo{})

	_, err := svc.Submit(context.Background(), "seller-1", &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeProduct),
		Duration:             1,
		ProductIDs:           []string{"p1"},
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}, time.Now().UTC())

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}
}

func TestSubmitMissingPricingRule(t *testing.T) {
	products := &fakeProductRepo{
		getByIDsFn: func(ctx context.Context, ids []string) ([]*models.Product, error) {
			return ownedProducts("seller-1", ids...), nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, products, &fakeUserRepo{})

	_, err := svc.Submit(context.Background(), "seller-1", &models.SubmitBoostRequest{
		BoostType:            string(models.BoostTypeProduct),
		Duration:             1,
		ProductIDs:           []string{"p1"},
		PaymentOperator:      "MTN MoMo",
		PaymentSenderName:    "A Seller",
		PaymentTransactionID: "1234567890",
	}, time.Now().UTC())

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error when no rule exists, got %v", err)
	}
}

func pendingRequest(id string) *models.BoostRequest {
	return &models.BoostRequest{
		ID:         id,
		SellerID:   "seller-1",
		BoostType:  models.BoostTypeProduct,
		ProductIDs: []string{"p1"},
		Duration:   7,
		Status:     models.BoostStatusPending,
	}
}

func TestTransitionActivateDefaultsWindowFromDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	request := pendingRequest("req-1")

	var gotStart, gotEnd time.Time
	boosts := &fakeBoostRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.BoostRequest, error) {
			return request, nil
		},
		activateFn: func(ctx context.Context, b *models.BoostRequest, approvedBy string, start, end, _ time.Time) error {
			gotStart, gotEnd = start, end
			b.Status = models.BoostStatusActive
			b.StartDate = &start
			b.EndDate = &end
			return nil
		},
	}
	svc := newTestService(boosts, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, &fakeUserRepo{})

	result, err := svc.Transition(context.Background(), "req-1", "admin-1", &models.TransitionBoostRequest{
		Status: string(models.BoostStatusActive),
	}, now)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	if !gotStart.Equal(now) {
		t.Fatalf("expected start=now, got %v", gotStart)
	}
	if want := now.AddDate(0, 0, 7); !gotEnd.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, gotEnd)
	}
	if result.Status != models.BoostStatusActive {
		t.Fatalf("expected ACTIVE, got %s", result.Status)
	}
}

func TestTransitionActivateRejectsInvertedWindow(t *testing.T) {
	now := time.Now().UTC()
	request := pendingRequest("req-1")
	boosts := &fakeBoostRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.BoostRequest, error) {
			return request, nil
		},
	}
	svc := newTestService(boosts, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, &fakeUserRepo{})

	start := now
	end := now.Add(-time.Hour)
	_, err := svc.Transition(context.Background(), "req-1", "admin-1", &models.TransitionBoostRequest{
		Status:    string(models.BoostStatusActive),
		StartDate: &start,
		EndDate:   &end,
	}, now)

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for inverted window, got %v", err)
	}
}

func TestTransitionRejectRequiresReason(t *testing.T) {
	request := pendingRequest("req-1")
	boosts := &fakeBoostRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.BoostRequest, error) {
			return request, nil
		},
	}
	svc := newTestService(boosts, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, &fakeUserRepo{})

	_, err := svc.Transition(context.Background(), "req-1", "admin-1", &models.TransitionBoostRequest{
		Status: string(models.BoostStatusRejected),
	}, time.Now().UTC())

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error without reason, got %v", err)
	}

	reason := "payment not received"
	result, err := svc.Transition(context.Background(), "req-1", "admin-1", &models.TransitionBoostRequest{
		Status:          string(models.BoostStatusRejected),
		RejectionReason: &reason,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if result.Status != models.BoostStatusRejected {
		t.Fatalf("expected REJECTED, got %s", result.Status)
	}
	if result.RejectionReason == nil || *result.RejectionReason != reason {
		t.Fatalf("expected stored reason, got %v", result.RejectionReason)
	}
}

func TestTransitionStateMachine(t *testing.T) {
	now := time.Now().UTC()
	reason := "why not"

	cases := []struct {
		name   string
		from   models.BoostStatus
		req    models.TransitionBoostRequest
		wantOK bool
	}{
		{"pending to active", models.BoostStatusPending, models.TransitionBoostRequest{Status: "ACTIVE"}, true},
		{"approved to active", models.BoostStatusApproved, models.TransitionBoostRequest{Status: "ACTIVE"}, true},
		{"expired reopened to active", models.BoostStatusExpired, models.TransitionBoostRequest{Status: "ACTIVE"}, true},
		{"rejected to active", models.BoostStatusRejected, models.TransitionBoostRequest{Status: "ACTIVE"}, false},
		{"pending rejected", models.BoostStatusPending, models.TransitionBoostRequest{Status: "REJECTED", RejectionReason: &reason}, true},
		{"expired rejected", models.BoostStatusExpired, models.TransitionBoostRequest{Status: "REJECTED", RejectionReason: &reason}, false},
		{"active force-expired", models.BoostStatusActive, models.TransitionBoostRequest{Status: "EXPIRED"}, true},
		{"pending force-expired", models.BoostStatusPending, models.TransitionBoostRequest{Status: "EXPIRED"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			request := pendingRequest("req-1")
			request.Status = tc.from
			boosts := &fakeBoostRepo{
				getByIDFn: func(ctx context.Context, id string) (*models.BoostRequest, error) {
					return request, nil
				},
			}
			svc := newTestService(boosts, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, &fakeUserRepo{})

			req := tc.req
			_, err := svc.Transition(context.Background(), "req-1", "admin-1", &req, now)
			if tc.wantOK && err != nil {
				t.Fatalf("expected transition to succeed, got %v", err)
			}
			if !tc.wantOK {
				var serr *models.StateTransitionError
				if !errors.As(err, &serr) {
					t.Fatalf("expected state transition error, got %v", err)
				}
			}
		})
	}
}

func TestTransitionUnknownRequest(t *testing.T) {
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, &fakeUserRepo{})

	_, err := svc.Transition(context.Background(), "missing", "admin-1", &models.TransitionBoostRequest{
		Status: "ACTIVE",
	}, time.Now().UTC())

	var nerr *models.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPreviewPriceValidation(t *testing.T) {
	svc := newTestService(&fakeBoostRepo{}, &fakeRuleRepo{}, &fakeSeasonalRepo{}, &fakeProductRepo{}, &fakeUserRepo{})

	var verr *models.ValidationError

	_, err := svc.PreviewPrice(context.Background(), "BANNER", "", 7, 1, time.Now().UTC())
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}

	_, err = svc.PreviewPrice(context.Background(), string(models.BoostTypeProduct), "", 0, 1, time.Now().UTC())
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for zero duration, got %v", err)
	}

	_, err = svc.PreviewPrice(context.Background(), string(models.BoostTypeLocalProduct), "Kinshasa", 7, 1, time.Now().UTC())
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unsupported city, got %v", err)
	}
}

func TestPreviewPriceQuotesSeasonalTotal(t *testing.T) {
	now := time.Date(2026, 12, 20, 12, 0, 0, 0, time.UTC)
	rules := &fakeRuleRepo{
		resolveFn: func(ctx context.Context, bt models.BoostType, city *string, includeInactive bool) (*models.PricingRule, error) {
			return defaultRule(), nil
		},
	}
	seasonal := &fakeSeasonalRepo{
		currentFn: func(ctx context.Context, bt models.BoostType, _ time.Time) (*models.SeasonalCampaign, error) {
			return &models.SeasonalCampaign{ID: "xmas", Multiplier: 1.2}, nil
		},
	}
	svc := newTestService(&fakeBoostRepo{}, rules, seasonal, &fakeProductRepo{}, &fakeUserRepo{})

	preview, err := svc.PreviewPrice(context.Background(), string(models.BoostTypeProduct), "", 7, 3, now)
	if err != nil {
		t.Fatalf("PreviewPrice: %v", err)
	}
	if preview.TotalPrice != 50400 {
		t.Fatalf("expected total 50400, got %v", preview.TotalPrice)
	}
	if preview.SeasonalCampaignID == nil || *preview.SeasonalCampaignID != "xmas" {
		t.Fatalf("expected campaign id in preview, got %v", preview.SeasonalCampaignID)
	}
}

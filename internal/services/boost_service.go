package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/metrics"
	"boostapi/internal/models"
	"boostapi/internal/pricing"
)

// BoostService drives the campaign lifecycle: price previews, seller
// submissions and administrator state transitions. Every method takes an
// explicit now so expiry, pricing and transitions stay testable against a
// fixed clock.
type BoostService struct {
	boosts     interfaces.BoostRequestRepository
	rules      interfaces.PricingRuleRepository
	seasonal   interfaces.SeasonalCampaignRepository
	products   interfaces.ProductRepository
	users      interfaces.UserRepository
	reconciler *Reconciler
	notifier   Notifier
	cities     []string
}

func NewBoostService(
	boosts interfaces.BoostRequestRepository,
	rules interfaces.PricingRuleRepository,
	seasonal interfaces.SeasonalCampaignRepository,
	products interfaces.ProductRepository,
	users interfaces.UserRepository,
	reconciler *Reconciler,
	notifier Notifier,
	cities []string,
) *BoostService {
	return &BoostService{
		boosts:     boosts,
		rules:      rules,
		seasonal:   seasonal,
		products:   products,
		users:      users,
		reconciler: reconciler,
		notifier:   notifier,
		cities:     cities,
	}
}

// canonicalCity matches the whitelist case-insensitively and returns the
// canonical spelling.
func (s *BoostService) canonicalCity(city string) (string, bool) {
	for _, c := range s.cities {
		if strings.EqualFold(c, city) {
			return c, true
		}
	}
	return "", false
}

// PreviewPrice quotes a boost without side effects beyond reading the
// catalogs.
func (s *BoostService) PreviewPrice(ctx context.Context, boostType, city string, duration, productCount int, now time.Time) (*models.PricePreview, error) {
	bt := models.BoostType(boostType)
	if !bt.Valid() {
		return nil, models.NewValidationError("boost_type", "unknown boost type")
	}
	if duration < 1 {
		return nil, models.NewValidationError("duration", "duration must be at least 1 day")
	}

	var cityPtr *string
	if city != "" {
		canonical, ok := s.canonicalCity(city)
		if !ok && bt == models.BoostTypeLocalProduct {
			return nil, models.NewValidationError("city", "city is not supported")
		}
		if ok {
			cityPtr = &canonical
		}
	} else if bt == models.BoostTypeLocalProduct {
		return nil, models.NewValidationError("city", "city is required for local product boosts")
	}

	rule, err := s.rules.Resolve(ctx, bt, cityPtr, false)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, &models.NotFoundError{Entity: "pricing rule", ID: boostType}
	}

	seasonalMultiplier := 1.0
	var seasonalCampaignID *string
	campaign, err := s.seasonal.Current(ctx, bt, now)
	if err != nil {
		return nil, err
	}
	if campaign != nil {
		seasonalMultiplier = campaign.Multiplier
		seasonalCampaignID = &campaign.ID
	}

	quote := pricing.Calculate(rule, bt, duration, productCount, seasonalMultiplier)

	return &models.PricePreview{
		BoostType:          bt,
		City:               cityPtr,
		Duration:           duration,
		ProductCount:       productCount,
		BasePrice:          rule.BasePrice,
		PriceType:          rule.PriceType,
		PricingMultiplier:  rule.Multiplier,
		SeasonalMultiplier: quote.SeasonalMultiplier,
		SeasonalCampaignID: seasonalCampaignID,
		BillingUnits:       quote.BillingUnits,
		QuantityFactor:     quote.QuantityFactor,
		UnitPrice:          quote.UnitPrice,
		Subtotal:           quote.Subtotal,
		TotalPrice:         quote.TotalPrice,
	}, nil
}

// Submit validates a seller's boost request end to end and persists it as
// PENDING with a frozen pricing snapshot and the seller's payment metadata.
func (s *BoostService) Submit(ctx context.Context, sellerID string, req *models.SubmitBoostRequest, now time.Time) (*models.BoostRequest, error) {
	b, err := s.submit(ctx, sellerID, req, now)
	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	metrics.BoostSubmissionsTotal.WithLabelValues(req.BoostType, outcome).Inc()
	return b, err
}

func (s *BoostService) submit(ctx context.Context, sellerID string, req *models.SubmitBoostRequest, now time.Time) (*models.BoostRequest, error) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Entity: "seller", ID: sellerID}
		}
		return nil, err
	}
	if seller.IsBlocked {
		return nil, models.NewValidationError("seller", "blocked accounts cannot submit boost requests")
	}
	if !seller.Role.CanSubmitBoosts() {
		return nil, models.NewValidationError("seller", "only selling accounts can submit boost requests")
	}

	bt := models.BoostType(req.BoostType)

	productIDs := dedupe(req.ProductIDs)
	if bt == models.BoostTypeShop {
		if seller.Role != models.RoleShop {
			return nil, models.NewValidationError("boost_type", "shop boosts are only available to shop accounts")
		}
		if len(productIDs) > 0 {
			return nil, models.NewValidationError("product_ids", "shop boosts must not list products")
		}
	} else if len(productIDs) == 0 {
		return nil, models.NewValidationError("product_ids", "at least one product is required")
	}

	var cityPtr *string
	if bt == models.BoostTypeLocalProduct {
		if req.City == "" {
			return nil, models.NewValidationError("city", "city is required for local product boosts")
		}
		canonical, ok := s.canonicalCity(req.City)
		if !ok {
			return nil, models.NewValidationError("city", "city is not supported")
		}
		cityPtr = &canonical
	}

	if len(productIDs) > 0 {
		if err := s.checkProductOwnership(ctx, sellerID, productIDs); err != nil {
			return nil, err
		}
	}

	request := &models.BoostRequest{
		SellerID:   sellerID,
		BoostType:  bt,
		ProductIDs: productIDs,
		City:       cityPtr,
		Duration:   req.Duration,
		Status:     models.BoostStatusPending,

		PaymentOperator:      req.PaymentOperator,
		PaymentSenderName:    req.PaymentSenderName,
		PaymentTransactionID: req.PaymentTransactionID,
	}

	// Best-effort pre-check so the common case gets a descriptive error;
	// the claims unique constraint in Create catches the race.
	conflict, resource, err := s.boosts.HasUnexpiredConflict(ctx, request.ContestedResources())
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, &models.ConflictError{
			Resource: resource,
			Message:  "an unexpired boost request already covers this resource",
		}
	}

	pricingCity := cityPtr
	if pricingCity == nil && req.City != "" {
		if canonical, ok := s.canonicalCity(req.City); ok {
			pricingCity = &canonical
		}
	}

	rule, err := s.rules.Resolve(ctx, bt, pricingCity, false)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, models.NewValidationError("boost_type", "no pricing rule configured for this boost type")
	}

	seasonalMultiplier := 1.0
	campaign, err := s.seasonal.Current(ctx, bt, now)
	if err != nil {
		return nil, err
	}
	if campaign != nil {
		seasonalMultiplier = campaign.Multiplier
		request.SeasonalCampaignID = &campaign.ID
	}

	quote := pricing.Calculate(rule, bt, req.Duration, len(productIDs), seasonalMultiplier)
	if quote.TotalPrice <= 0 || math.IsNaN(quote.TotalPrice) || math.IsInf(quote.TotalPrice, 0) {
		return nil, models.NewValidationError("total_price", "computed price must be a positive amount")
	}

	request.UnitPrice = quote.UnitPrice
	request.BasePrice = rule.BasePrice
	request.PriceType = rule.PriceType
	request.PricingMultiplier = rule.Multiplier
	request.SeasonalMultiplier = quote.SeasonalMultiplier
	request.TotalPrice = quote.TotalPrice

	if err := s.boosts.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *BoostService) checkProductOwnership(ctx context.Context, sellerID string, productIDs []string) error {
	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, pid := range productIDs {
		p, ok := byID[pid]
		if !ok {
			return models.NewValidationError("product_ids", fmt.Sprintf("product %s not found", pid))
		}
		if p.SellerID != sellerID {
			return models.NewValidationError("product_ids", fmt.Sprintf("product %s does not belong to you", pid))
		}
		if p.Status != models.ProductStatusApproved {
			return models.NewValidationError("product_ids", fmt.Sprintf("product %s is not approved", pid))
		}
	}
	return nil
}

// Transition applies an administrator's status change. The state machine
// allows PENDING/APPROVED → ACTIVE or REJECTED, ACTIVE → EXPIRED
// (force-expire), and the single back-edge EXPIRED → ACTIVE (re-activation
// with a fresh window). Everything else is a StateTransitionError.
func (s *BoostService) Transition(ctx context.Context, id, adminID string, req *models.TransitionBoostRequest, now time.Time) (*models.BoostRequest, error) {
	request, err := s.boosts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Entity: "boost request", ID: id}
		}
		return nil, err
	}

	target := models.BoostStatus(req.Status)
	switch target {
	case models.BoostStatusActive:
		return s.activate(ctx, request, adminID, req, now)
	case models.BoostStatusRejected:
		return s.reject(ctx, request, adminID, req, now)
	case models.BoostStatusExpired:
		return s.forceExpire(ctx, request, now)
	default:
		return nil, models.NewValidationError("status", "unknown target status")
	}
}

func (s *BoostService) activate(ctx context.Context, request *models.BoostRequest, adminID string, req *models.TransitionBoostRequest, now time.Time) (*models.BoostRequest, error) {
	switch request.Status {
	case models.BoostStatusPending, models.BoostStatusApproved, models.BoostStatusExpired:
	default:
		return nil, &models.StateTransitionError{From: request.Status, To: models.BoostStatusActive}
	}

	start := now
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}

	var end time.Time
	if req.EndDate != nil {
		end = req.EndDate.UTC()
		if !end.After(start) {
			return nil, models.NewValidationError("end_date", "end date must be after start date")
		}
	} else {
		end = start.AddDate(0, 0, request.Duration)
	}

	if err := s.boosts.Activate(ctx, request, adminID, start, end, now); err != nil {
		return nil, err
	}

	if err := s.reconciler.ProjectActivation(ctx, request); err != nil {
		log.Printf("activation: projection for request %s failed: %v", request.ID, err)
	}

	s.notifySeller(ctx, request.SellerID, "Your boost is live",
		fmt.Sprintf("Your %s request has been approved and runs until %s.", request.BoostType, end.Format("2006-01-02")))

	return request, nil
}

func (s *BoostService) reject(ctx context.Context, request *models.BoostRequest, adminID string, req *models.TransitionBoostRequest, now time.Time) (*models.BoostRequest, error) {
	switch request.Status {
	case models.BoostStatusPending, models.BoostStatusApproved:
	default:
		return nil, &models.StateTransitionError{From: request.Status, To: models.BoostStatusRejected}
	}

	if req.RejectionReason == nil || *req.RejectionReason == "" {
		return nil, models.NewValidationError("rejection_reason", "a rejection reason is required")
	}

	if err := s.boosts.Reject(ctx, request, adminID, *req.RejectionReason, now); err != nil {
		return nil, err
	}

	s.notifySeller(ctx, request.SellerID, "Your boost request was rejected",
		fmt.Sprintf("Your %s request was rejected: %s", request.BoostType, *req.RejectionReason))

	return request, nil
}

func (s *BoostService) forceExpire(ctx context.Context, request *models.BoostRequest, now time.Time) (*models.BoostRequest, error) {
	if request.Status != models.BoostStatusActive {
		return nil, &models.StateTransitionError{From: request.Status, To: models.BoostStatusExpired}
	}

	if err := s.boosts.ForceExpire(ctx, request, now); err != nil {
		return nil, err
	}

	// Run the sweep immediately so the denormalized flags on the touched
	// products/seller are rebuilt in the same request.
	if _, err := s.reconciler.Sweep(ctx, now); err != nil {
		log.Printf("force-expire: sweep failed: %v", err)
	}
	if err := s.reconcileExpired(ctx, request, now); err != nil {
		log.Printf("force-expire: projection for request %s failed: %v", request.ID, err)
	}

	return request, nil
}

// reconcileExpired repairs the projection for a force-expired request. The
// general sweep only rebuilds entities touched by rows it flipped itself,
// and ForceExpire flipped this one directly.
func (s *BoostService) reconcileExpired(ctx context.Context, request *models.BoostRequest, now time.Time) error {
	if request.BoostType == models.BoostTypeShop {
		return s.reconciler.reconcileSeller(ctx, request.SellerID, now)
	}
	for _, pid := range request.ProductIDs {
		if err := s.reconciler.reconcileProduct(ctx, pid, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoostService) notifySeller(ctx context.Context, sellerID, subject, body string) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		log.Printf("notify: seller %s lookup failed: %v", sellerID, err)
		return
	}
	if err := s.notifier.Notify(seller.Email, subject, body); err != nil {
		log.Printf("notify: sending to %s failed: %v", seller.Email, err)
	}
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

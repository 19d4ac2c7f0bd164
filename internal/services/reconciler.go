package services

import (
	"context"
	"log"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/metrics"
	"boostapi/internal/models"
)

// Reconciler is the expiry sweep: it flips ACTIVE requests whose window
// has closed to EXPIRED and rebuilds the denormalized boost flags on the
// products and sellers those requests touched.
//
// It is safe to run concurrently and repeatedly. The expiry step is a
// single conditioned update, so a second sweep sees nothing left to flip;
// the projection rebuild is derived purely from the remaining ACTIVE rows,
// so re-running it converges on the same result. A failure between the two
// steps leaves entities over-flagged until the next run repairs them.
type Reconciler struct {
	boosts   interfaces.BoostRequestRepository
	products interfaces.ProductRepository
	users    interfaces.UserRepository
}

func NewReconciler(boosts interfaces.BoostRequestRepository, products interfaces.ProductRepository, users interfaces.UserRepository) *Reconciler {
	return &Reconciler{boosts: boosts, products: products, users: users}
}

// Sweep expires overdue requests and repairs projections. Returns how many
// requests were flipped. Projection failures on individual entities are
// logged and skipped; the next sweep heals them.
func (r *Reconciler) Sweep(ctx context.Context, now time.Time) (int, error) {
	expired, err := r.boosts.ExpireDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	metrics.SweepExpirationsTotal.Add(float64(len(expired)))

	productIDs := make(map[string]struct{})
	sellerIDs := make(map[string]struct{})
	for _, b := range expired {
		if b.BoostType == models.BoostTypeShop {
			sellerIDs[b.SellerID] = struct{}{}
			continue
		}
		for _, pid := range b.ProductIDs {
			productIDs[pid] = struct{}{}
		}
	}

	for pid := range productIDs {
		if err := r.reconcileProduct(ctx, pid, now); err != nil {
			log.Printf("sweep: product %s projection failed: %v", pid, err)
		}
	}
	for sid := range sellerIDs {
		if err := r.reconcileSeller(ctx, sid, now); err != nil {
			log.Printf("sweep: seller %s projection failed: %v", sid, err)
		}
	}

	return len(expired), nil
}

func (r *Reconciler) reconcileProduct(ctx context.Context, productID string, now time.Time) error {
	remaining, err := r.boosts.ActiveCoveringProduct(ctx, productID, now)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return r.products.SetBoostFlags(ctx, productID, false, nil, nil, nil)
	}

	start, end, boostType := widestWindow(remaining)
	bt := string(boostType)
	return r.products.SetBoostFlags(ctx, productID, true, &bt, &start, &end)
}

func (r *Reconciler) reconcileSeller(ctx context.Context, sellerID string, now time.Time) error {
	remaining, err := r.boosts.ActiveCoveringSeller(ctx, sellerID, now)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return r.users.SetShopBoostFlags(ctx, sellerID, false, nil, nil)
	}

	start, end, _ := widestWindow(remaining)
	return r.users.SetShopBoostFlags(ctx, sellerID, true, &start, &end)
}

// widestWindow returns the maximum start and end across the remaining
// requests, and the boost type of the request holding the max end.
func widestWindow(requests []*models.BoostRequest) (time.Time, time.Time, models.BoostType) {
	var start, end time.Time
	var boostType models.BoostType
	for _, b := range requests {
		if b.StartDate != nil && b.StartDate.After(start) {
			start = *b.StartDate
		}
		if b.EndDate != nil && b.EndDate.After(end) {
			end = *b.EndDate
			boostType = b.BoostType
		}
	}
	return start, end, boostType
}

// ProjectActivation mirrors the sweep's "still boosted" branch for a single
// just-activated request so its entities are flagged without waiting for
// the next sweep.
func (r *Reconciler) ProjectActivation(ctx context.Context, b *models.BoostRequest) error {
	if b.StartDate == nil || b.EndDate == nil {
		return nil
	}

	if b.BoostType == models.BoostTypeShop {
		return r.users.SetShopBoostFlags(ctx, b.SellerID, true, b.StartDate, b.EndDate)
	}

	bt := string(b.BoostType)
	for _, pid := range b.ProductIDs {
		if err := r.products.SetBoostFlags(ctx, pid, true, &bt, b.StartDate, b.EndDate); err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"context"
	"strings"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/metrics"
	"boostapi/internal/models"
)

// Boost priorities, lower wins. A local boost only qualifies when its city
// matches the viewer's; otherwise it is discarded, not demoted.
const (
	PriorityLocalProduct = 0
	PriorityProduct      = 1
	PriorityShop         = 2
	PriorityHomepage     = 3
)

type ProductWinner struct {
	Priority  int              `json:"priority"`
	BoostType models.BoostType `json:"boost_type"`
	RequestID string           `json:"request_id"`
}

type ShopWinner struct {
	Priority  int    `json:"priority"`
	RequestID string `json:"request_id"`
}

// PriorityResolution maps each candidate entity to its winning boost.
// Absence of an entry means "not boosted" in this viewing context. Shop
// winners live in their own map: a seller can have a boosted shop and
// independently boosted (or plain) products at the same time.
type PriorityResolution struct {
	ProductWinners map[string]ProductWinner `json:"product_winners"`
	ShopWinners    map[string]ShopWinner    `json:"shop_winners"`
}

// PriorityResolver computes the single winning boost per product slot and
// per shop slot for a page render.
type PriorityResolver struct {
	boosts interfaces.BoostRequestRepository
}

func NewPriorityResolver(boosts interfaces.BoostRequestRepository) *PriorityResolver {
	return &PriorityResolver{boosts: boosts}
}

type contender struct {
	priority int
	request  *models.BoostRequest
}

// Resolve loads the in-window ACTIVE requests intersecting the candidates
// and picks one winner per product and per seller. Ties on priority are
// broken deterministically: earliest approval first, then lowest id.
func (r *PriorityResolver) Resolve(ctx context.Context, productIDs, sellerIDs []string, viewerCity string, now time.Time) (*PriorityResolution, error) {
	metrics.PriorityResolutionsTotal.Inc()

	requests, err := r.boosts.ActiveIntersecting(ctx, productIDs, sellerIDs, now)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]struct{}, len(productIDs))
	for _, pid := range productIDs {
		requested[pid] = struct{}{}
	}

	productBest := make(map[string]contender)
	shopBest := make(map[string]contender)

	for _, b := range requests {
		priority, ok := priorityFor(b, viewerCity)
		if !ok {
			continue
		}

		if b.BoostType == models.BoostTypeShop {
			if cur, exists := shopBest[b.SellerID]; !exists || beats(priority, b, cur) {
				shopBest[b.SellerID] = contender{priority: priority, request: b}
			}
			continue
		}

		for _, pid := range b.ProductIDs {
			if _, wanted := requested[pid]; !wanted {
				continue
			}
			if cur, exists := productBest[pid]; !exists || beats(priority, b, cur) {
				productBest[pid] = contender{priority: priority, request: b}
			}
		}
	}

	result := &PriorityResolution{
		ProductWinners: make(map[string]ProductWinner, len(productBest)),
		ShopWinners:    make(map[string]ShopWinner, len(shopBest)),
	}
	for pid, c := range productBest {
		result.ProductWinners[pid] = ProductWinner{
			Priority:  c.priority,
			BoostType: c.request.BoostType,
			RequestID: c.request.ID,
		}
	}
	for sid, c := range shopBest {
		result.ShopWinners[sid] = ShopWinner{
			Priority:  c.priority,
			RequestID: c.request.ID,
		}
	}
	return result, nil
}

// priorityFor returns the request's priority for this viewer, or false when
// the request doesn't qualify (a local boost outside the viewer's city).
func priorityFor(b *models.BoostRequest, viewerCity string) (int, bool) {
	switch b.BoostType {
	case models.BoostTypeLocalProduct:
		if b.City == nil || viewerCity == "" || !strings.EqualFold(*b.City, viewerCity) {
			return 0, false
		}
		return PriorityLocalProduct, true
	case models.BoostTypeProduct:
		return PriorityProduct, true
	case models.BoostTypeShop:
		return PriorityShop, true
	case models.BoostTypeHomepage:
		return PriorityHomepage, true
	default:
		return 0, false
	}
}

// beats reports whether a request at the given priority displaces the
// current contender.
func beats(priority int, b *models.BoostRequest, cur contender) bool {
	if priority != cur.priority {
		return priority < cur.priority
	}
	a, c := approvalTime(b), approvalTime(cur.request)
	if !a.Equal(c) {
		return a.Before(c)
	}
	return b.ID < cur.request.ID
}

func approvalTime(b *models.BoostRequest) time.Time {
	if b.ApprovedAt != nil {
		return *b.ApprovedAt
	}
	return b.CreatedAt
}

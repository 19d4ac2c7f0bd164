package interfaces

import (
	"context"
	"time"

	"boostapi/internal/models"
)

// BoostRequestFilter defines the filter criteria for listing boost requests.
type BoostRequestFilter struct {
	SellerID string
	Status   string
	Limit    int
	Offset   int
}

// BoostRequestRepository owns the boost_requests table plus the
// boost_claims table that enforces the one-unexpired-request-per-resource
// invariant at the storage layer.
type BoostRequestRepository interface {
	// Create persists a PENDING request and its resource claims in one
	// transaction. A claim collision surfaces as *models.ConflictError.
	Create(ctx context.Context, request *models.BoostRequest) error
	GetByID(ctx context.Context, id string) (*models.BoostRequest, error)
	List(ctx context.Context, filter BoostRequestFilter) ([]*models.BoostRequest, error)
	Count(ctx context.Context, filter BoostRequestFilter) (int, error)
	Summary(ctx context.Context) (*models.BoostSummary, error)

	// HasUnexpiredConflict reports whether any of the claim keys is already
	// held. Best-effort pre-check; Create's unique constraint is the backstop.
	HasUnexpiredConflict(ctx context.Context, resources []string) (bool, string, error)

	// Activate moves a request to ACTIVE with the given window, stamps the
	// approval audit fields and clears any prior rejection. When the request
	// is being reopened from EXPIRED its claims are re-acquired; a collision
	// surfaces as *models.ConflictError.
	Activate(ctx context.Context, request *models.BoostRequest, approvedBy string, start, end, now time.Time) error
	Reject(ctx context.Context, request *models.BoostRequest, rejectedBy, reason string, now time.Time) error
	// ForceExpire ends an ACTIVE request immediately (endDate = now) and
	// releases its claims.
	ForceExpire(ctx context.Context, request *models.BoostRequest, now time.Time) error

	// ExpireDue bulk-flips every ACTIVE request whose window closed before
	// now to EXPIRED, releases their claims and returns the flipped rows.
	// Safe to run concurrently: the mutation is a single conditioned update.
	ExpireDue(ctx context.Context, now time.Time) ([]*models.BoostRequest, error)

	ActiveCoveringProduct(ctx context.Context, productID string, now time.Time) ([]*models.BoostRequest, error)
	ActiveCoveringSeller(ctx context.Context, sellerID string, now time.Time) ([]*models.BoostRequest, error)
	// ActiveIntersecting loads in-window ACTIVE requests touching any of the
	// candidate products, or shop boosts for any of the candidate sellers.
	ActiveIntersecting(ctx context.Context, productIDs, sellerIDs []string, now time.Time) ([]*models.BoostRequest, error)

	// IncrementImpressions bumps impressions by one for every id that is
	// ACTIVE and in-window at now, returning how many actually matched.
	IncrementImpressions(ctx context.Context, ids []string, now time.Time) (int64, error)
	// IncrementClicks bumps clicks for one qualifying id and returns the
	// updated counters; sql.ErrNoRows when the id doesn't qualify.
	IncrementClicks(ctx context.Context, id string, now time.Time) (impressions int, clicks int, err error)

	SetPaymentProofURL(ctx context.Context, id, sellerID, url string) error
}

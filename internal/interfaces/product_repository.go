package interfaces

import (
	"context"
	"time"

	"boostapi/internal/models"
)

// ProductRepository is the slice of the catalog this engine needs:
// ownership/approval checks on submit and the derived boost flags the
// reconciliation sweep maintains.
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error)
	// SetBoostFlags overwrites the denormalized boost projection on one
	// product. Pass boosted=false with nil metadata to clear it.
	SetBoostFlags(ctx context.Context, productID string, boosted bool, boostType *string, start, end *time.Time) error
}

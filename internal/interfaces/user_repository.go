package interfaces

import (
	"context"
	"time"

	"boostapi/internal/models"
)

// UserRepository is the identity collaborator surface: role/blocked lookups
// for submit eligibility, email lookup for login and notifications, and
// the seller-side shop boost projection.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetShopBoostFlags(ctx context.Context, sellerID string, boosted bool, start, end *time.Time) error
}

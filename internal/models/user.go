package models

import "time"

type UserRole string

const (
	RoleBuyer   UserRole = "buyer"
	RoleSeller  UserRole = "seller"
	RoleShop    UserRole = "shop"
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

// CanSubmitBoosts reports whether the role is a selling account. Staff
// accounts never submit paid placements for themselves.
func (r UserRole) CanSubmitBoosts() bool {
	return r == RoleSeller || r == RoleShop
}

func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is the identity record consumed from the surrounding app. The shop
// boost fields mirror the seller's SHOP_BOOST state the same way products
// carry their own derived flags.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email" validate:"required,email"`
	Name         string   `json:"name,omitempty"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	IsBlocked    bool     `json:"is_blocked"`

	ShopBoosted       bool       `json:"shop_boosted"`
	ShopBoostStartsAt *time.Time `json:"shop_boost_starts_at,omitempty"`
	ShopBoostEndsAt   *time.Time `json:"shop_boost_ends_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Name        string `json:"name,omitempty"`
}

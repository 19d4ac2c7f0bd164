package repository

import (
	"context"
	"database/sql"
	"time"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

const userColumns = `
        id, email, name, password_hash, role, is_blocked,
        shop_boosted, shop_boost_starts_at, shop_boost_ends_at, created_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) interfaces.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.IsBlocked,
		&u.ShopBoosted,
		&u.ShopBoostStartsAt,
		&u.ShopBoostEndsAt,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// SetShopBoostFlags mirrors the seller's SHOP_BOOST state onto the user
// row. Only the activation path and the reconciliation sweep call it.
func (r *userRepository) SetShopBoostFlags(ctx context.Context, sellerID string, boosted bool, start, end *time.Time) error {
	if !boosted {
		start = nil
		end = nil
	}

	query := `
        UPDATE users
        SET shop_boosted = $2,
            shop_boost_starts_at = $3,
            shop_boost_ends_at = $4
        WHERE id = $1
    `

	res, err := r.db.ExecContext(ctx, query, sellerID, boosted, start, end)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

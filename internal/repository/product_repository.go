package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

const productColumns = `
        id, seller_id, name, price, status,
        boosted, boost_type, boost_starts_at, boost_ends_at,
        created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Name,
		&p.Price,
		&p.Status,
		&p.Boosted,
		&p.BoostType,
		&p.BoostStartsAt,
		&p.BoostEndsAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// SetBoostFlags is the only writer of the product-side boost projection.
// Clearing resets every derived field, not just the flag.
func (r *productRepository) SetBoostFlags(ctx context.Context, productID string, boosted bool, boostType *string, start, end *time.Time) error {
	if !boosted {
		boostType = nil
		start = nil
		end = nil
	}

	query := `
        UPDATE products
        SET boosted = $2,
            boost_type = $3,
            boost_starts_at = $4,
            boost_ends_at = $5,
            updated_at = NOW() AT TIME ZONE 'UTC'
        WHERE id = $1
    `

	res, err := r.db.ExecContext(ctx, query, productID, boosted, boostType, start, end)
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

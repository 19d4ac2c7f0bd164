package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

const boostRequestColumns = `
        id, seller_id, boost_type, product_ids, city, duration,
        unit_price, base_price, price_type, pricing_multiplier,
        seasonal_multiplier, seasonal_campaign_id, total_price,
        payment_operator, payment_sender_name, payment_transaction_id, payment_proof_url,
        status, start_date, end_date, impressions, clicks,
        approved_by, approved_at, rejected_by, rejected_at, rejection_reason,
        created_at, updated_at`

type boostRequestRepository struct {
	db *sql.DB
}

func NewBoostRequestRepository(db *sql.DB) interfaces.BoostRequestRepository {
	return &boostRequestRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBoostRequest(row rowScanner) (*models.BoostRequest, error) {
	var b models.BoostRequest
	err := row.Scan(
		&b.ID,
		&b.SellerID,
		&b.BoostType,
		pq.Array(&b.ProductIDs),
		&b.City,
		&b.Duration,
		&b.UnitPrice,
		&b.BasePrice,
		&b.PriceType,
		&b.PricingMultiplier,
		&b.SeasonalMultiplier,
		&b.SeasonalCampaignID,
		&b.TotalPrice,
		&b.PaymentOperator,
		&b.PaymentSenderName,
		&b.PaymentTransactionID,
		&b.PaymentProofURL,
		&b.Status,
		&b.StartDate,
		&b.EndDate,
		&b.Impressions,
		&b.Clicks,
		&b.ApprovedBy,
		&b.ApprovedAt,
		&b.RejectedBy,
		&b.RejectedAt,
		&b.RejectionReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a PENDING request together with one claim row per contested
// resource. The claims primary key is the storage-level enforcement of the
// "one unexpired request per resource" invariant: the losing concurrent
// writer gets a unique violation here regardless of what the pre-check saw.
func (r *boostRequestRepository) Create(ctx context.Context, request *models.BoostRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	productIDs := request.ProductIDs
	if productIDs == nil {
		productIDs = []string{}
	}

	query := `
        INSERT INTO boost_requests (
            seller_id, boost_type, product_ids, city, duration,
            unit_price, base_price, price_type, pricing_multiplier,
            seasonal_multiplier, seasonal_campaign_id, total_price,
            payment_operator, payment_sender_name, payment_transaction_id, payment_proof_url,
            status, impressions, clicks
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 0, 0)
        RETURNING id, created_at, updated_at
    `

	err = tx.QueryRowContext(
		ctx,
		query,
		request.SellerID,
		request.BoostType,
		pq.Array(productIDs),
		request.City,
		request.Duration,
		request.UnitPrice,
		request.BasePrice,
		request.PriceType,
		request.PricingMultiplier,
		request.SeasonalMultiplier,
		request.SeasonalCampaignID,
		request.TotalPrice,
		request.PaymentOperator,
		request.PaymentSenderName,
		request.PaymentTransactionID,
		request.PaymentProofURL,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertClaims(ctx, tx, request); err != nil {
		return err
	}

	return tx.Commit()
}

func insertClaims(ctx context.Context, tx *sql.Tx, request *models.BoostRequest) error {
	for _, resource := range request.ContestedResources() {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO boost_claims (resource_key, request_id) VALUES ($1, $2)`,
			resource,
			request.ID,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return &models.ConflictError{
					Resource: resource,
					Message:  "an unexpired boost request already covers this resource",
				}
			}
			return err
		}
	}
	return nil
}

func (r *boostRequestRepository) GetByID(ctx context.Context, id string) (*models.BoostRequest, error) {
	query := `SELECT ` + boostRequestColumns + ` FROM boost_requests WHERE id = $1`
	b, err := scanBoostRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return b, nil
}

func (r *boostRequestRepository) List(ctx context.Context, filter interfaces.BoostRequestFilter) ([]*models.BoostRequest, error) {
	query := `SELECT ` + boostRequestColumns + ` FROM boost_requests WHERE 1=1`

	var args []interface{}
	var whereClauses []string
	argPos := 1

	if filter.SellerID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("seller_id = $%d", argPos))
		args = append(args, filter.SellerID)
		argPos++
	}

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	if len(whereClauses) > 0 {
		query += " AND " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBoostRequests(rows)
}

func collectBoostRequests(rows *sql.Rows) ([]*models.BoostRequest, error) {
	var requests []*models.BoostRequest
	for rows.Next() {
		b, err := scanBoostRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, b)
	}
	return requests, rows.Err()
}

func (r *boostRequestRepository) Count(ctx context.Context, filter interfaces.BoostRequestFilter) (int, error) {
	query := `SELECT COUNT(*) FROM boost_requests WHERE 1=1`

	var args []interface{}
	argPos := 1

	if filter.SellerID != "" {
		query += fmt.Sprintf(" AND seller_id = $%d", argPos)
		args = append(args, filter.SellerID)
		argPos++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *boostRequestRepository) Summary(ctx context.Context) (*models.BoostSummary, error) {
	query := `
        SELECT
            COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending_count,
            COALESCE(SUM(CASE WHEN status = 'ACTIVE' THEN 1 ELSE 0 END), 0) AS active_count,
            COALESCE(SUM(CASE WHEN status = 'EXPIRED' THEN 1 ELSE 0 END), 0) AS expired_count,
            COALESCE(SUM(CASE WHEN status = 'REJECTED' THEN 1 ELSE 0 END), 0) AS rejected_count,
            COALESCE(SUM(CASE WHEN status IN ('ACTIVE', 'EXPIRED') THEN total_price ELSE 0 END), 0) AS total_revenue,
            COALESCE(SUM(impressions), 0) AS total_impressions,
            COALESCE(SUM(clicks), 0) AS total_clicks
        FROM boost_requests
    `

	var s models.BoostSummary
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.PendingCount,
		&s.ActiveCount,
		&s.ExpiredCount,
		&s.RejectedCount,
		&s.TotalRevenue,
		&s.TotalImpressions,
		&s.TotalClicks,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *boostRequestRepository) HasUnexpiredConflict(ctx context.Context, resources []string) (bool, string, error) {
	if len(resources) == 0 {
		return false, "", nil
	}

	var resource string
	err := r.db.QueryRowContext(
		ctx,
		`SELECT resource_key FROM boost_claims WHERE resource_key = ANY($1) LIMIT 1`,
		pq.Array(resources),
	).Scan(&resource)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, "", nil
		}
		return false, "", err
	}
	return true, resource, nil
}

func (r *boostRequestRepository) Activate(ctx context.Context, request *models.BoostRequest, approvedBy string, start, end, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Reopening an EXPIRED request re-contests its resources; the sweep
	// released them when the window closed.
	if request.Status == models.BoostStatusExpired {
		if err := insertClaims(ctx, tx, request); err != nil {
			return err
		}
	}

	query := `
        UPDATE boost_requests
        SET status = 'ACTIVE',
            start_date = $1,
            end_date = $2,
            approved_by = $3,
            approved_at = $4,
            rejected_by = NULL,
            rejected_at = NULL,
            rejection_reason = NULL,
            updated_at = $4
        WHERE id = $5
        RETURNING updated_at
    `

	if err := tx.QueryRowContext(ctx, query, start, end, approvedBy, now, request.ID).Scan(&request.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("failed to activate boost request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	request.Status = models.BoostStatusActive
	request.StartDate = &start
	request.EndDate = &end
	request.ApprovedBy = &approvedBy
	approvedAt := now
	request.ApprovedAt = &approvedAt
	request.RejectedBy = nil
	request.RejectedAt = nil
	request.RejectionReason = nil
	return nil
}

func (r *boostRequestRepository) Reject(ctx context.Context, request *models.BoostRequest, rejectedBy, reason string, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        UPDATE boost_requests
        SET status = 'REJECTED',
            rejected_by = $1,
            rejected_at = $2,
            rejection_reason = $3,
            updated_at = $2
        WHERE id = $4
        RETURNING updated_at
    `

	if err := tx.QueryRowContext(ctx, query, rejectedBy, now, reason, request.ID).Scan(&request.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM boost_claims WHERE request_id = $1`, request.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	request.Status = models.BoostStatusRejected
	request.RejectedBy = &rejectedBy
	rejectedAt := now
	request.RejectedAt = &rejectedAt
	request.RejectionReason = &reason
	return nil
}

func (r *boostRequestRepository) ForceExpire(ctx context.Context, request *models.BoostRequest, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        UPDATE boost_requests
        SET status = 'EXPIRED',
            end_date = $1,
            updated_at = $1
        WHERE id = $2
        RETURNING updated_at
    `

	if err := tx.QueryRowContext(ctx, query, now, request.ID).Scan(&request.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM boost_claims WHERE request_id = $1`, request.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	request.Status = models.BoostStatusExpired
	endDate := now
	request.EndDate = &endDate
	return nil
}

// ExpireDue is the sweep's first step: a single conditioned update, so two
// concurrent sweeps never double-process a row — the second one matches
// nothing.
func (r *boostRequestRepository) ExpireDue(ctx context.Context, now time.Time) ([]*models.BoostRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
        UPDATE boost_requests
        SET status = 'EXPIRED',
            updated_at = $1
        WHERE status = 'ACTIVE'
          AND end_date IS NOT NULL
          AND end_date < $1
        RETURNING ` + boostRequestColumns

	rows, err := tx.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	expired, err := collectBoostRequests(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if len(expired) > 0 {
		ids := make([]string, 0, len(expired))
		for _, b := range expired {
			ids = append(ids, b.ID)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM boost_claims WHERE request_id = ANY($1::uuid[])`, pq.Array(ids)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *boostRequestRepository) ActiveCoveringProduct(ctx context.Context, productID string, now time.Time) ([]*models.BoostRequest, error) {
	query := `SELECT ` + boostRequestColumns + `
        FROM boost_requests
        WHERE status = 'ACTIVE'
          AND boost_type <> 'SHOP_BOOST'
          AND $1 = ANY(product_ids)
          AND start_date <= $2
          AND end_date >= $2`

	rows, err := r.db.QueryContext(ctx, query, productID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBoostRequests(rows)
}

func (r *boostRequestRepository) ActiveCoveringSeller(ctx context.Context, sellerID string, now time.Time) ([]*models.BoostRequest, error) {
	query := `SELECT ` + boostRequestColumns + `
        FROM boost_requests
        WHERE status = 'ACTIVE'
          AND boost_type = 'SHOP_BOOST'
          AND seller_id = $1
          AND start_date <= $2
          AND end_date >= $2`

	rows, err := r.db.QueryContext(ctx, query, sellerID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBoostRequests(rows)
}

func (r *boostRequestRepository) ActiveIntersecting(ctx context.Context, productIDs, sellerIDs []string, now time.Time) ([]*models.BoostRequest, error) {
	if productIDs == nil {
		productIDs = []string{}
	}
	if sellerIDs == nil {
		sellerIDs = []string{}
	}

	query := `SELECT ` + boostRequestColumns + `
        FROM boost_requests
        WHERE status = 'ACTIVE'
          AND start_date <= $3
          AND end_date >= $3
          AND (
              product_ids && $1
              OR (boost_type = 'SHOP_BOOST' AND seller_id = ANY($2::uuid[]))
          )`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs), pq.Array(sellerIDs), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBoostRequests(rows)
}

// IncrementImpressions is a single atomic conditioned update: two
// concurrent batches on the same ids both land, no read-modify-write.
func (r *boostRequestRepository) IncrementImpressions(ctx context.Context, ids []string, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
        UPDATE boost_requests
        SET impressions = impressions + 1,
            updated_at = $2
        WHERE id = ANY($1::uuid[])
          AND status = 'ACTIVE'
          AND start_date <= $2
          AND end_date >= $2
    `

	res, err := r.db.ExecContext(ctx, query, pq.Array(ids), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *boostRequestRepository) IncrementClicks(ctx context.Context, id string, now time.Time) (int, int, error) {
	query := `
        UPDATE boost_requests
        SET clicks = clicks + 1,
            updated_at = $2
        WHERE id = $1
          AND status = 'ACTIVE'
          AND start_date <= $2
          AND end_date >= $2
        RETURNING impressions, clicks
    `

	var impressions, clicks int
	if err := r.db.QueryRowContext(ctx, query, id, now).Scan(&impressions, &clicks); err != nil {
		return 0, 0, err
	}
	return impressions, clicks, nil
}

func (r *boostRequestRepository) SetPaymentProofURL(ctx context.Context, id, sellerID, url string) error {
	query := `
        UPDATE boost_requests
        SET payment_proof_url = $3,
            updated_at = NOW() AT TIME ZONE 'UTC'
        WHERE id = $1
          AND seller_id = $2
          AND status = 'PENDING'
    `

	res, err := r.db.ExecContext(ctx, query, id, sellerID, url)
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

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/subastando/auction-api/internal/auction/domain"
)

const auctionColumns = `id, seller_id, category_id, title, description, image_url,
       starting_price, current_price, buy_now_price, end_time, status, winner_id,
       created_at, updated_at`

// AuctionRepository implements domain.AuctionRepository for PostgreSQL.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (*domain.Auction, error) {
	a := &domain.Auction{}
	err := row.Scan(
		&a.ID,
		&a.SellerID,
		&a.CategoryID,
		&a.Title,
		&a.Description,
		&a.ImageURL,
		&a.StartingPrice,
		&a.CurrentPrice,
		&a.BuyNowPrice,
		&a.EndTime,
		&a.Status,
		&a.WinnerID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`
	a, err := scanAuction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetByIDForUpdate loads the auction with a row lock so that concurrent bids
// and settlements on the same auction serialize behind it.
func (r *AuctionRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1 FOR UPDATE`
	a, err := scanAuction(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AuctionRepository) Create(ctx context.Context, a *domain.Auction) error {
	query := `
        INSERT INTO auctions (id, seller_id, category_id, title, description, image_url,
                              starting_price, current_price, buy_now_price, end_time, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.SellerID,
		a.CategoryID,
		a.Title,
		a.Description,
		a.ImageURL,
		a.StartingPrice,
		a.CurrentPrice,
		a.BuyNowPrice,
		a.EndTime,
		a.Status,
	)
	return err
}

// UpdateListing writes the administratively editable fields only. Prices
// already bid, status and bid history are untouchable through this query.
func (r *AuctionRepository) UpdateListing(ctx context.Context, a *domain.Auction) error {
	query := `
        UPDATE auctions
        SET title = $2,
            description = $3,
            image_url = $4,
            category_id = $5,
            buy_now_price = $6,
            updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.ImageURL,
		a.CategoryID,
		a.BuyNowPrice,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

func (r *AuctionRepository) UpdateCurrentPrice(ctx context.Context, tx pgx.Tx, id uuid.UUID, price decimal.Decimal) error {
	query := `UPDATE auctions SET current_price = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(ctx, query, id, price)
	return err
}

// MarkEnded transitions an auction out of active. The WHERE clause on status
// makes the transition at-most-once: a second settlement attempt matches no
// rows and reports false.
func (r *AuctionRepository) MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID, endTime time.Time, winnerID *uuid.UUID) (bool, error) {
	query := `
        UPDATE auctions
        SET status = $2, end_time = $3, winner_id = $4, updated_at = NOW()
        WHERE id = $1 AND status = $5
    `
	tag, err := tx.Exec(ctx, query, id, domain.StatusEnded, endTime, winnerID, domain.StatusActive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AuctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auctions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

func (r *AuctionRepository) ListActive(ctx context.Context) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE status = $1 ORDER BY created_at DESC`
	return r.queryAuctions(ctx, query, domain.StatusActive)
}

func (r *AuctionRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE seller_id = $1 ORDER BY created_at DESC`
	return r.queryAuctions(ctx, query, sellerID)
}

// ListExpired returns ids of active auctions whose countdown has passed, for
// the finalizer sweep.
func (r *AuctionRepository) ListExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `SELECT id FROM auctions WHERE status = $1 AND end_time <= $2`
	rows, err := r.pool.Query(ctx, query, domain.StatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AuctionRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM auctions WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

func (r *AuctionRepository) queryAuctions(ctx context.Context, query string, args ...any) ([]*domain.Auction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, a)
	}
	return auctions, rows.Err()
}

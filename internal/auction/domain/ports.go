package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TxManager runs a function inside a single database transaction, committing
// on nil return and rolling back otherwise. Bid acceptance and settlement
// must be atomic, so every multi-write flow goes through it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type AuctionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	// GetByIDForUpdate loads the auction row with a row-level lock so that
	// concurrent bids and settlements on the same auction serialize.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Auction, error)
	Create(ctx context.Context, auction *Auction) error
	UpdateListing(ctx context.Context, auction *Auction) error
	UpdateCurrentPrice(ctx context.Context, tx pgx.Tx, id uuid.UUID, price decimal.Decimal) error
	// MarkEnded transitions the auction out of active, setting end_time and
	// winner. It reports false without error when the auction was no longer
	// active, which makes settlement idempotent.
	MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID, endTime time.Time, winnerID *uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*Auction, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Auction, error)
	// ListExpired returns ids of active auctions whose end time has passed.
	ListExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type BidRepository interface {
	Save(ctx context.Context, tx pgx.Tx, bid *Bid) error
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	// ListByAuctionTx reads the bid set inside the settlement transaction so
	// winner derivation sees a consistent snapshot.
	ListByAuctionTx(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]*Bid, error)
	ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*Bid, error)
	CountByAuction(ctx context.Context, auctionID uuid.UUID) (int64, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// AuctionEndedNotice carries the data for the operator email sent when an
// auction settles with a winner.
type AuctionEndedNotice struct {
	AuctionID   uuid.UUID
	Title       string
	WinnerName  string
	WinnerEmail string
	FinalPrice  decimal.Decimal
}

// Notifier delivers auction outcome notifications. Delivery is best-effort:
// callers dispatch after their transaction commits and only log failures.
type Notifier interface {
	AuctionEnded(ctx context.Context, notice AuctionEndedNotice) error
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStatus represents the lifecycle state of an auction.
type AuctionStatus string

const (
	StatusActive    AuctionStatus = "active"
	StatusEnded     AuctionStatus = "ended"
	StatusCancelled AuctionStatus = "cancelled"
)

// AuctionDuration is the fixed countdown applied to every new listing.
const AuctionDuration = 24 * time.Hour

type Auction struct {
	ID            uuid.UUID
	SellerID      uuid.UUID
	CategoryID    *uuid.UUID
	Title         string
	Description   string
	ImageURL      *string
	StartingPrice decimal.Decimal
	// CurrentPrice is a denormalized cache of the highest accepted bid, or
	// the starting price while no bids exist. It is only ever written inside
	// the same transaction that inserts the bid.
	CurrentPrice decimal.Decimal
	BuyNowPrice  *decimal.Decimal
	EndTime      time.Time
	Status       AuctionStatus
	WinnerID     *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAuction builds an active listing ending exactly 24 hours from now.
// The buy-now price, if given, must exceed the starting price.
func NewAuction(sellerID uuid.UUID, categoryID *uuid.UUID, title, description string, imageURL *string, startingPrice decimal.Decimal, buyNowPrice *decimal.Decimal, now time.Time) (*Auction, error) {
	if title == "" || description == "" {
		return nil, ErrMissingFields
	}
	if !startingPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if buyNowPrice != nil && buyNowPrice.LessThanOrEqual(startingPrice) {
		return nil, ErrBuyNowTooLow
	}

	return &Auction{
		ID:            uuid.New(),
		SellerID:      sellerID,
		CategoryID:    categoryID,
		Title:         title,
		Description:   description,
		ImageURL:      imageURL,
		StartingPrice: startingPrice,
		CurrentPrice:  startingPrice,
		BuyNowPrice:   buyNowPrice,
		EndTime:       now.Add(AuctionDuration),
		Status:        StatusActive,
		CreatedAt:     now,
	}, nil
}

// IsActive reports whether the auction still accepts bids state-wise. The
// end-time check is separate because settlement by buy-now deliberately
// ignores remaining time.
func (a *Auction) IsActive() bool {
	return a.Status == StatusActive
}

// ReachesBuyNow reports whether the given amount meets or exceeds the
// configured buy-now price. Always false when no buy-now price is set.
func (a *Auction) ReachesBuyNow(amount decimal.Decimal) bool {
	return a.BuyNowPrice != nil && amount.GreaterThanOrEqual(*a.BuyNowPrice)
}

// FinalPrice is the amount reported when the auction ends by buy-now: the
// configured buy-now price, falling back to the current price if absent.
func (a *Auction) FinalPrice() decimal.Decimal {
	if a.BuyNowPrice != nil {
		return *a.BuyNowPrice
	}
	return a.CurrentPrice
}

// ApplyEdit mutates the listing fields an administrator may change. Status,
// price history and bids are immutable through this path. A new buy-now price
// must exceed the auction's current price.
func (a *Auction) ApplyEdit(title, description string, imageURL *string, categoryID *uuid.UUID, buyNowPrice *decimal.Decimal) error {
	if title == "" || description == "" {
		return ErrMissingFields
	}
	if buyNowPrice != nil {
		if !buyNowPrice.IsPositive() {
			return ErrInvalidPrice
		}
		if buyNowPrice.LessThanOrEqual(a.CurrentPrice) {
			return ErrBuyNowBelowCurrent
		}
	}

	a.Title = title
	a.Description = description
	a.ImageURL = imageURL
	a.CategoryID = categoryID
	a.BuyNowPrice = buyNowPrice
	return nil
}

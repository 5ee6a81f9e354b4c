package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrentPrice derives the price of an auction from its bid set: the maximum
// bid amount, or the starting price when no bids exist. Pure and
// deterministic; the denormalized Auction.CurrentPrice must always agree with
// this over the persisted bids.
func CurrentPrice(auction *Auction, bids []*Bid) decimal.Decimal {
	price := auction.StartingPrice
	for _, b := range bids {
		if b.Amount.GreaterThan(price) {
			price = b.Amount
		}
	}
	return price
}

// HighestBid selects the winning bid from a bid set. Ties on amount are
// broken deterministically: the earliest-created bid wins, and equal
// timestamps fall back to the lexically lowest bid id. Returns nil for an
// empty set.
func HighestBid(bids []*Bid) *Bid {
	var best *Bid
	for _, b := range bids {
		if best == nil {
			best = b
			continue
		}
		switch {
		case b.Amount.GreaterThan(best.Amount):
			best = b
		case b.Amount.Equal(best.Amount):
			if b.CreatedAt.Before(best.CreatedAt) ||
				(b.CreatedAt.Equal(best.CreatedAt) && b.ID.String() < best.ID.String()) {
				best = b
			}
		}
	}
	return best
}

// ValidateBid applies the bid acceptance rules in priority order, returning
// the first violated rule: auction not active, auction already ended, bidder
// is the seller, amount not above the current price. Checks short-circuit, so
// exactly one reason is reported per rejection.
func ValidateBid(auction *Auction, currentPrice decimal.Decimal, bidderID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	if !auction.IsActive() {
		return ErrAuctionNotActive
	}
	if !auction.EndTime.After(now) {
		return ErrAuctionEnded
	}
	if auction.SellerID == bidderID {
		return ErrOwnAuctionBid
	}
	if amount.LessThanOrEqual(currentPrice) {
		return ErrBidTooLow
	}
	return nil
}

// ParseAmount parses a user-supplied amount string. Non-numeric input or a
// value that is not strictly positive is rejected before any store access.
func ParseAmount(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}

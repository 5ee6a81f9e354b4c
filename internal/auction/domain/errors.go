package domain

import "errors"

var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrAuctionEnded     = errors.New("auction has already ended")
	ErrOwnAuctionBid    = errors.New("cannot bid on your own auction")
	ErrBidTooLow        = errors.New("bid must exceed the current price")
	ErrInvalidAmount    = errors.New("bid amount must be a valid number greater than zero")
	ErrNoBids           = errors.New("auction has no bids")

	ErrMissingFields      = errors.New("required fields are missing")
	ErrInvalidPrice       = errors.New("price must be a valid number greater than zero")
	ErrBuyNowTooLow       = errors.New("buy-now price must exceed the starting price")
	ErrBuyNowBelowCurrent = errors.New("buy-now price must exceed the current price")
	ErrAuctionHasBids     = errors.New("cannot delete an auction that has bids")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("cannot delete a category with associated auctions")

	ErrProfileNotFound = errors.New("profile not found")
)

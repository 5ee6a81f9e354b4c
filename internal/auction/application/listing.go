package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subastando/auction-api/internal/auction/domain"
	"go.uber.org/zap"
)

type CreateAuctionInput struct {
	SellerID      uuid.UUID
	CategoryID    *uuid.UUID
	Title         string
	Description   string
	ImageURL      *string
	StartingPrice string
	BuyNowPrice   string // optional, empty means no buy-now
}

type EditAuctionInput struct {
	AuctionID   uuid.UUID
	Title       string
	Description string
	ImageURL    *string
	CategoryID  *uuid.UUID
	BuyNowPrice string // optional, empty clears the buy-now price
}

// ListingUseCase covers the listing lifecycle: creation with the fixed
// 24-hour countdown, administrative edits, and deletion guards. Category
// management lives here too since its deletion guard mirrors the auction one.
type ListingUseCase struct {
	auctions   domain.AuctionRepository
	bids       domain.BidRepository
	categories domain.CategoryRepository
	now        func() time.Time
}

func NewListingUseCase(
	auctions domain.AuctionRepository,
	bids domain.BidRepository,
	categories domain.CategoryRepository,
	now func() time.Time,
) *ListingUseCase {
	if now == nil {
		now = time.Now
	}
	return &ListingUseCase{
		auctions:   auctions,
		bids:       bids,
		categories: categories,
		now:        now,
	}
}

func (uc *ListingUseCase) CreateAuction(ctx context.Context, in CreateAuctionInput) (*domain.Auction, error) {
	startingPrice, err := parsePrice(in.StartingPrice)
	if err != nil {
		return nil, domain.ErrInvalidPrice
	}

	var buyNow *decimal.Decimal
	if in.BuyNowPrice != "" {
		p, err := parsePrice(in.BuyNowPrice)
		if err != nil {
			return nil, domain.ErrInvalidPrice
		}
		buyNow = &p
	}

	auction, err := domain.NewAuction(in.SellerID, in.CategoryID, in.Title, in.Description, in.ImageURL, startingPrice, buyNow, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.auctions.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}

	log.Info("Auction created",
		zap.String("auctionID", auction.ID.String()),
		zap.String("sellerID", in.SellerID.String()),
		zap.String("startingPrice", startingPrice.String()),
		zap.Time("endTime", auction.EndTime),
	)
	return auction, nil
}

// EditAuction applies an administrative edit. The buy-now price is validated
// against the current price fetched fresh here, not against whatever the
// admin form last saw.
func (uc *ListingUseCase) EditAuction(ctx context.Context, in EditAuctionInput) (*domain.Auction, error) {
	auction, err := uc.auctions.GetByID(ctx, in.AuctionID)
	if err != nil {
		return nil, err
	}

	var buyNow *decimal.Decimal
	if in.BuyNowPrice != "" {
		p, err := parsePrice(in.BuyNowPrice)
		if err != nil {
			return nil, domain.ErrInvalidPrice
		}
		buyNow = &p
	}

	if err := auction.ApplyEdit(in.Title, in.Description, in.ImageURL, in.CategoryID, buyNow); err != nil {
		return nil, err
	}

	if err := uc.auctions.UpdateListing(ctx, auction); err != nil {
		return nil, fmt.Errorf("edit auction %s: %w", in.AuctionID, err)
	}

	log.Info("Auction updated", zap.String("auctionID", auction.ID.String()))
	return auction, nil
}

// DeleteAuction removes a listing, but only while its bid history is empty.
func (uc *ListingUseCase) DeleteAuction(ctx context.Context, auctionID uuid.UUID) error {
	if _, err := uc.auctions.GetByID(ctx, auctionID); err != nil {
		return err
	}

	count, err := uc.bids.CountByAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("delete auction %s: failed to count bids: %w", auctionID, err)
	}
	if count > 0 {
		return domain.ErrAuctionHasBids
	}

	if err := uc.auctions.Delete(ctx, auctionID); err != nil {
		return fmt.Errorf("delete auction %s: %w", auctionID, err)
	}

	log.Info("Auction deleted", zap.String("auctionID", auctionID.String()))
	return nil
}

func (uc *ListingUseCase) CreateCategory(ctx context.Context, name string, description, emoji *string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, description, emoji)
	if err != nil {
		return nil, err
	}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	log.Info("Category created", zap.String("categoryID", category.ID.String()), zap.String("name", name))
	return category, nil
}

// DeleteCategory removes a category unless any auction still references it.
func (uc *ListingUseCase) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := uc.categories.GetByID(ctx, categoryID); err != nil {
		return err
	}

	count, err := uc.auctions.CountByCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("delete category %s: failed to count auctions: %w", categoryID, err)
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	if err := uc.categories.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category %s: %w", categoryID, err)
	}

	log.Info("Category deleted", zap.String("categoryID", categoryID.String()))
	return nil
}

func parsePrice(text string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !p.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("price must be positive")
	}
	return p, nil
}

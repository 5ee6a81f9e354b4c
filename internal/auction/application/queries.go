package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subastando/auction-api/internal/auction/domain"
)

// AuctionView is the read model for a single listing, enriched with its
// category and derived pricing info.
type AuctionView struct {
	Auction  *domain.Auction
	Category *domain.Category
	BidCount int
}

// BidHistoryEntry is one row of the public bid history. The bidder label
// honours the profile's anonymity flag.
type BidHistoryEntry struct {
	Amount      decimal.Decimal
	BidderLabel string
	CreatedAt   time.Time
}

// WinnerInfo identifies the winning bid of an ended auction.
type WinnerInfo struct {
	BidderID uuid.UUID
	Amount   decimal.Decimal
	Name     string
	Email    string
}

// SellerAuction pairs a seller's listing with its winner once ended.
type SellerAuction struct {
	Auction *domain.Auction
	Winner  *WinnerInfo
}

// BidderBid pairs one of a user's bids with the auction it targeted and
// whether that user ended up winning it.
type BidderBid struct {
	Bid      *domain.Bid
	Auction  *domain.Auction
	IsWinner bool
}

// QueryUseCase serves the read side: listings, bid history, per-user views,
// categories and profiles. No writes besides the profile update.
type QueryUseCase struct {
	auctions   domain.AuctionRepository
	bids       domain.BidRepository
	categories domain.CategoryRepository
	profiles   domain.ProfileRepository
}

func NewQueryUseCase(
	auctions domain.AuctionRepository,
	bids domain.BidRepository,
	categories domain.CategoryRepository,
	profiles domain.ProfileRepository,
) *QueryUseCase {
	return &QueryUseCase{
		auctions:   auctions,
		bids:       bids,
		categories: categories,
		profiles:   profiles,
	}
}

func (uc *QueryUseCase) ListActiveAuctions(ctx context.Context) ([]*domain.Auction, error) {
	return uc.auctions.ListActive(ctx)
}

func (uc *QueryUseCase) GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error) {
	auction, err := uc.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	view := &AuctionView{Auction: auction}

	if auction.CategoryID != nil {
		category, err := uc.categories.GetByID(ctx, *auction.CategoryID)
		if err != nil && err != domain.ErrCategoryNotFound {
			return nil, err
		}
		view.Category = category
	}

	count, err := uc.bids.CountByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	view.BidCount = int(count)

	return view, nil
}

// GetBidHistory returns the bids of an auction newest-first, with bidder
// names replaced by "anonymous" where the profile asks for it.
func (uc *QueryUseCase) GetBidHistory(ctx context.Context, auctionID uuid.UUID) ([]BidHistoryEntry, error) {
	if _, err := uc.auctions.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := uc.bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("bid history for auction %s: %w", auctionID, err)
	}

	labels := map[uuid.UUID]string{}
	entries := make([]BidHistoryEntry, 0, len(bids))
	for i := len(bids) - 1; i >= 0; i-- {
		b := bids[i]
		label, ok := labels[b.BidderID]
		if !ok {
			profile, err := uc.profiles.GetByID(ctx, b.BidderID)
			if err != nil {
				label = "anonymous"
			} else {
				label = profile.PublicLabel()
			}
			labels[b.BidderID] = label
		}
		entries = append(entries, BidHistoryEntry{
			Amount:      b.Amount,
			BidderLabel: label,
			CreatedAt:   b.CreatedAt,
		})
	}
	return entries, nil
}

// ListSellerAuctions returns a user's listings with winner details attached
// to the ended ones.
func (uc *QueryUseCase) ListSellerAuctions(ctx context.Context, sellerID uuid.UUID) ([]SellerAuction, error) {
	auctions, err := uc.auctions.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	result := make([]SellerAuction, 0, len(auctions))
	for _, a := range auctions {
		entry := SellerAuction{Auction: a}
		if a.Status == domain.StatusEnded {
			winner, err := uc.winnerOf(ctx, a.ID)
			if err != nil {
				return nil, err
			}
			entry.Winner = winner
		}
		result = append(result, entry)
	}
	return result, nil
}

// ListBidderBids returns a user's bids with the targeted auction and whether
// the user won it.
func (uc *QueryUseCase) ListBidderBids(ctx context.Context, bidderID uuid.UUID) ([]BidderBid, error) {
	bids, err := uc.bids.ListByBidder(ctx, bidderID)
	if err != nil {
		return nil, err
	}

	auctionsByID := map[uuid.UUID]*domain.Auction{}
	winners := map[uuid.UUID]*WinnerInfo{}

	result := make([]BidderBid, 0, len(bids))
	for _, b := range bids {
		auction, ok := auctionsByID[b.AuctionID]
		if !ok {
			auction, err = uc.auctions.GetByID(ctx, b.AuctionID)
			if err != nil {
				return nil, err
			}
			auctionsByID[b.AuctionID] = auction
		}

		entry := BidderBid{Bid: b, Auction: auction}
		if auction.Status == domain.StatusEnded {
			winner, ok := winners[b.AuctionID]
			if !ok {
				winner, err = uc.winnerOf(ctx, b.AuctionID)
				if err != nil {
					return nil, err
				}
				winners[b.AuctionID] = winner
			}
			entry.IsWinner = winner != nil && winner.BidderID == bidderID
		}
		result = append(result, entry)
	}
	return result, nil
}

func (uc *QueryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categories.List(ctx)
}

func (uc *QueryUseCase) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	return uc.profiles.GetByID(ctx, profileID)
}

func (uc *QueryUseCase) UpdateProfile(ctx context.Context, profileID uuid.UUID, fullName *string, anonymous *bool) (*domain.Profile, error) {
	profile, err := uc.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if fullName != nil {
		profile.FullName = fullName
	}
	if anonymous != nil {
		profile.Anonymous = *anonymous
	}
	if err := uc.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", profileID, err)
	}
	return profile, nil
}

// winnerOf derives the winner of an auction from its persisted bids, using
// the same deterministic selection settlement uses.
func (uc *QueryUseCase) winnerOf(ctx context.Context, auctionID uuid.UUID) (*WinnerInfo, error) {
	bids, err := uc.bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	best := domain.HighestBid(bids)
	if best == nil {
		return nil, nil
	}

	info := &WinnerInfo{BidderID: best.BidderID, Amount: best.Amount}
	profile, err := uc.profiles.GetByID(ctx, best.BidderID)
	if err == nil {
		info.Name = profile.DisplayName()
		info.Email = profile.Email
	}
	return info, nil
}

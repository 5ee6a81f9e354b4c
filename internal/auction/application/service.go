package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/subastando/auction-api/internal/auction/domain"
)

// AuctionService is the application interface of the auction module, the
// single surface the HTTP layer and the finalizer talk to.
type AuctionService interface {
	PlaceBid(ctx context.Context, in PlaceBidInput) (*PlaceBidResult, error)
	SettleByTime(ctx context.Context, auctionID uuid.UUID) (bool, error)
	SettleByBuyNow(ctx context.Context, auctionID, buyerID uuid.UUID) (bool, error)

	CreateAuction(ctx context.Context, in CreateAuctionInput) (*domain.Auction, error)
	EditAuction(ctx context.Context, in EditAuctionInput) (*domain.Auction, error)
	DeleteAuction(ctx context.Context, auctionID uuid.UUID) error
	CreateCategory(ctx context.Context, name string, description, emoji *string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	ListActiveAuctions(ctx context.Context) ([]*domain.Auction, error)
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error)
	GetBidHistory(ctx context.Context, auctionID uuid.UUID) ([]BidHistoryEntry, error)
	ListSellerAuctions(ctx context.Context, sellerID uuid.UUID) ([]SellerAuction, error)
	ListBidderBids(ctx context.Context, bidderID uuid.UUID) ([]BidderBid, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, fullName *string, anonymous *bool) (*domain.Profile, error)
}

type auctionService struct {
	placeBid *PlaceBidUseCase
	settle   *SettleUseCase
	listing  *ListingUseCase
	queries  *QueryUseCase
}

func NewAuctionService(placeBid *PlaceBidUseCase, settle *SettleUseCase, listing *ListingUseCase, queries *QueryUseCase) AuctionService {
	return &auctionService{
		placeBid: placeBid,
		settle:   settle,
		listing:  listing,
		queries:  queries,
	}
}

func (s *auctionService) PlaceBid(ctx context.Context, in PlaceBidInput) (*PlaceBidResult, error) {
	return s.placeBid.Execute(ctx, in)
}

func (s *auctionService) SettleByTime(ctx context.Context, auctionID uuid.UUID) (bool, error) {
	return s.settle.SettleByTime(ctx, auctionID)
}

func (s *auctionService) SettleByBuyNow(ctx context.Context, auctionID, buyerID uuid.UUID) (bool, error) {
	return s.settle.SettleByBuyNow(ctx, auctionID, buyerID)
}

func (s *auctionService) CreateAuction(ctx context.Context, in CreateAuctionInput) (*domain.Auction, error) {
	return s.listing.CreateAuction(ctx, in)
}

func (s *auctionService) EditAuction(ctx context.Context, in EditAuctionInput) (*domain.Auction, error) {
	return s.listing.EditAuction(ctx, in)
}

func (s *auctionService) DeleteAuction(ctx context.Context, auctionID uuid.UUID) error {
	return s.listing.DeleteAuction(ctx, auctionID)
}

func (s *auctionService) CreateCategory(ctx context.Context, name string, description, emoji *string) (*domain.Category, error) {
	return s.listing.CreateCategory(ctx, name, description, emoji)
}

func (s *auctionService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.listing.DeleteCategory(ctx, categoryID)
}

func (s *auctionService) ListActiveAuctions(ctx context.Context) ([]*domain.Auction, error) {
	return s.queries.ListActiveAuctions(ctx)
}

func (s *auctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionView, error) {
	return s.queries.GetAuction(ctx, auctionID)
}

func (s *auctionService) GetBidHistory(ctx context.Context, auctionID uuid.UUID) ([]BidHistoryEntry, error) {
	return s.queries.GetBidHistory(ctx, auctionID)
}

func (s *auctionService) ListSellerAuctions(ctx context.Context, sellerID uuid.UUID) ([]SellerAuction, error) {
	return s.queries.ListSellerAuctions(ctx, sellerID)
}

func (s *auctionService) ListBidderBids(ctx context.Context, bidderID uuid.UUID) ([]BidderBid, error) {
	return s.queries.ListBidderBids(ctx, bidderID)
}

func (s *auctionService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.queries.ListCategories(ctx)
}

func (s *auctionService) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	return s.queries.GetProfile(ctx, profileID)
}

func (s *auctionService) UpdateProfile(ctx context.Context, profileID uuid.UUID, fullName *string, anonymous *bool) (*domain.Profile, error) {
	return s.queries.UpdateProfile(ctx, profileID, fullName, anonymous)
}

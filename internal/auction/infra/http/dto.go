package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subastando/auction-api/internal/auction/application"
	"github.com/subastando/auction-api/internal/auction/domain"
)

type placeBidRequest struct {
	BidderID string `json:"bidder_id"`
	Amount   string `json:"amount"`
}

type buyNowRequest struct {
	AuctionID string `json:"auctionId"`
	BuyerID   string `json:"buyerId"`
}

type createAuctionRequest struct {
	SellerID      string `json:"seller_id"`
	CategoryID    string `json:"category_id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url,omitempty"`
	StartingPrice string `json:"starting_price"`
	BuyNowPrice   string `json:"buy_now_price,omitempty"`
}

type editAuctionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	BuyNowPrice string `json:"buy_now_price,omitempty"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
}

type updateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Anonymous *bool   `json:"anonymous,omitempty"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type auctionResponse struct {
	ID            uuid.UUID        `json:"id"`
	SellerID      uuid.UUID        `json:"seller_id"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	ImageURL      *string          `json:"image_url,omitempty"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	BuyNowPrice   *decimal.Decimal `json:"buy_now_price,omitempty"`
	EndTime       time.Time        `json:"end_time"`
	Status        string           `json:"status"`
	WinnerID      *uuid.UUID       `json:"winner_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func toAuctionResponse(a *domain.Auction) auctionResponse {
	return auctionResponse{
		ID:            a.ID,
		SellerID:      a.SellerID,
		CategoryID:    a.CategoryID,
		Title:         a.Title,
		Description:   a.Description,
		ImageURL:      a.ImageURL,
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		BuyNowPrice:   a.BuyNowPrice,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		WinnerID:      a.WinnerID,
		CreatedAt:     a.CreatedAt,
	}
}

type auctionDetailResponse struct {
	auctionResponse
	CategoryName string `json:"category_name,omitempty"`
	BidCount     int    `json:"bid_count"`
}

func toAuctionDetailResponse(v *application.AuctionView) auctionDetailResponse {
	resp := auctionDetailResponse{
		auctionResponse: toAuctionResponse(v.Auction),
		BidCount:        v.BidCount,
	}
	if v.Category != nil {
		resp.CategoryName = v.Category.Name
	}
	return resp
}

type bidHistoryResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Bidder    string          `json:"bidder"`
	CreatedAt time.Time       `json:"created_at"`
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Emoji       *string   `json:"emoji,omitempty"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Emoji:       c.Emoji,
	}
}

type profileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	Anonymous bool      `json:"anonymous"`
}

type sellerAuctionResponse struct {
	auctionResponse
	Winner *winnerResponse `json:"winner,omitempty"`
}

type winnerResponse struct {
	BidderID uuid.UUID       `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
}

type bidderBidResponse struct {
	AuctionID    uuid.UUID       `json:"auction_id"`
	AuctionTitle string          `json:"auction_title"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
	IsWinner     bool            `json:"is_winner"`
}

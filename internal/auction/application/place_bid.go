package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/subastando/auction-api/internal/auction/domain"
	"go.uber.org/zap"
)

// PlaceBidInput carries a bid request. The amount arrives as the raw decimal
// string the client submitted; it is parsed and rejected before any store
// access when malformed.
type PlaceBidInput struct {
	AuctionID  uuid.UUID
	BidderID   uuid.UUID
	AmountText string
}

// PlaceBidResult reports an accepted bid. BuyNowWin tells the caller the bid
// also ended the auction, so the UI can redirect instead of refreshing the
// countdown.
type PlaceBidResult struct {
	Bid       *domain.Bid
	BuyNowWin bool
	Message   string
}

// PlaceBidUseCase validates and records bids. The read of the current price,
// the validation, the bid insert and the denormalized price update all happen
// inside one transaction holding the auction row lock, so two concurrent bids
// can never both validate against the same stale price. When the bid reaches
// the buy-now price, settlement runs in that same transaction.
type PlaceBidUseCase struct {
	auctions domain.AuctionRepository
	bids     domain.BidRepository
	txm      domain.TxManager
	settler  *SettleUseCase
}

func NewPlaceBidUseCase(
	auctions domain.AuctionRepository,
	bids domain.BidRepository,
	txm domain.TxManager,
	settler *SettleUseCase,
) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		auctions: auctions,
		bids:     bids,
		txm:      txm,
		settler:  settler,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, in PlaceBidInput) (*PlaceBidResult, error) {
	amount, err := domain.ParseAmount(in.AmountText)
	if err != nil {
		return nil, err
	}

	now := uc.settler.now()

	var (
		bid       *domain.Bid
		buyNowWin bool
		notice    domain.AuctionEndedNotice
	)

	err = uc.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctions.GetByIDForUpdate(ctx, tx, in.AuctionID)
		if err != nil {
			return err
		}

		// A buy-now bid is still a competitive bid: it must exceed the
		// current price like any other.
		if err := domain.ValidateBid(auction, auction.CurrentPrice, in.BidderID, amount, now); err != nil {
			log.Warn("Bid rejected",
				zap.String("auctionID", in.AuctionID.String()),
				zap.String("bidderID", in.BidderID.String()),
				zap.String("amount", amount.String()),
				zap.Error(err),
			)
			return err
		}

		bid = domain.NewBid(in.AuctionID, in.BidderID, amount, now)
		if err := uc.bids.Save(ctx, tx, bid); err != nil {
			return fmt.Errorf("place bid: failed to save bid for auction %s: %w", in.AuctionID, err)
		}
		if err := uc.auctions.UpdateCurrentPrice(ctx, tx, in.AuctionID, amount); err != nil {
			return fmt.Errorf("place bid: failed to update current price for auction %s: %w", in.AuctionID, err)
		}

		if auction.ReachesBuyNow(amount) {
			if err := uc.settler.endByBuyNowInTx(ctx, tx, auction, bid, now); err != nil {
				return err
			}
			buyNowWin = true
			notice = domain.AuctionEndedNotice{
				AuctionID:  in.AuctionID,
				Title:      auction.Title,
				FinalPrice: amount,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Bid placed",
		zap.String("auctionID", in.AuctionID.String()),
		zap.String("bidderID", in.BidderID.String()),
		zap.String("amount", amount.String()),
		zap.Bool("buyNowWin", buyNowWin),
	)

	res := &PlaceBidResult{Bid: bid, BuyNowWin: buyNowWin}
	if buyNowWin {
		uc.settler.dispatchNotice(in.BidderID, notice)
		res.Message = fmt.Sprintf("Congratulations! You won the auction for $%s with buy now", amount.StringFixed(2))
	} else {
		res.Message = fmt.Sprintf("Bid placed successfully for $%s", amount.StringFixed(2))
	}
	return res, nil
}

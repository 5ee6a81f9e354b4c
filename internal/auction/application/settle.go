package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/subastando/auction-api/internal/auction/domain"
	"github.com/subastando/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const notifyTimeout = 10 * time.Second

// SettleUseCase transitions auctions from active to ended: by countdown
// expiry or by a bid reaching the buy-now price. Both paths are idempotent
// against auctions already out of the active state, and the status transition
// itself is guarded by a conditional update so it happens at most once.
type SettleUseCase struct {
	auctions domain.AuctionRepository
	bids     domain.BidRepository
	profiles domain.ProfileRepository
	txm      domain.TxManager
	notifier domain.Notifier
	now      func() time.Time
}

func NewSettleUseCase(
	auctions domain.AuctionRepository,
	bids domain.BidRepository,
	profiles domain.ProfileRepository,
	txm domain.TxManager,
	notifier domain.Notifier,
	now func() time.Time,
) *SettleUseCase {
	if now == nil {
		now = time.Now
	}
	return &SettleUseCase{
		auctions: auctions,
		bids:     bids,
		profiles: profiles,
		txm:      txm,
		notifier: notifier,
		now:      now,
	}
}

// SettleByTime ends an active auction whose countdown has expired. With no
// bids the auction ends without a winner and nobody is notified; otherwise
// the highest bid wins (ties broken deterministically by creation time) and
// the operator email is dispatched after the transaction commits. Returns
// false without error when the auction is not active or not yet expired.
func (uc *SettleUseCase) SettleByTime(ctx context.Context, auctionID uuid.UUID) (bool, error) {
	now := uc.now()

	var (
		settled  bool
		winnerID uuid.UUID
		notice   *domain.AuctionEndedNotice
	)

	err := uc.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctions.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if !auction.IsActive() {
			log.Info("SettleByTime: auction not active, nothing to do",
				zap.String("auctionID", auctionID.String()),
				zap.String("status", string(auction.Status)),
			)
			return nil
		}
		if auction.EndTime.After(now) {
			log.Info("SettleByTime: auction has not expired yet",
				zap.String("auctionID", auctionID.String()),
				zap.Time("endTime", auction.EndTime),
			)
			return nil
		}

		bids, err := uc.bids.ListByAuctionTx(ctx, tx, auctionID)
		if err != nil {
			return fmt.Errorf("settle by time: failed to load bids for auction %s: %w", auctionID, err)
		}

		winner := domain.HighestBid(bids)
		var winnerRef *uuid.UUID
		if winner != nil {
			winnerRef = &winner.BidderID
		}

		ended, err := uc.auctions.MarkEnded(ctx, tx, auctionID, now, winnerRef)
		if err != nil {
			return fmt.Errorf("settle by time: failed to end auction %s: %w", auctionID, err)
		}
		if !ended {
			return nil
		}

		settled = true
		if winner != nil {
			winnerID = winner.BidderID
			notice = &domain.AuctionEndedNotice{
				AuctionID:  auctionID,
				Title:      auction.Title,
				FinalPrice: winner.Amount,
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if settled {
		log.Info("Auction settled by time",
			zap.String("auctionID", auctionID.String()),
			zap.Bool("hasWinner", notice != nil),
		)
	}
	if notice != nil {
		uc.dispatchNotice(winnerID, *notice)
	}
	return settled, nil
}

// SettleByBuyNow ends an active auction because a bid met the buy-now price.
// The remaining countdown is deliberately not checked: reaching the buy-now
// price ends the auction immediately. The winner is derived from the highest
// persisted bid rather than trusted from the caller; a mismatch with the
// claimed buyer is logged. Returns false without error when the auction is
// already out of the active state.
func (uc *SettleUseCase) SettleByBuyNow(ctx context.Context, auctionID, buyerID uuid.UUID) (bool, error) {
	now := uc.now()

	var (
		settled  bool
		winnerID uuid.UUID
		notice   domain.AuctionEndedNotice
	)

	err := uc.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		auction, err := uc.auctions.GetByIDForUpdate(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if !auction.IsActive() {
			log.Info("SettleByBuyNow: auction not active, nothing to do",
				zap.String("auctionID", auctionID.String()),
				zap.String("status", string(auction.Status)),
			)
			return nil
		}

		bids, err := uc.bids.ListByAuctionTx(ctx, tx, auctionID)
		if err != nil {
			return fmt.Errorf("settle by buy-now: failed to load bids for auction %s: %w", auctionID, err)
		}

		winner := domain.HighestBid(bids)
		if winner == nil {
			// Buy-now is only reachable through a bid, so an empty bid set
			// means the caller's claim cannot be verified.
			return domain.ErrNoBids
		}
		if winner.BidderID != buyerID {
			log.Warn("SettleByBuyNow: claimed buyer is not the highest bidder, using highest bidder",
				zap.String("auctionID", auctionID.String()),
				zap.String("claimedBuyer", buyerID.String()),
				zap.String("highestBidder", winner.BidderID.String()),
			)
		}

		ended, err := uc.auctions.MarkEnded(ctx, tx, auctionID, now, &winner.BidderID)
		if err != nil {
			return fmt.Errorf("settle by buy-now: failed to end auction %s: %w", auctionID, err)
		}
		if !ended {
			return nil
		}

		settled = true
		winnerID = winner.BidderID
		notice = domain.AuctionEndedNotice{
			AuctionID:  auctionID,
			Title:      auction.Title,
			FinalPrice: auction.FinalPrice(),
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if settled {
		log.Info("Auction settled by buy-now",
			zap.String("auctionID", auctionID.String()),
			zap.String("winnerID", winnerID.String()),
		)
		uc.dispatchNotice(winnerID, notice)
	}
	return settled, nil
}

// endByBuyNowInTx finalizes an auction inside an already-open bid intake
// transaction. The caller holds the auction row lock and has just persisted
// the triggering bid, so that bid is by construction the highest one.
func (uc *SettleUseCase) endByBuyNowInTx(ctx context.Context, tx pgx.Tx, auction *domain.Auction, bid *domain.Bid, now time.Time) error {
	ended, err := uc.auctions.MarkEnded(ctx, tx, auction.ID, now, &bid.BidderID)
	if err != nil {
		return fmt.Errorf("buy-now settlement: failed to end auction %s: %w", auction.ID, err)
	}
	if !ended {
		return domain.ErrAuctionNotActive
	}
	return nil
}

// dispatchNotice sends the auction-ended email without blocking the caller's
// success path: it runs after the settlement transaction has committed, on
// its own deadline, and failures are only logged.
func (uc *SettleUseCase) dispatchNotice(winnerID uuid.UUID, notice domain.AuctionEndedNotice) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		profile, err := uc.profiles.GetByID(ctx, winnerID)
		if err != nil {
			log.Warn("Failed to load winner profile for notification",
				zap.String("auctionID", notice.AuctionID.String()),
				zap.String("winnerID", winnerID.String()),
				zap.Error(err),
			)
			return
		}
		notice.WinnerName = profile.DisplayName()
		notice.WinnerEmail = profile.Email

		if err := uc.notifier.AuctionEnded(ctx, notice); err != nil {
			log.Warn("Auction end notification failed",
				zap.String("auctionID", notice.AuctionID.String()),
				zap.String("winnerEmail", notice.WinnerEmail),
				zap.Error(err),
			)
		}
	}()
}

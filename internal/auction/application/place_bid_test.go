package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/subastando/auction-api/internal/auction/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testAuction(sellerID uuid.UUID, starting, current string, buyNow *decimal.Decimal) *domain.Auction {
	return &domain.Auction{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Title:         "Signed match ball",
		Description:   "From the 2024 final",
		StartingPrice: dec(starting),
		CurrentPrice:  dec(current),
		BuyNowPrice:   buyNow,
		EndTime:       fixedNow.Add(6 * time.Hour),
		Status:        domain.StatusActive,
		CreatedAt:     fixedNow.Add(-time.Hour),
	}
}

type bidFixture struct {
	auctions *fakeAuctionRepo
	bids     *fakeBidRepo
	profiles *fakeProfileRepo
	notifier *fakeNotifier
	uc       *PlaceBidUseCase
}

func newBidFixture(t *testing.T, auctions ...*domain.Auction) *bidFixture {
	t.Helper()
	f := &bidFixture{
		auctions: newFakeAuctionRepo(auctions...),
		bids:     newFakeBidRepo(),
		profiles: newFakeProfileRepo(),
		notifier: &fakeNotifier{},
	}
	txm := fakeTxManager{}
	settler := NewSettleUseCase(f.auctions, f.bids, f.profiles, txm, f.notifier, func() time.Time { return fixedNow })
	f.uc = NewPlaceBidUseCase(f.auctions, f.bids, txm, settler)
	return f
}

func TestPlaceBid_AcceptsOnlyAmountsAboveCurrent(t *testing.T) {
	auction := testAuction(uuid.New(), "50", "50", nil)
	bidderID := uuid.New()
	f := newBidFixture(t, auction)

	_, err := f.uc.Execute(context.Background(), PlaceBidInput{
		AuctionID: auction.ID, BidderID: bidderID, AmountText: "50",
	})
	require.ErrorIs(t, err, domain.ErrBidTooLow)
	require.Zero(t, f.bids.saveCalls)

	res, err := f.uc.Execute(context.Background(), PlaceBidInput{
		AuctionID: auction.ID, BidderID: bidderID, AmountText: "51",
	})
	require.NoError(t, err)
	require.False(t, res.BuyNowWin)
	require.Equal(t, "Bid placed successfully for $51.00", res.Message)
	require.True(t, res.Bid.Amount.Equal(dec("51")))

	stored := f.auctions.stored(auction.ID)
	require.True(t, stored.CurrentPrice.Equal(dec("51")))
	require.Equal(t, domain.StatusActive, stored.Status)
}

func TestPlaceBid_BuyNowEndsAuctionImmediately(t *testing.T) {
	auction := testAuction(uuid.New(), "100", "150", decPtr("200"))
	bidderID := uuid.New()
	f := newBidFixture(t, auction)
	f.profiles.profiles[bidderID] = &domain.Profile{
		ID: bidderID, Email: "winner@example.com", FullName: strPtr("Dana Cole"),
	}

	res, err := f.uc.Execute(context.Background(), PlaceBidInput{
		AuctionID: auction.ID, BidderID: bidderID, AmountText: "200",
	})
	require.NoError(t, err)
	require.True(t, res.BuyNowWin)
	require.Equal(t, "Congratulations! You won the auction for $200.00 with buy now", res.Message)

	stored := f.auctions.stored(auction.ID)
	require.Equal(t, domain.StatusEnded, stored.Status)
	require.NotNil(t, stored.WinnerID)
	require.Equal(t, bidderID, *stored.WinnerID)
	require.True(t, stored.EndTime.Equal(fixedNow), "end time must move to the settlement moment")

	require.Eventually(t, func() bool { return f.notifier.count() == 1 },
		time.Second, 10*time.Millisecond)
	notice := f.notifier.last()
	require.Equal(t, auction.ID, notice.AuctionID)
	require.True(t, notice.FinalPrice.Equal(dec("200")))
	require.Equal(t, "Dana Cole", notice.WinnerName)
	require.Equal(t, "winner@example.com", notice.WinnerEmail)
}

func TestPlaceBid_BuyNowBidMustStillExceedCurrent(t *testing.T) {
	// Buy-now set below the price bidding has already reached. A bid at the
	// buy-now level is not above the current price and is rejected.
	auction := testAuction(uuid.New(), "100", "250", decPtr("200"))
	f := newBidFixture(t, auction)

	_, err := f.uc.Execute(context.Background(), PlaceBidInput{
		AuctionID: auction.ID, BidderID: uuid.New(), AmountText: "200",
	})
	require.ErrorIs(t, err, domain.ErrBidTooLow)
	require.Equal(t, domain.StatusActive, f.auctions.stored(auction.ID).Status)
}

func TestPlaceBid_MalformedAmountRejectedBeforeStoreAccess(t *testing.T) {
	auction := testAuction(uuid.New(), "50", "50", nil)
	f := newBidFixture(t, auction)

	for _, amount := range []string{"abc", "", "-10", "0"} {
		_, err := f.uc.Execute(context.Background(), PlaceBidInput{
			AuctionID: auction.ID, BidderID: uuid.New(), AmountText: amount,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %q", amount)
	}
	require.Zero(t, f.auctions.readCalls, "parse failures must not touch the store")
	require.Zero(t, f.bids.saveCalls)
}

func TestPlaceBid_Rejections(t *testing.T) {
	sellerID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(a *domain.Auction)
		bidder  uuid.UUID
		wantErr error
	}{
		{
			name:    "seller_bidding_on_own_auction",
			mutate:  func(a *domain.Auction) {},
			bidder:  sellerID,
			wantErr: domain.ErrOwnAuctionBid,
		},
		{
			name:    "expired_auction",
			mutate:  func(a *domain.Auction) { a.EndTime = fixedNow.Add(-time.Minute) },
			bidder:  uuid.New(),
			wantErr: domain.ErrAuctionEnded,
		},
		{
			name:    "ended_auction",
			mutate:  func(a *domain.Auction) { a.Status = domain.StatusEnded },
			bidder:  uuid.New(),
			wantErr: domain.ErrAuctionNotActive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auction := testAuction(sellerID, "50", "50", nil)
			tc.mutate(auction)
			f := newBidFixture(t, auction)

			_, err := f.uc.Execute(context.Background(), PlaceBidInput{
				AuctionID: auction.ID, BidderID: tc.bidder, AmountText: "60",
			})
			require.ErrorIs(t, err, tc.wantErr)
			require.Zero(t, f.bids.saveCalls)
		})
	}
}

func TestPlaceBid_UnknownAuction(t *testing.T) {
	f := newBidFixture(t)
	_, err := f.uc.Execute(context.Background(), PlaceBidInput{
		AuctionID: uuid.New(), BidderID: uuid.New(), AmountText: "60",
	})
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)
}

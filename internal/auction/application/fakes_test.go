package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/subastando/auction-api/internal/auction/domain"
)

// In-memory fakes implementing the domain ports, so use cases are exercised
// without a database. Write methods ignore the tx handle; the fake tx manager
// just runs the function.

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeAuctionRepo struct {
	mu       sync.Mutex
	auctions map[uuid.UUID]*domain.Auction

	readCalls int
}

func newFakeAuctionRepo(auctions ...*domain.Auction) *fakeAuctionRepo {
	m := make(map[uuid.UUID]*domain.Auction, len(auctions))
	for _, a := range auctions {
		cp := *a
		m[a.ID] = &cp
	}
	return &fakeAuctionRepo{auctions: m}
}

func (r *fakeAuctionRepo) get(id uuid.UUID) (*domain.Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAuctionRepo) stored(id uuid.UUID) *domain.Auction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.auctions[id]
}

func (r *fakeAuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readCalls++
	return r.get(id)
}

func (r *fakeAuctionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readCalls++
	return r.get(id)
}

func (r *fakeAuctionRepo) Create(ctx context.Context, a *domain.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.auctions[a.ID] = &cp
	return nil
}

func (r *fakeAuctionRepo) UpdateListing(ctx context.Context, a *domain.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.auctions[a.ID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	stored.Title = a.Title
	stored.Description = a.Description
	stored.ImageURL = a.ImageURL
	stored.CategoryID = a.CategoryID
	stored.BuyNowPrice = a.BuyNowPrice
	return nil
}

func (r *fakeAuctionRepo) UpdateCurrentPrice(ctx context.Context, tx pgx.Tx, id uuid.UUID, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.auctions[id]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	stored.CurrentPrice = price
	return nil
}

func (r *fakeAuctionRepo) MarkEnded(ctx context.Context, tx pgx.Tx, id uuid.UUID, endTime time.Time, winnerID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.auctions[id]
	if !ok || stored.Status != domain.StatusActive {
		return false, nil
	}
	stored.Status = domain.StatusEnded
	stored.EndTime = endTime
	stored.WinnerID = winnerID
	return true, nil
}

func (r *fakeAuctionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.auctions[id]; !ok {
		return domain.ErrAuctionNotFound
	}
	delete(r.auctions, id)
	return nil
}

func (r *fakeAuctionRepo) ListActive(ctx context.Context) ([]*domain.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Auction
	for _, a := range r.auctions {
		if a.Status == domain.StatusActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Auction
	for _, a := range r.auctions {
		if a.SellerID == sellerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) ListExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, a := range r.auctions {
		if a.Status == domain.StatusActive && !a.EndTime.After(now) {
			out = append(out, a.ID)
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.auctions {
		if a.CategoryID != nil && *a.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids []*domain.Bid

	saveCalls int
}

func newFakeBidRepo(bids ...*domain.Bid) *fakeBidRepo {
	r := &fakeBidRepo{}
	for _, b := range bids {
		cp := *b
		r.bids = append(r.bids, &cp)
	}
	return r
}

func (r *fakeBidRepo) Save(ctx context.Context, tx pgx.Tx, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	cp := *bid
	r.bids = append(r.bids, &cp)
	return nil
}

func (r *fakeBidRepo) byAuction(auctionID uuid.UUID) []*domain.Bid {
	var out []*domain.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

func (r *fakeBidRepo) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byAuction(auctionID), nil
}

func (r *fakeBidRepo) ListByAuctionTx(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byAuction(auctionID), nil
}

func (r *fakeBidRepo) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Bid
	for _, b := range r.bids {
		if b.BidderID == bidderID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBidRepo) CountByAuction(ctx context.Context, auctionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byAuction(auctionID))), nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*domain.Category
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	m := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, c := range categories {
		cp := *c
		m[c.ID] = &cp
	}
	return &fakeCategoryRepo{categories: m}
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Category
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
}

func newFakeProfileRepo(profiles ...*domain.Profile) *fakeProfileRepo {
	m := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		cp := *p
		m[p.ID] = &cp
	}
	return &fakeProfileRepo{profiles: m}
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []domain.AuctionEndedNotice
}

func (n *fakeNotifier) AuctionEnded(ctx context.Context, notice domain.AuctionEndedNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func (n *fakeNotifier) last() domain.AuctionEndedNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notices[len(n.notices)-1]
}

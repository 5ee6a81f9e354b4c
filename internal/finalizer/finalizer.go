package finalizer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/subastando/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Settler is the slice of the auction service the finalizer needs.
type Settler interface {
	SettleByTime(ctx context.Context, auctionID uuid.UUID) (bool, error)
}

// ExpiredLister finds active auctions whose countdown has passed.
type ExpiredLister interface {
	ListExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// Finalizer periodically sweeps for expired active auctions and settles them
// by time. It is a safety net behind the explicit finalize endpoint: a missed
// sweep only delays settlement, never corrupts it, since settlement itself is
// idempotent.
type Finalizer struct {
	auctions ExpiredLister
	settler  Settler
	interval time.Duration
	now      func() time.Time
}

func New(auctions ExpiredLister, settler Settler, interval time.Duration, now func() time.Time) *Finalizer {
	if now == nil {
		now = time.Now
	}
	return &Finalizer{
		auctions: auctions,
		settler:  settler,
		interval: interval,
		now:      now,
	}
}

// Run blocks until the context is cancelled, sweeping once per interval.
func (f *Finalizer) Run(ctx context.Context) {
	log.Info("Finalizer started", zap.Duration("interval", f.interval))
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Finalizer stopped")
			return
		case <-ticker.C:
			f.Sweep(ctx)
		}
	}
}

// Sweep settles every active auction whose end time has passed. Failures on
// one auction are logged and do not stop the rest of the sweep.
func (f *Finalizer) Sweep(ctx context.Context) {
	ids, err := f.auctions.ListExpired(ctx, f.now())
	if err != nil {
		log.Error("Finalizer failed to list expired auctions", zap.Error(err))
		return
	}

	for _, id := range ids {
		settled, err := f.settler.SettleByTime(ctx, id)
		if err != nil {
			log.Error("Finalizer failed to settle auction",
				zap.String("auctionID", id.String()),
				zap.Error(err),
			)
			continue
		}
		if settled {
			log.Info("Finalizer settled expired auction", zap.String("auctionID", id.String()))
		}
	}
}

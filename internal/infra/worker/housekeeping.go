package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type subscriptionSweeper interface {
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
	AbandonStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// HousekeepingWorker expires lapsed subscriptions and abandons stale pending checkouts.
type HousekeepingWorker struct {
	subs          subscriptionSweeper
	logger        *zap.Logger
	abandonWindow time.Duration
	tickInterval  time.Duration
	now           func() time.Time
}

func NewHousekeepingWorker(subs subscriptionSweeper, logger *zap.Logger) *HousekeepingWorker {
	return &HousekeepingWorker{
		subs:          subs,
		logger:        logger,
		abandonWindow: 24 * time.Hour,
		tickInterval:  time.Minute,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start sweeps once immediately, then on every tick until ctx is done.
func (w *HousekeepingWorker) Start(ctx context.Context) {
	w.logger.Info("housekeeping worker started",
		zap.Duration("interval", w.tickInterval),
		zap.Duration("abandon_after", w.abandonWindow))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("housekeeping worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *HousekeepingWorker) sweep(ctx context.Context) {
	now := w.now()

	expired, err := w.subs.ExpireLapsed(ctx, now)
	if err != nil {
		w.logger.Error("expire lapsed subscriptions", zap.Error(err))
	} else if expired > 0 {
		w.logger.Info("subscriptions expired", zap.Int64("count", expired))
	}

	abandoned, err := w.subs.AbandonStale(ctx, now.Add(-w.abandonWindow))
	if err != nil {
		w.logger.Error("abandon stale checkouts", zap.Error(err))
	} else if abandoned > 0 {
		w.logger.Info("pending subscriptions abandoned", zap.Int64("count", abandoned))
	}
}

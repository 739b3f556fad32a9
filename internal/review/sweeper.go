package review

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically releases hidden results past the auto-release
// threshold, so a result nobody ever reads still becomes visible. It shares
// the lazy read-triggered check's transition, which keeps the two paths
// idempotent against each other.
type Sweeper struct {
	store    Store
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store Store, log *zap.Logger, interval time.Duration) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		store:    store,
		log:      log,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks until the context is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				s.log.Warn("auto-release sweep failed", zap.Error(err))
			} else if n > 0 {
				s.log.Info("auto-release sweep released results", zap.Int("count", n))
			}
		}
	}
}

// SweepOnce walks every overdue hidden result and releases those with
// feedback content. Results a concurrent writer touched mid-sweep are
// skipped; the next sweep picks them up again.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now()
	ids, err := s.store.ListHiddenBefore(ctx, now.Add(-AutoReleaseAfter))
	if err != nil {
		return 0, err
	}

	released := 0
	for _, id := range ids {
		res, err := s.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrResultNotFound) {
				continue
			}
			return released, err
		}
		if !CheckAutoRelease(res, now) {
			continue
		}
		if err := s.store.Save(ctx, res, res.Version); err != nil {
			if errors.Is(err, ErrConcurrentModification) {
				continue
			}
			return released, err
		}
		released++
	}
	return released, nil
}

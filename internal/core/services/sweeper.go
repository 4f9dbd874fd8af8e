package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/go-tangra/tangra-bookmark/internal/core/ports/driven"
)

// ExpirySweeper garbage-collects tuples whose expiry is long past.
// Purely hygienic: expired tuples are already invisible to every
// authorization read, so correctness never depends on the sweep running.
type ExpirySweeper struct {
	tuples    driven.TupleRepository
	interval  time.Duration
	retention time.Duration
	logger    *zap.Logger
}

// NewExpirySweeper creates a sweeper that removes tuples expired for
// longer than retention, waking every interval.
func NewExpirySweeper(tuples driven.TupleRepository, interval, retention time.Duration, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		tuples:    tuples,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Run sweeps until the context is cancelled.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.tuples.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("expiry sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("expired tuples swept", zap.Int64("removed", removed))
	}
}

package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler drives the sampler on a fixed interval until the context is
// cancelled or Stop is called.
type Scheduler struct {
	sampler  *Sampler
	logger   *slog.Logger
	interval time.Duration
	done     chan struct{}
	stop     sync.Once
}

func NewScheduler(sampler *Sampler, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 5 * time.Minute
	}

	return &Scheduler{
		sampler:  sampler,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("collection scheduler started", "interval", s.interval)

	// First pass right away so a fresh deployment has data before the
	// first tick.
	s.sampler.CollectAll(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("collection scheduler stopped")
			return
		case <-s.done:
			s.logger.Info("collection scheduler stopped")
			return
		case t := <-ticker.C:
			s.sampler.CollectAll(ctx, t)
		}
	}
}

func (s *Scheduler) Stop() {
	s.stop.Do(func() { close(s.done) })
}

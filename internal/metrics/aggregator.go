package metrics

import (
	"context"
	"log/slog"
	"time"
)

// ProfileCounter reports how many profiles are enrolled.
type ProfileCounter interface {
	List(ctx context.Context) ([]string, error)
}

// Aggregator periodically refreshes gauges that are derived from storage
// rather than from request traffic.
type Aggregator struct {
	manager  *Manager
	profiles ProfileCounter
	logger   *slog.Logger
	interval time.Duration
	done     chan struct{}
}

// NewAggregator creates a new metrics aggregator worker
func NewAggregator(manager *Manager, profiles ProfileCounter, logger *slog.Logger, interval time.Duration) *Aggregator {
	if interval == 0 {
		interval = 1 * time.Minute
	}

	return &Aggregator{
		manager:  manager,
		profiles: profiles,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start refreshes once immediately, then on every tick until ctx is done or
// Stop is called.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("metrics aggregator started", "interval", a.interval)
	a.aggregate(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("metrics aggregator stopped")
			return
		case <-a.done:
			a.logger.Info("metrics aggregator stopped")
			return
		case <-ticker.C:
			a.aggregate(ctx)
		}
	}
}

// Stop gracefully shuts down the aggregator
func (a *Aggregator) Stop() {
	close(a.done)
}

func (a *Aggregator) aggregate(ctx context.Context) {
	names, err := a.profiles.List(ctx)
	if err != nil {
		a.logger.Error("failed to count profiles", "error", err)
		return
	}
	a.manager.SetProfilesEnrolled(len(names))
}

// Package maintenance runs periodic upkeep on the persisted record stores.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Target is a record store that can be swept and bulk refreshed.
type Target interface {
	PerformMaintenance(ctx context.Context) int
	NeedsBulkUpdate(ctx context.Context) bool
	BulkRefresh(ctx context.Context) int
}

// Store names a Target for logging and reporting.
type Store struct {
	Name   string
	Target Target
}

// Result reports one pass over one store.
type Result struct {
	Store     string `json:"store"`
	Removed   int    `json:"removed"`
	Refreshed bool   `json:"refreshed"`
	Added     int    `json:"added"`
}

// Runner sweeps stale records and runs due bulk refreshes.
type Runner struct {
	stores   []Store
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(interval time.Duration, logger *slog.Logger, stores ...Store) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		stores:   stores,
		interval: interval,
		logger:   logger,
	}
}

// RunOnce makes a single pass over every store in parallel. Results are in
// the order the stores were given.
func (r *Runner) RunOnce(ctx context.Context) []Result {
	results := make([]Result, len(r.stores))
	var g errgroup.Group
	for i, s := range r.stores {
		g.Go(func() error {
			results[i] = r.pass(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) pass(ctx context.Context, s Store) Result {
	res := Result{Store: s.Name}
	res.Removed = s.Target.PerformMaintenance(ctx)
	if s.Target.NeedsBulkUpdate(ctx) {
		res.Refreshed = true
		res.Added = s.Target.BulkRefresh(ctx)
	}
	r.logger.Debug("maintenance pass",
		"store", s.Name,
		"removed", res.Removed,
		"refreshed", res.Refreshed,
		"added", res.Added,
	)
	return res
}

// Run makes one pass immediately and then one per interval for each store.
// It blocks until the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range r.stores {
		g.Go(func() error {
			log := r.logger.With("store", s.Name)
			log.Info("maintenance started", "interval", r.interval)
			r.pass(ctx, s)

			ticker := time.NewTicker(r.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					log.Info("maintenance stopped")
					return ctx.Err()
				case <-ticker.C:
					r.pass(ctx, s)
				}
			}
		})
	}

	if len(r.stores) == 0 {
		g.Go(func() error {
			<-ctx.Done()
			return ctx.Err()
		})
	}

	return g.Wait()
}

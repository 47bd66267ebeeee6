// Package ingest drives the geocoding pipeline: it loads facilities, builds
// candidate queries, runs the cascade, and persists the outcomes.
package ingest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/pkg/geocode"
)

// progressEvery controls how often the runner logs batch progress.
const progressEvery = 50

// Stats summarize a geocoding run.
type Stats struct {
	Total       int `json:"total"`
	Precise     int `json:"precise"`
	Approximate int `json:"approximate"`
	Errors      int `json:"errors"`
}

// Runner geocodes unresolved facilities through a provider.
type Runner struct {
	store       facility.Store
	provider    geocode.Provider
	concurrency int
}

// Option configures the Runner.
type Option func(*Runner)

// WithConcurrency sets how many facilities are geocoded in parallel.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a Runner over the given store and provider.
func NewRunner(store facility.Store, provider geocode.Provider, opts ...Option) *Runner {
	r := &Runner{store: store, provider: provider, concurrency: 5}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run geocodes every unresolved facility and persists each outcome. A failed
// candidate leaves the facility in the error state; only store failures abort
// the run.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	if !r.provider.Available() {
		return nil, eris.Errorf("ingest: provider %s is not configured", r.provider.Name())
	}

	unresolved, err := r.store.ListUnresolved(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: list unresolved")
	}
	if len(unresolved) == 0 {
		zap.L().Info("ingest: nothing to geocode")
		return &Stats{}, nil
	}

	zap.L().Info("ingest: starting geocode run",
		zap.Int("facilities", len(unresolved)),
		zap.String("provider", r.provider.Name()),
		zap.Int("concurrency", r.concurrency),
	)

	var mu sync.Mutex
	stats := &Stats{Total: len(unresolved)}
	var done atomic.Int64

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)

	for i := range unresolved {
		f := unresolved[i]
		eg.Go(func() error {
			candidates := geocode.BuildCandidates(f.Name, f.AddressLine, f.City)
			outcome := geocode.Cascade(gCtx, r.provider, candidates)

			if err := r.store.UpdateGeocode(gCtx, f.ID, outcome); err != nil {
				return eris.Wrapf(err, "ingest: persist outcome for %s", f.ID)
			}

			mu.Lock()
			switch outcome.Status {
			case geocode.StatusPrecise:
				stats.Precise++
			case geocode.StatusApproximate:
				stats.Approximate++
			default:
				stats.Errors++
			}
			mu.Unlock()

			if n := done.Add(1); n%progressEvery == 0 {
				zap.L().Info("ingest: progress",
					zap.Int64("done", n),
					zap.Int("total", len(unresolved)),
				)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("ingest: geocode run complete",
		zap.Int("total", stats.Total),
		zap.Int("precise", stats.Precise),
		zap.Int("approximate", stats.Approximate),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

// Import loads facilities from a CSV file into the store and returns how many
// rows were upserted.
func Import(ctx context.Context, store facility.Store, path string) (int, error) {
	facilities, err := facility.LoadCSVFile(path)
	if err != nil {
		return 0, err
	}
	if err := store.Insert(ctx, facilities); err != nil {
		return 0, eris.Wrap(err, "ingest: insert facilities")
	}
	zap.L().Info("ingest: imported facilities", zap.Int("count", len(facilities)), zap.String("path", path))
	return len(facilities), nil
}

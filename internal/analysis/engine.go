// Package analysis implements the geospatial query operations: proximity
// search, coverage gap detection, distances, counts, and map export.
package analysis

import (
	"math"

	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/gazetteer"
)

// DefaultGridStep is the coverage-gap grid resolution in degrees, roughly
// 55 km at Ghana's latitude.
const DefaultGridStep = 0.5

// Engine runs geospatial queries against the facility store, resolving place
// names through the gazetteer.
type Engine struct {
	store    facility.Store
	gaz      *gazetteer.Gazetteer
	resolver *gazetteer.Resolver
	gridStep float64
}

// Option configures the Engine.
type Option func(*Engine)

// WithGridStep overrides the coverage-gap grid resolution, used by tests.
func WithGridStep(deg float64) Option {
	return func(e *Engine) {
		if deg > 0 {
			e.gridStep = deg
		}
	}
}

// New creates an Engine over the given store and gazetteer.
func New(store facility.Store, gaz *gazetteer.Gazetteer, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		gaz:      gaz,
		resolver: gazetteer.NewResolver(gaz),
		gridStep: DefaultGridStep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

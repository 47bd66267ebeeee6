package analysis

import (
	"fmt"

	"github.com/hannesill/oasis/internal/geo"
)

// DistanceParams name the two endpoints of a distance query. Each accepts a
// place name or a "lat,lng" pair.
type DistanceParams struct {
	From string `json:"from_location"`
	To   string `json:"to_location"`
}

// Distance computes the great-circle distance between two locations.
func (e *Engine) Distance(p DistanceParams) (*DistanceResult, error) {
	from, err := e.resolver.Resolve(p.From)
	if err != nil {
		return nil, err
	}
	to, err := e.resolver.Resolve(p.To)
	if err != nil {
		return nil, err
	}

	dist := round2(geo.Haversine(from, to))

	return &DistanceResult{
		From:       LocationRef{Location: p.From, Lat: from.Lat, Lng: from.Lng},
		To:         LocationRef{Location: p.To, Lat: to.Lat, Lng: to.Lng},
		DistanceKM: dist,
		Summary: fmt.Sprintf("Distance from %s to %s: %g km (straight-line / great-circle).",
			p.From, p.To, dist),
	}, nil
}

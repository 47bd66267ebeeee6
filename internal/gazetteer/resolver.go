package gazetteer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hannesill/oasis/internal/geo"
)

// knownCitySample caps how many city names a resolution error suggests.
const knownCitySample = 15

// ResolutionError reports a location query that matched nothing in the place
// table. Known holds a sample of resolvable city names for the caller to
// surface to the user.
type ResolutionError struct {
	Query string
	Known []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf(
		"could not resolve location %q; use \"lat,lng\" coordinates or a known Ghana city or landmark (e.g. %s)",
		e.Query, strings.Join(e.Known, ", "),
	)
}

// Resolver turns free-form location strings into coordinates. Numeric
// "lat,lng" pairs short-circuit the place table entirely.
type Resolver struct {
	gaz *Gazetteer
}

func NewResolver(g *Gazetteer) *Resolver {
	return &Resolver{gaz: g}
}

// Resolve parses location as a coordinate pair or looks it up in the place
// table. An out-of-range numeric pair is an error, not a name lookup. Unknown
// names return a *ResolutionError.
func (r *Resolver) Resolve(location string) (geo.Point, error) {
	p, numeric, err := geo.ParsePair(location)
	if numeric {
		if err != nil {
			return geo.Point{}, err
		}
		return p, nil
	}

	if m, ok := r.gaz.Find(location); ok {
		zap.L().Debug("location resolved",
			zap.String("query", location),
			zap.String("match", m.Name),
			zap.String("tier", string(m.Tier)))
		return m.Point, nil
	}

	return geo.Point{}, &ResolutionError{
		Query: location,
		Known: r.gaz.CityNames(knownCitySample),
	}
}

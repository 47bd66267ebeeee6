package geocode

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Outcome is the final result of cascading a facility's candidate queries.
type Outcome struct {
	Latitude     float64
	Longitude    float64
	LocationType string
	Query        string // the candidate that produced the coordinates
	Status       Status
}

// Cascade tries candidate queries in order against the provider. The first
// precise result is accepted immediately. If none is precise, the first
// matched result is kept as an approximate fallback so the facility stays
// usable. Provider errors skip to the next candidate. An empty candidate
// list, or one where every query fails, yields StatusError without
// coordinates.
func Cascade(ctx context.Context, p Provider, queries []string) *Outcome {
	var approx *Outcome

	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}

		result, err := p.Geocode(ctx, q)
		if err != nil {
			zap.L().Debug("cascade: provider error, trying next candidate",
				zap.String("provider", p.Name()),
				zap.String("query", q),
				zap.Error(err),
			)
			continue
		}
		if result == nil || !result.Matched {
			continue
		}

		if IsPrecise(result.LocationType) {
			return &Outcome{
				Latitude:     result.Latitude,
				Longitude:    result.Longitude,
				LocationType: result.LocationType,
				Query:        q,
				Status:       StatusPrecise,
			}
		}
		if approx == nil {
			approx = &Outcome{
				Latitude:     result.Latitude,
				Longitude:    result.Longitude,
				LocationType: result.LocationType,
				Query:        q,
				Status:       StatusApproximate,
			}
		}
	}

	if approx != nil {
		return approx
	}
	return &Outcome{Status: StatusError}
}

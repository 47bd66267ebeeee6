package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/geo"
)

// ProximityParams configure a radius search around a location.
type ProximityParams struct {
	Location  string  `json:"location"`
	RadiusKM  float64 `json:"radius_km"`
	Condition string  `json:"condition,omitempty"`
	Limit     int     `json:"limit"`
}

// Proximity finds facilities within RadiusKM of a location, closest first.
// TotalFound counts everything inside the radius even when Limit truncates
// the returned list. A non-positive radius matches nothing.
func (e *Engine) Proximity(ctx context.Context, p ProximityParams) (*ProximityResult, error) {
	center, err := e.resolver.Resolve(p.Location)
	if err != nil {
		return nil, err
	}

	facilities, err := e.store.Search(ctx, facility.Filter{Condition: p.Condition})
	if err != nil {
		return nil, err
	}

	var nearby []NearbyFacility
	for i := range facilities {
		f := &facilities[i]
		pt, ok := e.facilityPoint(f)
		if !ok {
			continue
		}
		dist := geo.Haversine(center, pt)
		if p.RadiusKM > 0 && dist <= p.RadiusKM {
			nearby = append(nearby, NearbyFacility{
				Name:         f.Name,
				City:         f.City,
				Region:       f.Region,
				DistanceKM:   round2(dist),
				Lat:          pt.Lat,
				Lng:          pt.Lng,
				FacilityType: f.FacilityType,
				Specialties:  f.Specialties,
				Procedures:   f.Procedures,
				Equipment:    f.Equipment,
				Capabilities: f.Capabilities,
				Description:  f.Description,
				UniqueID:     f.ID,
			})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKM < nearby[j].DistanceKM
	})

	totalFound := len(nearby)
	switch {
	case p.Limit <= 0:
		nearby = nil
	case len(nearby) > p.Limit:
		nearby = nearby[:p.Limit]
	}

	condText := ""
	if p.Condition != "" {
		condText = fmt.Sprintf(" treating %s", p.Condition)
	}
	summary := fmt.Sprintf("Found %d facilities%s within %g km of %s. ",
		totalFound, condText, p.RadiusKM, p.Location)
	if len(nearby) > 0 {
		closest := nearby[0]
		summary += fmt.Sprintf("Closest: %s in %s (%g km away).",
			closest.Name, closest.City, closest.DistanceKM)
	}

	return &ProximityResult{
		Center:          LocationRef{Location: p.Location, Lat: center.Lat, Lng: center.Lng},
		RadiusKM:        p.RadiusKM,
		ConditionFilter: p.Condition,
		Facilities:      nearby,
		TotalFound:      totalFound,
		Summary:         summary,
	}, nil
}

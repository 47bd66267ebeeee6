package analysis

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/gazetteer"
	"github.com/hannesill/oasis/internal/geo"
)

// GapParams configure a coverage gap analysis for one service.
type GapParams struct {
	ProcedureOrSpecialty string  `json:"procedure_or_specialty"`
	MinGapKM             float64 `json:"min_gap_km"`
	Region               string  `json:"region,omitempty"`
	Limit                int     `json:"limit"`
}

var titleCaser = cases.Title(language.English)

type placedFacility struct {
	name  string
	point geo.Point
}

// CoverageGaps sweeps a grid over the region (or the whole country) and
// reports cells whose nearest service facility is at least MinGapKM away,
// worst first. A cell further than twice MinGapKM is critical. When no
// facility offers the service at all, the result is a single synthetic gap
// covering the whole area.
func (e *Engine) CoverageGaps(ctx context.Context, p GapParams) (*CoverageGapResult, error) {
	facilities, err := e.store.Search(ctx, facility.Filter{
		Condition: p.ProcedureOrSpecialty,
		Region:    p.Region,
	})
	if err != nil {
		return nil, err
	}

	var placed []placedFacility
	for i := range facilities {
		if pt, ok := e.facilityPoint(&facilities[i]); ok {
			placed = append(placed, placedFacility{name: facilities[i].Name, point: pt})
		}
	}

	bounds := e.gaz.RegionBounds(p.Region)
	regionLabel := " in Ghana"
	if p.Region != "" {
		regionLabel = fmt.Sprintf(" in %s", p.Region)
	}

	if len(placed) == 0 {
		return e.wholeAreaGap(p, bounds, regionLabel), nil
	}

	var gaps []Gap
	for lat := bounds.LatMin; lat <= bounds.LatMax; lat += e.gridStep {
		for lng := bounds.LngMin; lng <= bounds.LngMax; lng += e.gridStep {
			cell := geo.Point{Lat: lat, Lng: lng}

			minDist := -1.0
			nearestName := ""
			for _, fc := range placed {
				d := geo.Haversine(cell, fc.point)
				if minDist < 0 || d < minDist {
					minDist, nearestName = d, fc.name
				}
			}

			if minDist >= p.MinGapKM {
				gaps = append(gaps, Gap{
					Lat:                       round4(lat),
					Lng:                       round4(lng),
					NearestCity:               e.nearestCityLabel(cell),
					NearestFacilityName:       nearestName,
					NearestFacilityDistanceKM: round2(minDist),
					Severity:                  severity(minDist, p.MinGapKM),
				})
			}
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].NearestFacilityDistanceKM > gaps[j].NearestFacilityDistanceKM
	})
	// Same limit convention as proximity: non-positive returns no rows.
	switch {
	case p.Limit <= 0:
		gaps = nil
	case len(gaps) > p.Limit:
		gaps = gaps[:p.Limit]
	}

	summary := fmt.Sprintf(
		"Found %d coverage gap areas where '%s' is absent within %g km%s. %d facilities offer this service. ",
		len(gaps), p.ProcedureOrSpecialty, p.MinGapKM, regionLabel, len(placed),
	)
	if len(gaps) > 0 {
		worst := gaps[0]
		summary += fmt.Sprintf("Worst gap: near %s, nearest facility is %g km away.",
			worst.NearestCity, worst.NearestFacilityDistanceKM)
	}

	return &CoverageGapResult{
		ProcedureOrSpecialty: p.ProcedureOrSpecialty,
		Region:               p.Region,
		MinGapKM:             p.MinGapKM,
		TotalFacilitiesFound: len(placed),
		Gaps:                 gaps,
		GapCount:             len(gaps),
		Summary:              summary,
	}, nil
}

// wholeAreaGap builds the synthetic result for a service nobody offers: one
// gap at the area's center, with the distance to the farthest corner as its
// reach.
func (e *Engine) wholeAreaGap(p GapParams, bounds gazetteer.Bounds, regionLabel string) *CoverageGapResult {
	center := bounds.Center()
	corners := []geo.Point{
		{Lat: bounds.LatMin, Lng: bounds.LngMin},
		{Lat: bounds.LatMin, Lng: bounds.LngMax},
		{Lat: bounds.LatMax, Lng: bounds.LngMin},
		{Lat: bounds.LatMax, Lng: bounds.LngMax},
	}
	reach := 0.0
	for _, c := range corners {
		if d := geo.Haversine(center, c); d > reach {
			reach = d
		}
	}

	gap := Gap{
		Lat:                       round4(center.Lat),
		Lng:                       round4(center.Lng),
		NearestCity:               e.nearestCityLabel(center),
		NearestFacilityName:       "None",
		NearestFacilityDistanceKM: round2(reach),
		Severity:                  "critical",
	}

	return &CoverageGapResult{
		ProcedureOrSpecialty: p.ProcedureOrSpecialty,
		Region:               p.Region,
		MinGapKM:             p.MinGapKM,
		TotalFacilitiesFound: 0,
		Gaps:                 []Gap{gap},
		GapCount:             1,
		Summary: fmt.Sprintf(
			"No facilities found offering '%s'%s. The entire area is a coverage gap for this service.",
			p.ProcedureOrSpecialty, regionLabel,
		),
	}
}

func (e *Engine) nearestCityLabel(p geo.Point) string {
	near, _, ok := e.gaz.NearestCity(p)
	if !ok {
		return "Unknown area"
	}
	return titleCaser.String(near.Name)
}

func severity(dist, minGap float64) string {
	if dist > minGap*2 {
		return "critical"
	}
	return "moderate"
}

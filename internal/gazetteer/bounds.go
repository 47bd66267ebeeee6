package gazetteer

import (
	"strings"

	"github.com/hannesill/oasis/internal/geo"
)

// Bounds is a latitude/longitude bounding box in decimal degrees.
type Bounds struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LngMin float64 `json:"lng_min"`
	LngMax float64 `json:"lng_max"`
}

// NamedBounds ties a bounding box to a region name.
type NamedBounds struct {
	Name   string
	Bounds Bounds
}

// Center returns the midpoint of the box.
func (b Bounds) Center() geo.Point {
	return geo.Point{
		Lat: (b.LatMin + b.LatMax) / 2,
		Lng: (b.LngMin + b.LngMax) / 2,
	}
}

// Contains reports whether p falls inside the box, edges included.
func (b Bounds) Contains(p geo.Point) bool {
	return p.Lat >= b.LatMin && p.Lat <= b.LatMax &&
		p.Lng >= b.LngMin && p.Lng <= b.LngMax
}

// RegionBounds returns the bounding box for a region name, falling back to
// the whole-country box when the name is empty or unknown. Matching is
// case-insensitive, exact before substring.
func (g *Gazetteer) RegionBounds(region string) Bounds {
	q := strings.ToLower(strings.TrimSpace(region))
	if q == "" {
		return g.data.CountryBounds
	}
	for _, nb := range g.data.RegionBounds {
		if nb.Name == q {
			return nb.Bounds
		}
	}
	for _, nb := range g.data.RegionBounds {
		if strings.Contains(nb.Name, q) || strings.Contains(q, nb.Name) {
			return nb.Bounds
		}
	}
	return g.data.CountryBounds
}

// CountryBounds returns the whole-country bounding box.
func (g *Gazetteer) CountryBounds() Bounds {
	return g.data.CountryBounds
}

package analysis

import (
	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/geo"
)

// facilityPoint returns the best available coordinates for a facility:
// persisted lat/lng first, then gazetteer lookups on the city, the address
// line, and finally the region centroid. The boolean is false when nothing
// places the facility at all.
func (e *Engine) facilityPoint(f *facility.Facility) (geo.Point, bool) {
	if p, ok := f.Point(); ok {
		return p, true
	}
	if f.City != "" {
		if m, ok := e.gaz.Find(f.City); ok {
			return m.Point, true
		}
	}
	if f.AddressLine != "" {
		if m, ok := e.gaz.Find(f.AddressLine); ok {
			return m.Point, true
		}
	}
	if f.Region != "" {
		if m, ok := e.gaz.Find(f.Region); ok {
			return m.Point, true
		}
	}
	return geo.Point{}, false
}

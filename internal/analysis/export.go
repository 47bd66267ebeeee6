package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/hannesill/oasis/internal/facility"
	geopkg "github.com/hannesill/oasis/internal/geo"
)

// ExportParams configure the GeoJSON map export. Spread distributes
// facilities that share identical fallback coordinates across a small spiral
// so markers don't stack; it changes display positions only, never stored
// data.
type ExportParams struct {
	Region       string `json:"region,omitempty"`
	FacilityType string `json:"facility_type,omitempty"`
	Spread       bool   `json:"spread,omitempty"`
}

// Export renders facilities as a GeoJSON FeatureCollection for map display.
// Facilities that cannot be positioned at all are counted but omitted.
func (e *Engine) Export(ctx context.Context, p ExportParams) (*ExportResult, error) {
	facilities, err := e.store.Search(ctx, facility.Filter{
		Region:       p.Region,
		FacilityType: p.FacilityType,
	})
	if err != nil {
		return nil, err
	}

	type placed struct {
		f     *facility.Facility
		point geopkg.Point
	}
	var positioned []placed
	notGeocoded := 0
	for i := range facilities {
		pt, ok := e.facilityPoint(&facilities[i])
		if !ok {
			notGeocoded++
			continue
		}
		positioned = append(positioned, placed{f: &facilities[i], point: pt})
	}

	if p.Spread {
		clusters := make(map[string][]int)
		for i, pl := range positioned {
			key := fmt.Sprintf("%.4f,%.4f", pl.point.Lat, pl.point.Lng)
			clusters[key] = append(clusters[key], i)
		}
		for _, members := range clusters {
			if len(members) < 2 {
				continue
			}
			for rank, idx := range members {
				positioned[idx].point = spiralOffset(rank, len(members), positioned[idx].point)
			}
		}
	}

	features := make([]*geojson.Feature, 0, len(positioned))
	for _, pl := range positioned {
		f := pl.f
		features = append(features, &geojson.Feature{
			ID:       f.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{pl.point.Lng, pl.point.Lat}),
			Properties: map[string]any{
				"name":           f.Name,
				"city":           f.City,
				"region":         f.Region,
				"address":        f.AddressLine,
				"facility_type":  f.FacilityType,
				"specialties":    f.Specialties,
				"procedures":     f.Procedures,
				"equipment":      f.Equipment,
				"capabilities":   f.Capabilities,
				"description":    f.Description,
				"phone":          f.Phone,
				"unique_id":      f.ID,
				"geocode_status": string(f.GeocodeStatus),
			},
		})
	}

	return &ExportResult{
		GeoJSON:          &geojson.FeatureCollection{Features: features},
		TotalGeocoded:    len(features),
		TotalNotGeocoded: notGeocoded,
		Summary: fmt.Sprintf(
			"Geocoded %d facilities. %d could not be geocoded (unknown city). Data returned in GeoJSON format ready for map rendering.",
			len(features), notGeocoded,
		),
	}, nil
}

// goldenAngle (~137.5 degrees) spaces spiral points so they never overlap.
var goldenAngle = math.Pi * (3.0 - math.Sqrt(5.0))

// spiralOffset places the index-th of total co-located points on a Fermat
// spiral around the shared base position. The spiral radius grows with the
// cluster size, up to roughly 10 km for the largest city clusters.
func spiralOffset(index, total int, base geopkg.Point) geopkg.Point {
	if total <= 1 {
		return base
	}

	var maxR float64
	switch {
	case total <= 5:
		maxR = 0.01
	case total <= 20:
		maxR = 0.025
	case total <= 50:
		maxR = 0.045
	case total <= 100:
		maxR = 0.065
	default:
		maxR = 0.09
	}

	r := maxR * math.Sqrt(float64(index)/float64(total))
	theta := float64(index) * goldenAngle
	latOff := r * math.Cos(theta)
	lngOff := r * math.Sin(theta) / math.Max(math.Cos(base.Lat*math.Pi/180), 0.01)
	return geopkg.Point{Lat: base.Lat + latOff, Lng: base.Lng + lngOff}
}

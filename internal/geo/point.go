// Package geo provides validated WGS84 coordinates and great-circle distance math.
package geo

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Point is a validated latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// New validates the coordinate ranges and returns a Point.
// Latitude must be in [-90, 90] and longitude in [-180, 180].
func New(lat, lng float64) (Point, error) {
	if lat < -90 || lat > 90 {
		return Point{}, eris.Errorf("geo: latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return Point{}, eris.Errorf("geo: longitude %v out of range [-180, 180]", lng)
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// MustNew is New for statically known coordinates; it panics on invalid input.
func MustNew(lat, lng float64) Point {
	p, err := New(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePair parses a "lat,lng" string into a Point. The boolean reports
// whether the input looked like a numeric pair at all; when it is false the
// caller should treat the input as a place name instead. A numeric pair with
// out-of-range values returns an error, never a clamped Point.
func ParsePair(s string) (Point, bool, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, false, nil
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return Point{}, false, nil
	}
	p, err := New(lat, lng)
	if err != nil {
		return Point{}, true, err
	}
	return p, true, nil
}

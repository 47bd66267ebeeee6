// Package geocode turns facility names and addresses into coordinates by
// cascading candidate queries through a geocoding provider.
package geocode

import "context"

// Provider represents a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, query string) (*Result, error)
	Available() bool
}

// Result holds the geocoding output for a single query.
type Result struct {
	Latitude     float64
	Longitude    float64
	LocationType string // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
	Matched      bool
}

// Status describes how a facility's coordinates were obtained.
type Status string

const (
	// StatusUnresolved marks a facility that has not been geocoded yet.
	StatusUnresolved Status = "unresolved"
	// StatusPrecise marks coordinates from a precise location type.
	StatusPrecise Status = "precise"
	// StatusApproximate marks fallback coordinates from an APPROXIMATE result.
	StatusApproximate Status = "approximate"
	// StatusError marks a facility where every candidate query failed.
	StatusError Status = "error"
)

// preciseLocationTypes are the location_type values accepted outright.
// Anything else is at best an approximate fallback.
var preciseLocationTypes = map[string]bool{
	"ROOFTOP":            true,
	"RANGE_INTERPOLATED": true,
	"GEOMETRIC_CENTER":   true,
}

// IsPrecise reports whether a location type is on the precise allow-list.
func IsPrecise(locationType string) bool {
	return preciseLocationTypes[locationType]
}

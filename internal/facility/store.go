package facility

import (
	"context"

	"github.com/hannesill/oasis/pkg/geocode"
)

// Filter narrows facility queries. All fields are optional; Condition matches
// case-insensitively across specialties, procedures, equipment, capabilities,
// and the free-text description.
type Filter struct {
	Condition    string `json:"condition,omitempty"`
	Region       string `json:"region,omitempty"`
	FacilityType string `json:"facility_type,omitempty"`
}

// Store defines the persistence interface for facilities.
type Store interface {
	// Insert upserts facility records keyed by unique ID.
	Insert(ctx context.Context, facilities []Facility) error

	// Search returns facilities matching the filter.
	Search(ctx context.Context, f Filter) ([]Facility, error)

	// ListUnresolved returns facilities that have not been geocoded yet.
	ListUnresolved(ctx context.Context) ([]Facility, error)

	// UpdateGeocode records the outcome of a geocoding cascade for one facility.
	UpdateGeocode(ctx context.Context, id string, out *geocode.Outcome) error

	// CountByRegion returns per-region facility counts for the filter.
	CountByRegion(ctx context.Context, f Filter) (map[string]int, error)

	// Sample returns up to n matching facilities for display.
	Sample(ctx context.Context, f Filter, n int) ([]Facility, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

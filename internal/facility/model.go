// Package facility defines the health facility model and its persistence layer.
package facility

import (
	"github.com/hannesill/oasis/internal/geo"
	"github.com/hannesill/oasis/pkg/geocode"
)

// Facility is a single health facility record. Lat/Lng are nil until the
// facility has been geocoded or a value was present in the source data.
type Facility struct {
	ID           string   `json:"unique_id"`
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Region       string   `json:"region"`
	AddressLine  string   `json:"address_line1,omitempty"`
	FacilityType string   `json:"facility_type,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Procedures   []string `json:"procedures,omitempty"`
	Equipment    []string `json:"equipment,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	Description  string   `json:"description,omitempty"`
	Phone        string   `json:"phone,omitempty"`

	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`

	GeocodeStatus       geocode.Status `json:"geocode_status,omitempty"`
	GeocodeLocationType string         `json:"geocode_location_type,omitempty"`
	GeocodeQuery        string         `json:"geocode_query,omitempty"`
}

// Point returns the facility's persisted coordinates. The boolean is false
// when the facility has no stored position.
func (f *Facility) Point() (geo.Point, bool) {
	if f.Lat == nil || f.Lng == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *f.Lat, Lng: *f.Lng}, true
}

// SetPoint stores coordinates on the facility.
func (f *Facility) SetPoint(p geo.Point) {
	lat, lng := p.Lat, p.Lng
	f.Lat, f.Lng = &lat, &lng
}

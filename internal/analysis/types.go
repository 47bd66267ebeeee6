package analysis

import "github.com/twpayne/go-geom/encoding/geojson"

// LocationRef echoes a resolved query location back to the caller.
type LocationRef struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// NearbyFacility is one facility in a proximity search result, with its
// distance from the query center.
type NearbyFacility struct {
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Region       string   `json:"region"`
	DistanceKM   float64  `json:"distance_km"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	FacilityType string   `json:"facility_type"`
	Specialties  []string `json:"specialties"`
	Procedures   []string `json:"procedures"`
	Equipment    []string `json:"equipment"`
	Capabilities []string `json:"capabilities"`
	Description  string   `json:"description"`
	UniqueID     string   `json:"unique_id"`
}

// ProximityResult is the output of a radius search, sorted by distance.
type ProximityResult struct {
	Center          LocationRef      `json:"center"`
	RadiusKM        float64          `json:"radius_km"`
	ConditionFilter string           `json:"condition_filter,omitempty"`
	Facilities      []NearbyFacility `json:"facilities"`
	TotalFound      int              `json:"total_found"`
	Summary         string           `json:"summary"`
}

// Gap is a grid cell whose nearest service facility is too far away.
type Gap struct {
	Lat                       float64 `json:"lat"`
	Lng                       float64 `json:"lng"`
	NearestCity               string  `json:"nearest_city"`
	NearestFacilityName       string  `json:"nearest_facility_name"`
	NearestFacilityDistanceKM float64 `json:"nearest_facility_distance_km"`
	Severity                  string  `json:"severity"`
}

// CoverageGapResult is the output of a coverage gap analysis, worst gaps first.
type CoverageGapResult struct {
	ProcedureOrSpecialty string  `json:"procedure_or_specialty"`
	Region               string  `json:"region,omitempty"`
	MinGapKM             float64 `json:"min_gap_km"`
	TotalFacilitiesFound int     `json:"total_facilities_found"`
	Gaps                 []Gap   `json:"gaps"`
	GapCount             int     `json:"gap_count"`
	Summary              string  `json:"summary"`
}

// DistanceResult is the output of a point-to-point distance query.
type DistanceResult struct {
	From       LocationRef `json:"from"`
	To         LocationRef `json:"to"`
	DistanceKM float64     `json:"distance_km"`
	Summary    string      `json:"summary"`
}

// SampleFacility is a brief facility listing in a count result.
type SampleFacility struct {
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	Specialties []string `json:"specialties"`
}

// CountResult is the output of an aggregate facility count.
type CountResult struct {
	TotalCount        int              `json:"total_count"`
	ConditionFilter   string           `json:"condition_filter,omitempty"`
	RegionFilter      string           `json:"region_filter,omitempty"`
	BreakdownByRegion map[string]int   `json:"breakdown_by_region"`
	SampleFacilities  []SampleFacility `json:"sample_facilities"`
	Summary           string           `json:"summary"`
}

// ExportResult is the output of the map export: a GeoJSON FeatureCollection
// plus counts of how many facilities could be positioned.
type ExportResult struct {
	GeoJSON          *geojson.FeatureCollection `json:"geojson"`
	TotalGeocoded    int                        `json:"total_geocoded"`
	TotalNotGeocoded int                        `json:"total_not_geocoded"`
	Summary          string                     `json:"summary"`
}

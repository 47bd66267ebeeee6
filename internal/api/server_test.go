package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannesill/oasis/internal/analysis"
	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/gazetteer"
	"github.com/hannesill/oasis/internal/geo"
	"github.com/hannesill/oasis/pkg/geocode"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	store, err := facility.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	lat1, lng1 := 5.5347, -0.2282
	lat2, lng2 := 9.4075, -0.8530
	require.NoError(t, store.Insert(ctx, []facility.Facility{
		{
			ID: "f1", Name: "Korle Bu Teaching Hospital", City: "Accra", Region: "Greater Accra",
			FacilityType: "hospital", Specialties: []string{"Cardiology"},
			Lat: &lat1, Lng: &lng1, GeocodeStatus: geocode.StatusPrecise,
		},
		{
			ID: "f2", Name: "Tamale Teaching Hospital", City: "Tamale", Region: "Northern",
			FacilityType: "hospital", Specialties: []string{"General Surgery"},
			Lat: &lat2, Lng: &lng2, GeocodeStatus: geocode.StatusPrecise,
		},
	}))

	gaz := gazetteer.New(gazetteer.Data{
		Cities: []gazetteer.Entry{
			{Name: "accra", Point: geo.Point{Lat: 5.6037, Lng: -0.1870}},
			{Name: "tamale", Point: geo.Point{Lat: 9.4008, Lng: -0.8393}},
		},
		Regions: []gazetteer.Entry{
			{Name: "greater accra", Point: geo.Point{Lat: 5.8, Lng: 0.0}},
			{Name: "northern", Point: geo.Point{Lat: 9.5, Lng: -1.0}},
		},
		CountryBounds: gazetteer.Bounds{LatMin: 4.5, LatMax: 11.2, LngMin: -3.3, LngMax: 1.3},
	})

	return NewServer(analysis.New(store, gaz)).Routes()
}

func get(t *testing.T, h http.Handler, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSearch(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/search?condition=cardiology&location=Accra&radius_km=50")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "find_facilities_in_radius", body["tool"])

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total_found"])
	facilities := data["facilities"].([]any)
	require.Len(t, facilities, 1)
	assert.Equal(t, "Korle Bu Teaching Hospital", facilities[0].(map[string]any)["name"])
}

func TestSearch_DefaultsToAccra(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/search")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	center := data["center"].(map[string]any)
	assert.Equal(t, "Accra", center["location"])
}

func TestSearch_UnknownLocation(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/search?location=Atlantis")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "could not resolve location")
}

func TestSearch_BadRadius(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/search?radius_km=wide")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestGaps(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/gaps?specialty=cardiology&min_gap_km=100")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "find_coverage_gaps", body["tool"])

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total_facilities_found"])
	assert.NotEmpty(t, data["gaps"])
}

func TestGaps_MissingSpecialty(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/gaps")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "specialty is required")
}

func TestDistance(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/distance?from_location=Accra&to_location=Tamale")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "calculate_distance", body["tool"])

	data := body["data"].(map[string]any)
	assert.Greater(t, data["distance_km"].(float64), 400.0)
}

func TestDistance_MissingParam(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := get(t, h, "/api/distance?from_location=Accra")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCount(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/count")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "count_facilities", body["tool"])

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total_count"])
}

func TestGeocode(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/api/geocode?region=Northern")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["total_geocoded"])
	assert.EqualValues(t, 0, body["total_not_geocoded"])

	geojson := body["geojson"].(map[string]any)
	assert.Equal(t, "FeatureCollection", geojson["type"])
}

func TestFacilitiesGeoJSON(t *testing.T) {
	h := newTestHandler(t)

	rec, body := get(t, h, "/facilities.geojson")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Len(t, body["features"], 2)
}

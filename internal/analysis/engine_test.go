package analysis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hannesill/oasis/internal/facility"
	"github.com/hannesill/oasis/internal/gazetteer"
	"github.com/hannesill/oasis/internal/geo"
	"github.com/hannesill/oasis/pkg/geocode"
)

func testGazetteer() *gazetteer.Gazetteer {
	return gazetteer.New(gazetteer.Data{
		Cities: []gazetteer.Entry{
			{Name: "accra", Point: geo.MustNew(5.6037, -0.1870)},
			{Name: "kumasi", Point: geo.MustNew(6.6885, -1.6244)},
			{Name: "tamale", Point: geo.MustNew(9.4008, -0.8393)},
			{Name: "tema", Point: geo.MustNew(5.6698, -0.0166)},
			{Name: "ho", Point: geo.MustNew(6.6000, 0.4667)},
		},
		Regions: []gazetteer.Entry{
			{Name: "greater accra", Point: geo.MustNew(5.6037, -0.1870)},
			{Name: "northern", Point: geo.MustNew(9.5439, -0.9057)},
			{Name: "volta", Point: geo.MustNew(6.8000, 0.5000)},
		},
		RegionBounds: []gazetteer.NamedBounds{
			{Name: "northern", Bounds: gazetteer.Bounds{LatMin: 8.5, LatMax: 10.5, LngMin: -2.5, LngMax: 0.5}},
			{Name: "greater accra", Bounds: gazetteer.Bounds{LatMin: 5.3, LatMax: 6.0, LngMin: -0.5, LngMax: 0.5}},
		},
		CountryBounds: gazetteer.Bounds{LatMin: 4.5, LatMax: 11.2, LngMin: -3.3, LngMax: 1.3},
	})
}

func ptr(v float64) *float64 { return &v }

// seedFacilities covers every placement path: precise coordinates, city
// fallback, region fallback, and unplaceable rows.
func seedFacilities() []facility.Facility {
	return []facility.Facility{
		{
			ID: "f1", Name: "Korle Bu Teaching Hospital", City: "Accra", Region: "Greater Accra",
			FacilityType: "hospital", Specialties: []string{"Cardiology"},
			Lat: ptr(5.5347), Lng: ptr(-0.2282), GeocodeStatus: geocode.StatusPrecise,
		},
		{
			ID: "f2", Name: "Ridge Hospital", City: "Accra", Region: "Greater Accra",
			FacilityType: "hospital", Description: "Regional hospital with a cardiology unit",
		},
		{
			ID: "f3", Name: "Tema General Hospital", City: "Tema", Region: "Greater Accra",
			FacilityType: "hospital", Specialties: []string{"Cardiology"},
		},
		{
			ID: "f4", Name: "Komfo Anokye Teaching Hospital", City: "Kumasi", Region: "Ashanti",
			FacilityType: "hospital", Specialties: []string{"Cardiology"},
			Lat: ptr(6.6929), Lng: ptr(-1.6260), GeocodeStatus: geocode.StatusPrecise,
		},
		{
			ID: "f5", Name: "Tamale Eye Clinic", City: "Tamale", Region: "Northern",
			FacilityType: "clinic", Procedures: []string{"cataract surgery"},
			Lat: ptr(9.4008), Lng: ptr(-0.8393), GeocodeStatus: geocode.StatusPrecise,
		},
		{
			ID: "f6", Name: "Ho Municipal Hospital", City: "Ho", Region: "Volta",
			FacilityType: "hospital",
		},
		{
			ID: "f7", Name: "Savelugu Outreach Post", Region: "Northern",
			FacilityType: "clinic",
		},
		{
			ID: "f8", Name: "Mobile Screening Unit",
			FacilityType: "clinic",
		},
		{
			ID: "f9", Name: "Osu Community Clinic", City: "Accra", Region: "Greater Accra",
			FacilityType: "clinic",
		},
		{
			ID: "f10", Name: "Cape Coast Clinic", City: "Cape Coast", Region: "Central",
			FacilityType: "clinic",
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	store, err := facility.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Insert(ctx, seedFacilities()))

	return New(store, testGazetteer(), opts...)
}

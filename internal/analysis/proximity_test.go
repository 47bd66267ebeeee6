package analysis

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannesill/oasis/internal/gazetteer"
)

func TestProximity_CardiologyNearAccra(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Proximity(context.Background(), ProximityParams{
		Location:  "Accra",
		RadiusKM:  50,
		Condition: "cardiology",
		Limit:     20,
	})
	require.NoError(t, err)

	// Korle Bu (precise coords), Ridge (city fallback), and Tema General
	// (city fallback) are within 50 km; Komfo Anokye in Kumasi is not.
	assert.Equal(t, 3, result.TotalFound)
	require.Len(t, result.Facilities, 3)

	assert.True(t, sort.SliceIsSorted(result.Facilities, func(i, j int) bool {
		return result.Facilities[i].DistanceKM < result.Facilities[j].DistanceKM
	}))

	// Ridge Hospital falls back to the Accra city center, distance zero.
	assert.Equal(t, "Ridge Hospital", result.Facilities[0].Name)
	assert.Zero(t, result.Facilities[0].DistanceKM)

	for _, f := range result.Facilities {
		assert.LessOrEqual(t, f.DistanceKM, 50.0)
		assert.NotEqual(t, "Komfo Anokye Teaching Hospital", f.Name)
	}

	assert.InDelta(t, 5.6037, result.Center.Lat, 1e-6)
	assert.Contains(t, result.Summary, "Found 3 facilities")
	assert.Contains(t, result.Summary, "Closest: Ridge Hospital")
}

func TestProximity_CoordinateCenter(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Proximity(context.Background(), ProximityParams{
		Location: "6.6885,-1.6244",
		RadiusKM: 10,
		Limit:    20,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalFound)
	assert.Equal(t, "Komfo Anokye Teaching Hospital", result.Facilities[0].Name)
}

func TestProximity_NonPositiveRadius(t *testing.T) {
	e := newTestEngine(t)

	for _, radius := range []float64{0, -5} {
		result, err := e.Proximity(context.Background(), ProximityParams{
			Location: "Accra",
			RadiusKM: radius,
			Limit:    20,
		})
		require.NoError(t, err)
		assert.Zero(t, result.TotalFound)
		assert.Empty(t, result.Facilities)
	}
}

func TestProximity_LimitTruncatesButTotalIsAccurate(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Proximity(context.Background(), ProximityParams{
		Location: "Accra",
		RadiusKM: 50,
		Limit:    1,
	})
	require.NoError(t, err)
	assert.Len(t, result.Facilities, 1)
	assert.Greater(t, result.TotalFound, 1)

	// A non-positive limit returns no rows but still reports the real total.
	result, err = e.Proximity(context.Background(), ProximityParams{
		Location: "Accra",
		RadiusKM: 50,
		Limit:    0,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Facilities)
	assert.Greater(t, result.TotalFound, 1)
}

func TestProximity_RadiusMonotonicity(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	within := func(radius float64) map[string]bool {
		result, err := e.Proximity(ctx, ProximityParams{
			Location: "Accra",
			RadiusKM: radius,
			Limit:    100,
		})
		require.NoError(t, err)
		names := make(map[string]bool, len(result.Facilities))
		for _, f := range result.Facilities {
			names[f.Name] = true
		}
		require.Len(t, names, result.TotalFound)
		return names
	}

	// Widening the radius only ever adds facilities.
	prev := within(5)
	for _, radius := range []float64{25, 50, 150, 500} {
		next := within(radius)
		assert.GreaterOrEqual(t, len(next), len(prev))
		for name := range prev {
			assert.True(t, next[name], "facility %q vanished at radius %g", name, radius)
		}
		prev = next
	}
}

func TestProximity_UnknownLocation(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Proximity(context.Background(), ProximityParams{
		Location: "atlantis",
		RadiusKM: 50,
		Limit:    20,
	})
	var resErr *gazetteer.ResolutionError
	require.ErrorAs(t, err, &resErr)
}

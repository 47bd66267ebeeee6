package geocode

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider returns scripted responses keyed by query and records every
// query it receives.
type mockProvider struct {
	responses map[string]*Result
	errors    map[string]error
	calls     []string
}

func (m *mockProvider) Name() string    { return "mock" }
func (m *mockProvider) Available() bool { return true }

func (m *mockProvider) Geocode(_ context.Context, query string) (*Result, error) {
	m.calls = append(m.calls, query)
	if err, ok := m.errors[query]; ok {
		return nil, err
	}
	if r, ok := m.responses[query]; ok {
		return r, nil
	}
	return &Result{Matched: false}, nil
}

func TestCascade_FirstPreciseWins(t *testing.T) {
	p := &mockProvider{responses: map[string]*Result{
		"a": {Latitude: 5.0, Longitude: -0.1, LocationType: "APPROXIMATE", Matched: true},
		"b": {Latitude: 5.55, Longitude: -0.2, LocationType: "ROOFTOP", Matched: true},
		"c": {Latitude: 6.0, Longitude: -1.0, LocationType: "ROOFTOP", Matched: true},
	}}

	out := Cascade(context.Background(), p, []string{"a", "b", "c"})

	require.Equal(t, StatusPrecise, out.Status)
	assert.Equal(t, "b", out.Query)
	assert.InDelta(t, 5.55, out.Latitude, 1e-9)
	assert.Equal(t, "ROOFTOP", out.LocationType)
	// The precise match short-circuits; "c" is never queried.
	assert.Equal(t, []string{"a", "b"}, p.calls)
}

func TestCascade_FirstApproximateRemembered(t *testing.T) {
	p := &mockProvider{responses: map[string]*Result{
		"a": {Latitude: 5.0, Longitude: -0.1, LocationType: "APPROXIMATE", Matched: true},
		"b": {Latitude: 9.9, Longitude: -0.9, LocationType: "APPROXIMATE", Matched: true},
	}}

	out := Cascade(context.Background(), p, []string{"a", "b"})

	require.Equal(t, StatusApproximate, out.Status)
	assert.Equal(t, "a", out.Query)
	assert.InDelta(t, 5.0, out.Latitude, 1e-9)
	// Every candidate is still tried in case a later one is precise.
	assert.Equal(t, []string{"a", "b"}, p.calls)
}

func TestCascade_ProviderErrorSkipsCandidate(t *testing.T) {
	p := &mockProvider{
		errors: map[string]error{"a": eris.New("boom")},
		responses: map[string]*Result{
			"b": {Latitude: 5.55, Longitude: -0.2, LocationType: "GEOMETRIC_CENTER", Matched: true},
		},
	}

	out := Cascade(context.Background(), p, []string{"a", "b"})

	require.Equal(t, StatusPrecise, out.Status)
	assert.Equal(t, "b", out.Query)
}

func TestCascade_AllFail(t *testing.T) {
	p := &mockProvider{errors: map[string]error{"a": eris.New("boom")}}

	out := Cascade(context.Background(), p, []string{"a", "b"})

	assert.Equal(t, StatusError, out.Status)
	assert.Empty(t, out.Query)
	assert.Zero(t, out.Latitude)
}

func TestCascade_EmptyCandidates(t *testing.T) {
	p := &mockProvider{}

	out := Cascade(context.Background(), p, nil)
	assert.Equal(t, StatusError, out.Status)

	// Blank candidates are skipped without touching the provider.
	out = Cascade(context.Background(), p, []string{"", "  "})
	assert.Equal(t, StatusError, out.Status)
	assert.Empty(t, p.calls)
}

func TestIsPrecise(t *testing.T) {
	assert.True(t, IsPrecise("ROOFTOP"))
	assert.True(t, IsPrecise("RANGE_INTERPOLATED"))
	assert.True(t, IsPrecise("GEOMETRIC_CENTER"))
	assert.False(t, IsPrecise("APPROXIMATE"))
	assert.False(t, IsPrecise(""))
}

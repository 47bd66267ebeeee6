package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parenthetical removed", "12 High St (Near Mexico Hotel)", "12 High St"},
		{"landmark phrase to comma", "Opposite Benab Oil Filling Station, Airport Road", "Airport Road"},
		{"case insensitive phrase", "behind the market, Station Road", "Station Road"},
		{"whitespace collapsed", "  14   Ring   Road  ", "14 Ring Road"},
		{"dangling punctuation", "Ring Road Central,.", "Ring Road Central"},
		{"nothing left", "(Near the junction)", ""},
		{"plain address untouched", "PO Box 77, Adabraka", "PO Box 77, Adabraka"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanAddress(tt.in))
		})
	}
}

func TestBuildCandidates_FullRow(t *testing.T) {
	got := BuildCandidates("Holy Trinity Clinic", "12 High St (Near Mexico Hotel)", "Accra")
	assert.Equal(t, []string{
		"Holy Trinity Clinic",
		"Holy Trinity Clinic, Accra, Ghana",
		"12 High St, Accra, Ghana",
	}, got)
}

func TestBuildCandidates_NameOnly(t *testing.T) {
	got := BuildCandidates("Holy Trinity Clinic", "", "")
	assert.Equal(t, []string{"Holy Trinity Clinic"}, got)
}

func TestBuildCandidates_AddressWithoutCity(t *testing.T) {
	got := BuildCandidates("", "Ring Road Central", "")
	assert.Equal(t, []string{"Ring Road Central, Ghana"}, got)
}

func TestBuildCandidates_CityFallback(t *testing.T) {
	got := BuildCandidates("", "", "Kumasi")
	assert.Equal(t, []string{"Kumasi, Ghana"}, got)

	// An address that cleans to nothing still leaves the city fallback.
	got = BuildCandidates("", "(Near the junction)", "Kumasi")
	assert.Equal(t, []string{"Kumasi, Ghana"}, got)
}

func TestBuildCandidates_Deduplicates(t *testing.T) {
	// The cleaned address equals the name+city candidate.
	got := BuildCandidates("Holy Trinity Clinic", "Holy Trinity Clinic", "Accra")
	assert.Equal(t, []string{
		"Holy Trinity Clinic",
		"Holy Trinity Clinic, Accra, Ghana",
	}, got)
}

func TestBuildCandidates_Empty(t *testing.T) {
	assert.Empty(t, BuildCandidates("", "", ""))
	assert.Empty(t, BuildCandidates("  ", "  ", "  "))
}

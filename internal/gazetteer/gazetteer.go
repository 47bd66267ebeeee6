// Package gazetteer holds the curated Ghana place table and resolves free-form
// location queries to coordinates without calling any external geocoder.
package gazetteer

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/hannesill/oasis/internal/geo"
)

//go:embed data.yaml
var rawData []byte

// Tier identifies which table an entry came from. Landmarks are the most
// specific and win ties against cities and regions.
type Tier string

const (
	TierLandmark Tier = "landmark"
	TierCity     Tier = "city"
	TierRegion   Tier = "region"
)

// Entry is a single named place with pre-resolved coordinates.
type Entry struct {
	Name  string
	Point geo.Point
}

// Match is the result of a successful gazetteer lookup.
type Match struct {
	Name  string
	Tier  Tier
	Point geo.Point
}

// Data is the raw place table. Entries keep their declared order so that
// substring matching stays deterministic.
type Data struct {
	Landmarks     []Entry
	Cities        []Entry
	Regions       []Entry
	RegionBounds  []NamedBounds
	CountryBounds Bounds
}

// Gazetteer answers place-name lookups against the loaded table.
type Gazetteer struct {
	data      Data
	landmarks map[string]geo.Point
	cities    map[string]geo.Point
	regions   map[string]geo.Point
}

type entryYAML struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

type boundsYAML struct {
	Name   string  `yaml:"name"`
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	LngMin float64 `yaml:"lng_min"`
	LngMax float64 `yaml:"lng_max"`
}

type dataYAML struct {
	Landmarks     []entryYAML  `yaml:"landmarks"`
	Cities        []entryYAML  `yaml:"cities"`
	Regions       []entryYAML  `yaml:"regions"`
	RegionBounds  []boundsYAML `yaml:"region_bounds"`
	CountryBounds boundsYAML   `yaml:"country_bounds"`
}

// Load parses the embedded place table and validates every coordinate.
func Load() (*Gazetteer, error) {
	var raw dataYAML
	if err := yaml.Unmarshal(rawData, &raw); err != nil {
		return nil, eris.Wrap(err, "gazetteer: parse embedded place table")
	}

	var d Data
	var err error
	if d.Landmarks, err = buildEntries(raw.Landmarks, "landmark"); err != nil {
		return nil, err
	}
	if d.Cities, err = buildEntries(raw.Cities, "city"); err != nil {
		return nil, err
	}
	if d.Regions, err = buildEntries(raw.Regions, "region"); err != nil {
		return nil, err
	}
	for _, b := range raw.RegionBounds {
		d.RegionBounds = append(d.RegionBounds, NamedBounds{
			Name: b.Name,
			Bounds: Bounds{
				LatMin: b.LatMin, LatMax: b.LatMax,
				LngMin: b.LngMin, LngMax: b.LngMax,
			},
		})
	}
	d.CountryBounds = Bounds{
		LatMin: raw.CountryBounds.LatMin, LatMax: raw.CountryBounds.LatMax,
		LngMin: raw.CountryBounds.LngMin, LngMax: raw.CountryBounds.LngMax,
	}

	return New(d), nil
}

func buildEntries(raw []entryYAML, tier string) ([]Entry, error) {
	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		p, err := geo.New(e.Lat, e.Lng)
		if err != nil {
			return nil, eris.Wrapf(err, "gazetteer: invalid %s entry %q", tier, e.Name)
		}
		entries = append(entries, Entry{Name: strings.ToLower(e.Name), Point: p})
	}
	return entries, nil
}

// New builds a Gazetteer from an already-assembled table. Entry names are
// matched case-insensitively.
func New(d Data) *Gazetteer {
	g := &Gazetteer{
		data:      d,
		landmarks: make(map[string]geo.Point, len(d.Landmarks)),
		cities:    make(map[string]geo.Point, len(d.Cities)),
		regions:   make(map[string]geo.Point, len(d.Regions)),
	}
	for _, e := range d.Landmarks {
		g.landmarks[strings.ToLower(e.Name)] = e.Point
	}
	for _, e := range d.Cities {
		g.cities[strings.ToLower(e.Name)] = e.Point
	}
	for _, e := range d.Regions {
		g.regions[strings.ToLower(e.Name)] = e.Point
	}
	return g
}

// Find resolves a place name to coordinates. Exact matches are tried before
// substring matches, and landmarks before cities before regions, so a query
// that exactly names a city never falls through to a landmark that merely
// contains it. Substring matching runs both directions ("korle bu" finds the
// full hospital name, and an over-specified query finds its shorter entry).
func (g *Gazetteer) Find(name string) (Match, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return Match{}, false
	}

	if p, ok := g.landmarks[q]; ok {
		return Match{Name: q, Tier: TierLandmark, Point: p}, true
	}
	if p, ok := g.cities[q]; ok {
		return Match{Name: q, Tier: TierCity, Point: p}, true
	}
	if m, ok := substringMatch(q, g.data.Landmarks, TierLandmark); ok {
		return m, true
	}
	if m, ok := substringMatch(q, g.data.Cities, TierCity); ok {
		return m, true
	}
	if p, ok := g.regions[q]; ok {
		return Match{Name: q, Tier: TierRegion, Point: p}, true
	}
	if m, ok := substringMatch(q, g.data.Regions, TierRegion); ok {
		return m, true
	}
	return Match{}, false
}

func substringMatch(q string, entries []Entry, tier Tier) (Match, bool) {
	for _, e := range entries {
		key := strings.ToLower(e.Name)
		if strings.Contains(key, q) || strings.Contains(q, key) {
			return Match{Name: key, Tier: tier, Point: e.Point}, true
		}
	}
	return Match{}, false
}

// NearestCity returns the city entry closest to p and the distance to it in
// kilometers. The second value is false when the table has no cities.
func (g *Gazetteer) NearestCity(p geo.Point) (Entry, float64, bool) {
	var best Entry
	bestDist := -1.0
	for _, e := range g.data.Cities {
		d := geo.Haversine(p, e.Point)
		if bestDist < 0 || d < bestDist {
			best, bestDist = e, d
		}
	}
	if bestDist < 0 {
		return Entry{}, 0, false
	}
	return best, bestDist, true
}

// CityNames returns up to n city names in table order, sorted alphabetically.
// Used to suggest known places when a query cannot be resolved.
func (g *Gazetteer) CityNames(n int) []string {
	if n > len(g.data.Cities) {
		n = len(g.data.Cities)
	}
	names := make([]string, 0, n)
	for _, e := range g.data.Cities[:n] {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

package geocode

import (
	"fmt"
	"regexp"
	"strings"
)

// Parenthetical text like "(Near Mexico Hotel)" confuses the geocoder.
var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// Landmark-style phrases run to the next comma so the rest of the address
// survives cleaning.
var landmarkPhrases = regexp.MustCompile(
	`(?i)\b(Near|Opposite|Behind|Close to|Adjacent to|Next to|Beside|In front of|Closest station is)\b[^,]*`,
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanAddress strips noise from an address line before geocoding. It removes
// parenthetical text and landmark references, collapses whitespace, and trims
// dangling punctuation.
func CleanAddress(raw string) string {
	s := parenthetical.ReplaceAllString(raw, "")
	s = landmarkPhrases.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, ".,;: ")
}

// BuildCandidates returns a ranked list of geocoding queries for a facility:
// the bare name, then name with city, then the cleaned address line, with the
// city alone as a last resort. Duplicates are dropped and every query outside
// the bare name carries the country suffix.
func BuildCandidates(name, addressLine, city string) []string {
	name = strings.TrimSpace(name)
	addressLine = strings.TrimSpace(addressLine)
	city = strings.TrimSpace(city)

	var candidates []string
	seen := make(map[string]bool)
	add := func(q string) {
		if q != "" && !seen[q] {
			seen[q] = true
			candidates = append(candidates, q)
		}
	}

	if name != "" {
		add(name)
	}
	if name != "" && city != "" {
		add(fmt.Sprintf("%s, %s, Ghana", name, city))
	}
	if addressLine != "" {
		if cleaned := CleanAddress(addressLine); cleaned != "" {
			if city != "" {
				add(fmt.Sprintf("%s, %s, Ghana", cleaned, city))
			} else {
				add(fmt.Sprintf("%s, Ghana", cleaned))
			}
		}
	}
	if len(candidates) == 0 && city != "" {
		add(fmt.Sprintf("%s, Ghana", city))
	}

	return candidates
}

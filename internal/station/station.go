package station

import (
	"strings"
	"unicode/utf8"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Station is a candidate returned by the station search API.
type Station struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Location *Location       `json:"location,omitempty"`
	Products map[string]bool `json:"products,omitempty"`
}

// Canonicalize strips the two-character country prefix carried by 9-character
// station ids. Lengths count characters, not bytes. Any other id is returned
// unchanged.
func Canonicalize(id string) string {
	if utf8.RuneCountInString(id) != 9 {
		return id
	}
	_, first := utf8.DecodeRuneInString(id)
	_, second := utf8.DecodeRuneInString(id[first:])
	return id[first+second:]
}

// SameID reports whether a and b name the same station once canonicalized.
func SameID(a, b string) bool {
	return Canonicalize(a) == Canonicalize(b)
}

func HasLocation(s Station) bool {
	return s.Location != nil
}

// IsRegion reports whether the search result names a region rather than a
// station. The search API spells regions in capitals ("FRANKFURT(MAIN)").
func IsRegion(s Station) bool {
	return strings.ToUpper(s.Name) == s.Name
}

// Point returns the GeoJSON coordinate pair [lon, lat].
func (l Location) Point() [2]float64 {
	return [2]float64{l.Longitude, l.Latitude}
}

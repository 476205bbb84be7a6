package geo

import (
	"strings"

	"golang.org/x/text/language"

	"direktmap/internal/station"
)

// Suggestion is a geocoder result in the shape the map's search control
// consumes.
type Suggestion struct {
	Type       string               `json:"type"`
	Center     [2]float64           `json:"center"`
	Geometry   Point                `json:"geometry"`
	PlaceName  string               `json:"place_name"`
	PlaceType  []string             `json:"place_type"`
	Properties SuggestionProperties `json:"properties"`
}

type SuggestionProperties struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SuggestionCollection struct {
	Type     string       `json:"type"`
	Features []Suggestion `json:"features"`
}

// SuggestionPoint converts a located station into a geocoder result whose
// place name carries the localized country, e.g. "Basel SBB, Switzerland".
func SuggestionPoint(s station.Station, lang language.Tag) Suggestion {
	var loc station.Location
	if s.Location != nil {
		loc = *s.Location
	}
	parts := []string{s.Name}
	if country := station.Country(s.ID, lang); country != "" {
		parts = append(parts, country)
	}
	return Suggestion{
		Type:      "Feature",
		Center:    loc.Point(),
		Geometry:  pointOf(loc),
		PlaceName: strings.Join(parts, ", "),
		PlaceType: []string{"coordinate"},
		Properties: SuggestionProperties{
			ID:   station.Canonicalize(s.ID),
			Name: s.Name,
		},
	}
}

func Suggestions(stations []station.Station, lang language.Tag) SuggestionCollection {
	out := make([]Suggestion, 0, len(stations))
	for _, s := range stations {
		out = append(out, SuggestionPoint(s, lang))
	}
	return SuggestionCollection{Type: "FeatureCollection", Features: out}
}

package geo

import (
	"html"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"direktmap/internal/duration"
	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

type Kind string

const (
	KindOrigin      Kind = "origin"
	KindDestination Kind = "destination"
)

// Point is a GeoJSON point geometry.
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type Properties struct {
	Kind Kind `json:"kind"`
	// Type is 1 for the origin and 2 for destinations; the map layer scales
	// circle radius by it.
	Type            int             `json:"type"`
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	Duration        duration.Bucket `json:"duration"`
	DurationMinutes *int            `json:"durationMinutes"`
	Colour          string          `json:"colour"`
	Label           string          `json:"label"`
	Popup           string          `json:"popup"`
	Link            string          `json:"link,omitempty"`
	DBLink          string          `json:"dbLink,omitempty"`
	Origin          string          `json:"origin,omitempty"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   Point      `json:"geometry"`
	Properties Properties `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Options parameterizes feature building.
type Options struct {
	Lang            language.Tag
	CalendarBaseURL string
	// MaxDuration drops destinations whose known duration exceeds it.
	// Zero means unlimited. Destinations of unknown duration are kept.
	MaxDuration int
}

func pointOf(l station.Location) Point {
	return Point{Type: "Point", Coordinates: l.Point()}
}

// OriginFeature builds the feature of the searched station.
func OriginFeature(origin station.Station) Feature {
	zero := 0
	props := Properties{
		Kind:            KindOrigin,
		Type:            1,
		ID:              station.Canonicalize(origin.ID),
		Name:            origin.Name,
		Duration:        duration.Classify(&zero),
		DurationMinutes: &zero,
		Colour:          duration.Colour(duration.Zero),
		Label:           origin.Name,
		Origin:          station.Canonicalize(origin.ID),
	}
	props.Popup = PopupHTML(props)
	var loc station.Location
	if origin.Location != nil {
		loc = *origin.Location
	}
	return Feature{Type: "Feature", Geometry: pointOf(loc), Properties: props}
}

// DestinationFeature builds the feature of a station reachable from origin.
// The connection must carry a location.
func DestinationFeature(origin station.Station, c upstream.Connection, opts Options) Feature {
	b := duration.Classify(c.Duration)
	props := Properties{
		Kind:            KindDestination,
		Type:            2,
		ID:              station.Canonicalize(c.ID),
		Name:            c.Name,
		Duration:        b,
		DurationMinutes: c.Duration,
		Colour:          duration.Colour(b),
		Label:           Label(c.Name, c.Duration),
		Link:            CalendarLink(opts.CalendarBaseURL, origin, c),
		DBLink:          DBLink(c, opts.Lang),
		Origin:          station.Canonicalize(origin.ID),
	}
	props.Popup = PopupHTML(props)
	return Feature{Type: "Feature", Geometry: pointOf(*c.Location), Properties: props}
}

// BuildFeatures returns the map layer for one origin: one destination feature
// per connection, ordered by descending duration bucket so longer trips are
// drawn first and do not hide shorter ones, followed by the origin feature.
func BuildFeatures(origin station.Station, conns []upstream.Connection, opts Options) FeatureCollection {
	features := make([]Feature, 0, len(conns)+1)
	for _, c := range conns {
		if c.Location == nil {
			continue
		}
		if opts.MaxDuration > 0 && c.Duration != nil && *c.Duration > opts.MaxDuration {
			continue
		}
		features = append(features, DestinationFeature(origin, c, opts))
	}
	sortForDrawing(features)
	features = append(features, OriginFeature(origin))
	return NewFeatureCollection(features)
}

func sortForDrawing(features []Feature) {
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].Properties.Duration > features[j].Properties.Duration
	})
}

// Merge folds several single-origin layers into one. Every origin feature is
// kept. A destination reachable from several origins keeps the feature with
// the shortest known duration; the first layer wins ties.
func Merge(layers ...FeatureCollection) FeatureCollection {
	var origins []Feature
	var dests []Feature
	index := map[string]int{}
	originIDs := map[string]bool{}
	for _, l := range layers {
		for _, f := range l.Features {
			if f.Properties.Kind == KindOrigin {
				originIDs[f.Properties.ID] = true
				origins = append(origins, f)
				continue
			}
			key := destinationKey(f)
			i, ok := index[key]
			if !ok {
				index[key] = len(dests)
				dests = append(dests, f)
				continue
			}
			if shorter(f, dests[i]) {
				dests[i] = f
			}
		}
	}
	out := make([]Feature, 0, len(dests)+len(origins))
	for _, d := range dests {
		// a selected origin is drawn as an origin, not as someone's destination
		if d.Properties.ID != "" && originIDs[d.Properties.ID] {
			continue
		}
		out = append(out, d)
	}
	sortForDrawing(out)
	out = append(out, origins...)
	return NewFeatureCollection(out)
}

func destinationKey(f Feature) string {
	if f.Properties.ID != "" {
		return f.Properties.ID
	}
	return strings.ToLower(f.Properties.Name)
}

func shorter(a, b Feature) bool {
	am, bm := a.Properties.DurationMinutes, b.Properties.DurationMinutes
	switch {
	case am == nil:
		return false
	case bm == nil:
		return true
	default:
		return *am < *bm
	}
}

// Label is the human readable label of a destination.
func Label(name string, minutes *int) string {
	if minutes == nil {
		return name
	}
	return name + " " + duration.Format(*minutes) + "h"
}

// PopupHTML renders the hover popup of a feature.
func PopupHTML(p Properties) string {
	name := html.EscapeString(p.Name)
	if p.DurationMinutes == nil {
		return name
	}
	return name + ` <b style="color: ` + duration.Colour(p.Duration) + `;">` + duration.Format(*p.DurationMinutes) + `h</b>`
}

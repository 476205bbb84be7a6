package upstream

import (
	"errors"
	"net/url"
	"strings"

	"direktmap/internal/station"
)

var (
	// ErrStationNotFound means no search candidate matched the requested id
	// and carried a location.
	ErrStationNotFound = errors.New("station not found")
	// ErrNoResults means the connections endpoint returned no destination
	// that can be placed on the map.
	ErrNoResults = errors.New("no results found")
)

// Connection is a destination reachable by direct train from an origin.
type Connection struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Location     *station.Location `json:"location,omitempty"`
	Duration     *int              `json:"duration"`
	CalendarURL  string            `json:"calendarUrl,omitempty"`
	DBURLGerman  string            `json:"dbUrlGerman,omitempty"`
	DBURLEnglish string            `json:"dbUrlEnglish,omitempty"`
}

// TrainTypes selects which trains the connections endpoint considers.
type TrainTypes string

const (
	AllTrains      TrainTypes = "all"
	RegionalTrains TrainTypes = "regional"
)

// ParseTrainTypes returns AllTrains for anything it does not recognise.
func ParseTrainTypes(s string) TrainTypes {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RegionalTrains), "local":
		return RegionalTrains
	default:
		return AllTrains
	}
}

// Params returns the query parameters the connections endpoint expects.
func (t TrainTypes) Params() url.Values {
	v := url.Values{}
	if t == RegionalTrains {
		v.Set("localTrainsOnly", "true")
	} else {
		v.Set("allowLocalTrains", "true")
	}
	v.Set("allowSuburbanTrains", "true")
	return v
}

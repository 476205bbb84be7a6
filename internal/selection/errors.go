package selection

import (
	"errors"

	"direktmap/internal/upstream"
)

// ErrorKind is the user-facing classification of a pipeline failure.
type ErrorKind int

const (
	NoError ErrorKind = iota
	StationNotFound
	NoResults
	UnknownError
)

func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, upstream.ErrStationNotFound):
		return StationNotFound
	case errors.Is(err, upstream.ErrNoResults):
		return NoResults
	default:
		return UnknownError
	}
}

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case StationNotFound:
		return "station_not_found"
	case NoResults:
		return "no_results"
	default:
		return "unknown"
	}
}

// Token is the translation token prefix of the kind's notification.
func (k ErrorKind) Token() string {
	switch k {
	case StationNotFound:
		return "stationNotFound"
	case NoResults:
		return "noResults"
	default:
		return "unknownError"
	}
}

// Icon is the dialog icon of the kind's notification.
func (k ErrorKind) Icon() string {
	if k == NoResults {
		return "warning"
	}
	return "error"
}

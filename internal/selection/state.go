package selection

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

// Query parameter names of the shareable view state.
const (
	ParamOrigin      = "origin"
	ParamTrainTypes  = "trainTypes"
	ParamMaxDuration = "maxDuration"
)

// State is the user's selection as carried in the page URL.
type State struct {
	Origins     []string            `json:"origins"`
	TrainTypes  upstream.TrainTypes `json:"trainTypes"`
	MaxDuration int                 `json:"maxDuration"`
}

// Decode reads the state from URL query values. Origins may be repeated or
// comma separated; they are canonicalized and deduplicated in order.
// Invalid filter values fall back to their defaults.
func Decode(v url.Values) State {
	s := State{TrainTypes: upstream.ParseTrainTypes(v.Get(ParamTrainTypes))}
	for _, raw := range v[ParamOrigin] {
		for _, id := range strings.Split(raw, ",") {
			s = s.With(id)
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamMaxDuration))); err == nil && n > 0 {
		s.MaxDuration = n
	}
	return s
}

// Values encodes the state. Default values are omitted so the shortest URL
// reproduces the view.
func (s State) Values() url.Values {
	v := url.Values{}
	for _, id := range s.Origins {
		v.Add(ParamOrigin, id)
	}
	if s.TrainTypes != "" && s.TrainTypes != upstream.AllTrains {
		v.Set(ParamTrainTypes, string(s.TrainTypes))
	}
	if s.MaxDuration > 0 {
		v.Set(ParamMaxDuration, strconv.Itoa(s.MaxDuration))
	}
	return v
}

func (s State) Encode() string { return s.Values().Encode() }

// With returns a copy of s with id appended, unless already selected.
func (s State) With(id string) State {
	id = normalizeID(id)
	if id == "" || s.Has(id) {
		return s
	}
	s.Origins = append(slices.Clone(s.Origins), id)
	return s
}

// Without returns a copy of s with id removed.
func (s State) Without(id string) State {
	id = normalizeID(id)
	s.Origins = slices.DeleteFunc(slices.Clone(s.Origins), func(o string) bool { return o == id })
	return s
}

func (s State) Has(id string) bool {
	return slices.Contains(s.Origins, normalizeID(id))
}

func normalizeID(id string) string {
	return station.Canonicalize(strings.TrimSpace(id))
}

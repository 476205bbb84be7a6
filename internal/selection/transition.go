package selection

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"direktmap/internal/upstream"
)

// Query parameter names of a transition applied on top of a restored state.
const (
	ParamSelect         = "select"
	ParamAdd            = "add"
	ParamRemove         = "remove"
	ParamSetTrainTypes  = "setTrainTypes"
	ParamSetMaxDuration = "setMaxDuration"
)

// Transition is one user action on the view: picking a station in the search
// box, adding or removing an origin, or changing a filter.
type Transition struct {
	Select      string
	Add         []string
	Remove      []string
	TrainTypes  *upstream.TrainTypes
	MaxDuration *int
}

// DecodeTransition reads the transition parameters. A transition with no
// parameters set is empty.
func DecodeTransition(v url.Values) Transition {
	get := func(k string) string {
		if vs := v[k]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}
	t := Transition{Select: get(ParamSelect)}
	for _, raw := range v[ParamAdd] {
		t.Add = append(t.Add, splitIDs(raw)...)
	}
	for _, raw := range v[ParamRemove] {
		t.Remove = append(t.Remove, splitIDs(raw)...)
	}
	if raw := get(ParamSetTrainTypes); raw != "" {
		tt := upstream.ParseTrainTypes(raw)
		t.TrainTypes = &tt
	}
	if raw := get(ParamSetMaxDuration); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			t.MaxDuration = &n
		}
	}
	return t
}

func splitIDs(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = normalizeID(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (t Transition) Empty() bool {
	return t.Select == "" && len(t.Add) == 0 && len(t.Remove) == 0 && t.TrainTypes == nil && t.MaxDuration == nil
}

// Apply runs the transition on s: select, then adds, removes, the train-type
// filter and finally the duration limit. It stops at the first failure.
func (s *Session) Apply(ctx context.Context, t Transition) error {
	if t.Select != "" {
		if err := s.Select(ctx, t.Select); err != nil {
			return err
		}
	}
	for _, id := range t.Add {
		if err := s.Add(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range t.Remove {
		s.Remove(id)
	}
	if t.TrainTypes != nil {
		if err := s.SetTrainTypes(ctx, *t.TrainTypes); err != nil {
			return err
		}
	}
	if t.MaxDuration != nil {
		s.SetMaxDuration(*t.MaxDuration)
	}
	return nil
}

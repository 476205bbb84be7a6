package selection

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"testing"

	"direktmap/internal/duration"
	"direktmap/internal/geo"
	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

type fakeFetcher struct {
	stations map[string]station.Station
	conns    map[string][]upstream.Connection
	filtered map[string][]upstream.Connection // connections for RegionalTrains
	fail     error
	calls    int
}

func (f *fakeFetcher) Lookup(_ context.Context, id string) (station.Station, error) {
	f.calls++
	if f.fail != nil {
		return station.Station{}, f.fail
	}
	s, ok := f.stations[station.Canonicalize(id)]
	if !ok {
		return station.Station{}, upstream.ErrStationNotFound
	}
	return s, nil
}

func (f *fakeFetcher) Connections(_ context.Context, id string, tt upstream.TrainTypes) ([]upstream.Connection, error) {
	src := f.conns
	if tt == upstream.RegionalTrains && f.filtered != nil {
		src = f.filtered
	}
	c := src[station.Canonicalize(id)]
	if len(c) == 0 {
		return nil, upstream.ErrNoResults
	}
	return c, nil
}

func loc(lat, lon float64) *station.Location { return &station.Location{Latitude: lat, Longitude: lon} }

func newFake() *fakeFetcher {
	return &fakeFetcher{
		stations: map[string]station.Station{
			"8000105": {ID: "008000105", Name: "Frankfurt(Main)Hbf", Location: loc(50.1, 8.66)},
			"8000240": {ID: "8000240", Name: "Mainz Hbf", Location: loc(50.0, 8.26)},
			"8011160": {ID: "8011160", Name: "Berlin Hbf", Location: loc(52.52, 13.37)},
		},
		conns: map[string][]upstream.Connection{
			"8000105": {
				{ID: "8000250", Name: "Wiesbaden Hbf", Location: loc(50.07, 8.24), Duration: duration.Minutes(30)},
				{ID: "8000261", Name: "München Hbf", Location: loc(48.14, 11.56), Duration: duration.Minutes(500)},
			},
			"8000240": {
				{ID: "8000250", Name: "Wiesbaden Hbf", Location: loc(50.07, 8.24), Duration: duration.Minutes(12)},
				{ID: "8000191", Name: "Karlsruhe Hbf", Location: loc(49.0, 8.4), Duration: duration.Minutes(90)},
			},
		},
	}
}

func names(fc geo.FeatureCollection) []string {
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.Properties.Name)
	}
	return out
}

func TestSessionSelect(t *testing.T) {
	s := NewSession(newFake(), geo.Options{}, nil)
	if s.Phase() != Idle {
		t.Fatalf("new session phase = %s", s.Phase())
	}
	if err := s.Select(context.Background(), "008000105"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if s.Phase() != Rendered {
		t.Errorf("phase = %s, want rendered", s.Phase())
	}
	if got := s.State().Origins; len(got) != 1 || got[0] != "8000105" {
		t.Errorf("origins = %v", got)
	}
	if len(s.Layer().Features) != 3 {
		t.Errorf("expected 3 features, got %v", names(s.Layer()))
	}
}

func TestSessionFailureKeepsLayer(t *testing.T) {
	fake := newFake()
	s := NewSession(fake, geo.Options{}, nil)
	if err := s.Select(context.Background(), "8000105"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	before := names(s.Layer())

	err := s.Select(context.Background(), "8011160")
	if !errors.Is(err, upstream.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
	if s.Phase() != Failed || s.ErrorKind() != NoResults {
		t.Errorf("phase = %s kind = %s", s.Phase(), s.ErrorKind())
	}
	if got := names(s.Layer()); len(got) != len(before) || got[0] != before[0] {
		t.Errorf("layer changed on failure: %v -> %v", before, got)
	}
	if s.State().Origins[0] != "8000105" {
		t.Errorf("selection changed on failure: %v", s.State().Origins)
	}

	if err := s.Select(context.Background(), "9999999"); Classify(err) != StationNotFound {
		t.Errorf("expected station not found, got %v", err)
	}
	fake.fail = errors.New("connection reset")
	if err := s.Select(context.Background(), "8000240"); Classify(err) != UnknownError {
		t.Errorf("expected unknown error, got %v", err)
	}

	fake.fail = nil
	if err := s.Select(context.Background(), "8000240"); err != nil {
		t.Fatalf("recovery Select: %v", err)
	}
	if s.Phase() != Rendered || s.Err() != nil {
		t.Errorf("expected rendered after recovery, got %s (%v)", s.Phase(), s.Err())
	}
}

func TestSessionAddRemove(t *testing.T) {
	fake := newFake()
	s := NewSession(fake, geo.Options{}, nil)
	ctx := context.Background()
	if err := s.Add(ctx, "8000105"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(ctx, "8000240"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Wiesbaden, München, Karlsruhe and the two origins
	if len(s.Layer().Features) != 5 {
		t.Fatalf("expected 5 features, got %v", names(s.Layer()))
	}

	calls := fake.calls
	if err := s.Add(ctx, "8000240"); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	s.Remove("8000240")
	if fake.calls != calls {
		t.Errorf("re-adding or removing fetched origins must not hit the network")
	}
	if got := s.State().Origins; len(got) != 1 || got[0] != "8000105" {
		t.Errorf("origins after remove = %v", got)
	}
	if len(s.Layer().Features) != 3 {
		t.Errorf("expected Frankfurt layer only, got %v", names(s.Layer()))
	}

	s.Remove("8000105")
	if s.Phase() != Idle || len(s.Layer().Features) != 0 {
		t.Errorf("empty selection should be idle with an empty layer, got %s %v", s.Phase(), names(s.Layer()))
	}
}

func TestSessionFilters(t *testing.T) {
	fake := newFake()
	fake.filtered = map[string][]upstream.Connection{
		"8000105": {{ID: "8000250", Name: "Wiesbaden Hbf", Location: loc(50.07, 8.24), Duration: duration.Minutes(45)}},
	}
	s := NewSession(fake, geo.Options{}, nil)
	ctx := context.Background()
	if err := s.Select(ctx, "8000105"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	s.SetMaxDuration(60)
	if len(s.Layer().Features) != 2 {
		t.Errorf("max duration should hide München, got %v", names(s.Layer()))
	}
	s.SetMaxDuration(0)
	if len(s.Layer().Features) != 3 {
		t.Errorf("removing the limit should restore München, got %v", names(s.Layer()))
	}

	if err := s.SetTrainTypes(ctx, upstream.RegionalTrains); err != nil {
		t.Fatalf("SetTrainTypes: %v", err)
	}
	if s.State().TrainTypes != upstream.RegionalTrains || len(s.Layer().Features) != 2 {
		t.Errorf("regional filter not applied: %v", names(s.Layer()))
	}
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	first := NewSession(newFake(), geo.Options{}, nil)
	if err := first.Add(ctx, "8000105"); err != nil {
		t.Fatal(err)
	}
	if err := first.Add(ctx, "8000240"); err != nil {
		t.Fatal(err)
	}
	first.SetMaxDuration(120)

	query := first.State().Encode()
	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", query, err)
	}
	restored := NewSession(newFake(), geo.Options{}, nil)
	if err := restored.Restore(ctx, Decode(values)); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	a, b := names(first.Layer()), names(restored.Layer())
	sort.Strings(a)
	sort.Strings(b)
	if len(a) != len(b) {
		t.Fatalf("restored layer differs: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("restored layer differs: %v vs %v", a, b)
		}
	}
	if restored.State().MaxDuration != 120 {
		t.Errorf("max duration lost: %+v", restored.State())
	}
}

func TestRestoreStopsAtFirstFailure(t *testing.T) {
	s := NewSession(newFake(), geo.Options{}, nil)
	err := s.Restore(context.Background(), State{Origins: []string{"8000105", "1234567", "8000240"}})
	if Classify(err) != StationNotFound {
		t.Fatalf("expected station not found, got %v", err)
	}
	if got := s.State().Origins; len(got) != 1 || got[0] != "8000105" {
		t.Errorf("origins = %v, want the ones loaded before the failure", got)
	}
	if len(s.Layer().Features) != 3 {
		t.Errorf("expected Frankfurt layer to stay rendered, got %v", names(s.Layer()))
	}
}

func TestDecode(t *testing.T) {
	v, _ := url.ParseQuery("origin=008000105,8000240&origin=8000105&origin=&trainTypes=regional&maxDuration=-3")
	s := Decode(v)
	if len(s.Origins) != 2 || s.Origins[0] != "8000105" || s.Origins[1] != "8000240" {
		t.Errorf("origins = %v", s.Origins)
	}
	if s.TrainTypes != upstream.RegionalTrains {
		t.Errorf("train types = %q", s.TrainTypes)
	}
	if s.MaxDuration != 0 {
		t.Errorf("negative max duration should be dropped, got %d", s.MaxDuration)
	}
	if got := s.Without("008000105").Encode(); got != "origin=8000240&trainTypes=regional" {
		t.Errorf("Encode = %q", got)
	}
}

func TestSessionTrimsIDs(t *testing.T) {
	s := NewSession(newFake(), geo.Options{}, nil)
	ctx := context.Background()
	if err := s.Add(ctx, " 008000105 "); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := s.State().Origins; len(got) != 1 || got[0] != "8000105" {
		t.Errorf("origins = %q", got)
	}
	if len(s.Layer().Features) != 3 {
		t.Errorf("padded id should still render its layer, got %v", names(s.Layer()))
	}
	if err := s.Select(ctx, "\t8000240"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := s.State().Origins; len(got) != 1 || got[0] != "8000240" || len(s.Layer().Features) != 3 {
		t.Errorf("select with padded id: origins %q layer %v", got, names(s.Layer()))
	}
	s.Remove(" 8000240")
	if s.Phase() != Idle {
		t.Errorf("padded remove should empty the selection, phase %s", s.Phase())
	}
}

func TestDecodeTransition(t *testing.T) {
	v, _ := url.ParseQuery("select=+008000105&add=8000240,,8011160&remove=8000105&setTrainTypes=local&setMaxDuration=90")
	tx := DecodeTransition(v)
	if tx.Select != "008000105" {
		t.Errorf("select = %q", tx.Select)
	}
	if len(tx.Add) != 2 || tx.Add[1] != "8011160" || len(tx.Remove) != 1 {
		t.Errorf("add %v remove %v", tx.Add, tx.Remove)
	}
	if tx.TrainTypes == nil || *tx.TrainTypes != upstream.RegionalTrains {
		t.Errorf("train types = %v", tx.TrainTypes)
	}
	if tx.MaxDuration == nil || *tx.MaxDuration != 90 {
		t.Errorf("max duration = %v", tx.MaxDuration)
	}
	if !DecodeTransition(url.Values{"origin": {"8000105"}}).Empty() {
		t.Error("state parameters alone are not a transition")
	}
}

func TestApplyTransition(t *testing.T) {
	fake := newFake()
	fake.filtered = map[string][]upstream.Connection{
		"8000105": {{ID: "8000250", Name: "Wiesbaden Hbf", Location: loc(50.07, 8.24), Duration: duration.Minutes(45)}},
	}
	s := NewSession(fake, geo.Options{}, nil)
	ctx := context.Background()
	if err := s.Restore(ctx, State{Origins: []string{"8000105", "8000240"}, TrainTypes: upstream.AllTrains}); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	calls := fake.calls
	if err := s.Apply(ctx, Transition{Remove: []string{"8000240"}}); err != nil {
		t.Fatalf("Apply remove: %v", err)
	}
	if fake.calls != calls {
		t.Error("remove must not hit the network")
	}
	if len(s.Layer().Features) != 3 {
		t.Errorf("expected Frankfurt layer, got %v", names(s.Layer()))
	}

	limit := 60
	if err := s.Apply(ctx, Transition{MaxDuration: &limit}); err != nil {
		t.Fatalf("Apply max duration: %v", err)
	}
	if fake.calls != calls || len(s.Layer().Features) != 2 {
		t.Errorf("limit should re-fold without fetching, got %v", names(s.Layer()))
	}

	regional := upstream.RegionalTrains
	if err := s.Apply(ctx, Transition{TrainTypes: &regional}); err != nil {
		t.Fatalf("Apply train types: %v", err)
	}
	if s.State().TrainTypes != upstream.RegionalTrains || fake.calls == calls {
		t.Errorf("train type change should re-fetch, state %+v", s.State())
	}

	err := s.Apply(ctx, Transition{Add: []string{"1234567"}, Remove: []string{"8000105"}})
	if Classify(err) != StationNotFound {
		t.Fatalf("expected station not found, got %v", err)
	}
	if got := s.State().Origins; len(got) != 1 || got[0] != "8000105" {
		t.Errorf("failed transition must stop before later steps, origins %v", got)
	}
}

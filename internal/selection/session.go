package selection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"direktmap/internal/geo"
	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

// Fetcher resolves stations and their direct connections.
type Fetcher interface {
	Lookup(ctx context.Context, id string) (station.Station, error)
	Connections(ctx context.Context, originID string, tt upstream.TrainTypes) ([]upstream.Connection, error)
}

type Phase int

const (
	Idle Phase = iota
	Loading
	Rendered
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type fetched struct {
	origin station.Station
	conns  []upstream.Connection
}

// Session is the render pipeline for one viewer. It keeps the fetched
// connection lists of every selected origin, so the map layer is a pure fold
// over them: adding an origin fetches and inserts before folding, removing
// one deletes and folds again.
//
// A failed operation leaves the previous layer and selection untouched.
// A Session is not safe for concurrent use.
type Session struct {
	fetcher Fetcher
	opts    geo.Options
	log     *zap.Logger

	phase   Phase
	state   State
	fetched map[string]fetched
	layer   geo.FeatureCollection
	err     error
}

func NewSession(f Fetcher, opts geo.Options, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		fetcher: f,
		opts:    opts,
		log:     log,
		state:   State{TrainTypes: upstream.AllTrains},
		fetched: make(map[string]fetched),
		layer:   geo.NewFeatureCollection(nil),
	}
}

func (s *Session) Phase() Phase                 { return s.phase }
func (s *Session) State() State                 { return s.state }
func (s *Session) Layer() geo.FeatureCollection { return s.layer }
func (s *Session) Err() error                   { return s.err }
func (s *Session) ErrorKind() ErrorKind         { return Classify(s.err) }

// Origins returns the resolved origin stations in selection order.
func (s *Session) Origins() []station.Station {
	out := make([]station.Station, 0, len(s.state.Origins))
	for _, id := range s.state.Origins {
		if f, ok := s.fetched[id]; ok {
			out = append(out, f.origin)
		}
	}
	return out
}

// Select replaces the selection with the single origin id.
func (s *Session) Select(ctx context.Context, id string) error {
	id = normalizeID(id)
	f, err := s.load(ctx, id, s.state.TrainTypes)
	if err != nil {
		return s.fail(err)
	}
	s.fetched = map[string]fetched{id: f}
	s.state.Origins = []string{id}
	s.render()
	return nil
}

// Add appends the origin id to the selection. An origin already selected is
// only folded again.
func (s *Session) Add(ctx context.Context, id string) error {
	id = normalizeID(id)
	if _, ok := s.fetched[id]; ok && s.state.Has(id) {
		s.render()
		return nil
	}
	f, err := s.load(ctx, id, s.state.TrainTypes)
	if err != nil {
		return s.fail(err)
	}
	s.fetched[id] = f
	s.state = s.state.With(id)
	s.render()
	return nil
}

// Remove drops the origin id without any network round-trip.
func (s *Session) Remove(id string) {
	id = normalizeID(id)
	delete(s.fetched, id)
	s.state = s.state.Without(id)
	if len(s.state.Origins) == 0 {
		s.phase = Idle
		s.err = nil
		s.layer = geo.NewFeatureCollection(nil)
		return
	}
	s.render()
}

// SetTrainTypes changes the train-type filter and fetches every selected
// origin again. On failure the previous filter stays active.
func (s *Session) SetTrainTypes(ctx context.Context, tt upstream.TrainTypes) error {
	if tt == s.state.TrainTypes {
		return nil
	}
	if len(s.state.Origins) == 0 {
		s.state.TrainTypes = tt
		return nil
	}
	next := make(map[string]fetched, len(s.state.Origins))
	for _, id := range s.state.Origins {
		f, err := s.load(ctx, id, tt)
		if err != nil {
			return s.fail(err)
		}
		next[id] = f
	}
	s.fetched = next
	s.state.TrainTypes = tt
	s.render()
	return nil
}

// SetMaxDuration changes the duration limit; zero removes it.
func (s *Session) SetMaxDuration(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	s.state.MaxDuration = minutes
	if len(s.state.Origins) > 0 {
		s.render()
	}
}

// Restore rebuilds the view from a persisted state, e.g. on page load.
// Origins are added in order; the first failure stops the restore and the
// origins loaded so far stay rendered.
func (s *Session) Restore(ctx context.Context, st State) error {
	s.state = State{TrainTypes: st.TrainTypes, MaxDuration: st.MaxDuration}
	if s.state.TrainTypes == "" {
		s.state.TrainTypes = upstream.AllTrains
	}
	s.fetched = make(map[string]fetched)
	s.layer = geo.NewFeatureCollection(nil)
	s.phase = Idle
	s.err = nil
	for _, id := range st.Origins {
		if err := s.Add(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Render folds the fetched origins into a fresh map layer.
func (s *Session) Render() geo.FeatureCollection {
	opts := s.opts
	opts.MaxDuration = s.state.MaxDuration
	layers := make([]geo.FeatureCollection, 0, len(s.state.Origins))
	for _, id := range s.state.Origins {
		f, ok := s.fetched[id]
		if !ok {
			continue
		}
		layers = append(layers, geo.BuildFeatures(f.origin, f.conns, opts))
	}
	return geo.Merge(layers...)
}

func (s *Session) render() {
	s.layer = s.Render()
	s.phase = Rendered
	s.err = nil
}

func (s *Session) load(ctx context.Context, id string, tt upstream.TrainTypes) (fetched, error) {
	s.phase = Loading
	origin, err := s.fetcher.Lookup(ctx, id)
	if err != nil {
		return fetched{}, err
	}
	conns, err := s.fetcher.Connections(ctx, origin.ID, tt)
	if err != nil {
		return fetched{}, err
	}
	s.log.Debug("origin loaded", zap.String("origin", id), zap.String("name", origin.Name), zap.Int("connections", len(conns)))
	return fetched{origin: origin, conns: conns}, nil
}

func (s *Session) fail(err error) error {
	s.phase = Failed
	s.err = err
	s.log.Info("selection failed", zap.Stringer("kind", Classify(err)), zap.Error(err))
	return err
}

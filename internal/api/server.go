package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"direktmap/internal/publisher"
	"direktmap/internal/selection"
	"direktmap/internal/station"
)

// Backend answers station searches and feeds the render pipeline.
// *upstream.Client implements it.
type Backend interface {
	selection.Fetcher
	Search(ctx context.Context, query string) ([]station.Station, error)
}

// Metrics records request outcomes. *metrics.Collector implements it.
type Metrics interface {
	ObserveRender(outcome string, features int)
	ObserveSearch()
}

type Options struct {
	CalendarBaseURL string
	CORSOrigins     []string

	// Optional collaborators.
	Metrics        Metrics
	MetricsHandler http.Handler
	Publisher      publisher.Publisher
	Health         func(ctx context.Context) error
}

type Server struct {
	backend Backend
	opts    Options
	log     *zap.Logger
}

func NewServer(backend Backend, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{backend: backend, opts: opts, log: log}
}

// Handler returns the routed HTTP handler with CORS, request ids, logging
// and panic recovery applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.log))
	r.Use(recoveryMiddleware(s.log))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stations", s.handleStations).Methods(http.MethodGet)
	api.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)
	api.HandleFunc("/translations", s.handleTranslations).Methods(http.MethodGet)
	api.HandleFunc("/legend", s.handleLegend).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.opts.MetricsHandler != nil {
		r.Handle("/metrics", s.opts.MetricsHandler).Methods(http.MethodGet)
	}

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler(r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

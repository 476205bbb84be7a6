package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Collector struct {
	reg *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec   // kind: search|connections, result: ok|error
	UpstreamDuration *prometheus.HistogramVec // kind
	RaceWins         *prometheus.CounterVec   // endpoint
	CacheLookups     *prometheus.CounterVec   // cache: lookup|connections|store, result: hit|miss

	Renders        *prometheus.CounterVec // outcome: rendered|station_not_found|no_results|unknown
	RenderedPoints prometheus.Histogram
	SearchRequests prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram

	ConnectionsTTL prometheus.Gauge // seconds
}

func NewCollector(connectionsTTL time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "direktmap_upstream_requests_total",
			Help: "Upstream API requests by kind and result.",
		}, []string{"kind", "result"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "direktmap_upstream_request_duration_seconds",
			Help:    "Duration of upstream API requests.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 13),
		}, []string{"kind"}),
		RaceWins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "direktmap_search_race_wins_total",
			Help: "Station search races won per endpoint.",
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "direktmap_cache_lookups_total",
			Help: "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "direktmap_renders_total",
			Help: "Map layer requests by outcome.",
		}, []string{"outcome"}),
		RenderedPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "direktmap_rendered_features",
			Help:    "Number of features in rendered map layers.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		SearchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "direktmap_station_searches_total",
			Help: "Total geocoder station searches.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "direktmap_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "direktmap_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "direktmap_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "direktmap_publish_duration_seconds",
			Help:    "Duration of NATS publish calls.",
			Buckets: prometheus.DefBuckets,
		}),
		ConnectionsTTL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "direktmap_connections_cache_ttl_seconds",
			Help: "Connections cache TTL in seconds.",
		}),
	}

	reg.MustRegister(
		c.UpstreamRequests, c.UpstreamDuration, c.RaceWins, c.CacheLookups,
		c.Renders, c.RenderedPoints, c.SearchRequests,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
		c.ConnectionsTTL,
	)

	c.ConnectionsTTL.Set(connectionsTTL.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", zap.Error(err))
		}
	}()
	log.Info("metrics listening", zap.String("addr", addr))
	return srv
}

// UpstreamObserve implements upstream.Metrics.
func (c *Collector) UpstreamObserve(kind string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.UpstreamRequests.WithLabelValues(kind, result).Inc()
	c.UpstreamDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (c *Collector) RaceWon(endpoint string) { c.RaceWins.WithLabelValues(endpoint).Inc() }
func (c *Collector) CacheHit(cache string)   { c.CacheLookups.WithLabelValues(cache, "hit").Inc() }
func (c *Collector) CacheMiss(cache string)  { c.CacheLookups.WithLabelValues(cache, "miss").Inc() }

// ObserveRender records the outcome of a map layer request.
func (c *Collector) ObserveRender(outcome string, features int) {
	c.Renders.WithLabelValues(outcome).Inc()
	if outcome == "rendered" {
		c.RenderedPoints.Observe(float64(features))
	}
}

func (c *Collector) ObserveSearch() { c.SearchRequests.Inc() }

// NATSPublishedInc and friends implement publisher.PublisherMetrics.
func (c *Collector) NATSPublishedInc()              { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc()             { c.NATSPublishErrs.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }
func (c *Collector) NATSSetConnected(b bool) {
	if b {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"direktmap/internal/station"
)

// Metrics receives upstream call observations. A nil Metrics is allowed.
type Metrics interface {
	UpstreamObserve(kind string, d time.Duration, err error)
	RaceWon(endpoint string)
	CacheHit(cache string)
	CacheMiss(cache string)
}

// ConnectionStore persists fetched connection lists between restarts.
type ConnectionStore interface {
	GetConnections(ctx context.Context, originID string, tt TrainTypes, maxAge time.Duration) ([]Connection, bool, error)
	PutConnections(ctx context.Context, originID string, tt TrainTypes, conns []Connection) error
}

type Config struct {
	SearchEndpoints     []string
	ConnectionsEndpoint string
	Timeout             time.Duration
	LookupCacheSize     int
	ConnectionsTTL      time.Duration
	Predicates          station.Predicates
}

type Client struct {
	searchEndpoints     []string
	connectionsEndpoint string
	connectionsTTL      time.Duration
	predicates          station.Predicates

	httpClient *http.Client
	lookups    gcache.Cache // canonical id -> station.Station
	conns      gcache.Cache // origin|filter -> []Connection
	group      singleflight.Group

	store   ConnectionStore
	metrics Metrics
	log     *zap.Logger
}

// NewClient builds a client. store, metrics and log may be nil.
func NewClient(cfg Config, store ConnectionStore, metrics Metrics, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	size := cfg.LookupCacheSize
	if size <= 0 {
		size = 1000
	}
	ttl := cfg.ConnectionsTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		searchEndpoints:     cfg.SearchEndpoints,
		connectionsEndpoint: strings.TrimRight(cfg.ConnectionsEndpoint, "/"),
		connectionsTTL:      ttl,
		predicates:          cfg.Predicates,
		httpClient:          &http.Client{Timeout: timeout},
		lookups:             gcache.New(size).LRU().Expiration(24 * time.Hour).Build(),
		conns:               gcache.New(size).LRU().Expiration(ttl).Build(),
		store:               store,
		metrics:             metrics,
		log:                 log,
	}
}

// Search returns the searchable stations matching query, for the geocoder.
func (c *Client) Search(ctx context.Context, query string) ([]station.Station, error) {
	candidates, err := c.searchRace(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.predicates.Filter(candidates), nil
}

// Lookup resolves id to the search candidate with the same canonical id that
// carries a location. The search API answers with fuzzy matches, so the
// candidate is found by id and not by rank.
func (c *Client) Lookup(ctx context.Context, id string) (station.Station, error) {
	short := station.Canonicalize(strings.TrimSpace(id))
	if short == "" {
		return station.Station{}, ErrStationNotFound
	}
	if v, err := c.lookups.Get(short); err == nil {
		if s, ok := v.(station.Station); ok {
			c.cacheHit("lookup")
			return s, nil
		}
	}
	c.cacheMiss("lookup")

	v, err := c.shared(ctx, "lookup:"+short, func(ctx context.Context) (any, error) {
		candidates, err := c.searchRace(ctx, short)
		if err != nil {
			return nil, err
		}
		for _, s := range candidates {
			if station.Canonicalize(s.ID) == short && station.HasLocation(s) {
				_ = c.lookups.Set(short, s)
				return s, nil
			}
		}
		return nil, fmt.Errorf("lookup %q: %w", short, ErrStationNotFound)
	})
	if err != nil {
		return station.Station{}, err
	}
	return v.(station.Station), nil
}

// Connections fetches the destinations reachable from originID. Entries
// without a location are dropped; if none remain ErrNoResults is returned.
func (c *Client) Connections(ctx context.Context, originID string, tt TrainTypes) ([]Connection, error) {
	short := station.Canonicalize(originID)
	key := short + "|" + string(tt)
	if v, err := c.conns.Get(key); err == nil {
		if conns, ok := v.([]Connection); ok {
			c.cacheHit("connections")
			return conns, nil
		}
	}
	c.cacheMiss("connections")

	v, err := c.shared(ctx, "connections:"+key, func(ctx context.Context) (any, error) {
		if c.store != nil {
			conns, ok, err := c.store.GetConnections(ctx, short, tt, c.connectionsTTL)
			if err != nil {
				c.log.Warn("connection store read failed", zap.String("origin", short), zap.Error(err))
			} else if ok && len(conns) > 0 {
				c.cacheHit("store")
				_ = c.conns.Set(key, conns)
				return conns, nil
			}
		}

		u := fmt.Sprintf("%s/%s?%s", c.connectionsEndpoint, url.PathEscape(short), tt.Params().Encode())
		var raw []Connection
		if err := c.getJSON(ctx, "connections", u, &raw); err != nil {
			return nil, fmt.Errorf("fetch connections for %q: %w", short, err)
		}
		conns := withLocation(raw)
		if len(conns) == 0 {
			return nil, fmt.Errorf("connections for %q: %w", short, ErrNoResults)
		}
		_ = c.conns.Set(key, conns)
		if c.store != nil {
			if err := c.store.PutConnections(ctx, short, tt, conns); err != nil {
				c.log.Warn("connection store write failed", zap.String("origin", short), zap.Error(err))
			}
		}
		return conns, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Connection), nil
}

// shared collapses concurrent calls for key into one execution of fn. fn runs
// on a context detached from the caller, so one caller going away does not
// fail the others; the HTTP client timeout still bounds it. Each caller stops
// waiting when its own ctx is done.
func (c *Client) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

func withLocation(raw []Connection) []Connection {
	out := make([]Connection, 0, len(raw))
	for _, r := range raw {
		if r.Location != nil {
			out = append(out, r)
		}
	}
	return out
}

func (c *Client) searchRace(ctx context.Context, query string) ([]station.Station, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("poi", "false")
	q.Set("addresses", "false")
	candidates, winner, err := race(ctx, c.searchEndpoints, func(ctx context.Context, endpoint string) ([]station.Station, error) {
		var out []station.Station
		if err := c.getJSON(ctx, "search", endpoint+"?"+q.Encode(), &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if c.metrics != nil {
		c.metrics.RaceWon(winner)
	}
	c.log.Debug("search race decided", zap.String("query", query), zap.String("endpoint", winner), zap.Int("candidates", len(candidates)))
	return candidates, nil
}

func (c *Client) getJSON(ctx context.Context, kind, u string, v any) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.UpstreamObserve(kind, time.Since(start), err)
		}
	}()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Debug("upstream non-2xx", zap.String("kind", kind), zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return fmt.Errorf("%s status %d", kind, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", kind, err)
	}
	return nil
}

func (c *Client) cacheHit(name string) {
	if c.metrics != nil {
		c.metrics.CacheHit(name)
	}
}

func (c *Client) cacheMiss(name string) {
	if c.metrics != nil {
		c.metrics.CacheMiss(name)
	}
}

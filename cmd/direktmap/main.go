package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"direktmap/internal/api"
	"direktmap/internal/config"
	"direktmap/internal/metrics"
	"direktmap/internal/publisher"
	"direktmap/internal/station"
	"direktmap/internal/store"
	"direktmap/internal/upstream"
)

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mcol := metrics.NewCollector(cfg.ConnectionsTTL)
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = mcol.Serve(cfg.MetricsAddr, log.Named("metrics"))
	}

	// Optional Postgres cache of connection lists
	var sqlDB *sql.DB
	var connStore upstream.ConnectionStore
	if cfg.DatabaseURL != "" {
		sqlDB, err = store.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			log.Fatal("db connect error", zap.Error(err))
		}
		defer sqlDB.Close()
		conns := store.NewConnections(sqlDB)
		if err := conns.EnsureSchema(ctx); err != nil {
			log.Fatal("db schema error", zap.Error(err))
		}
		go pruneLoop(ctx, conns, cfg.ConnectionsTTL, log.Named("store"))
		connStore = conns
		log.Info("connections store enabled", zap.String("dsn", store.Redact(cfg.DatabaseURL)), zap.String("database", cfg.DatabaseName))
	}

	client := upstream.NewClient(upstream.Config{
		SearchEndpoints:     cfg.SearchEndpoints,
		ConnectionsEndpoint: cfg.ConnectionsEndpoint,
		Timeout:             cfg.HTTPTimeout,
		LookupCacheSize:     cfg.LookupCacheSize,
		ConnectionsTTL:      cfg.ConnectionsTTL,
		Predicates:          station.NewPredicates(cfg.ProductFlags),
	}, connStore, mcol, log.Named("upstream"))

	opts := api.Options{
		CalendarBaseURL: cfg.CalendarBaseURL,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         mcol,
		MetricsHandler:  mcol.Handler(),
	}
	if sqlDB != nil {
		opts.Health = func(ctx context.Context) error { return store.Ping(ctx, sqlDB) }
	}

	// Optional NATS stream of rendered selections
	if cfg.NATSURL != "" {
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, mcol, log.Named("nats"))
		if err != nil {
			log.Fatal("nats error", zap.Error(err))
		}
		defer pub.Close()
		opts.Publisher = pub
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(client, opts, log.Named("api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// connections requests may take as long as the upstream timeout
		WriteTimeout: cfg.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			cancel()
		}
	}()

	// Block until context cancelled
	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	log.Info("shutdown complete")
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// pruneLoop removes expired connection lists once per TTL.
func pruneLoop(ctx context.Context, s *store.Connections, ttl time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		n, err := s.Prune(ctx, ttl)
		if err != nil {
			log.Warn("prune failed", zap.Error(err))
			continue
		}
		if n > 0 {
			log.Debug("pruned connection lists", zap.Int64("rows", n))
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr            string
	SearchEndpoints     []string
	ConnectionsEndpoint string
	CalendarBaseURL     string
	HTTPTimeout         time.Duration
	LookupCacheSize     int
	ConnectionsTTL      time.Duration
	DatabaseURL         string
	DatabaseName        string // overrides the database of DatabaseURL when set
	NATSURL             string
	NATSSubjectPrefix   string
	MetricsAddr         string
	ProductFlags        []string
	CORSOrigins         []string
	LogLevel            string
	LogFormat           string
}

// ProductTable is the YAML layout of PRODUCTS_FILE:
//
//	longDistanceOrRegional:
//	  - nationalExpress
//	  - regional
type ProductTable struct {
	LongDistanceOrRegional []string `yaml:"longDistanceOrRegional"`
}

var defaultSearchEndpoints = []string{
	"https://v5.db.transport.rest/locations",
	"https://v5.db.juliustens.eu/locations",
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", ":8080")

	cfg.SearchEndpoints = splitList(os.Getenv("SEARCH_ENDPOINTS"))
	if len(cfg.SearchEndpoints) == 0 {
		cfg.SearchEndpoints = defaultSearchEndpoints
	}
	cfg.ConnectionsEndpoint = getenvDefault("CONNECTIONS_ENDPOINT", "https://api.direkt.bahn.guru")
	cfg.CalendarBaseURL = getenvDefault("CALENDAR_BASE_URL", "https://bahn.guru/calendar")

	// Upstream HTTP timeout (seconds)
	if v := os.Getenv("HTTP_TIMEOUT_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SEC: %q", v)
		}
		cfg.HTTPTimeout = time.Duration(sec) * time.Second
	} else {
		// busy stations take up to 30s upstream
		cfg.HTTPTimeout = 45 * time.Second
	}

	if v := os.Getenv("LOOKUP_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LOOKUP_CACHE_SIZE: %q", v)
		}
		cfg.LookupCacheSize = n
	} else {
		cfg.LookupCacheSize = 1000
	}

	// Connections cache TTL (seconds)
	if v := os.Getenv("CONNECTIONS_CACHE_TTL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid CONNECTIONS_CACHE_TTL_SEC: %q", v)
		}
		cfg.ConnectionsTTL = time.Duration(sec) * time.Second
	} else {
		cfg.ConnectionsTTL = time.Hour
	}

	// Optional Postgres for the connections cache: prefer DATABASE_URL / PG_DSN, else build from PG* vars
	cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("PG_DSN"))
	if cfg.DatabaseURL != "" {
		// PGDATABASE picks the database on the server named by the URL
		cfg.DatabaseName = strings.TrimSpace(os.Getenv("PGDATABASE"))
	} else if os.Getenv("PGDATABASE") != "" {
		host := getenvDefault("PGHOST", "127.0.0.1")
		port := getenvDefault("PGPORT", "5432")
		user := getenvDefault("PGUSER", "postgres")
		pass := os.Getenv("PGPASSWORD")
		db := os.Getenv("PGDATABASE")
		sslmode := getenvDefault("PGSSLMODE", "disable")
		if pass != "" {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", urlEscape(user), urlEscape(pass), host, port, db, sslmode)
		} else {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", urlEscape(user), host, port, db, sslmode)
		}
	}

	// Optional NATS stream of rendered selections. Empty disables publishing.
	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.NATSSubjectPrefix = getenvDefault("NATS_SUBJECT_PREFIX", "direktmap.selections")
	if strings.ContainsAny(cfg.NATSSubjectPrefix, " *>") {
		return nil, fmt.Errorf("invalid NATS_SUBJECT_PREFIX: %q", cfg.NATSSubjectPrefix)
	}

	// Metrics listen address (e.g., ":9102"). Empty serves /metrics on HTTP_ADDR only.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	// Train types counted as long distance or regional: PRODUCT_FLAGS wins over PRODUCTS_FILE
	if flags := splitList(os.Getenv("PRODUCT_FLAGS")); len(flags) > 0 {
		cfg.ProductFlags = flags
	} else if path := os.Getenv("PRODUCTS_FILE"); path != "" {
		table, err := LoadProductTable(path)
		if err != nil {
			return nil, err
		}
		cfg.ProductFlags = table.LongDistanceOrRegional
	}

	cfg.CORSOrigins = splitList(getenvDefault("CORS_ORIGINS", "*"))

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q", cfg.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "json"))
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q", cfg.LogFormat)
	}

	return cfg, nil
}

// LoadProductTable reads the product flag table from a YAML file.
func LoadProductTable(path string) (*ProductTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open products file: %w", err)
	}
	defer f.Close()

	var table ProductTable
	if err := yaml.NewDecoder(f).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode products file %s: %w", path, err)
	}
	if len(table.LongDistanceOrRegional) == 0 {
		return nil, errors.New("products file lists no longDistanceOrRegional flags")
	}
	return &table, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func urlEscape(s string) string {
	// Minimal escape for DSN user/pass with special chars
	r := strings.NewReplacer("@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}

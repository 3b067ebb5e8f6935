package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	ListenAddr string

	// Mode controls how much error detail is exposed to API clients:
	// "development" returns the underlying error message, "production"
	// returns a generic one.
	Mode string

	CORSOrigin string

	ClickHouseAddr string
	ClickHouseDB   string

	// ClickHouseAuth explicitly enables authentication against the
	// store. Credentials are only attached when this is true; some
	// install bases run ClickHouse with auth disabled and reject
	// connections that present credentials anyway.
	ClickHouseAuth     bool
	ClickHouseUser     string
	ClickHousePassword string

	KafkaBrokers []string
	KafkaGroupID string

	RedisAddr string

	// CacheTTL is how long the dashboard overview stays cached.
	CacheTTL time.Duration
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr:         getenv("APP_LISTEN_ADDR", ":8080"),
		Mode:               getenv("APP_MODE", "development"),
		CORSOrigin:         getenv("APP_CORS_ORIGIN", "*"),
		ClickHouseAddr:     getenv("APP_CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:       getenv("APP_CLICKHOUSE_DB", "analytics"),
		ClickHouseUser:     getenv("APP_CLICKHOUSE_USER", "default"),
		ClickHousePassword: os.Getenv("APP_CLICKHOUSE_PASSWORD"),
		KafkaGroupID:       getenv("APP_KAFKA_GROUP_ID", "analytics-consumer"),
		RedisAddr:          getenv("APP_REDIS_ADDR", "localhost:6379"),
		CacheTTL:           2 * time.Minute,
	}

	cfg.ClickHouseAuth = os.Getenv("APP_CLICKHOUSE_AUTH") == "true"

	brokers := getenv("APP_KAFKA_BROKERS", "localhost:9092")
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	if v := os.Getenv("APP_CACHE_TTL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.CacheTTL = time.Duration(secs) * time.Second
		}
	}

	return cfg
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Mode == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig captures all tunable parameters for the HTTP API process.
// Values are loaded from environment variables with defaults that run the
// service locally with nothing else configured.
type ServerConfig struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RideSearchDelay time.Duration
	RideETAText     string
	RideDistance    string
	MatchStrategy   string
	MatcherTopN     int
	DefaultSpeedMps float64
	OSRMEndpoint    string

	TrackerTimeScale float64
	RideRetention    time.Duration

	PlacesAPIKey     string
	PlacesEndpoint   string
	PlacesMaxResults int
	PlacesDebounce   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisGeoKey   string

	KafkaBrokers         []string
	KafkaTopic           string
	KafkaRideEventsTopic string

	PGDSN         string
	RunMigrations bool
	MigrationsDir string

	StripeAPIKey string
	FCMEndpoint  string
	FCMKey       string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
}

const (
	StrategyFixed   = "fixed"
	StrategyNearest = "nearest"
)

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:             ":3001",
		ReadTimeout:          5 * time.Second,
		WriteTimeout:         10 * time.Second,
		IdleTimeout:          120 * time.Second,
		ShutdownTimeout:      15 * time.Second,
		RideSearchDelay:      1500 * time.Millisecond,
		RideETAText:          "4 minutos",
		RideDistance:         "2.3 km",
		MatchStrategy:        StrategyFixed,
		MatcherTopN:          8,
		DefaultSpeedMps:      10,
		TrackerTimeScale:     1,
		RideRetention:        5 * time.Minute,
		PlacesMaxResults:     5,
		PlacesDebounce:       300 * time.Millisecond,
		RedisGeoKey:          "drivers_geo",
		KafkaTopic:           "driver-locations",
		KafkaRideEventsTopic: "ride-events",
		MigrationsDir:        "migrations",
		RateLimitRPS:         5,
		RateLimitBurst:       10,
		LogLevel:             "info",
	}
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := defaultServerConfig()
	var errs []error

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv("HTTP_ADDR") == "" {
		cfg.HTTPAddr = ":" + port
	}
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	setDurationFromEnv(&cfg.RideSearchDelay, "RIDE_SEARCH_DELAY", &errs)
	setStringFromEnv(&cfg.RideETAText, "RIDE_ETA_TEXT")
	setStringFromEnv(&cfg.RideDistance, "RIDE_DISTANCE")
	if v := os.Getenv("MATCH_STRATEGY"); v != "" {
		cfg.MatchStrategy = strings.ToLower(strings.TrimSpace(v))
	}
	setIntFromEnv(&cfg.MatcherTopN, "MATCHER_TOP_N", &errs)
	setFloatFromEnv(&cfg.DefaultSpeedMps, "MATCHER_DEFAULT_SPEED_MPS", &errs)
	setStringFromEnv(&cfg.OSRMEndpoint, "OSRM_ENDPOINT")

	setFloatFromEnv(&cfg.TrackerTimeScale, "TRACKER_TIME_SCALE", &errs)
	setDurationFromEnv(&cfg.RideRetention, "RIDE_RETENTION", &errs)

	cfg.PlacesAPIKey = strings.TrimSpace(os.Getenv("PLACES_API_KEY"))
	setStringFromEnv(&cfg.PlacesEndpoint, "PLACES_ENDPOINT")
	setIntFromEnv(&cfg.PlacesMaxResults, "PLACES_MAX_RESULTS", &errs)
	setDurationFromEnv(&cfg.PlacesDebounce, "PLACES_DEBOUNCE", &errs)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setStringFromEnv(&cfg.RedisGeoKey, "REDIS_GEO_KEY")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setStringFromEnv(&cfg.KafkaRideEventsTopic, "KAFKA_RIDE_EVENTS_TOPIC")

	cfg.PGDSN = os.Getenv("PG_DSN")
	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")
	setStringFromEnv(&cfg.MigrationsDir, "MIGRATIONS_DIR")

	cfg.StripeAPIKey = os.Getenv("STRIPE_API_KEY")
	setStringFromEnv(&cfg.FCMEndpoint, "FCM_ENDPOINT")
	cfg.FCMKey = os.Getenv("FCM_KEY")

	setFloatFromEnv(&cfg.RateLimitRPS, "RATE_LIMIT_RPS", &errs)
	setIntFromEnv(&cfg.RateLimitBurst, "RATE_LIMIT_BURST", &errs)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if cfg.MatchStrategy != StrategyFixed && cfg.MatchStrategy != StrategyNearest {
		errs = append(errs, fmt.Errorf("MATCH_STRATEGY must be %q or %q", StrategyFixed, StrategyNearest))
	}
	if cfg.MatcherTopN <= 0 {
		errs = append(errs, fmt.Errorf("MATCHER_TOP_N must be > 0"))
	}
	if cfg.RideSearchDelay < 0 {
		errs = append(errs, fmt.Errorf("RIDE_SEARCH_DELAY must be >= 0"))
	}
	if cfg.RideRetention <= 0 {
		errs = append(errs, fmt.Errorf("RIDE_RETENTION must be > 0"))
	}
	if cfg.TrackerTimeScale <= 0 {
		errs = append(errs, fmt.Errorf("TRACKER_TIME_SCALE must be > 0"))
	}
	if cfg.PlacesMaxResults <= 0 {
		errs = append(errs, fmt.Errorf("PLACES_MAX_RESULTS must be > 0"))
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0"))
	}

	return cfg, errors.Join(errs...)
}

// ConsumerConfig configures the fleet location consumer.
type ConsumerConfig struct {
	MetricsAddr   string
	KafkaBrokers  []string
	KafkaTopic    string
	KafkaGroup    string
	RedisAddr     string
	RedisPassword string
	RedisGeoKey   string
	RetryAttempts int
	RetryDelay    time.Duration
	LogLevel      string
}

func LoadConsumerConfig() (ConsumerConfig, error) {
	cfg := ConsumerConfig{
		MetricsAddr:   ":2112",
		KafkaBrokers:  []string{"localhost:9092"},
		KafkaTopic:    "driver-locations",
		KafkaGroup:    "motogo-fleet-consumer",
		RedisAddr:     "localhost:6379",
		RedisGeoKey:   "drivers_geo",
		RetryAttempts: 3,
		RetryDelay:    200 * time.Millisecond,
		LogLevel:      "info",
	}
	var errs []error

	setStringFromEnv(&cfg.MetricsAddr, "METRICS_ADDR")
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = os.Getenv("KAFKA_BROKER")
	}
	if brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setStringFromEnv(&cfg.KafkaGroup, "KAFKA_GROUP")
	setStringFromEnv(&cfg.RedisAddr, "REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setStringFromEnv(&cfg.RedisGeoKey, "REDIS_GEO_KEY")
	setIntFromEnv(&cfg.RetryAttempts, "REDIS_RETRY_ATTEMPTS", &errs)
	setDurationFromEnv(&cfg.RetryDelay, "REDIS_RETRY_DELAY", &errs)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if len(cfg.KafkaBrokers) == 0 {
		errs = append(errs, fmt.Errorf("KAFKA_BROKERS must list at least one broker"))
	}
	if cfg.RetryAttempts <= 0 {
		errs = append(errs, fmt.Errorf("REDIS_RETRY_ATTEMPTS must be > 0"))
	}
	return cfg, errors.Join(errs...)
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setFloatFromEnv(target *float64, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = f
	}
}

func setIntFromEnv(target *int, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/config"
	"github.com/example/motogo/internal/geo"
	"github.com/example/motogo/internal/logging"
	"github.com/example/motogo/internal/models"
)

var (
	msgsConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo",
		Name:      "consumer_messages_consumed_total",
		Help:      "Total driver location messages consumed",
	})
	msgsInvalid = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo",
		Name:      "consumer_messages_invalid_total",
		Help:      "Total invalid messages received",
	})
	redisUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo",
		Name:      "consumer_redis_updates_total",
		Help:      "Total successful redis updates",
	})
	redisErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "motogo",
		Name:      "consumer_redis_errors_total",
		Help:      "Total redis errors",
	})
)

func init() {
	prometheus.MustRegister(msgsConsumed, msgsInvalid, redisUpdates, redisErrors)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConsumerConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger("motogo-fleet-consumer", cfg.LogLevel)
	slog.SetDefault(logger)

	rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	radapter := &redisAdapter{c: rc, geoKey: cfg.RedisGeoKey}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSrv := newMetricsServer(cfg.MetricsAddr, rc)
	go func() {
		logger.Info("metrics/health listening", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic, GroupID: cfg.KafkaGroup, MinBytes: 10e3, MaxBytes: 10e6})
	defer func() {
		_ = r.Close()
		_ = rc.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("consumer listening", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers, "group", cfg.KafkaGroup)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("shutting down consumer")
				return
			}
			logger.Warn("kafka read error", "error", err, "backoff", backoff)
			if clock.Sleep(ctx, clock.Real(), backoff) != nil {
				return
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second

		msgsConsumed.Inc()

		var d models.FleetDriver
		if err := json.Unmarshal(m.Value, &d); err != nil || d.ID == "" {
			msgsInvalid.Inc()
			logger.Warn("invalid message", "offset", m.Offset, "error", err)
			continue
		}

		if err := updateRedisWithRetry(ctx, radapter, d, cfg.RetryAttempts, cfg.RetryDelay); err != nil {
			redisErrors.Inc()
			logger.Error("redis update failed", "driver_id", d.ID, "error", err)
			continue
		}
		redisUpdates.Inc()
	}
}

func newMetricsServer(addr string, rc *redis.Client) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := rc.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis not ready", 503)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// RedisUpdater is the subset of redis the consumer writes through.
type RedisUpdater interface {
	GeoAdd(ctx context.Context, loc *redis.GeoLocation) error
	HSet(ctx context.Context, key string, values map[string]interface{}) error
}

type redisAdapter struct {
	c      *redis.Client
	geoKey string
}

func (r *redisAdapter) GeoAdd(ctx context.Context, loc *redis.GeoLocation) error {
	return r.c.GeoAdd(ctx, r.geoKey, loc).Err()
}

func (r *redisAdapter) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	return r.c.HSet(ctx, key, values).Err()
}

// updateRedisWithRetry writes the driver position and metadata, retrying with
// doubling delay. It gives up early when ctx is done.
func updateRedisWithRetry(ctx context.Context, rc RedisUpdater, d models.FleetDriver, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = rc.GeoAdd(ctx, geo.Location(d)); err == nil {
			if err = rc.HSet(ctx, geo.MetaKey(d.ID), geo.MetaFields(d)); err == nil {
				return nil
			}
		}
		if i == attempts-1 {
			break
		}
		if serr := clock.Sleep(ctx, clock.Real(), delay); serr != nil {
			return serr
		}
		delay *= 2
	}
	return err
}

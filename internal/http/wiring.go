package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/config"
	"github.com/example/motogo/internal/dispatch"
	"github.com/example/motogo/internal/eta"
	"github.com/example/motogo/internal/geo"
	"github.com/example/motogo/internal/ingest"
	"github.com/example/motogo/internal/matcher"
	"github.com/example/motogo/internal/payments"
	"github.com/example/motogo/internal/places"
	"github.com/example/motogo/internal/storage"
	"github.com/example/motogo/internal/tracker"
)

// NewServerFromConfig wires the API from cfg. Each external system is only
// used when configured; Postgres falls back to the in-memory history.
func NewServerFromConfig(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	clk := clock.Real()
	d := Deps{
		Logger:       logger,
		Clock:        clk,
		Steps:        tracker.Scale(tracker.DefaultSteps, cfg.TrackerTimeScale),
		PlacesQuiet:  cfg.PlacesDebounce,
		PlacesMax:    cfg.PlacesMaxResults,
		RideDistance: cfg.RideDistance,
		Retention:    cfg.RideRetention,
		RateLimit:    rate.Limit(cfg.RateLimitRPS),
		RateBurst:    cfg.RateLimitBurst,
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		d.Fleet = geo.NewRedisGeo(rdb, cfg.RedisGeoKey)
		d.Closers = append(d.Closers, rdb)
		logger.Info("fleet index on redis", "addr", cfg.RedisAddr, "key", cfg.RedisGeoKey)
	} else {
		d.Fleet = geo.NewIndex()
	}

	var strategy matcher.Strategy
	switch cfg.MatchStrategy {
	case config.StrategyNearest:
		n := &matcher.Nearest{Fleet: d.Fleet, DefaultSpeedMps: cfg.DefaultSpeedMps, TopN: cfg.MatcherTopN}
		if cfg.OSRMEndpoint != "" {
			n.ETAClient = eta.NewOSRMClient(cfg.OSRMEndpoint)
			n.ETACache = eta.NewCache(time.Minute)
		}
		strategy = n
	default:
		strategy = matcher.NewFixedDelay(cfg.RideSearchDelay, cfg.RideETAText, clk)
	}
	d.Rides = matcher.NewService(strategy, logger)

	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(ctx, cfg.PGDSN)
		if err != nil {
			logger.Warn("postgres unavailable, keeping history in memory", "error", err)
		} else {
			if cfg.RunMigrations {
				applied, err := ps.Migrate(ctx, cfg.MigrationsDir)
				if err != nil {
					_ = ps.Close()
					return nil, fmt.Errorf("migrate: %w", err)
				}
				logger.Info("migrations applied", "files", applied)
				for _, e := range storage.SeedHistory {
					if err := ps.Append(ctx, e); err != nil {
						logger.Warn("history seed failed", "ride_id", e.ID, "error", err)
					}
				}
			}
			d.History = ps
			d.Closers = append(d.Closers, ps)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		kp := ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaRideEventsTopic)
		d.Events = kp
		d.Closers = append(d.Closers, kp)
	}
	if cfg.PlacesAPIKey != "" {
		d.Places = places.NewGoogleClient(cfg.PlacesEndpoint, cfg.PlacesAPIKey)
	}
	if cfg.FCMEndpoint != "" && cfg.FCMKey != "" {
		d.Notifier = dispatch.NewFCMNotifier(cfg.FCMEndpoint, cfg.FCMKey)
	}
	if cfg.StripeAPIKey != "" {
		d.Payments = payments.NewStripeClient(cfg.StripeAPIKey)
	}

	return NewServer(d), nil
}

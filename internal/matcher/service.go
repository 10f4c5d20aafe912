package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/motogo/internal/models"
	"github.com/example/motogo/internal/observability"
)

// Strategy finds a driver for a validated request.
type Strategy interface {
	Match(ctx context.Context, req models.RideRequest) (models.DriverMatch, error)
}

type StrategyFunc func(ctx context.Context, req models.RideRequest) (models.DriverMatch, error)

func (f StrategyFunc) Match(ctx context.Context, req models.RideRequest) (models.DriverMatch, error) {
	return f(ctx, req)
}

// Service is the ride request entry point. It validates, logs and hands the
// request to the configured strategy.
type Service struct {
	strategy Strategy
	logger   *slog.Logger
}

func NewService(strategy Strategy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{strategy: strategy, logger: logger}
}

func (s *Service) Submit(ctx context.Context, req models.RideRequest) (models.DriverMatch, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		observability.RideRequestsTotal.WithLabelValues("invalid").Inc()
		return models.DriverMatch{}, err
	}
	s.logger.Info("ride request received",
		"origin", req.Origin,
		"destination", req.Destination,
		"ride_type", req.RideType,
		"payment_method", req.PaymentMethod,
	)

	start := time.Now()
	match, err := s.strategy.Match(ctx, req)
	observability.MatchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.RideRequestsTotal.WithLabelValues("error").Inc()
		return models.DriverMatch{}, fmt.Errorf("match ride: %w", err)
	}
	if !match.DriverFound {
		match.Driver = nil
		observability.RideRequestsTotal.WithLabelValues("no_match").Inc()
		return match, nil
	}
	observability.RideRequestsTotal.WithLabelValues("matched").Inc()
	return match, nil
}

package matcher

import (
	"context"
	"time"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/models"
)

const (
	DefaultSearchDelay = 1500 * time.Millisecond
	DefaultETA         = "4 minutos"
)

var DefaultDriver = models.MatchedDriver{Name: "João Silva", VehicleModel: "Honda CG 160", Plate: "ABC-1234"}

// FixedDelay simulates a dispatch search: every request matches the same driver
// once the delay has elapsed.
type FixedDelay struct {
	Delay  time.Duration
	ETA    string
	Driver models.MatchedDriver
	Clock  clock.Clock
}

func NewFixedDelay(delay time.Duration, eta string, clk clock.Clock) *FixedDelay {
	if eta == "" {
		eta = DefaultETA
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &FixedDelay{Delay: delay, ETA: eta, Driver: DefaultDriver, Clock: clk}
}

func (f *FixedDelay) Match(ctx context.Context, _ models.RideRequest) (models.DriverMatch, error) {
	if err := clock.Sleep(ctx, f.Clock, f.Delay); err != nil {
		return models.DriverMatch{}, err
	}
	d := f.Driver
	return models.DriverMatch{DriverFound: true, EstimatedArrival: f.ETA, Driver: &d}, nil
}

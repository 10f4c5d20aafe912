package matcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/models"
)

type countingStrategy struct {
	calls int
	match models.DriverMatch
	err   error
}

func (c *countingStrategy) Match(ctx context.Context, req models.RideRequest) (models.DriverMatch, error) {
	c.calls++
	return c.match, c.err
}

type fakeFleet struct{ drivers []models.FleetDriver }

func (f *fakeFleet) Nearby(ctx context.Context, lat, lon float64, limit int) ([]models.FleetDriver, error) {
	return f.drivers, nil
}

func TestSubmitRejectsBeforeStrategy(t *testing.T) {
	cs := &countingStrategy{}
	svc := NewService(cs, nil)
	_, err := svc.Submit(context.Background(), models.RideRequest{Origin: "", Destination: "B", RideType: models.RideStandard, PaymentMethod: models.PaymentPix})
	if !errors.Is(err, models.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if cs.calls != 0 {
		t.Fatalf("strategy called for invalid request")
	}
}

func TestSubmitWrapsStrategyError(t *testing.T) {
	boom := errors.New("dispatch down")
	svc := NewService(&countingStrategy{err: boom}, nil)
	_, err := svc.Submit(context.Background(), models.RideRequest{Origin: "A", Destination: "B"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSubmitDropsDriverOnNoMatch(t *testing.T) {
	svc := NewService(&countingStrategy{match: models.DriverMatch{Driver: &DefaultDriver}}, nil)
	m, err := svc.Submit(context.Background(), models.RideRequest{Origin: "A", Destination: "B"})
	if err != nil || m.DriverFound || m.Driver != nil {
		t.Fatalf("unexpected %+v %v", m, err)
	}
}

func TestFixedDelayMatchesAfterDelay(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	svc := NewService(NewFixedDelay(DefaultSearchDelay, "", clk), nil)
	type result struct {
		m   models.DriverMatch
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := svc.Submit(context.Background(), models.RideRequest{Origin: "A", Destination: "B", RideType: models.RideStandard, PaymentMethod: models.PaymentPix})
		done <- result{m, err}
	}()
	clk.BlockUntil(1)
	clk.Advance(1499 * time.Millisecond)
	select {
	case <-done:
		t.Fatalf("matched before the search delay")
	default:
	}
	clk.Advance(time.Millisecond)
	r := <-done
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !r.m.DriverFound || r.m.EstimatedArrival != DefaultETA || r.m.Driver == nil {
		t.Fatalf("unexpected match %+v", r.m)
	}
	if r.m.Driver.Name == "" || r.m.Driver.VehicleModel == "" || r.m.Driver.Plate == "" {
		t.Fatalf("incomplete driver %+v", r.m.Driver)
	}
}

func TestFixedDelayRealClockBounded(t *testing.T) {
	f := NewFixedDelay(20*time.Millisecond, "", nil)
	start := time.Now()
	m, err := f.Match(context.Background(), models.RideRequest{})
	elapsed := time.Since(start)
	if err != nil || !m.DriverFound {
		t.Fatalf("unexpected %+v %v", m, err)
	}
	if elapsed < 20*time.Millisecond || elapsed > 2*time.Second {
		t.Fatalf("elapsed %v outside window", elapsed)
	}
}

func TestFixedDelayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFixedDelay(time.Hour, "", nil)
	if _, err := f.Match(ctx, models.RideRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNearestPrefersHigherRatingIfETAEqual(t *testing.T) {
	g := &fakeFleet{drivers: []models.FleetDriver{
		{ID: "A", Name: "Carlos Silva", Plate: "AAA-1111", Loc: models.Coord{Lat: 0, Lon: 0}, Rating: 4.0, Online: true},
		{ID: "B", Name: "Maria Santos", Plate: "BBB-2222", Loc: models.Coord{Lat: 0, Lon: 0}, Rating: 5.0, Online: true},
	}}
	s := &Nearest{Fleet: g, DefaultSpeedMps: 10, TopN: 2}
	m, err := s.Match(context.Background(), models.RideRequest{Pickup: &models.Coord{}})
	if err != nil || !m.DriverFound {
		t.Fatalf("no match: %v", err)
	}
	if m.Driver.Name != "Maria Santos" {
		t.Fatalf("expected Maria Santos, got %s", m.Driver.Name)
	}
}

func TestNearestNoMatch(t *testing.T) {
	s := &Nearest{Fleet: &fakeFleet{}}
	m, err := s.Match(context.Background(), models.RideRequest{Pickup: &models.Coord{}})
	if err != nil || m.DriverFound {
		t.Fatalf("expected no match, got %+v %v", m, err)
	}
	m, _ = (&Nearest{Fleet: &fakeFleet{drivers: []models.FleetDriver{{ID: "A", Online: true}}}}).Match(context.Background(), models.RideRequest{})
	if m.DriverFound {
		t.Fatalf("request without pickup must not match")
	}
}

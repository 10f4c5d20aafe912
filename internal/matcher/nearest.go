package matcher

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/motogo/internal/eta"
	"github.com/example/motogo/internal/models"
)

type Fleet interface {
	Nearby(ctx context.Context, lat, lon float64, limit int) ([]models.FleetDriver, error)
}

// Nearest ranks online drivers around the pickup point by
// cost = eta + 30*(5 - rating) and offers the cheapest.
type Nearest struct {
	Fleet           Fleet
	DefaultSpeedMps float64
	TopN            int
	ETAClient       eta.Client // optional routed ETA
	ETACache        *eta.Cache // optional ETA cache
}

func (s *Nearest) Match(ctx context.Context, req models.RideRequest) (models.DriverMatch, error) {
	if req.Pickup == nil {
		return models.DriverMatch{}, nil
	}
	topN := s.TopN
	if topN <= 0 {
		topN = 10
	}
	cands, err := s.Fleet.Nearby(ctx, req.Pickup.Lat, req.Pickup.Lon, topN)
	if err != nil {
		return models.DriverMatch{}, fmt.Errorf("fleet lookup: %w", err)
	}
	if len(cands) == 0 {
		return models.DriverMatch{}, nil
	}
	type scored struct {
		d      models.FleetDriver
		etaSec float64
		cost   float64
	}
	scoredList := make([]scored, 0, len(cands))
	for _, d := range cands {
		etaSec := s.estimate(ctx, d.Loc, *req.Pickup)
		cost := etaSec + 30.0*(5.0-d.Rating)
		scoredList = append(scoredList, scored{d, etaSec, cost})
	}
	sort.SliceStable(scoredList, func(i, j int) bool { return scoredList[i].cost < scoredList[j].cost })

	best := scoredList[0]
	return models.DriverMatch{
		DriverFound:      true,
		EstimatedArrival: eta.Humanize(best.etaSec),
		Driver:           best.d.Match(),
	}, nil
}

func (s *Nearest) estimate(ctx context.Context, from, to models.Coord) float64 {
	if s.ETACache != nil {
		if v, ok := s.ETACache.Get(from, to); ok {
			return v
		}
	}
	if s.ETAClient != nil {
		if v, err := s.ETAClient.EstimateSeconds(ctx, from, to); err == nil {
			if s.ETACache != nil {
				s.ETACache.Set(from, to, v)
			}
			return v
		}
	}
	return eta.EstimateSeconds(from, to, s.DefaultSpeedMps)
}

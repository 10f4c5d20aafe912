package httpapi

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/example/motogo/internal/models"
	"github.com/example/motogo/internal/observability"
	"github.com/example/motogo/internal/tracker"
)

const (
	sideEffectTimeout = 5 * time.Second
	defaultRetention  = 5 * time.Minute
)

// rideRecord is what the API remembers about a tracked ride beyond its status.
type rideRecord struct {
	id            string
	req           models.RideRequest
	requestedAt   time.Time
	fare          models.Fare
	driver        models.DriverProfile
	paymentIntent string

	mu        sync.Mutex
	ongoingAt time.Time
	finished  bool
}

func driverProfile(m *models.MatchedDriver) models.DriverProfile {
	p := tracker.DefaultDriver
	if m != nil {
		p.Name = m.Name
		p.Vehicle = m.VehicleModel
		p.Plate = m.Plate
	}
	return p
}

// openRide starts tracking a matched ride.
func (s *Server) openRide(ctx context.Context, rideID string, req models.RideRequest, match models.DriverMatch) error {
	rec := &rideRecord{
		id:          rideID,
		req:         req,
		requestedAt: s.Clock.Now(),
		fare:        models.FareFor(req.RideType),
		driver:      driverProfile(match.Driver),
	}
	if s.Payments != nil && req.PaymentMethod == models.PaymentCard {
		id, err := s.Payments.Hold(ctx, rideID, rec.fare)
		if err != nil {
			s.logger.Warn("fare hold failed", "ride_id", rideID, "error", err)
		} else {
			rec.paymentIntent = id
		}
	}

	s.mu.Lock()
	s.rides[rideID] = rec
	s.mu.Unlock()

	driver := rec.driver
	_, err := s.Tracker.Open(tracker.Options{
		RideID:        rideID,
		Steps:         s.Steps,
		Driver:        &driver,
		EstimatedTime: match.EstimatedArrival,
		Distance:      s.RideDistance,
		Fare:          rec.fare.Label,
		Clock:         s.Clock,
		Listener:      tracker.ListenerFunc(func(st models.RideStatus) { s.onTransition(rec, st) }),
	})
	if err != nil {
		s.takeRecord(rideID)
		s.releasePayment(ctx, rec)
		return fmt.Errorf("open ride %s: %w", rideID, err)
	}
	s.logger.Info("ride tracking started", "ride_id", rideID, "driver", rec.driver.Name)
	return nil
}

func (s *Server) takeRecord(rideID string) *rideRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.rides[rideID]
	delete(s.rides, rideID)
	return rec
}

func (s *Server) onTransition(rec *rideRecord, st models.RideStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, st); err != nil {
		observability.NotifyErrorsTotal.WithLabelValues("push").Inc()
		s.logger.Warn("ride status push failed", "ride_id", st.RideID, "status", st.Status, "error", err)
	}
	if s.Events != nil {
		ev := models.RideEvent{RideID: st.RideID, RiderID: rec.req.RiderID, Status: st.Status, Timestamp: st.UpdatedAt}
		if st.Driver != nil {
			ev.Driver = st.Driver.Name
		}
		if err := s.Events.PublishRideEvent(ctx, ev); err != nil {
			observability.NotifyErrorsTotal.WithLabelValues("kafka").Inc()
			s.logger.Warn("ride event publish failed", "ride_id", st.RideID, "error", err)
		}
	}

	switch st.Status {
	case models.StatusOngoing:
		rec.mu.Lock()
		rec.ongoingAt = st.UpdatedAt
		rec.mu.Unlock()
	case models.StatusCompleted:
		s.finishRide(ctx, rec, models.HistoryCompleted, st)
		s.Clock.AfterFunc(s.Retention, func() { s.releaseRide(rec.id) })
	}
}

// releaseRide drops a finished ride from the registry and the record table.
// A ride already closed through the API is skipped.
func (s *Server) releaseRide(rideID string) {
	if _, err := s.Tracker.Close(rideID); err == nil {
		s.logger.Debug("ride released", "ride_id", rideID)
	}
	s.takeRecord(rideID)
}

// finishRide records the ride in history once and settles its payment.
func (s *Server) finishRide(ctx context.Context, rec *rideRecord, outcome models.HistoryStatus, last models.RideStatus) {
	rec.mu.Lock()
	if rec.finished {
		rec.mu.Unlock()
		return
	}
	rec.finished = true
	ongoingAt := rec.ongoingAt
	rec.mu.Unlock()

	entry := models.RideHistoryEntry{
		ID:            rec.id,
		RequestedAt:   rec.requestedAt,
		Origin:        rec.req.Origin,
		Destination:   rec.req.Destination,
		PaymentMethod: rec.req.PaymentMethod,
		Status:        outcome,
	}
	if outcome == models.HistoryCompleted {
		if ongoingAt.IsZero() {
			ongoingAt = rec.requestedAt
		}
		entry.Duration = minutesText(last.UpdatedAt.Sub(ongoingAt))
		entry.Distance = s.RideDistance
		entry.Fare = rec.fare.Label
		entry.Driver = models.HistoryDriver{Name: rec.driver.Name, Rating: rec.driver.Rating}
		if s.Payments != nil && rec.paymentIntent != "" {
			if err := s.Payments.Capture(ctx, rec.paymentIntent); err != nil {
				s.logger.Error("fare capture failed", "ride_id", rec.id, "payment_intent", rec.paymentIntent, "error", err)
			}
		}
	} else {
		entry.Duration = "0 min"
		entry.Distance = "0 km"
		entry.Fare = "R$ 0,00"
		if last.Driver != nil {
			entry.Driver = models.HistoryDriver{Name: last.Driver.Name, Rating: last.Driver.Rating}
		}
		s.releasePayment(ctx, rec)
	}

	if err := s.History.Append(ctx, entry); err != nil {
		s.logger.Error("history append failed", "ride_id", rec.id, "error", err)
		return
	}
	s.logger.Info("ride finished", "ride_id", rec.id, "outcome", outcome)
}

func (s *Server) releasePayment(ctx context.Context, rec *rideRecord) {
	if s.Payments == nil || rec.paymentIntent == "" {
		return
	}
	if err := s.Payments.Cancel(ctx, rec.paymentIntent); err != nil {
		s.logger.Error("fare release failed", "ride_id", rec.id, "payment_intent", rec.paymentIntent, "error", err)
	}
}

func minutesText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d min", int(math.Ceil(d.Minutes())))
}

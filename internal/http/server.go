package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/dispatch"
	"github.com/example/motogo/internal/geo"
	"github.com/example/motogo/internal/matcher"
	"github.com/example/motogo/internal/models"
	"github.com/example/motogo/internal/places"
	"github.com/example/motogo/internal/storage"
	"github.com/example/motogo/internal/tracker"
)

// EventPublisher ships fleet locations and ride events downstream.
type EventPublisher interface {
	PublishLocation(ctx context.Context, d models.FleetDriver) error
	PublishRideEvent(ctx context.Context, e models.RideEvent) error
}

// PaymentGateway holds a card fare while the ride runs.
type PaymentGateway interface {
	Hold(ctx context.Context, rideID string, fare models.Fare) (string, error)
	Capture(ctx context.Context, paymentIntentID string) error
	Cancel(ctx context.Context, paymentIntentID string) error
}

// Deps are the collaborators of the API. Fleet, Places, Notifier, Events and
// Payments are optional. Retention is how long a completed ride stays readable.
type Deps struct {
	Logger       *slog.Logger
	Rides        *matcher.Service
	Tracker      *tracker.Registry
	Steps        []tracker.Step
	Clock        clock.Clock
	History      storage.HistoryStore
	Fleet        geo.Fleet
	Places       places.Provider
	PlacesQuiet  time.Duration
	PlacesMax    int
	Hub          *dispatch.Hub
	Notifier     dispatch.Notifier
	Events       EventPublisher
	Payments     PaymentGateway
	RideDistance string
	Retention    time.Duration
	RateLimit    rate.Limit
	RateBurst    int
	Closers      []io.Closer
}

type Server struct {
	Deps
	logger   *slog.Logger
	notifier dispatch.Notifier
	limiter  *ipRateLimiter
	mux      *mux.Router
	handler  http.Handler

	mu    sync.Mutex
	rides map[string]*rideRecord
}

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Tracker == nil {
		d.Tracker = tracker.NewRegistry()
	}
	if d.Hub == nil {
		d.Hub = dispatch.NewHub()
	}
	if d.History == nil {
		d.History = storage.NewMemoryStore(storage.SeedHistory...)
	}
	if d.Retention <= 0 {
		d.Retention = defaultRetention
	}
	if d.PlacesMax <= 0 {
		d.PlacesMax = places.DefaultMaxResults
	}
	s := &Server{
		Deps:   d,
		logger: d.Logger,
		mux:    mux.NewRouter(),
		rides:  make(map[string]*rideRecord),
	}
	s.notifier = dispatch.Fanout{d.Hub}
	if d.Notifier != nil {
		s.notifier = dispatch.Fanout{d.Hub, d.Notifier}
	}
	if d.RateLimit > 0 && d.RateBurst > 0 {
		s.limiter = newIPRateLimiter(d.RateLimit, d.RateBurst)
	}
	s.registerMiddleware()
	s.routes()
	s.handler = cors(s.mux)
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot).Methods("GET")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("/rides", s.rateLimit(s.handleRideRequest)).Methods("POST")
	s.mux.HandleFunc("/rides/history", s.handleHistory).Methods("GET")
	s.mux.HandleFunc("/rides/{ride_id}", s.handleRideStatus).Methods("GET")
	s.mux.HandleFunc("/rides/{ride_id}", s.handleCloseRide).Methods("DELETE")
	s.mux.HandleFunc("/rides/{ride_id}/cancel", s.handleCancelRide).Methods("POST")
	s.mux.HandleFunc("/rides/{ride_id}/complete", s.handleCompleteRide).Methods("POST")

	s.mux.HandleFunc("/places/autocomplete", s.handlePlaces).Methods("GET")
	s.mux.HandleFunc("/internal/driver/locations", s.handleDriverLocation).Methods("POST")

	s.mux.HandleFunc("/ws/rides/{ride_id}", s.handleRideWS)
	s.mux.HandleFunc("/ws/places", s.handlePlacesWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

// Close stops every tracked ride and releases the external clients.
func (s *Server) Close() error {
	s.Tracker.CloseAll()
	var errs []error
	for _, c := range s.Closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

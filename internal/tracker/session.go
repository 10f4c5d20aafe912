package tracker

import (
	"errors"
	"sync"

	"github.com/example/motogo/internal/clock"
	"github.com/example/motogo/internal/models"
	"github.com/example/motogo/internal/observability"
)

var (
	ErrNotFound     = errors.New("ride not found")
	ErrExists       = errors.New("ride already tracked")
	ErrNotCompleted = errors.New("ride not completed")
	ErrBadSteps     = errors.New("transition table must run searching through completed in order")
)

// Listener receives every status a session enters, in order.
type Listener interface {
	OnTransition(models.RideStatus)
}

type ListenerFunc func(models.RideStatus)

func (f ListenerFunc) OnTransition(s models.RideStatus) { f(s) }

type Options struct {
	RideID        string
	Steps         []Step
	Driver        *models.DriverProfile
	EstimatedTime string
	Distance      string
	Fare          string
	Clock         clock.Clock
	Listener      Listener
}

// Session owns the status of one ride and the single timer chain that moves it.
type Session struct {
	mu       sync.Mutex
	steps    []Step
	driver   models.DriverProfile
	clock    clock.Clock
	listener Listener

	step    int
	status  models.RideStatus
	timer   clock.Timer
	gen     uint64
	running bool
	closed  bool

	// pending snapshots are delivered to the listener by one goroutine at a time
	pending    []models.RideStatus
	delivering bool
}

func NewSession(opts Options) (*Session, error) {
	steps := opts.Steps
	if steps == nil {
		steps = DefaultSteps
	}
	if !validSteps(steps) {
		return nil, ErrBadSteps
	}
	driver := DefaultDriver
	if opts.Driver != nil {
		driver = *opts.Driver
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	s := &Session{
		steps:    append([]Step(nil), steps...),
		driver:   driver,
		clock:    clk,
		listener: opts.Listener,
		status: models.RideStatus{
			RideID:        opts.RideID,
			Status:        models.StatusSearching,
			StatusText:    models.StatusSearching.Text(),
			EstimatedTime: opts.EstimatedTime,
			Distance:      opts.Distance,
			Fare:          opts.Fare,
			UpdatedAt:     clk.Now(),
		},
	}
	return s, nil
}

func (s *Session) ID() string { return s.status.RideID }

// Start begins the timer chain from searching. It reports false without side
// effects when a chain is already running, the ride completed or the session closed.
func (s *Session) Start() bool {
	s.mu.Lock()
	if s.closed || s.running || s.status.Status.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.restartLocked()
	s.mu.Unlock()
	s.deliver()
	return true
}

// Cancel drops any pending transition and restarts the search, clearing the
// driver. Cancelling a completed ride does nothing.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	if s.closed || s.status.Status.Terminal() {
		s.mu.Unlock()
		return false
	}
	s.restartLocked()
	s.mu.Unlock()
	observability.RideCancellationsTotal.Inc()
	s.deliver()
	return true
}

// Complete surfaces the rating prompt of a finished ride.
func (s *Session) Complete() (models.RatingPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Status.Terminal() {
		return models.RatingPrompt{}, ErrNotCompleted
	}
	return models.RatingPrompt{
		RideID:  s.status.RideID,
		Title:   "Avaliar Corrida",
		Message: "Como foi sua experiência?",
		Options: []string{"Depois", "Avaliar"},
	}, nil
}

func (s *Session) Snapshot() models.RideStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close stops the chain for good and returns the last status.
func (s *Session) Close() models.RideStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.stopLocked()
	}
	return s.snapshotLocked()
}

func (s *Session) restartLocked() {
	s.stopLocked()
	s.step = 0
	s.status.Driver = nil
	s.enterLocked()
	s.running = true
	s.scheduleLocked()
}

func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// a callback that already fired but has not taken the lock sees a stale generation
	s.gen++
	s.running = false
}

func (s *Session) enterLocked() {
	st := s.steps[s.step].Status
	s.status.Status = st
	s.status.StatusText = st.Text()
	s.status.UpdatedAt = s.clock.Now()
	s.status.Seq++
	if st == models.StatusFound && s.status.Driver == nil {
		d := s.driver
		s.status.Driver = &d
	}
	observability.RideTransitionsTotal.WithLabelValues(string(st)).Inc()
	s.pending = append(s.pending, s.snapshotLocked())
}

func (s *Session) scheduleLocked() {
	if s.step >= len(s.steps)-1 {
		s.running = false
		s.timer = nil
		return
	}
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.steps[s.step].Dwell, func() { s.advance(gen) })
}

func (s *Session) advance(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.step++
	s.enterLocked()
	s.scheduleLocked()
	s.mu.Unlock()
	s.deliver()
}

func (s *Session) deliver() {
	s.mu.Lock()
	if s.listener == nil {
		s.pending = nil
	}
	if s.delivering || len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		s.listener.OnTransition(next)
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func (s *Session) snapshotLocked() models.RideStatus {
	out := s.status
	if s.status.Driver != nil {
		d := *s.status.Driver
		out.Driver = &d
	}
	return out
}

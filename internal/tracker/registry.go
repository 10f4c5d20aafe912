package tracker

import (
	"sync"

	"github.com/example/motogo/internal/models"
	"github.com/example/motogo/internal/observability"
)

// Registry holds the active session of every tracked ride.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry { return &Registry{sessions: make(map[string]*Session)} }

// Open creates a session for opts.RideID and starts it.
func (r *Registry) Open(opts Options) (*Session, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if _, ok := r.sessions[opts.RideID]; ok {
		r.mu.Unlock()
		return nil, ErrExists
	}
	r.sessions[opts.RideID] = s
	r.mu.Unlock()
	observability.ActiveRides.Inc()
	s.Start()
	return s, nil
}

func (r *Registry) Get(rideID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[rideID]
	return s, ok
}

// Close stops and forgets a session, returning its last status.
func (r *Registry) Close(rideID string) (models.RideStatus, error) {
	r.mu.Lock()
	s, ok := r.sessions[rideID]
	delete(r.sessions, rideID)
	r.mu.Unlock()
	if !ok {
		return models.RideStatus{}, ErrNotFound
	}
	observability.ActiveRides.Dec()
	return s.Close(), nil
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
		observability.ActiveRides.Dec()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/motogo/internal/models"
)

const writeWait = 5 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// WSSession is one rider connection following a ride.
type WSSession struct {
	conn    Conn
	mu      sync.Mutex
	lastSeq uint64
}

func NewWSSession(conn Conn) *WSSession { return &WSSession{conn: conn} }

func (s *WSSession) Send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

// SendStatus writes st unless a newer status of the ride already went out on
// this connection. Statuses without a sequence are always written.
func (s *WSSession) SendStatus(st models.RideStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Seq != 0 && st.Seq <= s.lastSeq {
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(st); err != nil {
		return err
	}
	if st.Seq > s.lastSeq {
		s.lastSeq = st.Seq
	}
	return nil
}

// Hub fans ride status out to every websocket following the ride.
type Hub struct {
	mu     sync.RWMutex
	byRide map[string]map[*WSSession]struct{}
}

func NewHub() *Hub { return &Hub{byRide: make(map[string]map[*WSSession]struct{})} }

func (h *Hub) Subscribe(rideID string, conn Conn) *WSSession {
	s := NewWSSession(conn)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.byRide[rideID]
	if !ok {
		subs = make(map[*WSSession]struct{})
		h.byRide[rideID] = subs
	}
	subs[s] = struct{}{}
	return s
}

func (h *Hub) Unsubscribe(rideID string, s *WSSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.byRide[rideID]
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.byRide, rideID)
	}
}

func (h *Hub) Subscribers(rideID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byRide[rideID])
}

// Notify writes the status to each subscriber; a subscriber whose write fails is dropped.
func (h *Hub) Notify(_ context.Context, st models.RideStatus) error {
	h.mu.RLock()
	subs := make([]*WSSession, 0, len(h.byRide[st.RideID]))
	for s := range h.byRide[st.RideID] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()
	for _, s := range subs {
		if err := s.SendStatus(st); err != nil {
			h.Unsubscribe(st.RideID, s)
			_ = s.conn.Close()
		}
	}
	return nil
}

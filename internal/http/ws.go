package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/example/motogo/internal/dispatch"
	"github.com/example/motogo/internal/places"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	CheckOrigin:      func(*http.Request) bool { return true },
}

// keepAlive pings conn until ctx is done.
func keepAlive(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func prepareRead(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })
}

// handleRideWS streams every status change of a ride, starting with the current one.
func (s *Server) handleRideWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["ride_id"]
	sess, ok := s.Tracker.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "ride not found")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "ride_id", id, "error", err)
		return
	}
	defer conn.Close()

	sub := s.Hub.Subscribe(id, conn)
	defer s.Hub.Unsubscribe(id, sub)
	if err := sub.SendStatus(sess.Snapshot()); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go keepAlive(ctx, conn)

	prepareRead(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type placesMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	PlaceID string `json:"placeId,omitempty"`
}

type placesEvent struct {
	Type        string              `json:"type"`
	Predictions []places.Prediction `json:"predictions,omitempty"`
	Place       *places.Prediction  `json:"place,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// handlePlacesWS debounces the keystrokes of one search field.
func (s *Server) handlePlacesWS(w http.ResponseWriter, r *http.Request) {
	if s.Places == nil {
		writeError(w, http.StatusServiceUnavailable, "place search not configured")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	out := dispatch.NewWSSession(conn)
	ac := places.NewAutocompleter(ctx, s.Places, places.Options{
		Quiet:      s.PlacesQuiet,
		MaxResults: s.PlacesMax,
		Clock:      s.Clock,
		Logger:     s.logger,
		OnSuggestions: func(p []places.Prediction) {
			if p == nil {
				p = []places.Prediction{}
			}
			_ = out.Send(placesEvent{Type: "suggestions", Predictions: p})
		},
		OnSelect: func(p places.Prediction) {
			_ = out.Send(placesEvent{Type: "selected", Place: &p})
		},
	})
	defer ac.Close()
	go keepAlive(ctx, conn)

	prepareRead(conn)
	for {
		var msg placesMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "input":
			ac.Input(msg.Text)
		case "select":
			p, ok := ac.Lookup(msg.PlaceID)
			if !ok {
				_ = out.Send(placesEvent{Type: "error", Error: "unknown place"})
				continue
			}
			ac.Select(p)
		default:
			_ = out.Send(placesEvent{Type: "error", Error: "unknown message type"})
		}
	}
}

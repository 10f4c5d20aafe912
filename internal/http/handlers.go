package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/example/motogo/internal/models"
	"github.com/example/motogo/internal/observability"
	"github.com/example/motogo/internal/places"
	"github.com/example/motogo/internal/storage"
	"github.com/example/motogo/internal/tracker"
)

const rootBanner = "MotoGo Backend API rodando 🚀"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rootBanner))
}

type rideResponse struct {
	Success bool `json:"success"`
	models.DriverMatch
	RideID string `json:"rideId,omitempty"`
}

func (s *Server) handleRideRequest(w http.ResponseWriter, r *http.Request) {
	var req models.RideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Normalize()
	match, err := s.Rides.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if r.Context().Err() != nil {
			return
		}
		s.logger.Error("ride request failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		writeError(w, http.StatusBadGateway, "could not request ride")
		return
	}

	resp := rideResponse{Success: true, DriverMatch: match}
	if match.DriverFound {
		rideID := uuid.NewString()
		if err := s.openRide(r.Context(), rideID, req, match); err != nil {
			s.logger.Error("ride tracking failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not track ride")
			return
		}
		resp.RideID = rideID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*tracker.Session, bool) {
	id := mux.Vars(r)["ride_id"]
	sess, ok := s.Tracker.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, tracker.ErrNotFound.Error())
	}
	return sess, ok
}

func (s *Server) handleRideStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleCancelRide(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	restarted := sess.Cancel()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "restarted": restarted, "ride": sess.Snapshot()})
}

func (s *Server) handleCompleteRide(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	prompt, err := sess.Complete()
	if errors.Is(err, tracker.ErrNotCompleted) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

// handleCloseRide ends tracking. A ride closed before completion is recorded as cancelled.
func (s *Server) handleCloseRide(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["ride_id"]
	last, err := s.Tracker.Close(id)
	if errors.Is(err, tracker.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if rec := s.takeRecord(id); rec != nil && !last.Status.Terminal() {
		s.finishRide(r.Context(), rec, models.HistoryCancelled, last)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "ride": last})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	f, err := storage.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rides, err := s.History.List(r.Context(), f)
	if err != nil {
		s.logger.Error("history list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	if rides == nil {
		rides = []models.RideHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "rides": rides})
}

// handlePlaces runs one undebounced lookup; interactive clients use /ws/places.
func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	if s.Places == nil {
		writeError(w, http.StatusServiceUnavailable, "place search not configured")
		return
	}
	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if utf8.RuneCountInString(input) <= 2 {
		writeJSON(w, http.StatusOK, map[string]any{"predictions": []places.Prediction{}})
		return
	}
	preds, err := s.Places.Autocomplete(r.Context(), input)
	if err != nil {
		observability.PlacesQueriesTotal.WithLabelValues("error").Inc()
		s.logger.Warn("place autocomplete failed", "error", err)
		writeError(w, http.StatusBadGateway, "place search failed")
		return
	}
	observability.PlacesQueriesTotal.WithLabelValues("ok").Inc()
	if len(preds) > s.PlacesMax {
		preds = preds[:s.PlacesMax]
	}
	if preds == nil {
		preds = []places.Prediction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": preds})
}

func (s *Server) handleDriverLocation(w http.ResponseWriter, r *http.Request) {
	var d models.FleetDriver
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if d.ID == "" {
		writeError(w, http.StatusBadRequest, "driver id is required")
		return
	}
	d.Online = true
	if s.Events != nil {
		if err := s.Events.PublishLocation(r.Context(), d); err != nil {
			s.logger.Warn("location publish failed", "driver_id", d.ID, "error", err)
		}
	}
	if s.Fleet != nil {
		if err := s.Fleet.Upsert(r.Context(), d); err != nil {
			s.logger.Error("fleet upsert failed", "driver_id", d.ID, "error", err)
			writeError(w, http.StatusBadGateway, "could not store location")
			return
		}
	}
	observability.DriverLocationUpdatesTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

package models

import "time"

// Status is the lifecycle position of a tracked ride. The declaration order is the
// only order a ride may move through.
type Status string

const (
	StatusSearching Status = "searching"
	StatusFound     Status = "found"
	StatusPickup    Status = "pickup"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

var statusOrder = []Status{StatusSearching, StatusFound, StatusPickup, StatusOngoing, StatusCompleted}

// Index returns the position of s in the lifecycle, or -1 for unknown values.
func (s Status) Index() int {
	for i, v := range statusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Status) Terminal() bool { return s == StatusCompleted }

// Text is the headline the rider sees for the status.
func (s Status) Text() string {
	switch s {
	case StatusSearching:
		return "Procurando motociclista..."
	case StatusFound:
		return "Motociclista encontrado!"
	case StatusPickup:
		return "Motociclista a caminho"
	case StatusOngoing:
		return "Corrida em andamento"
	case StatusCompleted:
		return "Corrida finalizada"
	default:
		return "Aguardando..."
	}
}

type DriverProfile struct {
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Vehicle string  `json:"vehicle"`
	Plate   string  `json:"plate"`
	Photo   string  `json:"photo"`
}

type RideStatus struct {
	RideID        string         `json:"rideId"`
	Status        Status         `json:"status"`
	StatusText    string         `json:"statusText"`
	Driver        *DriverProfile `json:"driver,omitempty"`
	EstimatedTime string         `json:"estimatedTime"`
	Distance      string         `json:"distance"`
	Fare          string         `json:"fare"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	// Seq grows by one on every transition of the ride, cancellations included.
	Seq uint64 `json:"seq"`
}

// RatingPrompt is surfaced once a ride has completed.
type RatingPrompt struct {
	RideID  string   `json:"rideId"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Options []string `json:"options"`
}

type HistoryStatus string

const (
	HistoryCompleted HistoryStatus = "completed"
	HistoryCancelled HistoryStatus = "cancelled"
)

type HistoryDriver struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

type RideHistoryEntry struct {
	ID            string        `json:"id"`
	RequestedAt   time.Time     `json:"requestedAt"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	Duration      string        `json:"duration"`
	Distance      string        `json:"distance"`
	Fare          string        `json:"fare"`
	Driver        HistoryDriver `json:"driver"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        HistoryStatus `json:"status"`
}

// RideEvent is published whenever a tracked ride changes status.
type RideEvent struct {
	RideID    string    `json:"rideId"`
	RiderID   string    `json:"riderId,omitempty"`
	Status    Status    `json:"status"`
	Driver    string    `json:"driver,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

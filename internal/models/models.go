package models

import "time"

type RideType string

const (
	RideStandard RideType = "standard"
	RidePremium  RideType = "premium"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
)

// Label is the rider-facing name of the payment method.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCard:
		return "Cartão"
	case PaymentCash:
		return "Dinheiro"
	case PaymentPix:
		return "PIX"
	default:
		return string(p)
	}
}

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RideRequest struct {
	RiderID       string        `json:"riderId,omitempty"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	RideType      RideType      `json:"rideType"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Pickup        *Coord        `json:"pickup,omitempty"` // only used by the nearest strategy
}

// MatchedDriver keeps the field names the mobile client already reads.
type MatchedDriver struct {
	Name         string `json:"name"`
	VehicleModel string `json:"moto"`
	Plate        string `json:"placa"`
}

type DriverMatch struct {
	DriverFound      bool           `json:"driverFound"`
	EstimatedArrival string         `json:"estimatedArrival"`
	Driver           *MatchedDriver `json:"driver,omitempty"`
}

// FleetDriver is a driver reporting its position to the fleet index.
type FleetDriver struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Vehicle string    `json:"vehicle"`
	Plate   string    `json:"plate"`
	Loc     Coord     `json:"loc"`
	Rating  float64   `json:"rating"` // 0..5
	Online  bool      `json:"online"`
	Updated time.Time `json:"updated"`
}

func (d FleetDriver) Match() *MatchedDriver {
	return &MatchedDriver{Name: d.Name, VehicleModel: d.Vehicle, Plate: d.Plate}
}

// Fare is the price table entry of a ride type.
type Fare struct {
	Label     string
	Cents     int64
	ETAWindow string
}

var Fares = map[RideType]Fare{
	RideStandard: {Label: "R$ 8,50", Cents: 850, ETAWindow: "5-8 min"},
	RidePremium:  {Label: "R$ 12,90", Cents: 1290, ETAWindow: "3-5 min"},
}

const FareCurrency = "brl"

func FareFor(t RideType) Fare {
	if f, ok := Fares[t]; ok {
		return f
	}
	return Fares[RideStandard]
}

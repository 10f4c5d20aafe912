package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRequest = errors.New("invalid ride request")

// ValidationError names the offending field of a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

// Normalize trims the free-text fields and applies the client defaults for
// ride type and payment method.
func (r *RideRequest) Normalize() {
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)
	if r.RideType == "" {
		r.RideType = RideStandard
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentCard
	}
}

func (r RideRequest) Validate() error {
	if r.Origin == "" || r.Destination == "" {
		field := "origin"
		if r.Origin != "" {
			field = "destination"
		}
		return &ValidationError{Field: field, Message: "origin and destination are required"}
	}
	switch r.RideType {
	case RideStandard, RidePremium:
	default:
		return &ValidationError{Field: "rideType", Message: fmt.Sprintf("unknown ride type %q", r.RideType)}
	}
	switch r.PaymentMethod {
	case PaymentCard, PaymentCash, PaymentPix:
	default:
		return &ValidationError{Field: "paymentMethod", Message: fmt.Sprintf("unknown payment method %q", r.PaymentMethod)}
	}
	return nil
}

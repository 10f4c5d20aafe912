package models

import (
	"errors"
	"testing"
)

func TestValidateRequiresOriginAndDestination(t *testing.T) {
	cases := []RideRequest{
		{Origin: "", Destination: "B"},
		{Origin: "A", Destination: ""},
		{Origin: "   ", Destination: "B"},
	}
	for _, r := range cases {
		r.Normalize()
		err := r.Validate()
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", r, err)
		}
	}
}

func TestValidateEnums(t *testing.T) {
	r := RideRequest{Origin: "A", Destination: "B", RideType: "luxury", PaymentMethod: PaymentPix}
	var ve *ValidationError
	if err := r.Validate(); !errors.As(err, &ve) || ve.Field != "rideType" {
		t.Fatalf("expected rideType error, got %v", err)
	}
	r = RideRequest{Origin: "A", Destination: "B", RideType: RidePremium, PaymentMethod: "crypto"}
	if err := r.Validate(); !errors.As(err, &ve) || ve.Field != "paymentMethod" {
		t.Fatalf("expected paymentMethod error, got %v", err)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	r := RideRequest{Origin: " A ", Destination: "B"}
	r.Normalize()
	if r.Origin != "A" || r.RideType != RideStandard || r.PaymentMethod != PaymentCard {
		t.Fatalf("unexpected normalized request %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestStatusOrder(t *testing.T) {
	if StatusSearching.Index() != 0 || StatusCompleted.Index() != 4 {
		t.Fatalf("unexpected order")
	}
	if Status("bogus").Index() != -1 {
		t.Fatalf("unknown status should be -1")
	}
	if !StatusCompleted.Terminal() || StatusOngoing.Terminal() {
		t.Fatalf("only completed is terminal")
	}
}

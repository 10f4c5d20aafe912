package payments

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/example/motogo/internal/models"
)

// StripeClient authorizes card fares when a ride is matched and settles them
// when the ride completes or is dropped.
type StripeClient struct {
	intents *paymentintent.Client
}

func NewStripeClient(apiKey string) *StripeClient {
	return NewStripeClientWithBackend(apiKey, stripe.GetBackend(stripe.APIBackend))
}

// NewStripeClientWithBackend points the client at a specific API backend.
func NewStripeClientWithBackend(apiKey string, b stripe.Backend) *StripeClient {
	return &StripeClient{intents: &paymentintent.Client{B: b, Key: apiKey}}
}

// Hold places a manual-capture PaymentIntent for the fare and returns its id.
// Retries for the same ride reuse the first intent.
func (s *StripeClient) Hold(ctx context.Context, rideID string, fare models.Fare) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(fare.Cents),
		Currency:           stripe.String(models.FareCurrency),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String("MotoGo ride " + rideID),
	}
	params.Context = ctx
	params.AddMetadata("ride_id", rideID)
	params.SetIdempotencyKey("hold-" + rideID)
	pi, err := s.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("hold fare for ride %s: %w", rideID, err)
	}
	return pi.ID, nil
}

func (s *StripeClient) Capture(ctx context.Context, paymentIntentID string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if _, err := s.intents.Capture(paymentIntentID, params); err != nil {
		return fmt.Errorf("capture %s: %w", paymentIntentID, err)
	}
	return nil
}

// Cancel releases the hold.
func (s *StripeClient) Cancel(ctx context.Context, paymentIntentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx
	if _, err := s.intents.Cancel(paymentIntentID, params); err != nil {
		return fmt.Errorf("cancel %s: %w", paymentIntentID, err)
	}
	return nil
}

package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	stripe "github.com/stripe/stripe-go/v74"

	"github.com/example/motogo/internal/models"
)

type recordedCall struct {
	path        string
	form        url.Values
	idempotency string
}

func newTestClient(t *testing.T, status int, body string) (*StripeClient, func() []recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		mu.Lock()
		calls = append(calls, recordedCall{path: r.URL.Path, form: r.PostForm, idempotency: r.Header.Get("Idempotency-Key")})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	b := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(ts.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeClientWithBackend("sk_test_123", b), func() []recordedCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedCall(nil), calls...)
	}
}

func TestHoldCreatesManualCaptureIntent(t *testing.T) {
	c, calls := newTestClient(t, 200, `{"id":"pi_123","object":"payment_intent","status":"requires_capture"}`)
	id, err := c.Hold(context.Background(), "r1", models.FareFor(models.RidePremium))
	if err != nil {
		t.Fatal(err)
	}
	if id != "pi_123" {
		t.Fatalf("unexpected intent id %q", id)
	}
	got := calls()
	if len(got) != 1 || got[0].path != "/v1/payment_intents" {
		t.Fatalf("unexpected calls %+v", got)
	}
	f := got[0].form
	if f.Get("amount") != "1290" || f.Get("currency") != "brl" || f.Get("capture_method") != "manual" {
		t.Fatalf("unexpected form %v", f)
	}
	if f.Get("metadata[ride_id]") != "r1" || got[0].idempotency != "hold-r1" {
		t.Fatalf("missing ride metadata or idempotency key: %v %q", f, got[0].idempotency)
	}
}

func TestCaptureAndCancelHitIntent(t *testing.T) {
	c, calls := newTestClient(t, 200, `{"id":"pi_123","object":"payment_intent"}`)
	if err := c.Capture(context.Background(), "pi_123"); err != nil {
		t.Fatal(err)
	}
	if err := c.Cancel(context.Background(), "pi_123"); err != nil {
		t.Fatal(err)
	}
	got := calls()
	if len(got) != 2 || got[0].path != "/v1/payment_intents/pi_123/capture" || got[1].path != "/v1/payment_intents/pi_123/cancel" {
		t.Fatalf("unexpected calls %+v", got)
	}
	if got[1].form.Get("cancellation_reason") != "abandoned" {
		t.Fatalf("unexpected cancel form %v", got[1].form)
	}
}

func TestHoldSurfacesAPIError(t *testing.T) {
	c, _ := newTestClient(t, 402, `{"error":{"type":"card_error","code":"card_declined","message":"declined"}}`)
	if _, err := c.Hold(context.Background(), "r2", models.FareFor(models.RideStandard)); err == nil {
		t.Fatalf("expected error for declined card")
	}
}

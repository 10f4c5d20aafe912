package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultEndpoint = "https://maps.googleapis.com/maps/api/place/autocomplete/json"

var ErrNoAPIKey = errors.New("places api key not configured")

type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type Prediction struct {
	Description          string                `json:"description"`
	PlaceID              string                `json:"place_id"`
	StructuredFormatting *StructuredFormatting `json:"structured_formatting,omitempty"`
}

// Provider is an external place-search backend.
type Provider interface {
	Autocomplete(ctx context.Context, input string) ([]Prediction, error)
}

// GoogleClient queries the Places Autocomplete web service.
type GoogleClient struct {
	Endpoint string
	Key      string
	Language string
	Country  string
	Client   *http.Client
}

func NewGoogleClient(endpoint, key string) *GoogleClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GoogleClient{
		Endpoint: endpoint,
		Key:      key,
		Language: "pt-BR",
		Country:  "br",
		Client:   &http.Client{Timeout: 3 * time.Second},
	}
}

func (g *GoogleClient) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	if g.Key == "" {
		return nil, ErrNoAPIKey
	}
	q := url.Values{}
	q.Set("input", input)
	q.Set("key", g.Key)
	q.Set("language", g.Language)
	if g.Country != "" {
		q.Set("components", "country:"+g.Country)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places autocomplete: %s", resp.Status)
	}
	var out struct {
		Status       string       `json:"status"`
		ErrorMessage string       `json:"error_message"`
		Predictions  []Prediction `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	switch out.Status {
	case "OK", "ZERO_RESULTS", "":
		return out.Predictions, nil
	default:
		return nil, fmt.Errorf("places autocomplete: %s %s", out.Status, out.ErrorMessage)
	}
}

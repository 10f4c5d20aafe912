package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/example/motogo/internal/models"
)

// FCMNotifier posts ride status data messages to an FCM HTTP v1 endpoint. Riders
// subscribe their device to the topic "ride-<rideId>".
type FCMNotifier struct {
	Endpoint string
	Key      string
	Client   *http.Client
}

func NewFCMNotifier(endpoint, key string) *FCMNotifier {
	return &FCMNotifier{Endpoint: endpoint, Key: key, Client: &http.Client{Timeout: 3 * time.Second}}
}

func (f *FCMNotifier) Notify(ctx context.Context, s models.RideStatus) error {
	data := map[string]string{
		"rideId":     s.RideID,
		"status":     string(s.Status),
		"statusText": s.StatusText,
		"updatedAt":  strconv.FormatInt(s.UpdatedAt.Unix(), 10),
	}
	if s.Driver != nil {
		data["driverName"] = s.Driver.Name
		data["driverPlate"] = s.Driver.Plate
	}
	body := map[string]any{"message": map[string]any{
		"topic":        "ride-" + s.RideID,
		"data":         data,
		"notification": map[string]string{"title": "MotoGo", "body": s.StatusText},
	}}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.Key != "" {
		req.Header.Set("Authorization", "Bearer "+f.Key)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm push: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("fcm push: %s", resp.Status)
	}
	return nil
}

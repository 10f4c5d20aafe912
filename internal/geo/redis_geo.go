package geo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/motogo/internal/models"
)

// RedisGeo implements Fleet using Redis GEO commands plus one metadata hash per driver.
type RedisGeo struct {
	client  *redis.Client
	key     string
	radiusM float64
}

func NewRedisGeo(client *redis.Client, key string) *RedisGeo {
	return &RedisGeo{client: client, key: key, radiusM: 5000}
}

func (r *RedisGeo) Upsert(ctx context.Context, d models.FleetDriver) error {
	if err := r.client.GeoAdd(ctx, r.key, Location(d)).Err(); err != nil {
		return fmt.Errorf("geoadd %s: %w", d.ID, err)
	}
	if err := r.client.HSet(ctx, MetaKey(d.ID), MetaFields(d)).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", d.ID, err)
	}
	return nil
}

func (r *RedisGeo) Nearby(ctx context.Context, lat, lon float64, limit int) ([]models.FleetDriver, error) {
	res, err := r.client.GeoRadius(ctx, r.key, lon, lat, &redis.GeoRadiusQuery{Radius: r.radiusM, Unit: "m", WithCoord: true, WithDist: true, Count: limit, Sort: "ASC"}).Result()
	if err != nil {
		return nil, fmt.Errorf("georadius: %w", err)
	}
	out := make([]models.FleetDriver, 0, len(res))
	for _, g := range res {
		d := models.FleetDriver{ID: g.Name, Loc: models.Coord{Lat: g.Latitude, Lon: g.Longitude}}
		m, err := r.client.HGetAll(ctx, MetaKey(g.Name)).Result()
		if err != nil {
			continue
		}
		applyMeta(&d, m)
		if !d.Online {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Location is the GEOADD member of a driver.
func Location(d models.FleetDriver) *redis.GeoLocation {
	return &redis.GeoLocation{Longitude: d.Loc.Lon, Latitude: d.Loc.Lat, Name: d.ID}
}

func MetaKey(id string) string { return "driver:meta:" + id }

// MetaFields is the metadata hash stored next to the GEO member.
func MetaFields(d models.FleetDriver) map[string]interface{} {
	return map[string]interface{}{
		"name":    d.Name,
		"vehicle": d.Vehicle,
		"plate":   d.Plate,
		"rating":  strconv.FormatFloat(d.Rating, 'f', -1, 64),
		"online":  strconv.FormatBool(d.Online),
		"updated": time.Now().Format(time.RFC3339),
	}
}

func applyMeta(d *models.FleetDriver, m map[string]string) {
	d.Name = m["name"]
	d.Vehicle = m["vehicle"]
	d.Plate = m["plate"]
	if f, err := strconv.ParseFloat(m["rating"], 64); err == nil {
		d.Rating = f
	}
	d.Online = m["online"] == "true"
	if t, err := time.Parse(time.RFC3339, m["updated"]); err == nil {
		d.Updated = t
	}
}
